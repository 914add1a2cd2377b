package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/wisata/pkg/domain"
)

// formatTime renders a relative timestamp for review lists.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "baru saja"
	case d < time.Hour:
		return fmt.Sprintf("%d menit lalu", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d jam lalu", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d hari lalu", int(d.Hours()/24))
	default:
		return t.Format("2 Jan 2006")
	}
}

// formatPrice renders a ticket price in rupiah with dot thousand separators.
// Zero is shown as free entry.
func formatPrice(p float64) string {
	if p <= 0 {
		return "Gratis"
	}
	s := strconv.FormatInt(int64(p+0.5), 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + b.String()
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// moveCursor applies j/k style navigation keys.
func moveCursor(cursor, n int, key string) (int, bool) {
	switch key {
	case "j", "down":
		return clampCursor(cursor+1, n), true
	case "k", "up":
		return clampCursor(cursor-1, n), true
	case "g", "home":
		return 0, true
	case "G", "end":
		return clampCursor(n-1, n), true
	}
	return cursor, false
}

// visibleWindow returns the [start, end) slice of n rows that keeps cursor
// on screen when only height rows fit.
func visibleWindow(cursor, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

// reviewStars draws one review's score, clamped to the rating scale.
func reviewStars(score int) string {
	return strings.Repeat("★", min(max(score, 0), domain.MaxRating))
}
