package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the WISATA logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "WISATA" as a slow wave from deep sea teal
// (#0f3d3e) to sunlit sand (#f4c77b).
func renderShimmerLogo(frame int) string {
	const text = "WISATA"
	n := len(text)
	t := float64(frame)

	var out strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		b := math.Sin(t*0.08-x*3.0)*0.5 + 0.5
		b = b*0.8 + 0.15
		if b > 1 {
			b = 1
		}

		r := clampByte(15 + b*(244-15))
		g := clampByte(61 + b*(199-61))
		bl := clampByte(62 + b*(123-62))
		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		out.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(text[i])))
		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f4c77b")).
			Bold(true)

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#facc15"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#86efac"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb7185")).
			Bold(true)

	adminBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0")).
				Bold(true)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868")).
				Italic(true)
)

// categoryPalette colors category names so the same category always
// renders in the same color.
var categoryPalette = []lipgloss.Color{
	"#60a5fa", "#f472b6", "#34d399", "#fbbf24", "#a78bfa", "#f87171", "#22d3ee",
}

// CategoryStyle returns a bold style colored for a category id.
func CategoryStyle(id int) lipgloss.Style {
	if id <= 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(categoryPalette[id%len(categoryPalette)]).Bold(true)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into one help line.
func helpBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// statusLine renders an inline error or confirmation.
func statusLine(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return " " + errorStyle.Render(msg)
	}
	return " " + okStyle.Render(msg)
}
