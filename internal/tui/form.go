package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/pkg/domain"
)

// field is one labelled text input.
type field struct {
	key         string // matches domain.ValidationError.Field
	label       string
	value       string
	placeholder string
	secret      bool
	multiline   bool
}

// form is the shared input block of every form page. It only edits
// values; submitting is up to the page.
type form struct {
	fields []field
	focus  int
	// invalid is the field key of the last validation error.
	invalid string
}

func newForm(fields ...field) form {
	return form{fields: fields}
}

// value returns the trimmed value of the field with key.
func (f form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			if fl.secret {
				return fl.value
			}
			return strings.TrimSpace(fl.value)
		}
	}
	return ""
}

func (f *form) set(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].value = value
			return
		}
	}
}

// markInvalid focuses the field a validation error points at.
func (f *form) markInvalid(err error) {
	f.invalid = ""
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	f.invalid = verr.Field
	for i, fl := range f.fields {
		if fl.key == verr.Field {
			f.focus = i
			return
		}
	}
}

// update applies one key. It reports whether the key was consumed.
func (f form) update(msg tea.KeyMsg) (form, bool) {
	n := len(f.fields)
	if n == 0 {
		return f, false
	}
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % n
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + n) % n
	case "enter":
		cur := &f.fields[f.focus]
		if cur.multiline {
			cur.value += "\n"
		} else {
			f.focus = (f.focus + 1) % n
		}
	default:
		if msg.Paste {
			f.fields[f.focus].value += string(msg.Runes)
			return f, true
		}
		before := f.fields[f.focus].value
		f.fields[f.focus].value = editRune(before, msg.String())
		return f, f.fields[f.focus].value != before || msg.String() == "backspace"
	}
	return f, true
}

func (f form) View() string {
	width := 0
	for _, fl := range f.fields {
		if len(fl.label) > width {
			width = len(fl.label)
		}
	}
	var b strings.Builder
	for i, fl := range f.fields {
		cursor := " "
		label := metaStyle.Render(padRight(fl.label, width))
		if i == f.focus {
			cursor = accentStyle.Render(">")
			label = selectedStyle.Render(padRight(fl.label, width))
		}
		if fl.key == f.invalid {
			label = errorStyle.Render(padRight(fl.label, width))
		}
		value := fl.value
		if fl.multiline && i != f.focus {
			value = oneLine(value)
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, label, renderInput(value, fl.placeholder, i == f.focus, fl.secret))
	}
	return b.String()
}
