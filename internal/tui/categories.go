package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/pkg/domain"
)

type categoriesLoadedMsg struct {
	categories   []domain.Category
	destinations []domain.Destination
	err          error
}

// categoriesPage lists categories; enter drills into the destinations of one.
type categoriesPage struct {
	pageBase
	categories   []domain.Category
	destinations []domain.Destination
	cursor       int
	inner        int // cursor inside the expanded category, -1 when collapsed
	loading      bool
	err          string
}

func newCategoriesPage(b pageBase) categoriesPage {
	return categoriesPage{pageBase: b, loading: true, inner: -1}
}

func (m categoriesPage) Init() tea.Cmd { return m.load() }

func (m categoriesPage) load() tea.Cmd {
	c := m.deps.Client
	return m.run(func(ctx context.Context) tea.Msg {
		var msg categoriesLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			msg.categories, err = c.ListCategories(gctx)
			return err
		})
		g.Go(func() (err error) {
			msg.destinations, err = c.ListDestinations(gctx)
			return err
		})
		msg.err = g.Wait()
		return msg
	})
}

func (m categoriesPage) Capturing() bool { return false }

func (m categoriesPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = loadMessage(msg.err)
			m.categories, m.destinations = nil, nil
			return m, nil
		}
		m.err = ""
		m.categories = msg.categories
		m.destinations = msg.destinations
		m.cursor = clampCursor(m.cursor, len(m.categories))
		m.inner = -1

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m categoriesPage) members(categoryID int) []domain.Destination {
	var out []domain.Destination
	for _, d := range m.destinations {
		if d.CategoryID == categoryID {
			out = append(out, d)
		}
	}
	return out
}

func (m categoriesPage) updateKeys(key string) (page, tea.Cmd) {
	if key == "r" {
		m.loading = true
		return m, m.load()
	}
	if len(m.categories) == 0 {
		return m, nil
	}
	if m.inner >= 0 {
		dests := m.members(m.categories[m.cursor].ID)
		if c, ok := moveCursor(m.inner, len(dests), key); ok {
			m.inner = c
			return m, nil
		}
		switch key {
		case "enter":
			if len(dests) > 0 {
				return m, navigate(route.Destination(dests[m.inner].ID))
			}
		case "h", "left", "backspace":
			m.inner = -1
		}
		return m, nil
	}
	if c, ok := moveCursor(m.cursor, len(m.categories), key); ok {
		m.cursor = c
		return m, nil
	}
	if key == "enter" || key == "l" || key == "right" {
		m.inner = 0
	}
	return m, nil
}

func (m categoriesPage) Help() string {
	if m.inner >= 0 {
		return helpBar("j/k", "pilih", "enter", "detail", "h", "tutup", "r", "muat ulang")
	}
	return helpBar("j/k", "pilih", "enter", "buka", "r", "muat ulang")
}

func (m categoriesPage) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("KATEGORI") + "\n\n")
	if m.loading && len(m.categories) == 0 {
		return b.String() + " " + dimStyle.Render(msgLoading)
	}
	if m.err != "" {
		b.WriteString(statusLine(m.err, true) + "\n")
	}
	if len(m.categories) == 0 && m.err == "" {
		b.WriteString(" " + dimStyle.Render("belum ada kategori"))
	}
	for i, c := range m.categories {
		dests := m.members(c.ID)
		line := fmt.Sprintf("%s  %s  %s",
			CategoryStyle(c.ID).Render(c.Name),
			dimStyle.Render(fmt.Sprintf("%d destinasi", len(dests))),
			metaStyle.Render(truncStr(oneLine(c.Description), 48)))
		if i == m.cursor {
			b.WriteString(accentStyle.Render(" > ") + line + "\n")
		} else {
			b.WriteString("   " + line + "\n")
		}
		if i != m.cursor || m.inner < 0 {
			continue
		}
		if len(dests) == 0 {
			b.WriteString("     " + dimStyle.Render("kosong") + "\n")
		}
		for j, d := range dests {
			marker := "     "
			style := normalStyle
			if j == m.inner {
				marker = accentStyle.Render("   » ")
				style = selectedStyle
			}
			b.WriteString(marker + style.Render(d.Name) + "  " + dimStyle.Render(d.Location) + "\n")
		}
	}
	return b.String()
}
