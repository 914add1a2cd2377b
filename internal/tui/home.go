package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/internal/catalog"
	"github.com/naveenspark/wisata/internal/route"
)

type listingLoadedMsg struct {
	items []catalog.Listing
	err   error
}

// categoryOption is one entry of the home category filter.
type categoryOption struct {
	id   int
	name string
}

// homePage lists every destination with its rating.
type homePage struct {
	pageBase
	items     []catalog.Listing
	shown     []catalog.Listing
	cursor    int
	loading   bool
	err       string
	searching bool
	query     string
	filters   []categoryOption
	filter    int // index into filters, 0 is all
}

func newHomePage(b pageBase) homePage {
	return homePage{pageBase: b, loading: true, filters: []categoryOption{{name: "Semua"}}}
}

func (m homePage) Init() tea.Cmd {
	return m.load()
}

func (m homePage) load() tea.Cmd {
	svc := m.deps.Catalog
	return m.run(func(ctx context.Context) tea.Msg {
		items, err := svc.Listing(ctx)
		return listingLoadedMsg{items: items, err: err}
	})
}

func (m homePage) Capturing() bool { return m.searching }

func (m homePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case listingLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = loadMessage(msg.err)
			m.items = nil
		} else {
			m.err = ""
			m.items = msg.items
		}
		m.filters = categoryOptions(m.items)
		if m.filter >= len(m.filters) {
			m.filter = 0
		}
		m.refilter()
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m homePage) updateSearch(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.query = ""
	case "enter":
		m.searching = false
	default:
		m.query = editRune(m.query, msg.String())
	}
	m.refilter()
	return m, nil
}

func (m homePage) updateKeys(msg tea.KeyMsg) (page, tea.Cmd) {
	key := msg.String()
	if c, ok := moveCursor(m.cursor, len(m.shown), key); ok {
		m.cursor = c
		return m, nil
	}
	switch key {
	case "/":
		m.searching = true
	case "c":
		m.filter = (m.filter + 1) % len(m.filters)
		m.refilter()
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if len(m.shown) > 0 {
			return m, navigate(route.Destination(m.shown[m.cursor].Destination.ID))
		}
	}
	return m, nil
}

func (m *homePage) refilter() {
	m.shown = catalog.Filter(m.items, m.query, m.filters[m.filter].id)
	m.cursor = clampCursor(m.cursor, len(m.shown))
}

// categoryOptions lists the categories present in items, in first-seen order.
func categoryOptions(items []catalog.Listing) []categoryOption {
	opts := []categoryOption{{name: "Semua"}}
	seen := map[int]bool{}
	for _, it := range items {
		id := it.Destination.CategoryID
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		name := it.CategoryName
		if name == "" {
			name = fmt.Sprintf("#%d", id)
		}
		opts = append(opts, categoryOption{id: id, name: name})
	}
	return opts
}

func (m homePage) Help() string {
	if m.searching {
		return helpBar("enter", "selesai", "esc", "batal")
	}
	return helpBar("j/k", "pilih", "enter", "detail", "/", "cari", "c", "kategori", "r", "muat ulang")
}

func (m homePage) View() string {
	var b strings.Builder

	filter := m.filters[m.filter]
	b.WriteString(" " + sectionHeaderStyle.Render("DESTINASI WISATA") + "  ")
	b.WriteString(dimStyle.Render("kategori: ") + CategoryStyle(filter.id).Render(filter.name))
	if m.searching || m.query != "" {
		b.WriteString("  " + searchStyle.Render("/") + renderInput(m.query, "cari nama atau lokasi", m.searching, false))
	}
	b.WriteString("\n\n")

	if m.loading && len(m.items) == 0 {
		b.WriteString(" " + dimStyle.Render(msgLoading))
		return b.String()
	}
	if m.err != "" {
		b.WriteString(statusLine(m.err, true) + "\n")
	}
	if len(m.shown) == 0 {
		if m.err == "" {
			b.WriteString(" " + dimStyle.Render("belum ada destinasi"))
		}
		return b.String()
	}

	nameW := m.width - 50
	if nameW < 16 {
		nameW = 16
	}
	start, end := visibleWindow(m.cursor, len(m.shown), m.height-4)
	for i := start; i < end; i++ {
		it := m.shown[i]
		d := it.Destination
		name := padRight(truncStr(d.Name, nameW), nameW)
		loc := padRight(truncStr(d.Location, 18), 18)
		line := fmt.Sprintf("%s %s  %s %s  %s",
			starStyle.Render(it.Rating.String()),
			name,
			dimStyle.Render(loc),
			CategoryStyle(d.CategoryID).Render(truncStr(it.CategoryName, 12)),
			priceStyle.Render(formatPrice(d.TicketPrice)),
		)
		if i == m.cursor {
			b.WriteString(accentStyle.Render(" > ") + selectedRowBg.Render(line) + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}
	return b.String()
}
