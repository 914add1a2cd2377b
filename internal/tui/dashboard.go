package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/internal/catalog"
)

type dashboardLoadedMsg struct {
	dashboard *catalog.Dashboard
	err       error
}

// adminLinks are the back office sections reachable from the dashboard.
var adminLinks = []struct {
	key, label, path string
}{
	{"d", "Destinasi", "/admin/destinasi"},
	{"k", "Kategori", "/admin/kategori"},
	{"g", "Gambar", "/admin/gambar"},
	{"u", "Ulasan", "/admin/ulasan"},
	{"p", "Pengguna", "/admin/pengguna"},
}

type dashboardPage struct {
	pageBase
	dashboard *catalog.Dashboard
	loading   bool
	err       string
}

func newDashboardPage(b pageBase) dashboardPage {
	return dashboardPage{pageBase: b, loading: true}
}

func (m dashboardPage) Init() tea.Cmd { return m.load() }

func (m dashboardPage) load() tea.Cmd {
	svc := m.deps.Catalog
	return m.run(func(ctx context.Context) tea.Msg {
		d, err := svc.Dashboard(ctx)
		return dashboardLoadedMsg{dashboard: d, err: err}
	})
}

func (m dashboardPage) Capturing() bool { return false }

func (m dashboardPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = loadMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.dashboard = msg.dashboard
	case tea.WindowSizeMsg:
		m.resize(msg)
	case tea.KeyMsg:
		key := msg.String()
		if key == "r" {
			m.loading = true
			return m, m.load()
		}
		for _, l := range adminLinks {
			if l.key == key {
				return m, navigate(l.path)
			}
		}
	}
	return m, nil
}

func (m dashboardPage) Help() string {
	pairs := make([]string, 0, 2*len(adminLinks)+2)
	for _, l := range adminLinks {
		pairs = append(pairs, l.key, strings.ToLower(l.label))
	}
	return helpBar(append(pairs, "r", "muat ulang")...)
}

func (m dashboardPage) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("DASBOR ADMIN") + "\n\n")
	if m.loading && m.dashboard == nil {
		return b.String() + " " + dimStyle.Render(msgLoading)
	}
	if m.err != "" {
		return b.String() + statusLine(m.err, true)
	}
	d := m.dashboard
	if len(d.Missing) > 0 {
		b.WriteString(statusLine(msgLoadFailed+": "+strings.Join(d.Missing, ", "), true) + "\n\n")
	}
	counts := []int{d.Destinations, d.Categories, d.Images, d.Reviews, d.Users}
	for i, l := range adminLinks {
		fmt.Fprintf(&b, " %s %s %s\n",
			accentStyle.Render(l.key),
			normalStyle.Render(padRight(l.label, 10)),
			titleStyle.Render(fmt.Sprintf("%4d", counts[i])))
	}

	b.WriteString("\n " + sectionHeaderStyle.Render("RATING PER DESTINASI") + "\n")
	if len(d.Stats) == 0 {
		b.WriteString(" " + dimStyle.Render("belum ada ulasan") + "\n")
	}
	for _, s := range d.Stats {
		fmt.Fprintf(&b, " %s %s  %s\n",
			starStyle.Render(fmt.Sprintf("%.1f", s.Average)),
			normalStyle.Render(padRight(truncStr(s.DestinationName, 28), 28)),
			dimStyle.Render(fmt.Sprintf("%d ulasan", s.Count)))
	}
	return b.String()
}
