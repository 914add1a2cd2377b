package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// row is one line of an admin table.
type row struct {
	id    int
	cells []string
}

// resource describes one back office table.
type resource struct {
	title   string
	path    string // list path; new and edit paths hang off it
	headers []string
	widths  []int
	create  bool
	edit    bool
	load    func(ctx context.Context, c *client.Client) ([]row, error)
	remove  func(ctx context.Context, c *client.Client, id int) error
}

type rowsLoadedMsg struct {
	rows []row
	err  error
}

type rowDeletedMsg struct {
	id  int
	err error
}

// adminListPage is the shared list view of every back office table.
type adminListPage struct {
	pageBase
	res        resource
	rows       []row
	cursor     int
	loading    bool
	err        string
	status     string
	isErr      bool
	confirming bool
	target     row // captured when the delete prompt opens
	deleting   bool
}

func newAdminListPage(b pageBase, res resource) adminListPage {
	return adminListPage{pageBase: b, res: res, loading: true}
}

func (m adminListPage) Init() tea.Cmd { return m.load() }

func (m adminListPage) load() tea.Cmd {
	c, load := m.deps.Client, m.res.load
	return m.run(func(ctx context.Context) tea.Msg {
		rows, err := load(ctx, c)
		return rowsLoadedMsg{rows: rows, err: err}
	})
}

func (m adminListPage) Capturing() bool { return m.confirming }

func (m adminListPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsLoadedMsg:
		m.loading = false
		m.confirming = false
		if msg.err != nil {
			m.err = loadMessage(msg.err)
			m.rows = nil
		} else {
			m.err = ""
			m.rows = msg.rows
		}
		m.cursor = clampCursor(m.cursor, len(m.rows))

	case rowDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.status, m.isErr = deleteMessage(msg.err), true
			m.deps.Log.Warn().Err(msg.err).Str("table", m.res.path).Int("id", msg.id).Msg("delete failed")
			return m, nil
		}
		m.deps.Log.Info().Str("table", m.res.path).Int("id", msg.id).Msg("deleted")
		m.status, m.isErr = msgDeleted, false
		m.loading = true
		return m, m.load()

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg.String())
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m adminListPage) updateKeys(key string) (page, tea.Cmd) {
	if c, ok := moveCursor(m.cursor, len(m.rows), key); ok {
		m.cursor = c
		return m, nil
	}
	switch key {
	case "r":
		m.loading = true
		m.status = ""
		return m, m.load()
	case "n":
		if m.res.create {
			return m, navigate(m.res.path + "/baru")
		}
	case "e", "enter":
		if m.res.edit && len(m.rows) > 0 {
			return m, navigate(route.Edit(m.res.path, m.rows[m.cursor].id))
		}
	case "d":
		if len(m.rows) > 0 && !m.deleting {
			m.confirming = true
			m.target = m.rows[m.cursor]
			m.status = ""
		}
	}
	return m, nil
}

func (m adminListPage) updateConfirm(key string) (page, tea.Cmd) {
	m.confirming = false
	if key != "y" || m.deleting {
		return m, nil
	}
	m.deleting = true
	c, remove, id := m.deps.Client, m.res.remove, m.target.id
	return m, m.run(func(ctx context.Context) tea.Msg {
		return rowDeletedMsg{id: id, err: remove(ctx, c, id)}
	})
}

func (m adminListPage) Help() string {
	if m.confirming {
		return helpBar("y", "ya, hapus", "n", "batal")
	}
	pairs := []string{"j/k", "pilih"}
	if m.res.create {
		pairs = append(pairs, "n", "tambah")
	}
	if m.res.edit {
		pairs = append(pairs, "e", "ubah")
	}
	return helpBar(append(pairs, "d", "hapus", "r", "muat ulang")...)
}

func (m adminListPage) View() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render(strings.ToUpper(m.res.title)))
	if !m.loading {
		b.WriteString(" " + metaStyle.Render(fmt.Sprintf("(%d)", len(m.rows))))
	}
	b.WriteString("\n\n")

	if m.confirming {
		b.WriteString(" " + errorStyle.Render(fmt.Sprintf("Hapus %s? (y/n)", m.target.cells[0])) + "\n\n")
	} else if m.deleting {
		b.WriteString(" " + dimStyle.Render("menghapus…") + "\n\n")
	} else if m.status != "" {
		b.WriteString(statusLine(m.status, m.isErr) + "\n\n")
	}

	if m.loading && len(m.rows) == 0 {
		return b.String() + " " + dimStyle.Render(msgLoading)
	}
	if m.err != "" {
		b.WriteString(statusLine(m.err, true) + "\n")
	}
	if len(m.rows) == 0 {
		if m.err == "" {
			b.WriteString(" " + dimStyle.Render("belum ada data"))
		}
		return b.String()
	}

	header := "   " + padRight("#", 5)
	for i, h := range m.res.headers {
		header += padRight(h, m.res.widths[i]) + " "
	}
	b.WriteString(metaStyle.Render(header) + "\n")

	start, end := visibleWindow(m.cursor, len(m.rows), m.height-8)
	for i := start; i < end; i++ {
		r := m.rows[i]
		line := padRight(strconv.Itoa(r.id), 5)
		for j, cell := range r.cells {
			w := m.res.widths[j]
			line += padRight(truncStr(oneLine(cell), w), w) + " "
		}
		if i == m.cursor {
			b.WriteString(accentStyle.Render(" > ") + selectedRowBg.Render(selectedStyle.Render(line)) + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

// destinationNames maps destination ids to names. Failures leave it empty.
func destinationNames(ctx context.Context, c *client.Client) map[int]string {
	names := map[int]string{}
	dests, err := c.ListDestinations(ctx)
	if err != nil {
		return names
	}
	for _, d := range dests {
		names[d.ID] = d.Name
	}
	return names
}

func nameOr(names map[int]string, id int) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "#" + strconv.Itoa(id)
}

var destinationsResource = resource{
	title:   "Destinasi",
	path:    "/admin/destinasi",
	headers: []string{"nama", "lokasi", "kategori", "tiket"},
	widths:  []int{24, 18, 12, 12},
	create:  true,
	edit:    true,
	load: func(ctx context.Context, c *client.Client) ([]row, error) {
		dests, err := c.ListDestinations(ctx)
		if err != nil {
			return nil, err
		}
		cats := map[int]string{}
		if list, err := c.ListCategories(ctx); err == nil {
			for _, cat := range list {
				cats[cat.ID] = cat.Name
			}
		}
		rows := make([]row, len(dests))
		for i, d := range dests {
			cat := d.CategoryName()
			if n, ok := cats[d.CategoryID]; ok {
				cat = n
			}
			rows[i] = row{id: d.ID, cells: []string{d.Name, d.Location, cat, formatPrice(d.TicketPrice)}}
		}
		return rows, nil
	},
	remove: func(ctx context.Context, c *client.Client, id int) error { return c.DeleteDestination(ctx, id) },
}

var categoriesResource = resource{
	title:   "Kategori",
	path:    "/admin/kategori",
	headers: []string{"nama", "deskripsi"},
	widths:  []int{20, 48},
	create:  true,
	edit:    true,
	load: func(ctx context.Context, c *client.Client) ([]row, error) {
		cats, err := c.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]row, len(cats))
		for i, cat := range cats {
			rows[i] = row{id: cat.ID, cells: []string{cat.Name, cat.Description}}
		}
		return rows, nil
	},
	remove: func(ctx context.Context, c *client.Client, id int) error { return c.DeleteCategory(ctx, id) },
}

var imagesResource = resource{
	title:   "Gambar",
	path:    "/admin/gambar",
	headers: []string{"destinasi", "url", "keterangan"},
	widths:  []int{20, 36, 20},
	create:  true,
	load: func(ctx context.Context, c *client.Client) ([]row, error) {
		imgs, err := c.ListImages(ctx)
		if err != nil {
			return nil, err
		}
		names := destinationNames(ctx, c)
		rows := make([]row, len(imgs))
		for i, img := range imgs {
			rows[i] = row{id: img.ID, cells: []string{nameOr(names, img.DestinationID), img.URL, img.Caption}}
		}
		return rows, nil
	},
	remove: func(ctx context.Context, c *client.Client, id int) error { return c.DeleteImage(ctx, id) },
}

var reviewsResource = resource{
	title:   "Ulasan",
	path:    "/admin/ulasan",
	headers: []string{"destinasi", "pengguna", "rating", "komentar"},
	widths:  []int{20, 14, 6, 32},
	load: func(ctx context.Context, c *client.Client) ([]row, error) {
		reviews, err := c.ListReviews(ctx)
		if err != nil {
			return nil, err
		}
		names := destinationNames(ctx, c)
		rows := make([]row, len(reviews))
		for i, r := range reviews {
			dest := nameOr(names, r.DestinationID)
			if r.Destination != nil && r.Destination.Name != "" {
				dest = r.Destination.Name
			}
			rows[i] = row{id: r.ID, cells: []string{dest, r.AuthorName(), reviewStars(r.Rating), r.Comment}}
		}
		return rows, nil
	},
	remove: func(ctx context.Context, c *client.Client, id int) error { return c.DeleteReview(ctx, id) },
}

var usersResource = resource{
	title:   "Pengguna",
	path:    "/admin/pengguna",
	headers: []string{"nama", "email", "peran"},
	widths:  []int{20, 28, 10},
	edit:    true,
	load: func(ctx context.Context, c *client.Client) ([]row, error) {
		users, err := c.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]row, len(users))
		for i, u := range users {
			rows[i] = row{id: u.ID, cells: []string{u.Name, u.Email, roleLabel(u.Role)}}
		}
		return rows, nil
	},
	remove: func(ctx context.Context, c *client.Client, id int) error { return c.DeleteUser(ctx, id) },
}

func roleLabel(role string) string {
	if role == domain.RoleAdmin {
		return "admin"
	}
	return "pengguna"
}
