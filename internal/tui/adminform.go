package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// entity describes one back office form. build turns the form into the
// request payload and runs client-side validation; nothing is sent when
// it fails.
type entity struct {
	title  string
	list   string
	fields func() []field
	load   func(ctx context.Context, c *client.Client, id int) (map[string]string, error)
	build  func(f form) (any, error)
	save   func(ctx context.Context, c *client.Client, id int, payload any) error
}

type entityLoadedMsg struct {
	values map[string]string
	err    error
}

type entitySavedMsg struct {
	err error
}

// entityFormPage creates (id 0) or edits one entity.
type entityFormPage struct {
	pageBase
	ent        entity
	id         int
	form       form
	loading    bool
	submitting bool
	err        string
}

func newEntityFormPage(b pageBase, ent entity, id int) entityFormPage {
	return entityFormPage{pageBase: b, ent: ent, id: id, form: newForm(ent.fields()...), loading: id != 0 && ent.load != nil}
}

func (m entityFormPage) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	c, load, id := m.deps.Client, m.ent.load, m.id
	return m.run(func(ctx context.Context) tea.Msg {
		values, err := load(ctx, c, id)
		return entityLoadedMsg{values: values, err: err}
	})
}

func (m entityFormPage) Capturing() bool { return true }

func (m entityFormPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case entityLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = loadMessage(msg.err)
			return m, nil
		}
		for k, v := range msg.values {
			m.form.set(k, v)
		}

	case entitySavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = formMessage(msg.err)
			return m, nil
		}
		m.deps.Log.Info().Str("form", m.ent.list).Int("id", m.id).Msg("saved")
		return m, redirect(m.ent.list, msgSaved)

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, back()
		case "ctrl+s":
			return m.submit()
		}
		if m.loading {
			return m, nil
		}
		m.err = ""
		m.form, _ = m.form.update(msg)
	}
	return m, nil
}

func (m entityFormPage) submit() (page, tea.Cmd) {
	if m.submitting || m.loading {
		return m, nil
	}
	payload, err := m.ent.build(m.form)
	if err != nil {
		m.form.markInvalid(err)
		m.err = formMessage(err)
		return m, nil
	}
	m.submitting = true
	m.err = ""
	c, save, id := m.deps.Client, m.ent.save, m.id
	return m, m.run(func(ctx context.Context) tea.Msg {
		return entitySavedMsg{err: save(ctx, c, id, payload)}
	})
}

func (m entityFormPage) Help() string {
	return helpBar("tab", "pindah", "ctrl+s", "simpan", "esc", "batal")
}

func (m entityFormPage) View() string {
	var b strings.Builder
	title := "Tambah " + m.ent.title
	if m.id != 0 {
		title = "Ubah " + m.ent.title + " #" + strconv.Itoa(m.id)
	}
	b.WriteString(" " + titleStyle.Render(title) + "\n\n")
	if m.loading {
		return b.String() + " " + dimStyle.Render(msgLoading)
	}
	b.WriteString(m.form.View())
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("menyimpan…"))
	} else {
		b.WriteString(statusLine(m.err, true))
	}
	return b.String()
}

// parseID reads a positive id from a form field; anything else is zero.
func parseID(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var destinationEntity = entity{
	title: "Destinasi",
	list:  "/admin/destinasi",
	fields: func() []field {
		return []field{
			{key: "nama_destinasi", label: "nama"},
			{key: "deskripsi", label: "deskripsi", multiline: true},
			{key: "lokasi", label: "lokasi"},
			{key: "url_gambar", label: "url gambar", placeholder: "https://…"},
			{key: "jam_buka", label: "jam buka", placeholder: "08:00 - 17:00"},
			{key: "harga_tiket", label: "harga tiket", placeholder: "0"},
			{key: "id_kategori", label: "id kategori"},
		}
	},
	load: func(ctx context.Context, c *client.Client, id int) (map[string]string, error) {
		d, err := c.GetDestination(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"nama_destinasi": d.Name,
			"deskripsi":      d.Description,
			"lokasi":         d.Location,
			"url_gambar":     d.ImageURL,
			"jam_buka":       d.OpeningTime,
			"harga_tiket":    formatAmount(d.TicketPrice),
			"id_kategori":    strconv.Itoa(d.CategoryID),
		}, nil
	},
	build: func(f form) (any, error) {
		price := 0.0
		if raw := f.value("harga_tiket"); raw != "" {
			p, err := strconv.ParseFloat(strings.ReplaceAll(raw, ".", ""), 64)
			if err != nil {
				return nil, &domain.ValidationError{Field: "harga_tiket", Message: "Harga tiket harus berupa angka"}
			}
			price = p
		}
		d := domain.Destination{
			Name:        f.value("nama_destinasi"),
			Description: f.value("deskripsi"),
			Location:    f.value("lokasi"),
			ImageURL:    f.value("url_gambar"),
			OpeningTime: f.value("jam_buka"),
			TicketPrice: price,
			CategoryID:  parseID(f.value("id_kategori")),
		}
		return d, domain.ValidateDestination(d)
	},
	save: func(ctx context.Context, c *client.Client, id int, payload any) error {
		d := payload.(domain.Destination)
		if id == 0 {
			_, err := c.CreateDestination(ctx, d)
			return err
		}
		return c.UpdateDestination(ctx, id, d)
	},
}

var categoryEntity = entity{
	title: "Kategori",
	list:  "/admin/kategori",
	fields: func() []field {
		return []field{
			{key: "nama_kategori", label: "nama"},
			{key: "deskripsi", label: "deskripsi", multiline: true},
		}
	},
	load: func(ctx context.Context, c *client.Client, id int) (map[string]string, error) {
		cat, err := c.GetCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"nama_kategori": cat.Name, "deskripsi": cat.Description}, nil
	},
	build: func(f form) (any, error) {
		cat := domain.Category{Name: f.value("nama_kategori"), Description: f.value("deskripsi")}
		return cat, domain.ValidateCategory(cat)
	},
	save: func(ctx context.Context, c *client.Client, id int, payload any) error {
		cat := payload.(domain.Category)
		if id == 0 {
			_, err := c.CreateCategory(ctx, cat)
			return err
		}
		return c.UpdateCategory(ctx, id, cat)
	},
}

var imageEntity = entity{
	title: "Gambar",
	list:  "/admin/gambar",
	fields: func() []field {
		return []field{
			{key: "id_destinasi", label: "id destinasi"},
			{key: "url_gambar", label: "url gambar", placeholder: "https://…"},
			{key: "keterangan", label: "keterangan"},
		}
	},
	build: func(f form) (any, error) {
		img := domain.Image{
			DestinationID: parseID(f.value("id_destinasi")),
			URL:           f.value("url_gambar"),
			Caption:       f.value("keterangan"),
		}
		return img, domain.ValidateImage(img)
	},
	save: func(ctx context.Context, c *client.Client, _ int, payload any) error {
		_, err := c.CreateImage(ctx, payload.(domain.Image))
		return err
	},
}

var userEntity = entity{
	title: "Pengguna",
	list:  "/admin/pengguna",
	fields: func() []field {
		return []field{
			{key: "nama", label: "nama"},
			{key: "email", label: "email"},
			{key: "peran", label: "peran", placeholder: "admin / pengguna"},
			{key: "kata_sandi", label: "kata sandi baru", secret: true, placeholder: "kosongkan jika tidak diubah"},
		}
	},
	load: func(ctx context.Context, c *client.Client, id int) (map[string]string, error) {
		u, err := c.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"nama": u.Name, "email": u.Email, "peran": u.Role}, nil
	},
	build: func(f form) (any, error) {
		u := domain.User{
			Name:     f.value("nama"),
			Email:    f.value("email"),
			Role:     strings.ToLower(f.value("peran")),
			Password: f.value("kata_sandi"),
		}
		if err := domain.ValidateUser(u); err != nil {
			return nil, err
		}
		return client.UserPatch{Name: u.Name, Email: u.Email, Role: u.Role, Password: u.Password}, nil
	},
	save: func(ctx context.Context, c *client.Client, id int, payload any) error {
		_, err := c.UpdateUser(ctx, id, payload.(client.UserPatch))
		return err
	},
}
