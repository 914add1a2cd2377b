package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/internal/catalog"
	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/pkg/client"
)

type profileSection int

const (
	sectionFavorites profileSection = iota
	sectionReviews
)

type activityLoadedMsg struct {
	activity *catalog.Activity
	err      error
}

type profileSavedMsg struct {
	err error
}

type reviewDeletedMsg struct {
	err error
}

// profilePage shows the signed-in user with their favorites and reviews.
type profilePage struct {
	pageBase
	activity *catalog.Activity
	section  profileSection
	cursor   int
	loading  bool
	err      string
	status   string
	isErr    bool

	editing bool
	saving  bool
	edit    form

	confirming bool
	targetID   int // review to delete, captured when the prompt opens
	deleting   bool
}

func newProfilePage(b pageBase, section profileSection) profilePage {
	return profilePage{pageBase: b, section: section, loading: true}
}

func (m profilePage) Init() tea.Cmd { return m.load() }

func (m profilePage) load() tea.Cmd {
	sess := m.session()
	if sess == nil {
		return func() tea.Msg { return activityLoadedMsg{err: client.ErrLoginRequired} }
	}
	svc, userID := m.deps.Catalog, sess.ID
	return m.run(func(ctx context.Context) tea.Msg {
		a, err := svc.Activity(ctx, userID)
		return activityLoadedMsg{activity: a, err: err}
	})
}

func (m profilePage) Capturing() bool { return m.editing || m.confirming }

func (m profilePage) rows() int {
	if m.activity == nil {
		return 0
	}
	if m.section == sectionFavorites {
		return len(m.activity.Favorites)
	}
	return len(m.activity.Reviews)
}

func (m *profilePage) setStatus(msg string, isErr bool) {
	m.status = msg
	m.isErr = isErr
}

func (m profilePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		m.loading = false
		m.confirming = false
		if msg.err != nil {
			m.err = loadMessage(msg.err)
			m.activity = nil
			return m, nil
		}
		m.err = ""
		m.activity = msg.activity
		m.cursor = clampCursor(m.cursor, m.rows())

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.edit.markInvalid(msg.err)
			m.setStatus(formMessage(msg.err), true)
			return m, nil
		}
		m.editing = false
		m.setStatus("Profil diperbarui", false)

	case reviewDeletedMsg:
		m.deleting = false
		if msg.err != nil {
			m.setStatus(deleteMessage(msg.err), true)
			return m, nil
		}
		m.setStatus(msgDeleted, false)
		m.loading = true
		return m, m.load()

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		switch {
		case m.editing:
			return m.updateEdit(msg)
		case m.confirming:
			return m.updateConfirm(msg.String())
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m profilePage) updateKeys(key string) (page, tea.Cmd) {
	if c, ok := moveCursor(m.cursor, m.rows(), key); ok {
		m.cursor = c
		return m, nil
	}
	switch key {
	case "tab":
		m.section = 1 - m.section
		m.cursor = clampCursor(m.cursor, m.rows())
	case "e":
		sess := m.session()
		if sess == nil {
			m.setStatus(client.ErrLoginRequired.Error(), true)
			return m, nil
		}
		m.edit = newForm(
			field{key: "nama", label: "nama", value: sess.Name},
			field{key: "email", label: "email", value: sess.Email},
			field{key: "kata_sandi", label: "kata sandi baru", secret: true, placeholder: "kosongkan jika tidak diubah"},
		)
		m.editing = true
		m.status = ""
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if m.rows() == 0 {
			return m, nil
		}
		if m.section == sectionFavorites {
			return m, navigate(route.Destination(m.activity.Favorites[m.cursor].DestinationID))
		}
		return m, navigate(route.Destination(m.activity.Reviews[m.cursor].DestinationID))
	case "d":
		if m.section == sectionReviews && m.rows() > 0 && !m.deleting {
			m.confirming = true
			m.targetID = m.activity.Reviews[m.cursor].ID
		}
	}
	return m, nil
}

func (m profilePage) updateConfirm(key string) (page, tea.Cmd) {
	m.confirming = false
	if key != "y" || m.deleting {
		return m, nil
	}
	m.deleting = true
	c, id := m.deps.Client, m.targetID
	return m, m.run(func(ctx context.Context) tea.Msg {
		return reviewDeletedMsg{err: c.DeleteReview(ctx, id)}
	})
}

func (m profilePage) updateEdit(msg tea.KeyMsg) (page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.status = ""
		return m, nil
	case "ctrl+s":
		return m.save()
	}
	m.edit, _ = m.edit.update(msg)
	return m, nil
}

func (m profilePage) save() (page, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	patch := client.UserPatch{
		Name:     m.edit.value("nama"),
		Email:    m.edit.value("email"),
		Password: m.edit.value("kata_sandi"),
	}
	m.saving = true
	store := m.deps.Sessions
	return m, m.run(func(ctx context.Context) tea.Msg {
		_, err := store.UpdateProfile(ctx, patch)
		return profileSavedMsg{err: err}
	})
}

func (m profilePage) Help() string {
	switch {
	case m.editing:
		return helpBar("tab", "pindah", "ctrl+s", "simpan", "esc", "batal")
	case m.confirming:
		return helpBar("y", "hapus ulasan", "n", "batal")
	case m.section == sectionReviews:
		return helpBar("tab", "favorit", "j/k", "pilih", "enter", "destinasi", "d", "hapus", "e", "ubah profil")
	}
	return helpBar("tab", "ulasan", "j/k", "pilih", "enter", "destinasi", "e", "ubah profil", "r", "muat ulang")
}

func (m profilePage) View() string {
	var b strings.Builder
	sess := m.session()
	if sess != nil {
		b.WriteString(" " + titleStyle.Render(sess.Name))
		if sess.IsAdmin() {
			b.WriteString(" " + adminBadgeStyle.Render("admin"))
		}
		b.WriteString("\n " + dimStyle.Render(sess.Email))
		if sess.CreatedAt != nil {
			b.WriteString(metaStyle.Render("  · bergabung " + sess.CreatedAt.Format("2 Jan 2006")))
		}
		if exp, ok := m.deps.Sessions.TokenExpiry(); ok {
			b.WriteString(metaStyle.Render("  · sesi berlaku hingga " + exp.Local().Format("2 Jan 15:04")))
			if time.Until(exp) < 0 {
				b.WriteString(" " + errorStyle.Render("(kedaluwarsa)"))
			}
		}
		b.WriteString("\n\n")
	}

	if m.editing {
		b.WriteString(" " + sectionHeaderStyle.Render("UBAH PROFIL") + "\n")
		b.WriteString(m.edit.View())
		if m.saving {
			b.WriteString(" " + dimStyle.Render("menyimpan…") + "\n")
		}
	}
	if m.status != "" {
		b.WriteString(statusLine(m.status, m.isErr) + "\n")
	}
	if m.confirming {
		b.WriteString(" " + errorStyle.Render("Hapus ulasan ini? (y/n)") + "\n")
	}

	favTab, revTab := dimStyle, dimStyle
	if m.section == sectionFavorites {
		favTab = selectedStyle.Underline(true)
	} else {
		revTab = selectedStyle.Underline(true)
	}
	b.WriteString(" " + favTab.Render("Favorit") + "   " + revTab.Render("Ulasan Saya") + "\n\n")

	if m.loading && m.activity == nil {
		return b.String() + " " + dimStyle.Render(msgLoading)
	}
	if m.err != "" {
		return b.String() + statusLine(m.err, true)
	}
	if m.rows() == 0 {
		if m.section == sectionFavorites {
			return b.String() + " " + dimStyle.Render("belum ada favorit")
		}
		return b.String() + " " + dimStyle.Render("belum ada ulasan")
	}

	for i := 0; i < m.rows(); i++ {
		var line string
		if m.section == sectionFavorites {
			f := m.activity.Favorites[i]
			line = favoriteStyle.Render("♥") + " " + normalStyle.Render(m.activity.DestinationName(f.DestinationID))
		} else {
			r := m.activity.Reviews[i]
			line = fmt.Sprintf("%s %s  %s  %s",
				starStyle.Render(reviewStars(r.Rating)),
				normalStyle.Render(m.activity.DestinationName(r.DestinationID)),
				dimStyle.Render(truncStr(oneLine(r.Comment), 40)),
				metaStyle.Render(formatTime(r.CreatedAt)))
		}
		if i == m.cursor {
			b.WriteString(accentStyle.Render(" > ") + line + "\n")
		} else {
			b.WriteString("   " + line + "\n")
		}
	}
	return b.String()
}

