package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/pkg/domain"
)

type loggedInMsg struct {
	session *domain.Session
	err     error
}

type registeredMsg struct {
	err error
}

// loginPage is the email and password form.
type loginPage struct {
	pageBase
	form       form
	submitting bool
	err        string
}

func newLoginPage(b pageBase) loginPage {
	return loginPage{
		pageBase: b,
		form: newForm(
			field{key: "email", label: "email", placeholder: "nama@contoh.com"},
			field{key: "kata_sandi", label: "kata sandi", secret: true},
		),
	}
}

func (m loginPage) Init() tea.Cmd   { return nil }
func (m loginPage) Capturing() bool { return true }
func (m loginPage) Help() string {
	return helpBar("tab", "pindah", "enter", "masuk", "ctrl+r", "daftar", "esc", "kembali")
}

func (m loginPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = formMessage(msg.err)
			m.form.set("kata_sandi", "")
			return m, nil
		}
		return m, redirect(route.HomeFor(msg.session), "Selamat datang, "+msg.session.Name)

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, back()
		case "ctrl+r":
			return m, redirect(route.PathRegister, "")
		case "enter", "ctrl+s":
			if msg.String() == "ctrl+s" || m.form.focus == len(m.form.fields)-1 {
				return m.submit()
			}
		}
		m.err = ""
		m.form, _ = m.form.update(msg)
	}
	return m, nil
}

func (m loginPage) submit() (page, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	email, password := m.form.value("email"), m.form.value("kata_sandi")
	if err := domain.ValidateLogin(email, password); err != nil {
		m.form.markInvalid(err)
		m.err = formMessage(err)
		return m, nil
	}
	m.submitting = true
	m.err = ""
	store := m.deps.Sessions
	return m, m.run(func(ctx context.Context) tea.Msg {
		sess, err := store.Login(ctx, email, password)
		return loggedInMsg{session: sess, err: err}
	})
}

func (m loginPage) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Masuk") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("memproses…"))
	case m.err != "":
		b.WriteString(statusLine(m.err, true))
	default:
		b.WriteString(" " + dimStyle.Render("Belum punya akun? tekan ctrl+r untuk daftar"))
	}
	return b.String()
}

// registerPage creates an account. It never logs the new account in.
type registerPage struct {
	pageBase
	form       form
	submitting bool
	err        string
}

func newRegisterPage(b pageBase) registerPage {
	return registerPage{
		pageBase: b,
		form: newForm(
			field{key: "nama", label: "nama"},
			field{key: "email", label: "email", placeholder: "nama@contoh.com"},
			field{key: "kata_sandi", label: "kata sandi", secret: true},
			field{key: "konfirmasi", label: "konfirmasi", secret: true},
		),
	}
}

func (m registerPage) Init() tea.Cmd   { return nil }
func (m registerPage) Capturing() bool { return true }
func (m registerPage) Help() string {
	return helpBar("tab", "pindah", "ctrl+s", "daftar", "esc", "kembali")
}

func (m registerPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = formMessage(msg.err)
			return m, nil
		}
		return m, redirect(route.PathLogin, "Registrasi berhasil, silakan login")

	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, back()
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.form.focus == len(m.form.fields)-1 {
				return m.submit()
			}
		}
		m.err = ""
		m.form, _ = m.form.update(msg)
	}
	return m, nil
}

func (m registerPage) submit() (page, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	name, email := m.form.value("nama"), m.form.value("email")
	password, confirm := m.form.value("kata_sandi"), m.form.value("konfirmasi")
	if err := domain.ValidateRegistration(name, email, password, confirm); err != nil {
		m.form.markInvalid(err)
		m.err = formMessage(err)
		return m, nil
	}
	m.submitting = true
	m.err = ""
	store := m.deps.Sessions
	return m, m.run(func(ctx context.Context) tea.Msg {
		return registeredMsg{err: store.Register(ctx, name, email, password, confirm)}
	})
}

func (m registerPage) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Daftar") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("memproses…"))
	} else {
		b.WriteString(statusLine(m.err, true))
	}
	return b.String()
}

// notFoundPage is shown for paths outside the route table.
type notFoundPage struct {
	pageBase
	path string
}

func (m notFoundPage) Init() tea.Cmd   { return nil }
func (m notFoundPage) Capturing() bool { return false }
func (m notFoundPage) Help() string    { return helpBar("enter", "beranda") }

func (m notFoundPage) Update(msg tea.Msg) (page, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return m, redirect(route.PathHome, "")
	}
	return m, nil
}

func (m notFoundPage) View() string { return notFoundView(m.path) }

func notFoundView(path string) string {
	return "\n " + titleStyle.Render("404") + "  " + normalStyle.Render("Halaman tidak ditemukan") +
		"\n\n " + metaStyle.Render(path) + "\n"
}
