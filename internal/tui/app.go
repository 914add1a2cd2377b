package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/internal/session"
	"github.com/naveenspark/wisata/pkg/domain"
)

// maxRedirects bounds guard redirect chains.
const maxRedirects = 4

// App is the root Bubbletea model. It owns the current page, the
// navigation history and the global keys.
type App struct {
	deps    *Deps
	page    page
	path    string
	history []string
	seq     int
	cancel  context.CancelFunc

	prompt     bool // ":" path prompt open
	promptText string
	flash      string

	width  int
	height int
	frame  int
}

// NewApp creates the TUI starting at path.
func NewApp(deps *Deps, path string) App {
	a := App{deps: deps, width: 80, height: 24}
	if path == "" {
		path = route.PathHome
	}
	a.enter(path)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.page.Init(), shimmerTickCmd())
}

// SessionChangedMsg reports a login, logout or profile change made
// outside the App's own key handling.
type SessionChangedMsg struct{}

// WatchSession forwards session changes to a running program through send
// (normally tea.Program.Send). It returns the unsubscribe func.
func WatchSession(s *session.Store, send func(tea.Msg)) func() {
	return s.Subscribe(func(*domain.Session) {
		// store writes can happen inside Update; Send would block the loop
		go send(SessionChangedMsg{})
	})
}

// Path is the path of the page on screen.
func (a App) Path() string { return a.path }

// enter resolves path through the guard and builds the page it lands on.
// It does not touch history.
func (a *App) enter(path string) {
	dec := a.deps.Guard.Resolve(path)
	for i := 0; dec.Redirect != "" && i < maxRedirects; i++ {
		if dec.Redirect == route.PathLogin {
			a.flash = msgLoginFirst
		} else if dec.Route.Access == route.Admin {
			a.flash = msgAdminRequired
		}
		a.deps.Log.Debug().Str("from", dec.Path).Str("to", dec.Redirect).Msg("guard redirect")
		dec = a.deps.Guard.Resolve(dec.Redirect)
	}

	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.seq++
	base := pageBase{id: a.seq, ctx: ctx, deps: a.deps, width: a.width, height: a.bodyHeight()}
	a.path = dec.Path
	a.page = buildPage(base, dec.Match)
}

func (a App) bodyHeight() int {
	// header(2) + status(1) + help(1)
	return a.height - 4
}

func (a App) visit(path string, replace bool) (App, tea.Cmd) {
	prev := a.path
	a.enter(path)
	if !replace && prev != "" && prev != a.path {
		a.history = append(a.history, prev)
	}
	return a, a.page.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.page, cmd = a.page.Update(tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()})
		return a, cmd

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigateMsg:
		a.flash = msg.flash
		return a.visit(msg.path, msg.replace)

	case backMsg:
		a.flash = ""
		if len(a.history) == 0 {
			return a.visit(route.PathHome, true)
		}
		prev := a.history[len(a.history)-1]
		a.history = a.history[:len(a.history)-1]
		return a.visit(prev, true)

	case SessionChangedMsg:
		// guest pages hand over to their own post-login redirect
		dec := a.deps.Guard.Resolve(a.path)
		if dec.Redirect == "" || dec.Route.Access == route.Guest {
			return a, nil
		}
		a.history = nil
		return a.visit(a.path, true)

	case scopedMsg:
		if msg.page != a.seq {
			a.deps.Log.Debug().Int("page", msg.page).Msg("dropping result for a page no longer shown")
			return a, nil
		}
		var cmd tea.Cmd
		a.page, cmd = a.page.Update(msg.msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.prompt {
			return a.updatePrompt(msg)
		}
		if !a.page.Capturing() {
			if next, cmd, ok := a.globalKey(msg.String()); ok {
				return next, cmd
			}
		}
		a.flash = ""
	}

	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)
	return a, cmd
}

func (a App) globalKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "q":
		return a, tea.Quit, true
	case "esc":
		return a, back(), true
	case ":":
		a.prompt = true
		a.promptText = ""
		return a, nil, true
	case "1":
		next, cmd := a.visit(route.PathHome, false)
		return next, cmd, true
	case "2":
		next, cmd := a.visit("/kategori", false)
		return next, cmd, true
	case "3":
		next, cmd := a.visit("/profil", false)
		return next, cmd, true
	case "4":
		next, cmd := a.visit(route.PathAdmin, false)
		return next, cmd, true
	case "L":
		if a.deps.Sessions.IsAuthenticated() {
			return a.logout()
		}
		next, cmd := a.visit(route.PathLogin, false)
		return next, cmd, true
	}
	return a, nil, false
}

func (a App) logout() (App, tea.Cmd, bool) {
	if err := a.deps.Sessions.Logout(); err != nil {
		a.flash = msgGeneric
		return a, nil, true
	}
	a.history = nil
	// the current page may no longer be allowed
	next, cmd := a.visit(a.path, true)
	if next.flash == "" {
		next.flash = msgLoggedOut
	}
	return next, cmd, true
}

func (a App) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.prompt = false
	case "enter":
		a.prompt = false
		path := strings.TrimSpace(a.promptText)
		if path == "" {
			return a, nil
		}
		return a.visit(path, false)
	default:
		a.promptText = editRune(a.promptText, msg.String())
	}
	return a, nil
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	pad := (a.width - lipgloss.Width(logo)) / 2
	if pad < 0 {
		pad = 0
	}
	header := strings.Repeat(" ", pad) + logo + "\n" + a.userLine()

	body := strings.TrimRight(truncateToHeight(a.page.View(), a.bodyHeight()), "\n")

	var status string
	switch {
	case a.prompt:
		status = " " + inputPromptStyle.Render(": ") + renderInput(a.promptText, "/destinasi/1", true, false)
	case a.flash != "":
		status = " " + adminBadgeStyle.Render(a.flash)
	default:
		status = " " + metaStyle.Render(a.path)
	}

	help := " " + a.page.Help()
	if !a.page.Capturing() {
		help += "  " + helpBar("1-4", "menu", ":", "buka", "esc", "kembali", "L", a.loginLabel(), "q", "keluar")
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, status, help)
}

func (a App) loginLabel() string {
	if a.deps.Sessions.IsAuthenticated() {
		return "keluar akun"
	}
	return "login"
}

func (a App) userLine() string {
	tabs := []struct{ key, name, path string }{
		{"1", "Beranda", route.PathHome},
		{"2", "Kategori", "/kategori"},
		{"3", "Profil", "/profil"},
		{"4", "Admin", route.PathAdmin},
	}
	var parts []string
	for _, t := range tabs {
		if a.path == t.path || (t.path != route.PathHome && strings.HasPrefix(a.path, t.path+"/")) {
			parts = append(parts, accentStyle.Render(t.key)+" "+selectedStyle.Underline(true).Render(t.name))
		} else {
			parts = append(parts, metaStyle.Render(t.key)+" "+dimStyle.Render(t.name))
		}
	}
	who := dimStyle.Render("tamu")
	if s := a.deps.Sessions.Current(); s != nil {
		who = normalStyle.Render(s.Name)
		if s.IsAdmin() {
			who += " " + adminBadgeStyle.Render("admin")
		}
	}
	return " " + strings.Join(parts, "   ") + "   " + metaStyle.Render("·") + " " + who
}
