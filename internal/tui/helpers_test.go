package tui

import (
	"context"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/wisata/internal/apitest"
	"github.com/naveenspark/wisata/internal/session"
	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// newTestDeps wires a memory-backed session store and a client against srv.
func newTestDeps(t *testing.T, srv *apitest.Server, sess *domain.Session) *Deps {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage(sess), nil, zerolog.Nop())
	c := client.New(srv.URL, store)
	store.SetAPI(c)
	return NewDeps(c, store, zerolog.Nop())
}

// loginAs creates an account on srv and returns its session.
func loginAs(srv *apitest.Server, name, email, role string) *domain.Session {
	u, tok := srv.AddUser(name, email, "rahasia1", role)
	return &domain.Session{User: u, Token: tok}
}

func testBase(deps *Deps) pageBase {
	return pageBase{id: 1, ctx: context.Background(), deps: deps, width: 100, height: 30}
}

// key builds the KeyMsg bubbletea delivers for a key name or a single rune.
func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// typeText sends s one rune at a time.
func typeText(p page, s string) page {
	for _, r := range s {
		p, _ = p.Update(key(string(r)))
	}
	return p
}

// runPage executes a page command and feeds the unwrapped result back,
// following further commands that stay on the page.
func runPage(t *testing.T, p page, cmd tea.Cmd) (page, []tea.Msg) {
	t.Helper()
	var escaped []tea.Msg
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if s, ok := msg.(scopedMsg); ok {
			p, cmd = p.Update(s.msg)
			continue
		}
		escaped = append(escaped, msg)
		cmd = nil
	}
	return p, escaped
}

// settle feeds cmd results through the App until nothing is left to run.
func settle(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	for i := 0; cmd != nil && i < 20; i++ {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				a = settle(t, a, c)
			}
			return a
		}
		var m tea.Model
		m, cmd = a.Update(msg)
		a = m.(App)
	}
	return a
}

// startApp opens path and runs the first page load.
func startApp(t *testing.T, deps *Deps, path string) App {
	t.Helper()
	a := NewApp(deps, path)
	a.width, a.height = 120, 40
	return settle(t, a, a.page.Init())
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		m, cmd := a.Update(key(k))
		a = settle(t, m.(App), cmd)
	}
	return a
}

func itoa(n int) string { return strconv.Itoa(n) }
