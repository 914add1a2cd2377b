package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/wisata/internal/catalog"
	"github.com/naveenspark/wisata/internal/route"
	"github.com/naveenspark/wisata/internal/session"
	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// Deps is what every page is built from.
type Deps struct {
	Client   *client.Client
	Sessions *session.Store
	Catalog  *catalog.Service
	Guard    *route.Guard
	Log      zerolog.Logger
}

// NewDeps wires the catalog and guard over a client and session store.
func NewDeps(c *client.Client, sessions *session.Store, log zerolog.Logger) *Deps {
	return &Deps{
		Client:   c,
		Sessions: sessions,
		Catalog:  catalog.New(c, log),
		Guard:    route.NewGuard(sessions),
		Log:      log,
	}
}

// page is one screen. The App owns exactly one at a time.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (page, tea.Cmd)
	View() string
	Help() string
	// Capturing reports whether the page consumes every key, e.g. while a
	// text field or a confirmation prompt is active.
	Capturing() bool
}

// navigateMsg asks the App to enter path through the guard.
type navigateMsg struct {
	path    string
	replace bool
	flash   string
}

// backMsg asks the App to return to the previous path.
type backMsg struct{}

// scopedMsg is an async result addressed to the page that started it.
// Results for a page that is no longer shown are dropped.
type scopedMsg struct {
	page int
	msg  tea.Msg
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// redirect navigates without recording the current page in history.
func redirect(path, flash string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path, replace: true, flash: flash} }
}

func back() tea.Cmd {
	return func() tea.Msg { return backMsg{} }
}

// pageBase carries what every page needs: its identity, a context that is
// cancelled when the page is left, and the shared dependencies.
type pageBase struct {
	id     int
	ctx    context.Context
	deps   *Deps
	width  int
	height int
}

// run executes fn off the UI loop and addresses the result to this page.
func (b pageBase) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	id, ctx := b.id, b.ctx
	return func() tea.Msg {
		return scopedMsg{page: id, msg: fn(ctx)}
	}
}

// session reads the live session.
func (b pageBase) session() *domain.Session {
	if b.deps == nil || b.deps.Sessions == nil {
		return nil
	}
	return b.deps.Sessions.Current()
}

func (b *pageBase) resize(msg tea.WindowSizeMsg) {
	b.width = msg.Width
	b.height = msg.Height
}
