package route

import "github.com/naveenspark/wisata/pkg/domain"

// SessionSource is the live session the guard reads. session.Store
// satisfies it.
type SessionSource interface {
	Current() *domain.Session
}

// Decision is the outcome of entering a path. When Redirect is set the
// caller navigates there instead.
type Decision struct {
	Match
	Redirect string
}

// Guard resolves navigations against a route table and the session.
type Guard struct {
	routes   []Route
	sessions SessionSource
}

// NewGuard returns a Guard over the default table.
func NewGuard(sessions SessionSource) *Guard {
	return &Guard{routes: Table, sessions: sessions}
}

// Resolve decides whether path may be entered right now.
func (g *Guard) Resolve(path string) Decision {
	m, ok := Lookup(g.routes, path)
	if !ok {
		return Decision{Match: Match{Route: Route{Name: NotFound, Access: Public}, Path: normalize(path)}}
	}
	if redirect, allowed := Allow(m.Route.Access, g.sessions.Current()); !allowed {
		return Decision{Match: m, Redirect: redirect}
	}
	return Decision{Match: m}
}

// Allow is the authorization predicate for one access rule. When access is
// denied it returns where to send the user instead.
func Allow(access Access, s *domain.Session) (redirect string, allowed bool) {
	switch access {
	case Guest:
		if s != nil {
			return HomeFor(s), false
		}
	case Authenticated:
		if s == nil {
			return PathLogin, false
		}
	case Admin:
		if s == nil {
			return PathLogin, false
		}
		if !s.IsAdmin() {
			return PathHome, false
		}
	}
	return "", true
}
