// Package route declares the client's pages and the access rule each one
// carries. The Guard evaluates those rules against the session store every
// time a page is entered.
package route

import (
	"strconv"
	"strings"

	"github.com/naveenspark/wisata/pkg/domain"
)

// Access is the rule a route is guarded by.
type Access int

const (
	Public        Access = iota // anyone
	Guest                       // only without a session (login, register)
	Authenticated               // any session
	Admin                       // session with role admin
)

// Well-known paths.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathAdmin    = "/admin"
)

// Route names, used by the UI to pick the page model.
const (
	Home              = "home"
	Login             = "login"
	Register          = "register"
	DestinationDetail = "destination"
	Categories        = "categories"
	Profile           = "profile"
	Favorites         = "favorites"
	AdminDashboard    = "admin"
	AdminDestinations = "admin.destinations"
	AdminDestNew      = "admin.destinations.new"
	AdminDestEdit     = "admin.destinations.edit"
	AdminCategories   = "admin.categories"
	AdminCategoryNew  = "admin.categories.new"
	AdminCategoryEdit = "admin.categories.edit"
	AdminImages       = "admin.images"
	AdminImageNew     = "admin.images.new"
	AdminReviews      = "admin.reviews"
	AdminUsers        = "admin.users"
	AdminUserEdit     = "admin.users.edit"
	NotFound          = "notfound"
)

// Route is one entry of the route table.
type Route struct {
	Name    string
	Pattern string // segments starting with ':' are parameters
	Access  Access
}

// Table is the client's route table.
var Table = []Route{
	{Home, "/", Public},
	{Login, "/login", Guest},
	{Register, "/register", Guest},
	{DestinationDetail, "/destinasi/:id", Public},
	{Categories, "/kategori", Public},
	{Profile, "/profil", Authenticated},
	{Favorites, "/favorit", Authenticated},
	{AdminDashboard, "/admin", Admin},
	{AdminDestinations, "/admin/destinasi", Admin},
	{AdminDestNew, "/admin/destinasi/baru", Admin},
	{AdminDestEdit, "/admin/destinasi/:id/edit", Admin},
	{AdminCategories, "/admin/kategori", Admin},
	{AdminCategoryNew, "/admin/kategori/baru", Admin},
	{AdminCategoryEdit, "/admin/kategori/:id/edit", Admin},
	{AdminImages, "/admin/gambar", Admin},
	{AdminImageNew, "/admin/gambar/baru", Admin},
	{AdminReviews, "/admin/ulasan", Admin},
	{AdminUsers, "/admin/pengguna", Admin},
	{AdminUserEdit, "/admin/pengguna/:id/edit", Admin},
}

// Match is a path resolved against the table.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// IntParam returns a numeric path parameter.
func (m Match) IntParam(name string) (int, bool) {
	v, ok := m.Params[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Lookup finds the route a path belongs to. Literal segments win over
// parameters, so /admin/destinasi/baru is not read as an id.
func Lookup(routes []Route, path string) (Match, bool) {
	path = normalize(path)
	segs := split(path)

	var best Match
	bestScore := -1
	for _, r := range routes {
		params, score, ok := matchPattern(split(r.Pattern), segs)
		if ok && score > bestScore {
			best = Match{Route: r, Path: path, Params: params}
			bestScore = score
		}
	}
	return best, bestScore >= 0
}

func matchPattern(pattern, segs []string) (map[string]string, int, bool) {
	if len(pattern) != len(segs) {
		return nil, 0, false
	}
	params := map[string]string{}
	score := 0
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, 0, false
		}
		score++
	}
	return params, score, true
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Destination builds the detail path of a destination.
func Destination(id int) string {
	return "/destinasi/" + strconv.Itoa(id)
}

// Edit builds an admin edit path, e.g. Edit("/admin/kategori", 3).
func Edit(base string, id int) string {
	return base + "/" + strconv.Itoa(id) + "/edit"
}

// HomeFor is where a user lands after logging in.
func HomeFor(s *domain.Session) string {
	if s != nil && s.IsAdmin() {
		return PathAdmin
	}
	return PathHome
}
