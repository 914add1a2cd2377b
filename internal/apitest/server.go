// Package apitest runs an in-memory stand-in for the wisata REST backend so
// client, session, catalog and TUI tests can exercise real HTTP round trips.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/naveenspark/wisata/pkg/domain"
)

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	nextID       int
	destinations map[int]domain.Destination
	categories   map[int]domain.Category
	images       map[int]domain.Image
	reviews      map[int]domain.Review
	favorites    map[int]domain.Favorite
	users        map[int]domain.User
	passwords    map[string]string // email -> password
	tokens       map[string]int    // token -> user id
	hits         map[string]int    // "METHOD template" -> count
	failures     map[string]int    // "METHOD template" -> status
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		nextID:       1,
		destinations: map[int]domain.Destination{},
		categories:   map[int]domain.Category{},
		images:       map[int]domain.Image{},
		reviews:      map[int]domain.Review{},
		favorites:    map[int]domain.Favorite{},
		users:        map[int]domain.User{},
		passwords:    map[string]string{},
		tokens:       map[string]int{},
		hits:         map[string]int{},
		failures:     map[string]int{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.track)

	r.HandleFunc("/api/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/api/register", s.register).Methods(http.MethodPost)

	r.HandleFunc("/api/destinasi", s.listDestinations).Methods(http.MethodGet)
	r.HandleFunc("/api/destinasi", s.admin(s.saveDestination)).Methods(http.MethodPost)
	r.HandleFunc("/api/destinasi/{id}", s.getDestination).Methods(http.MethodGet)
	r.HandleFunc("/api/destinasi/{id}", s.admin(s.saveDestination)).Methods(http.MethodPut)
	r.HandleFunc("/api/destinasi/{id}", s.admin(s.deleteDestination)).Methods(http.MethodDelete)

	r.HandleFunc("/api/kategori", s.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/api/kategori", s.admin(s.saveCategory)).Methods(http.MethodPost)
	r.HandleFunc("/api/kategori/{id}", s.getCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/kategori/{id}", s.admin(s.saveCategory)).Methods(http.MethodPatch)
	r.HandleFunc("/api/kategori/{id}", s.admin(s.deleteCategory)).Methods(http.MethodDelete)

	r.HandleFunc("/api/gambar", s.listImages).Methods(http.MethodGet)
	r.HandleFunc("/api/gambar", s.admin(s.createImage)).Methods(http.MethodPost)
	r.HandleFunc("/api/gambar/destinasi/{id}", s.listDestinationImages).Methods(http.MethodGet)
	r.HandleFunc("/api/gambar/{id}", s.admin(s.deleteImage)).Methods(http.MethodDelete)

	r.HandleFunc("/api/ulasan", s.listReviews).Methods(http.MethodGet)
	r.HandleFunc("/api/ulasan", s.authed(s.createReview)).Methods(http.MethodPost)
	r.HandleFunc("/api/ulasan/statistik/rating", s.ratingStats).Methods(http.MethodGet)
	r.HandleFunc("/api/ulasan/destinasi/{id}", s.listDestinationReviews).Methods(http.MethodGet)
	r.HandleFunc("/api/ulasan/pengguna/{id}", s.authed(s.listUserReviews)).Methods(http.MethodGet)
	r.HandleFunc("/api/ulasan/{id}", s.authed(s.deleteReview)).Methods(http.MethodDelete)

	r.HandleFunc("/api/favorit/pengguna/{id}", s.authed(s.listUserFavorites)).Methods(http.MethodGet)
	r.HandleFunc("/api/favorit", s.authed(s.createFavorite)).Methods(http.MethodPost)
	r.HandleFunc("/api/favorit/{id}", s.authed(s.deleteFavorite)).Methods(http.MethodDelete)

	r.HandleFunc("/api/pengguna", s.admin(s.listUsers)).Methods(http.MethodGet)
	r.HandleFunc("/api/pengguna/{id}", s.authed(s.getUser)).Methods(http.MethodGet)
	r.HandleFunc("/api/pengguna/{id}", s.authed(s.updateUser)).Methods(http.MethodPatch)
	r.HandleFunc("/api/pengguna/{id}", s.admin(s.deleteUser)).Methods(http.MethodDelete)

	return r
}

// --- test controls ---

// Hits returns how often METHOD template was served, e.g. Hits("GET", "/api/ulasan/destinasi/{id}").
func (s *Server) Hits(method, template string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+template]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Fail makes METHOD template answer with status until cleared with status 0.
func (s *Server) Fail(method, template string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method+" "+template)
		return
	}
	s.failures[method+" "+template] = status
}

// AddUser creates an account and returns a session token for it.
func (s *Server) AddUser(name, email, password, role string) (domain.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := domain.User{ID: s.id(), Name: name, Email: email, Role: role, CreatedAt: &now}
	s.users[u.ID] = u
	s.passwords[email] = password
	tok := "tok-" + strconv.Itoa(u.ID)
	s.tokens[tok] = u.ID
	return u, tok
}

// AddCategory stores a category.
func (s *Server) AddCategory(name string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	return c
}

// AddDestination stores a destination.
func (s *Server) AddDestination(d domain.Destination) domain.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	s.destinations[d.ID] = d
	return d
}

// AddReview stores a review.
func (s *Server) AddReview(destinationID, userID, rating int, comment string) domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := domain.Review{ID: s.id(), DestinationID: destinationID, UserID: userID, Rating: rating, Comment: comment, CreatedAt: time.Now()}
	s.reviews[r.ID] = r
	return r
}

// AddImage stores a gallery image.
func (s *Server) AddImage(destinationID int, url string) domain.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := domain.Image{ID: s.id(), DestinationID: destinationID, URL: url}
	s.images[img.ID] = img
	return img
}

// AddFavorite stores a favorite.
func (s *Server) AddFavorite(userID, destinationID int) domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := domain.Favorite{ID: s.id(), UserID: userID, DestinationID: destinationID}
	s.favorites[f.ID] = f
	return f
}

// Favorites returns the stored favorites of a user.
func (s *Server) Favorites(userID int) []domain.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.favorites, func(f domain.Favorite) bool { return f.UserID == userID })
}

// Category returns a stored category.
func (s *Server) Category(id int) (domain.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	return c, ok
}

func (s *Server) id() int {
	id := s.nextID
	s.nextID++
	return id
}

// --- middleware ---

func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tmpl, _ := mux.CurrentRoute(r).GetPathTemplate() //nolint:errcheck // every route has a template
		key := r.Method + " " + tmpl
		s.mu.Lock()
		s.hits[key]++
		status := s.failures[key]
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, u domain.User)

func (s *Server) authed(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		id, ok := s.tokens[tok]
		u := s.users[id]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Token tidak valid")
			return
		}
		h(w, r, u)
	}
}

func (s *Server) admin(h userHandler) http.HandlerFunc {
	return s.authed(func(w http.ResponseWriter, r *http.Request, u domain.User) {
		if !u.IsAdmin() {
			writeError(w, http.StatusForbidden, "Akses ditolak")
			return
		}
		h(w, r, u)
	})
}

// --- handlers ---

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"kata_sandi"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.passwords[req.Email]; !ok || pw != req.Password {
		writeError(w, http.StatusUnauthorized, "Email atau kata sandi salah")
		return
	}
	for tok, id := range s.tokens {
		if u := s.users[id]; u.Email == req.Email {
			writeJSON(w, http.StatusOK, domain.Session{User: u, Token: tok})
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "token hilang")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"nama"`
		Email    string `json:"email"`
		Password string `json:"kata_sandi"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}
	s.mu.Lock()
	_, taken := s.passwords[req.Email]
	s.mu.Unlock()
	if taken {
		writeError(w, http.StatusBadRequest, "Email sudah terdaftar")
		return
	}
	u, _ := s.AddUser(req.Name, req.Email, req.Password, domain.RoleUser)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) listDestinations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.destinations, nil))
}

func (s *Server) getDestination(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.destinations[pathID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "Destinasi tidak ditemukan")
		return
	}
	if c, ok := s.categories[d.CategoryID]; ok {
		d.Category = &c
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) saveDestination(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var d domain.Destination
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil || d.Name == "" {
		writeError(w, http.StatusBadRequest, "Nama destinasi wajib diisi")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := pathID(r); id != 0 {
		if _, ok := s.destinations[id]; !ok {
			writeError(w, http.StatusNotFound, "Destinasi tidak ditemukan")
			return
		}
		d.ID = id
		s.destinations[id] = d
		writeJSON(w, http.StatusOK, d)
		return
	}
	d.ID = s.id()
	s.destinations[d.ID] = d
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) deleteDestination(w http.ResponseWriter, r *http.Request, _ domain.User) {
	deleteFrom(s, w, s.destinations, pathID(r))
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.categories, nil))
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[pathID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "Kategori tidak ditemukan")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) saveCategory(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var c domain.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" {
		writeError(w, http.StatusBadRequest, "Nama kategori wajib diisi")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := pathID(r); id != 0 {
		if _, ok := s.categories[id]; !ok {
			writeError(w, http.StatusNotFound, "Kategori tidak ditemukan")
			return
		}
		c.ID = id
		s.categories[id] = c
		writeJSON(w, http.StatusOK, c)
		return
	}
	c.ID = s.id()
	s.categories[c.ID] = c
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request, _ domain.User) {
	deleteFrom(s, w, s.categories, pathID(r))
}

func (s *Server) listImages(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.images, nil))
}

func (s *Server) listDestinationImages(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.images, func(img domain.Image) bool { return img.DestinationID == id }))
}

func (s *Server) createImage(w http.ResponseWriter, r *http.Request, _ domain.User) {
	var img domain.Image
	if err := json.NewDecoder(r.Body).Decode(&img); err != nil || img.URL == "" {
		writeError(w, http.StatusBadRequest, "URL gambar wajib diisi")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img.ID = s.id()
	s.images[img.ID] = img
	writeJSON(w, http.StatusCreated, img)
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request, _ domain.User) {
	deleteFrom(s, w, s.images, pathID(r))
}

func (s *Server) listReviews(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.reviews, nil))
}

func (s *Server) listDestinationReviews(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.reviews, func(rv domain.Review) bool { return rv.DestinationID == id }))
}

func (s *Server) listUserReviews(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.reviews, func(rv domain.Review) bool { return rv.UserID == id }))
}

func (s *Server) ratingStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDest := map[int]*domain.RatingStat{}
	for _, rv := range s.reviews {
		st, ok := byDest[rv.DestinationID]
		if !ok {
			st = &domain.RatingStat{DestinationID: rv.DestinationID, DestinationName: s.destinations[rv.DestinationID].Name}
			byDest[rv.DestinationID] = st
		}
		st.Average = (st.Average*float64(st.Count) + float64(rv.Rating)) / float64(st.Count+1)
		st.Count++
	}
	out := make([]domain.RatingStat, 0, len(byDest))
	for _, st := range byDest {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DestinationID < out[j].DestinationID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request, u domain.User) {
	var rv domain.Review
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil || rv.Rating < 1 || rv.Rating > 5 {
		writeError(w, http.StatusBadRequest, "Rating harus antara 1 dan 5")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rv.ID = s.id()
	rv.UserID = u.ID
	rv.CreatedAt = time.Now()
	rv.Author = &domain.Author{Name: u.Name}
	s.reviews[rv.ID] = rv
	writeJSON(w, http.StatusCreated, rv)
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request, u domain.User) {
	s.mu.Lock()
	rv, ok := s.reviews[pathID(r)]
	s.mu.Unlock()
	if ok && rv.UserID != u.ID && !u.IsAdmin() {
		writeError(w, http.StatusForbidden, "Akses ditolak")
		return
	}
	deleteFrom(s, w, s.reviews, pathID(r))
}

func (s *Server) listUserFavorites(w http.ResponseWriter, r *http.Request, _ domain.User) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := filter(s.favorites, func(f domain.Favorite) bool { return f.UserID == id })
	for i := range out {
		if d, ok := s.destinations[out[i].DestinationID]; ok {
			out[i].Destination = &domain.Reference{Name: d.Name}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createFavorite(w http.ResponseWriter, r *http.Request, u domain.User) {
	var f domain.Favorite
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil || f.DestinationID == 0 {
		writeError(w, http.StatusBadRequest, "Destinasi wajib diisi")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.id()
	f.UserID = u.ID
	s.favorites[f.ID] = f
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) deleteFavorite(w http.ResponseWriter, r *http.Request, _ domain.User) {
	deleteFrom(s, w, s.favorites, pathID(r))
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request, _ domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, filter(s.users, nil))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request, _ domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[pathID(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "Pengguna tidak ditemukan")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, caller domain.User) {
	id := pathID(r)
	if id != caller.ID && !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "Akses ditolak")
		return
	}
	var patch struct {
		Name     string `json:"nama"`
		Email    string `json:"email"`
		Password string `json:"kata_sandi"`
		Role     string `json:"peran"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Pengguna tidak ditemukan")
		return
	}
	if patch.Name != "" {
		u.Name = patch.Name
	}
	if patch.Email != "" {
		u.Email = patch.Email
	}
	if patch.Role != "" {
		if !caller.IsAdmin() {
			writeError(w, http.StatusForbidden, "Akses ditolak")
			return
		}
		u.Role = patch.Role
	}
	s.users[id] = u
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request, _ domain.User) {
	deleteFrom(s, w, s.users, pathID(r))
}

// --- helpers ---

func deleteFrom[T any](s *Server, w http.ResponseWriter, m map[int]T, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := m[id]; !ok {
		writeError(w, http.StatusNotFound, "Data tidak ditemukan")
		return
	}
	delete(m, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Berhasil dihapus"})
}

// filter returns the values of m ordered by id, keeping those keep accepts.
func filter[T any](m map[int]T, keep func(T) bool) []T {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

func pathID(r *http.Request) int {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // test server
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
