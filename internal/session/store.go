// Package session holds the client's authenticated identity. The Store is
// the single source of truth: the API client reads its bearer token from
// it, the route guard evaluates against it, and every read goes through
// the persisted storage so a logout elsewhere is seen on the next read.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// Default messages shown when the backend gives no reason.
const (
	msgLoginFailed    = "Email atau kata sandi salah"
	msgRegisterFailed = "Registrasi gagal, silakan coba lagi"
	msgUpdateFailed   = "Gagal memperbarui profil"
	msgUnreachable    = "Tidak dapat terhubung ke server"
	msgBadLogin       = "Respons login tidak valid"
)

// API is the subset of the REST client the store needs.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Register(ctx context.Context, req client.RegisterRequest) error
	UpdateUser(ctx context.Context, id int, patch client.UserPatch) (*domain.User, error)
}

// Failure is a login, registration or profile failure carrying the
// message to show the user.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Store is the session store.
type Store struct {
	storage Storage
	api     API
	log     zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]func(*domain.Session)
}

// NewStore returns a Store over storage. api may be nil until SetAPI is
// called; the client and the store reference each other.
func NewStore(storage Storage, api API, log zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		api:     api,
		log:     log,
		subs:    make(map[int]func(*domain.Session)),
	}
}

// SetAPI wires the REST client in after construction.
func (s *Store) SetAPI(api API) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// Current returns the persisted session, or nil when logged out. The
// session is trusted as read; it is not revalidated against the backend.
func (s *Store) Current() *domain.Session {
	sess, err := s.storage.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("unreadable session, treating as logged out")
		return nil
	}
	if !sess.Valid() {
		return nil
	}
	return sess
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

// IsAuthenticated reports whether a session exists.
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Store) IsAdmin() bool {
	sess := s.Current()
	return sess != nil && sess.IsAdmin()
}

// Login authenticates and persists the session. On failure the stored
// session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := domain.ValidateLogin(email, password); err != nil {
		return nil, &Failure{Message: err.Error(), Err: err}
	}

	sess, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("login failed")
		return nil, failure(err, msgLoginFailed)
	}
	if !sess.Valid() {
		return nil, &Failure{Message: msgBadLogin}
	}
	sess.Password = ""

	if err := s.write(sess); err != nil {
		return nil, err
	}
	s.log.Info().Int("user_id", sess.ID).Str("role", sess.Role).Msg("logged in")
	return sess, nil
}

// Register creates an account. The new account is not logged in.
func (s *Store) Register(ctx context.Context, name, email, password, confirm string) error {
	if err := domain.ValidateRegistration(name, email, password, confirm); err != nil {
		return &Failure{Message: err.Error(), Err: err}
	}
	req := client.RegisterRequest{Name: name, Email: email, Password: password}
	if err := s.api.Register(ctx, req); err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("registration failed")
		return failure(err, msgRegisterFailed)
	}
	s.log.Info().Str("email", email).Msg("registered")
	return nil
}

// Logout clears the session. Calling it when already logged out is a no-op.
func (s *Store) Logout() error {
	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	s.notify(nil)
	s.log.Info().Msg("logged out")
	return nil
}

// UpdateProfile patches the current user on the backend and merges the
// response into the persisted session. The token is kept.
func (s *Store) UpdateProfile(ctx context.Context, patch client.UserPatch) (*domain.Session, error) {
	sess := s.Current()
	if sess == nil {
		return nil, client.ErrLoginRequired
	}

	candidate := sess.User
	applyPatch(&candidate, patch)
	candidate.Password = patch.Password
	if err := domain.ValidateUser(candidate); err != nil {
		return nil, &Failure{Message: err.Error(), Err: err}
	}

	updated, err := s.api.UpdateUser(ctx, sess.ID, patch)
	if err != nil {
		s.log.Info().Err(err).Int("user_id", sess.ID).Msg("profile update failed")
		switch client.Classify(err) {
		case client.KindUnauthorized, client.KindForbidden:
			// the backend's reason would hide an expired or revoked session
			return nil, err
		}
		return nil, failure(err, msgUpdateFailed)
	}

	next := *sess
	if updated != nil && updated.ID == sess.ID {
		mergeUser(&next.User, *updated)
	} else {
		applyPatch(&next.User, patch)
	}
	next.Password = ""

	if err := s.write(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Subscribe registers fn to be called after every login, logout and
// profile update. The returned func unregisters it.
func (s *Store) Subscribe(fn func(*domain.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// TokenExpiry reports the exp claim of the session token when it is a JWT.
// The signature is not checked; this is for display only.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return tokenExpiry(s.Token())
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) write(sess *domain.Session) error {
	if err := s.storage.Save(sess); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	s.notify(sess)
	return nil
}

func (s *Store) notify(sess *domain.Session) {
	s.mu.Lock()
	fns := make([]func(*domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		if sess == nil {
			fn(nil)
			continue
		}
		cp := *sess
		fn(&cp)
	}
}

func failure(err error, fallback string) *Failure {
	msg := fallback
	switch client.Classify(err) {
	case client.KindNetwork:
		msg = msgUnreachable
	case client.KindValidation, client.KindUnauthorized, client.KindForbidden:
		if m := client.ServerMessage(err); m != "" {
			msg = m
		}
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
	}
	return &Failure{Message: msg, Err: err}
}

func applyPatch(u *domain.User, p client.UserPatch) {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Role != "" {
		u.Role = p.Role
	}
}

func mergeUser(dst *domain.User, src domain.User) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.CreatedAt != nil {
		dst.CreatedAt = src.CreatedAt
	}
}
