package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naveenspark/wisata/pkg/domain"
)

// TokenSource supplies the bearer token for each request.
// An empty token means no session.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

// Token returns the token itself.
func (t StaticToken) Token() string { return string(t) }

// LoginRequest is the payload of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"kata_sandi"`
}

// RegisterRequest is the payload of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"nama"`
	Email    string `json:"email"`
	Password string `json:"kata_sandi"`
}

// ReviewRequest is the payload of POST /api/ulasan.
type ReviewRequest struct {
	DestinationID int    `json:"id_destinasi"`
	UserID        int    `json:"id_pengguna"`
	Rating        int    `json:"rating"`
	Comment       string `json:"komentar"`
}

// FavoriteRequest is the payload of POST /api/favorit.
type FavoriteRequest struct {
	DestinationID int `json:"id_destinasi"`
	UserID        int `json:"id_pengguna"`
}

// UserPatch carries the fields of a PATCH /api/pengguna/:id. Empty fields are omitted.
type UserPatch struct {
	Name     string `json:"nama,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"kata_sandi,omitempty"`
	Role     string `json:"peran,omitempty"`
}

// Client is the wisata REST API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger routes request logging to l.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client. Requests carry whatever token tokens
// returns at the time they are made.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var s domain.Session
	if err := c.doRequest(ctx, http.MethodPost, "/api/login", LoginRequest{Email: email, Password: password}, &s, false); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &s, nil
}

// Register creates an account. It does not log the account in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/register", req, nil, false); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// --- Destinations ---

// ListDestinations fetches the whole destination catalog.
func (c *Client) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	if err := c.get(ctx, "/api/destinasi", &out); err != nil {
		return nil, fmt.Errorf("client.ListDestinations: %w", err)
	}
	return out, nil
}

// GetDestination fetches a single destination by ID.
func (c *Client) GetDestination(ctx context.Context, id int) (*domain.Destination, error) {
	var d domain.Destination
	if err := c.get(ctx, "/api/destinasi/"+strconv.Itoa(id), &d); err != nil {
		return nil, fmt.Errorf("client.GetDestination: %w", err)
	}
	return &d, nil
}

// CreateDestination creates a destination.
func (c *Client) CreateDestination(ctx context.Context, d domain.Destination) (*domain.Destination, error) {
	var created domain.Destination
	if err := c.doRequest(ctx, http.MethodPost, "/api/destinasi", d, &created, true); err != nil {
		return nil, fmt.Errorf("client.CreateDestination: %w", err)
	}
	return &created, nil
}

// UpdateDestination replaces a destination.
func (c *Client) UpdateDestination(ctx context.Context, id int, d domain.Destination) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/destinasi/"+strconv.Itoa(id), d, nil, true); err != nil {
		return fmt.Errorf("client.UpdateDestination: %w", err)
	}
	return nil
}

// DeleteDestination deletes a destination.
func (c *Client) DeleteDestination(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/destinasi/"+strconv.Itoa(id), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteDestination: %w", err)
	}
	return nil
}

// --- Categories ---

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, "/api/kategori", &out); err != nil {
		return nil, fmt.Errorf("client.ListCategories: %w", err)
	}
	return out, nil
}

// GetCategory fetches a single category by ID.
func (c *Client) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	var cat domain.Category
	if err := c.get(ctx, "/api/kategori/"+strconv.Itoa(id), &cat); err != nil {
		return nil, fmt.Errorf("client.GetCategory: %w", err)
	}
	return &cat, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, cat domain.Category) (*domain.Category, error) {
	var created domain.Category
	if err := c.doRequest(ctx, http.MethodPost, "/api/kategori", cat, &created, true); err != nil {
		return nil, fmt.Errorf("client.CreateCategory: %w", err)
	}
	return &created, nil
}

// UpdateCategory patches a category.
func (c *Client) UpdateCategory(ctx context.Context, id int, cat domain.Category) error {
	if err := c.doRequest(ctx, http.MethodPatch, "/api/kategori/"+strconv.Itoa(id), cat, nil, true); err != nil {
		return fmt.Errorf("client.UpdateCategory: %w", err)
	}
	return nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/kategori/"+strconv.Itoa(id), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteCategory: %w", err)
	}
	return nil
}

// --- Images ---

// ListImages fetches every gallery image.
func (c *Client) ListImages(ctx context.Context) ([]domain.Image, error) {
	var out []domain.Image
	if err := c.get(ctx, "/api/gambar", &out); err != nil {
		return nil, fmt.Errorf("client.ListImages: %w", err)
	}
	return out, nil
}

// ListDestinationImages fetches the gallery of one destination.
func (c *Client) ListDestinationImages(ctx context.Context, destinationID int) ([]domain.Image, error) {
	var out []domain.Image
	if err := c.get(ctx, "/api/gambar/destinasi/"+strconv.Itoa(destinationID), &out); err != nil {
		return nil, fmt.Errorf("client.ListDestinationImages: %w", err)
	}
	return out, nil
}

// CreateImage attaches an image URL to a destination.
func (c *Client) CreateImage(ctx context.Context, img domain.Image) (*domain.Image, error) {
	var created domain.Image
	if err := c.doRequest(ctx, http.MethodPost, "/api/gambar", img, &created, true); err != nil {
		return nil, fmt.Errorf("client.CreateImage: %w", err)
	}
	return &created, nil
}

// DeleteImage deletes an image.
func (c *Client) DeleteImage(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/gambar/"+strconv.Itoa(id), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteImage: %w", err)
	}
	return nil
}

// --- Reviews ---

// ListReviews fetches every review.
func (c *Client) ListReviews(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.get(ctx, "/api/ulasan", &out); err != nil {
		return nil, fmt.Errorf("client.ListReviews: %w", err)
	}
	return out, nil
}

// ListDestinationReviews fetches the reviews of one destination.
func (c *Client) ListDestinationReviews(ctx context.Context, destinationID int) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.get(ctx, "/api/ulasan/destinasi/"+strconv.Itoa(destinationID), &out); err != nil {
		return nil, fmt.Errorf("client.ListDestinationReviews: %w", err)
	}
	return out, nil
}

// ListUserReviews fetches the reviews written by a user.
func (c *Client) ListUserReviews(ctx context.Context, userID int) ([]domain.Review, error) {
	var out []domain.Review
	if err := c.doRequest(ctx, http.MethodGet, "/api/ulasan/pengguna/"+strconv.Itoa(userID), nil, &out, true); err != nil {
		return nil, fmt.Errorf("client.ListUserReviews: %w", err)
	}
	return out, nil
}

// RatingStats fetches the backend's per-destination rating statistics.
func (c *Client) RatingStats(ctx context.Context) ([]domain.RatingStat, error) {
	var out []domain.RatingStat
	if err := c.get(ctx, "/api/ulasan/statistik/rating", &out); err != nil {
		return nil, fmt.Errorf("client.RatingStats: %w", err)
	}
	return out, nil
}

// CreateReview posts a review.
func (c *Client) CreateReview(ctx context.Context, req ReviewRequest) (*domain.Review, error) {
	var created domain.Review
	if err := c.doRequest(ctx, http.MethodPost, "/api/ulasan", req, &created, true); err != nil {
		return nil, fmt.Errorf("client.CreateReview: %w", err)
	}
	return &created, nil
}

// DeleteReview deletes a review.
func (c *Client) DeleteReview(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/ulasan/"+strconv.Itoa(id), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteReview: %w", err)
	}
	return nil
}

// --- Favorites ---

// ListUserFavorites fetches every favorite of a user.
func (c *Client) ListUserFavorites(ctx context.Context, userID int) ([]domain.Favorite, error) {
	var out []domain.Favorite
	if err := c.doRequest(ctx, http.MethodGet, "/api/favorit/pengguna/"+strconv.Itoa(userID), nil, &out, true); err != nil {
		return nil, fmt.Errorf("client.ListUserFavorites: %w", err)
	}
	return out, nil
}

// CreateFavorite bookmarks a destination for a user.
func (c *Client) CreateFavorite(ctx context.Context, req FavoriteRequest) (*domain.Favorite, error) {
	var created domain.Favorite
	if err := c.doRequest(ctx, http.MethodPost, "/api/favorit", req, &created, true); err != nil {
		return nil, fmt.Errorf("client.CreateFavorite: %w", err)
	}
	return &created, nil
}

// DeleteFavorite removes a favorite record.
func (c *Client) DeleteFavorite(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/favorit/"+strconv.Itoa(id), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteFavorite: %w", err)
	}
	return nil
}

// --- Users ---

// ListUsers fetches every account.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/pengguna", nil, &out, true); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return out, nil
}

// GetUser fetches a single account.
func (c *Client) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/pengguna/"+strconv.Itoa(id), nil, &u, true); err != nil {
		return nil, fmt.Errorf("client.GetUser: %w", err)
	}
	return &u, nil
}

// UpdateUser patches an account and returns the backend's copy.
func (c *Client) UpdateUser(ctx context.Context, id int, patch UserPatch) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodPatch, "/api/pengguna/"+strconv.Itoa(id), patch, &u, true); err != nil {
		return nil, fmt.Errorf("client.UpdateUser: %w", err)
	}
	return &u, nil
}

// DeleteUser deletes an account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/pengguna/"+strconv.Itoa(id), nil, nil, true); err != nil {
		return fmt.Errorf("client.DeleteUser: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out, false)
}

// doRequest performs one API call. When auth is set and no token is
// available it fails with ErrLoginRequired before building the request.
// Public calls still carry the token when there is one.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any, auth bool) error {
	token := c.tokens.Token()
	if auth && token == "" {
		return ErrLoginRequired
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("request_id", reqID).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
