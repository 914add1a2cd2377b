// Package catalog joins destinations with their ratings, reviews, images
// and favorites for the browsing and back office screens.
package catalog

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// ErrNotFound is returned when a destination does not exist.
var ErrNotFound = errors.New("destinasi tidak ditemukan")

// fanOutLimit bounds the per-destination review requests of the fallback path.
const fanOutLimit = 8

// API is the part of the REST client the catalog reads from.
type API interface {
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	GetDestination(ctx context.Context, id int) (*domain.Destination, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListImages(ctx context.Context) ([]domain.Image, error)
	ListDestinationImages(ctx context.Context, destinationID int) ([]domain.Image, error)
	ListReviews(ctx context.Context) ([]domain.Review, error)
	ListDestinationReviews(ctx context.Context, destinationID int) ([]domain.Review, error)
	ListUserReviews(ctx context.Context, userID int) ([]domain.Review, error)
	RatingStats(ctx context.Context) ([]domain.RatingStat, error)
	ListUserFavorites(ctx context.Context, userID int) ([]domain.Favorite, error)
	CreateFavorite(ctx context.Context, req client.FavoriteRequest) (*domain.Favorite, error)
	DeleteFavorite(ctx context.Context, id int) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Service builds the aggregated views.
type Service struct {
	api API
	log zerolog.Logger
}

// New returns a Service reading from api.
func New(api API, log zerolog.Logger) *Service {
	return &Service{api: api, log: log.With().Str("component", "catalog").Logger()}
}

// Listing is one row of the home page.
type Listing struct {
	Destination  domain.Destination
	CategoryName string
	Rating       Rating
}

// Listing returns every destination with its rating and category name.
// Only a failure to list destinations is an error.
func (s *Service) Listing(ctx context.Context) ([]Listing, error) {
	var (
		dests      []domain.Destination
		categories []domain.Category
		reviews    []domain.Review
		batchErr   error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dests, err = s.api.ListDestinations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		if categories, err = s.api.ListCategories(gctx); err != nil {
			s.log.Warn().Err(err).Msg("categories unavailable for listing")
		}
		return nil
	})
	g.Go(func() error {
		reviews, batchErr = s.api.ListReviews(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ratings map[int]Rating
	if batchErr == nil {
		ratings = Summarize(reviews)
	} else {
		s.log.Warn().Err(batchErr).Msg("review batch failed, fetching per destination")
		ratings = s.fanOut(ctx, dests)
	}

	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	out := make([]Listing, len(dests))
	for i, d := range dests {
		name := d.CategoryName()
		if n, ok := names[d.CategoryID]; ok {
			name = n
		}
		out[i] = Listing{Destination: d, CategoryName: name, Rating: ratings[d.ID]}
	}
	return out, nil
}

// fanOut fetches each destination's reviews concurrently. A failed item keeps a zero rating.
func (s *Service) fanOut(ctx context.Context, dests []domain.Destination) map[int]Rating {
	var (
		mu  sync.Mutex
		out = make(map[int]Rating, len(dests))
		g   errgroup.Group
	)
	g.SetLimit(fanOutLimit)
	for _, d := range dests {
		d := d
		g.Go(func() error {
			reviews, err := s.api.ListDestinationReviews(ctx, d.ID)
			if err != nil {
				s.log.Debug().Err(err).Int("destination", d.ID).Msg("reviews unavailable")
				return nil
			}
			r := RatingOf(reviews)
			mu.Lock()
			out[d.ID] = r
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never fail
	return out
}

// Filter keeps listings in categoryID (0 means all) whose name or location
// contains query, ignoring case.
func Filter(list []Listing, query string, categoryID int) []Listing {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Listing
	for _, l := range list {
		if categoryID != 0 && l.Destination.CategoryID != categoryID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(l.Destination.Name), q) &&
			!strings.Contains(strings.ToLower(l.Destination.Location), q) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Detail is everything the destination page shows.
type Detail struct {
	Destination domain.Destination
	Reviews     []domain.Review
	Images      []domain.Image
	Rating      Rating
	Favorite    FavoriteState
}

// Detail loads one destination. With a session the favorite state is
// resolved, otherwise it stays FavoriteUnknown.
func (s *Service) Detail(ctx context.Context, id int, sess *domain.Session) (*Detail, error) {
	var (
		dest    *domain.Destination
		reviews []domain.Review
		images  []domain.Image
		state   = FavoriteUnknown
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dest, err = s.api.GetDestination(gctx, id)
		if client.IsStatus(err, http.StatusNotFound) {
			return ErrNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		if reviews, err = s.api.ListDestinationReviews(gctx, id); err != nil {
			s.log.Warn().Err(err).Int("destination", id).Msg("reviews unavailable")
			reviews = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if images, err = s.api.ListDestinationImages(gctx, id); err != nil {
			s.log.Warn().Err(err).Int("destination", id).Msg("images unavailable")
			images = nil
		}
		return nil
	})
	if sess.Valid() {
		g.Go(func() error {
			st, _, err := s.FavoriteOf(gctx, sess.ID, id)
			if err != nil {
				s.log.Warn().Err(err).Int("destination", id).Msg("favorite state unavailable")
				return nil
			}
			state = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return &Detail{
		Destination: *dest,
		Reviews:     reviews,
		Images:      images,
		Rating:      RatingOf(reviews),
		Favorite:    state,
	}, nil
}

// Activity is a user's own favorites and reviews.
type Activity struct {
	Favorites []domain.Favorite
	Reviews   []domain.Review
	names     map[int]string
}

// DestinationName resolves a destination id to a display name.
func (a *Activity) DestinationName(id int) string {
	if n, ok := a.names[id]; ok {
		return n
	}
	return "#" + strconv.Itoa(id)
}

// Activity loads the favorites and reviews of userID.
func (s *Service) Activity(ctx context.Context, userID int) (*Activity, error) {
	a := &Activity{names: map[int]string{}}
	var dests []domain.Destination
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a.Favorites, err = s.api.ListUserFavorites(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		a.Reviews, err = s.api.ListUserReviews(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		if dests, err = s.api.ListDestinations(gctx); err != nil {
			s.log.Debug().Err(err).Msg("destination names unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, f := range a.Favorites {
		if f.Destination != nil && f.Destination.Name != "" {
			a.names[f.DestinationID] = f.Destination.Name
		}
	}
	for _, r := range a.Reviews {
		if r.Destination != nil && r.Destination.Name != "" {
			a.names[r.DestinationID] = r.Destination.Name
		}
	}
	for _, d := range dests {
		a.names[d.ID] = d.Name
	}
	return a, nil
}

// Dashboard is the admin summary. Missing names the sections whose
// request failed; their counts are zero.
type Dashboard struct {
	Destinations int
	Categories   int
	Images       int
	Reviews      int
	Users        int
	Stats        []domain.RatingStat
	Missing      []string
}

// Dashboard counts every entity and loads the per-destination rating stats.
// A failing section is zeroed and listed in Missing. Auth failures, or every
// section failing, fail the whole call.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var (
		g        errgroup.Group
		mu       sync.Mutex
		firstErr error
		failed   int
		total    int
	)
	section := func(name string, load func(context.Context) error) {
		total++
		g.Go(func() error {
			err := load(ctx)
			if err == nil {
				return nil
			}
			switch client.Classify(err) {
			case client.KindLoginRequired, client.KindUnauthorized, client.KindForbidden:
				return err
			}
			s.log.Warn().Err(err).Str("section", name).Msg("dashboard section failed")
			mu.Lock()
			defer mu.Unlock()
			d.Missing = append(d.Missing, name)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			return nil
		})
	}
	count := func(name string, dst *int, list func(context.Context) (int, error)) {
		section(name, func(ctx context.Context) error {
			n, err := list(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count("destinasi", &d.Destinations, func(ctx context.Context) (int, error) {
		v, err := s.api.ListDestinations(ctx)
		return len(v), err
	})
	count("kategori", &d.Categories, func(ctx context.Context) (int, error) {
		v, err := s.api.ListCategories(ctx)
		return len(v), err
	})
	count("gambar", &d.Images, func(ctx context.Context) (int, error) {
		v, err := s.api.ListImages(ctx)
		return len(v), err
	})
	count("ulasan", &d.Reviews, func(ctx context.Context) (int, error) {
		v, err := s.api.ListReviews(ctx)
		return len(v), err
	})
	count("pengguna", &d.Users, func(ctx context.Context) (int, error) {
		v, err := s.api.ListUsers(ctx)
		return len(v), err
	})
	section("statistik", func(ctx context.Context) error {
		stats, err := s.api.RatingStats(ctx)
		if err != nil {
			return err
		}
		d.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if failed == total {
		return nil, firstErr
	}
	sort.Strings(d.Missing)
	sort.SliceStable(d.Stats, func(i, j int) bool { return d.Stats[i].Average > d.Stats[j].Average })
	return d, nil
}
