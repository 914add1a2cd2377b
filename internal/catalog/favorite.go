package catalog

import (
	"context"

	"github.com/naveenspark/wisata/pkg/client"
	"github.com/naveenspark/wisata/pkg/domain"
)

// FavoriteState is what the detail page knows about a favorite.
type FavoriteState int

const (
	// FavoriteUnknown means no session, so membership was not checked.
	FavoriteUnknown FavoriteState = iota
	NotFavorite
	Favorite
)

func (f FavoriteState) String() string {
	switch f {
	case NotFavorite:
		return "bukan favorit"
	case Favorite:
		return "favorit"
	default:
		return "tidak diketahui"
	}
}

// FavoriteOf scans the user's favorites for destinationID and returns the
// record id when present.
func (s *Service) FavoriteOf(ctx context.Context, userID, destinationID int) (FavoriteState, int, error) {
	favs, err := s.api.ListUserFavorites(ctx, userID)
	if err != nil {
		return FavoriteUnknown, 0, err
	}
	if f, ok := findFavorite(favs, destinationID); ok {
		return Favorite, f.ID, nil
	}
	return NotFavorite, 0, nil
}

// Toggle flips the favorite state of destinationID for userID. The
// returned state only differs from current when the request succeeded.
func (s *Service) Toggle(ctx context.Context, userID, destinationID int, current FavoriteState) (FavoriteState, error) {
	if userID <= 0 || current == FavoriteUnknown {
		return current, client.ErrLoginRequired
	}
	switch current {
	case Favorite:
		state, id, err := s.FavoriteOf(ctx, userID, destinationID)
		if err != nil {
			return current, err
		}
		if state == NotFavorite {
			// removed elsewhere already
			return NotFavorite, nil
		}
		if err := s.api.DeleteFavorite(ctx, id); err != nil {
			return current, err
		}
		s.log.Info().Int("destination", destinationID).Msg("favorite removed")
		return NotFavorite, nil
	default:
		req := client.FavoriteRequest{DestinationID: destinationID, UserID: userID}
		if _, err := s.api.CreateFavorite(ctx, req); err != nil {
			return current, err
		}
		s.log.Info().Int("destination", destinationID).Msg("favorite added")
		return Favorite, nil
	}
}

func findFavorite(favs []domain.Favorite, destinationID int) (domain.Favorite, bool) {
	for _, f := range favs {
		if f.DestinationID == destinationID {
			return f, true
		}
	}
	return domain.Favorite{}, false
}
