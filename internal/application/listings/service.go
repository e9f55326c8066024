package listings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vinemarket-backend/internal/domain"
)

var (
	ErrListingNotFound  = errors.New("Listing not found")
	ErrListingIDMissing = errors.New("listing id is required")
)

// FavoritesSource returns the listing ids a user has marked as favorite.
type FavoritesSource interface {
	Favorites(ctx context.Context, userID string) (map[string]struct{}, error)
}

type Service struct {
	Catalog   *Catalog
	Favorites FavoritesSource
	TTL       time.Duration
	Now       func() time.Time
}

// BrowseResult is one derivation of the visible listing set.
type BrowseResult struct {
	Listings []domain.Listing
	Meta     PageMeta
	// FeedErr is set when the feed subscription failed; Listings is then empty.
	FeedErr error
}

// Browse derives the visible, ordered listings for state and returns the requested page.
func (s *Service) Browse(ctx context.Context, state FilterState, page, limit int) (*BrowseResult, error) {
	snap := s.Catalog.Snapshot()
	if snap.Err != nil {
		items, meta := Paginate(nil, page, limit)
		return &BrowseResult{Listings: items, Meta: meta, FeedErr: snap.Err}, nil
	}

	if state.FavoritesOnly && state.UserID != "" && s.Favorites != nil {
		favs, err := s.Favorites.Favorites(ctx, state.UserID)
		if err != nil {
			return nil, fmt.Errorf("Failed to load favorites: %w", err)
		}
		state.Favorites = favs
	}

	visible := DeriveVisibleListings(snap.Listings, state)
	items, meta := Paginate(visible, page, limit)
	return &BrowseResult{Listings: items, Meta: meta}, nil
}

// Get returns one listing from the current snapshot.
func (s *Service) Get(ctx context.Context, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, ErrListingIDMissing
	}
	snap := s.Catalog.Snapshot()
	for i := range snap.Listings {
		if snap.Listings[i].ID == id {
			l := snap.Listings[i]
			return &l, nil
		}
	}
	return nil, ErrListingNotFound
}

// Lifetime returns the configured listing TTL.
func (s *Service) Lifetime() time.Duration {
	if s.TTL <= 0 {
		return domain.DefaultListingTTL
	}
	return s.TTL
}

// Clock returns the service's notion of now.
func (s *Service) Clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
