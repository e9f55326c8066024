package listings

import (
	"context"
	"fmt"

	"vinemarket-backend/internal/application/feed"
)

// DocumentFavorites reads users/{uid}/favorites. Each document names a listing
// either through a listingId field or by its own id.
type DocumentFavorites struct {
	Source feed.Source
}

func (f *DocumentFavorites) Favorites(ctx context.Context, userID string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if userID == "" {
		return out, nil
	}
	docs, err := f.Source.Documents(ctx, feed.Query{Collection: FavoritesCollection(userID)})
	if err != nil {
		return nil, fmt.Errorf("favorites for %s: %w", userID, err)
	}
	for _, d := range docs {
		id := feed.String(d.Data["listingId"])
		if id == "" {
			id = d.ID
		}
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

// FavoritesCollection is the path of a user's favorites subcollection.
func FavoritesCollection(userID string) string {
	return "users/" + userID + "/favorites"
}
