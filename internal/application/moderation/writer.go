package moderation

import (
	"context"
	"errors"

	"vinemarket-backend/internal/application/feed"
	"vinemarket-backend/internal/domain"
)

// DocumentWriter applies listing changes as field updates on the listing documents.
type DocumentWriter struct {
	Store      feed.Writer
	Collection string
}

func (w *DocumentWriter) SetHidden(ctx context.Context, listingID string, hidden bool) error {
	return w.update(ctx, listingID, map[string]interface{}{"hidden": hidden})
}

func (w *DocumentWriter) SetStatus(ctx context.Context, listingID string, status domain.Status) error {
	return w.update(ctx, listingID, map[string]interface{}{"status": string(status)})
}

func (w *DocumentWriter) SetFeatured(ctx context.Context, listingID string, featured bool) error {
	return w.update(ctx, listingID, map[string]interface{}{"featured": featured})
}

func (w *DocumentWriter) update(ctx context.Context, listingID string, fields map[string]interface{}) error {
	err := w.Store.Update(ctx, w.Collection, listingID, fields)
	if errors.Is(err, feed.ErrDocumentNotFound) {
		return ErrListingNotFound
	}
	return err
}
