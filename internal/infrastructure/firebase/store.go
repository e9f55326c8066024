package firebase

import (
	"context"
	"errors"
	"time"

	"vinemarket-backend/internal/application/feed"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Update merges fields into collection/id. updatedAt is stamped server-side
// unless the caller sets it.
func (f *Feed) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if collection == "" {
		return feed.ErrCollectionRequired
	}
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, ok := fields["updatedAt"]; !ok {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	}
	col := f.Client.Collection(collection)
	if col == nil {
		return feed.ErrCollectionRequired
	}
	_, err := col.Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return feed.ErrDocumentNotFound
	}
	return err
}

// Ping runs a one-document read against collection.
func (f *Feed) Ping(ctx context.Context, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	iter := f.Client.Collection(collection).Limit(1).Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}
