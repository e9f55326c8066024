package firebase

import (
	"context"
	"errors"
	"fmt"

	"vinemarket-backend/internal/application/feed"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Feed implements feed.Source on top of Firestore queries and snapshot listeners.
type Feed struct {
	Client *firestore.Client
}

func (f *Feed) query(q feed.Query) (firestore.Query, error) {
	if q.Collection == "" {
		return firestore.Query{}, feed.ErrCollectionRequired
	}
	// nil for paths with an even number of segments
	col := f.Client.Collection(q.Collection)
	if col == nil {
		return firestore.Query{}, fmt.Errorf("invalid collection path %q", q.Collection)
	}
	fq := col.Query
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq, nil
}

// Documents runs q once.
func (f *Feed) Documents(ctx context.Context, q feed.Query) ([]feed.Document, error) {
	fq, err := f.query(q)
	if err != nil {
		return nil, err
	}
	iter := fq.Documents(ctx)
	defer iter.Stop()

	var out []feed.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, toDocument(snap))
	}
	return out, nil
}

// Subscribe attaches a snapshot listener for q. Every snapshot delivers the
// whole result set. The listener runs until the returned Unsubscribe is called
// or a non-cancellation error arrives, in which case onError fires once.
func (f *Feed) Subscribe(ctx context.Context, q feed.Query, onSnapshot feed.SnapshotFunc, onError feed.ErrorFunc) (feed.Unsubscribe, error) {
	fq, err := f.query(q)
	if err != nil {
		return nil, err
	}
	lctx, cancel := context.WithCancel(ctx)
	it := fq.Snapshots(lctx)

	go func() {
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if lctx.Err() != nil || status.Code(err) == codes.Canceled {
					log.Debug().Str("collection", q.Collection).Msg("Snapshot listener stopped")
					return
				}
				onError(err)
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				onError(err)
				return
			}
			out := make([]feed.Document, 0, len(docs))
			for _, d := range docs {
				out = append(out, toDocument(d))
			}
			onSnapshot(out)
		}
	}()

	return feed.Unsubscribe(cancel), nil
}

func toDocument(snap *firestore.DocumentSnapshot) feed.Document {
	return feed.Document{ID: snap.Ref.ID, Data: snap.Data()}
}
