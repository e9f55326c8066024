package feed

import (
	"context"
	"errors"
)

// Document is one raw record from the hosted document store.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Query selects a collection and an optional ordering.
type Query struct {
	Collection string
	OrderBy    string // also drops documents that lack the field, as Firestore does
	Descending bool
	Limit      int
}

// SnapshotFunc receives the full current result set of a query on every change.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives a terminal subscription error.
type ErrorFunc func(err error)

// Unsubscribe tears down a subscription. It is safe to call more than once.
type Unsubscribe func()

// Source is the real-time document feed the listing core reads from.
type Source interface {
	// Subscribe delivers the query result to onSnapshot now and after every change
	// until the returned Unsubscribe is called or onError fires.
	Subscribe(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error)
	// Documents runs q once.
	Documents(ctx context.Context, q Query) ([]Document, error)
}

var ErrCollectionRequired = errors.New("Collection name is required")

var ErrDocumentNotFound = errors.New("Document not found")

// Writer merges fields into an existing document.
type Writer interface {
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
}
