package listings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"vinemarket-backend/internal/application/feed"
	"vinemarket-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

var ErrAlreadySubscribed = errors.New("Catalog is already subscribed")

// Snapshot is the catalog's current projection of the feed.
type Snapshot struct {
	Listings  []domain.Listing
	Err       error
	Ready     bool
	UpdatedAt time.Time
}

// Catalog keeps a normalized, newest-first copy of one listing collection.
// It holds at most one subscription; Start acquires it and Stop releases it.
// Snapshots are immutable and swapped whole, so readers never lock.
type Catalog struct {
	Source        feed.Source
	Query         feed.Query
	Normalizer    Normalizer
	IncludeHidden bool

	mu     sync.Mutex
	active bool
	unsub  feed.Unsubscribe
	gen    uint64
	state  atomic.Pointer[Snapshot]
}

// Start subscribes to the feed. Calling Start on a subscribed catalog returns
// ErrAlreadySubscribed.
func (c *Catalog) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return ErrAlreadySubscribed
	}
	c.active = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	// the source may deliver the first snapshot before Subscribe returns
	unsub, err := c.Source.Subscribe(ctx, c.Query,
		func(docs []feed.Document) { c.apply(gen, docs) },
		func(err error) { c.fail(gen, err) },
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if gen == c.gen {
			c.active = false
		}
		return err
	}
	if gen != c.gen || !c.active {
		// stopped or failed while subscribing
		unsub()
		return nil
	}
	c.unsub = unsub
	log.Info().Str("collection", c.Query.Collection).Bool("include_hidden", c.IncludeHidden).Msg("Listing feed subscribed")
	return nil
}

// Stop releases the subscription. It is safe to call on a stopped catalog.
func (c *Catalog) Stop() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.active = false
	c.gen++
	c.mu.Unlock()
	if unsub != nil {
		unsub()
		log.Info().Str("collection", c.Query.Collection).Msg("Listing feed unsubscribed")
	}
}

// Snapshot returns the latest projection. Before the first delivery it is empty and not ready.
func (c *Catalog) Snapshot() Snapshot {
	if s := c.state.Load(); s != nil {
		return *s
	}
	return Snapshot{Listings: []domain.Listing{}}
}

func (c *Catalog) apply(gen uint64, docs []feed.Document) {
	if !c.current(gen) {
		return
	}
	c.state.Store(&Snapshot{
		Listings:  c.Normalizer.NormalizeAll(docs, c.IncludeHidden),
		Ready:     true,
		UpdatedAt: time.Now(),
	})
}

func (c *Catalog) fail(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	// the source ended this subscription; a later Start may open a new one
	c.active = false
	c.unsub = nil
	c.mu.Unlock()

	log.Error().Err(err).Str("collection", c.Query.Collection).Msg("Listing feed subscription failed")
	c.state.Store(&Snapshot{
		Listings:  []domain.Listing{},
		Err:       err,
		Ready:     true,
		UpdatedAt: time.Now(),
	})
}

func (c *Catalog) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}
