package images

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const loadedKey = "images:loaded"

var ErrURLRequired = errors.New("url is required")

// LoadedSet remembers URLs that have loaded successfully at least once, so
// clients can skip the blur placeholder for them.
type LoadedSet interface {
	MarkLoaded(ctx context.Context, url string) error
	Loaded(ctx context.Context, urls ...string) (map[string]bool, error)
}

// RedisLoadedSet keeps the set in one Redis SET shared by all instances.
type RedisLoadedSet struct {
	Rdb *redis.Client
	Key string
	// TTL, when set, is refreshed on every MarkLoaded.
	TTL time.Duration
}

func (s *RedisLoadedSet) key() string {
	if s.Key == "" {
		return loadedKey
	}
	return s.Key
}

func (s *RedisLoadedSet) MarkLoaded(ctx context.Context, url string) error {
	if url == "" {
		return ErrURLRequired
	}
	pipe := s.Rdb.TxPipeline()
	pipe.SAdd(ctx, s.key(), url)
	if s.TTL > 0 {
		pipe.Expire(ctx, s.key(), s.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisLoadedSet) Loaded(ctx context.Context, urls ...string) (map[string]bool, error) {
	out := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return out, nil
	}
	members := make([]interface{}, len(urls))
	for i, u := range urls {
		members[i] = u
	}
	hits, err := s.Rdb.SMIsMember(ctx, s.key(), members...).Result()
	if err != nil {
		return nil, err
	}
	for i, u := range urls {
		out[u] = i < len(hits) && hits[i]
	}
	return out, nil
}

// MemoryLoadedSet is a process-local LoadedSet.
type MemoryLoadedSet struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

func NewMemoryLoadedSet() *MemoryLoadedSet {
	return &MemoryLoadedSet{urls: make(map[string]struct{})}
}

func (s *MemoryLoadedSet) MarkLoaded(ctx context.Context, url string) error {
	if url == "" {
		return ErrURLRequired
	}
	s.mu.Lock()
	s.urls[url] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *MemoryLoadedSet) Loaded(ctx context.Context, urls ...string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		_, ok := s.urls[u]
		out[u] = ok
	}
	return out, nil
}
