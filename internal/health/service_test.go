package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vinemarket-backend/internal/application/listings"
	"vinemarket-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping() error { return f.err }

type fakeStore struct{ err error }

func (f fakeStore) Ping(ctx context.Context, collection string) error { return f.err }

type fakeCatalog struct{ snap listings.Snapshot }

func (f fakeCatalog) Snapshot() listings.Snapshot { return f.snap }

func newRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb
}

func TestCollectHealth_WithNilRedis(t *testing.T) {
	result := (&Checker{}).CollectHealth(context.Background())
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["firestore"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.NotContains(t, result.Dependencies, "resizeProxy")
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	ch := &Checker{Rdb: rdb}

	result := ch.CollectHealth(ctx)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Equal(t, "100", result.Traffic.SuccessRate)

	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_time_total", "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:res_count", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:global:start_time", "1000000", 0).Err())

	result2 := ch.CollectHealth(ctx)
	assert.Equal(t, 10, result2.Traffic.TotalRequests)
	assert.Equal(t, 2, result2.Traffic.FailedCount)
	assert.Equal(t, 8, result2.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result2.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result2.Traffic.AvgResponseTime)
}

func TestCollectHealth_FailingDependencies(t *testing.T) {
	rdb := newRedis(t)
	ch := &Checker{Rdb: rdb, DB: fakePinger{err: errors.New("down")}, Store: fakeStore{}}

	result := ch.CollectHealth(context.Background())
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
	assert.Equal(t, "connected", result.Dependencies["firestore"].Status)
}

func TestCollectHealth_Feed(t *testing.T) {
	rdb := newRedis(t)

	notReady := (&Checker{Rdb: rdb, Catalog: fakeCatalog{}}).CollectHealth(context.Background())
	assert.Equal(t, "issue", notReady.Status)
	assert.False(t, notReady.Feed.Ready)

	failed := (&Checker{Rdb: rdb, Catalog: fakeCatalog{snap: listings.Snapshot{Ready: true, Err: errors.New("permission denied")}}}).
		CollectHealth(context.Background())
	assert.Equal(t, "issue", failed.Status)
	assert.Equal(t, "permission denied", failed.Feed.Error)

	live := (&Checker{Rdb: rdb, Catalog: fakeCatalog{snap: listings.Snapshot{Ready: true, Listings: []domain.Listing{{ID: "a"}, {ID: "b"}}}}}).
		CollectHealth(context.Background())
	assert.Equal(t, "ok", live.Status)
	assert.Equal(t, 2, live.Feed.Listings)
}

func TestCollectHealth_ResizeProxy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := (&Checker{ProxyURL: srv.URL}).CollectHealth(context.Background())
	assert.Equal(t, "reachable", result.Dependencies["resizeProxy"].Status)

	result = (&Checker{ProxyURL: "http://127.0.0.1:1"}).CollectHealth(context.Background())
	assert.Equal(t, "unreachable", result.Dependencies["resizeProxy"].Status)
}

func TestCollectHealth_ConfiguredRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	result := (&Checker{Rdb: rdb}).CollectHealth(context.Background())
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "error", result.Dependencies["redis"].Status)
}
