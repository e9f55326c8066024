package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"vinemarket-backend/internal/application/listings"
	"vinemarket-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// StorePinger checks the hosted document store.
type StorePinger interface {
	Ping(ctx context.Context, collection string) error
}

// CatalogState exposes the live listing projection.
type CatalogState interface {
	Snapshot() listings.Snapshot
}

// Checker gathers dependency and traffic state. Every dependency is optional.
type Checker struct {
	Rdb        *redis.Client
	DB         DBPinger
	Store      StorePinger
	Collection string
	Catalog    CatalogState
	// ProxyURL is pinged over HTTP when set.
	ProxyURL string
	Client   *http.Client
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Feed         FeedInfo             `json:"feed"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	Alloc    int `json:"alloc"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

// FeedInfo describes the listing subscription.
type FeedInfo struct {
	Ready     bool       `json:"ready"`
	Listings  int        `json:"listings"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// CollectHealth reports "ok" only when Redis is connected, no configured
// dependency is failing, and the listing feed has delivered without error.
func (ch *Checker) CollectHealth(ctx context.Context) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}
	healthy := true

	dbStatus, dbPing := "disconnected", (*int64)(nil)
	if ch.DB != nil {
		dbStatus, dbPing = timed(func() error { return ch.DB.Ping() })
		healthy = healthy && dbStatus == "connected"
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPing}

	storeStatus, storePing := "disconnected", (*int64)(nil)
	if ch.Store != nil {
		storeStatus, storePing = timed(func() error { return ch.Store.Ping(ctx, ch.Collection) })
		healthy = healthy && storeStatus == "connected"
	}
	result.Dependencies["firestore"] = DepStatus{Status: storeStatus, PingMs: storePing}

	startTimeMs := time.Now().UnixMilli()
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	redisStatus, redisPing := "disconnected", (*int64)(nil)
	if ch.Rdb != nil {
		redisStatus, redisPing = timed(func() error { return ch.Rdb.Ping(ctx).Err() })
		if redisStatus == "connected" {
			startTimeMs = ch.traffic(ctx, &stats, startTimeMs)
		}
		healthy = healthy && redisStatus == "connected"
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPing}
	result.Traffic = stats

	if ch.ProxyURL != "" {
		ping := ch.httpPing(ctx, ch.ProxyURL)
		st := "unreachable"
		if ping != nil {
			st = "reachable"
		}
		result.Dependencies["resizeProxy"] = DepStatus{Status: st, PingMs: ping}
	}

	if ch.Catalog != nil {
		snap := ch.Catalog.Snapshot()
		result.Feed = FeedInfo{Ready: snap.Ready, Listings: len(snap.Listings)}
		if !snap.UpdatedAt.IsZero() {
			at := snap.UpdatedAt
			result.Feed.UpdatedAt = &at
		}
		if snap.Err != nil {
			result.Feed.Error = snap.Err.Error()
		}
		healthy = healthy && snap.Ready && snap.Err == nil
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{Alloc: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	result.Status = "issue"
	if healthy {
		result.Status = "ok"
	}
	return result
}

// traffic fills stats from the counters HealthMarker maintains and returns the
// recorded start time, seeding it on first use.
func (ch *Checker) traffic(ctx context.Context, stats *TrafficInfo, now int64) int64 {
	vals, err := ch.Rdb.MGet(ctx,
		middleware.KeyReqTotal,
		middleware.KeyReqErrors,
		middleware.KeyResTime,
		middleware.KeyResCount,
		middleware.KeyStartTime,
		middleware.KeyLastReq,
	).Result()
	if err != nil || len(vals) != 6 {
		return now
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	startTimeMs := now
	if t, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		startTimeMs = t
	} else {
		ch.Rdb.Set(ctx, middleware.KeyStartTime, now, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	countSum, _ := strconv.Atoi(str(3))
	if countSum > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		var lastReq map[string]interface{}
		_ = json.Unmarshal([]byte(s), &lastReq)
		stats.LastRequest = lastReq
	}
	return startTimeMs
}

func timed(ping func() error) (string, *int64) {
	start := time.Now()
	if err := ping(); err != nil {
		return "error", nil
	}
	ms := time.Since(start).Milliseconds()
	return "connected", &ms
}

func (ch *Checker) httpPing(ctx context.Context, url string) *int64 {
	client := ch.Client
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	ms := time.Since(start).Milliseconds()
	return &ms
}
