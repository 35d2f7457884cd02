package core

import (
	"context"
	"sync"
	"time"
)

type FeedID string

const (
	FeedPrices  FeedID = "prices"
	FeedOrders  FeedID = "orders"
	FeedTank    FeedID = "tank"
	FeedWeather FeedID = "weather"
	FeedSummary FeedID = "summary"
)

// FeedData is the union payload carried by a snapshot; only the fields for
// the snapshot's feed are populated.
type FeedData struct {
	Prices   []VendorSeries
	Orders   []OilOrder
	Readings []TankReading
	Temps    []TemperatureDay
	Summary  *DashboardSummary
}

type FeedSnapshot struct {
	Feed      FeedID
	Timestamp time.Time
	Status    Status
	Message   string
	Data      FeedData
}

// Fetcher pulls one feed from the backend. Implementations must honor ctx.
type Fetcher func(ctx context.Context, window TimeWindow) (FeedData, error)

// Engine owns the registered feed fetchers and the latest snapshot per feed.
// Fetches fan out concurrently; a failed feed yields an ERROR snapshot and
// never blocks the others.
type Engine struct {
	mu        sync.RWMutex
	fetchers  map[FeedID]Fetcher
	snapshots map[FeedID]FeedSnapshot
	timeout   time.Duration

	onUpdate func(map[FeedID]FeedSnapshot)
}

func NewEngine() *Engine {
	return &Engine{
		fetchers:  make(map[FeedID]Fetcher),
		snapshots: make(map[FeedID]FeedSnapshot),
		timeout:   10 * time.Second,
	}
}

func (e *Engine) RegisterFeed(id FeedID, fn Fetcher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetchers[id] = fn
}

func (e *Engine) OnUpdate(fn func(map[FeedID]FeedSnapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

func (e *Engine) Snapshots() map[FeedID]FeedSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[FeedID]FeedSnapshot, len(e.snapshots))
	for k, v := range e.snapshots {
		out[k] = v
	}
	return out
}

// RefreshAll fetches every registered feed concurrently and stores the
// results. Returns once all fetches have completed or timed out.
func (e *Engine) RefreshAll(ctx context.Context, window TimeWindow) {
	e.mu.RLock()
	ids := make([]FeedID, 0, len(e.fetchers))
	for id := range e.fetchers {
		ids = append(ids, id)
	}
	e.mu.RUnlock()

	var wg sync.WaitGroup
	results := make(chan FeedSnapshot, len(ids))

	for _, id := range ids {
		wg.Add(1)
		go func(id FeedID) {
			defer wg.Done()

			e.mu.RLock()
			fetch := e.fetchers[id]
			e.mu.RUnlock()

			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			snap := FeedSnapshot{Feed: id, Timestamp: time.Now(), Status: StatusOK}
			data, err := fetch(fetchCtx, window)
			if err != nil {
				snap.Status = StatusError
				snap.Message = err.Error()
			} else {
				snap.Data = data
			}
			results <- snap
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for snap := range results {
		e.mu.Lock()
		e.snapshots[snap.Feed] = snap
		e.mu.Unlock()
	}

	e.mu.RLock()
	cb := e.onUpdate
	e.mu.RUnlock()
	if cb != nil {
		cb(e.Snapshots())
	}
}
