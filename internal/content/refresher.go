package content

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/model"
)

// MinRefreshInterval is the shortest allowed refresh period.
const MinRefreshInterval = time.Minute

// refreshConcurrency is how many collections are refreshed at once.
const refreshConcurrency = 3

// Refresher keeps the cache warm by re-fetching every collection on an
// interval, so page requests rarely wait on the API.
type Refresher struct {
	client      *Client
	interval    time.Duration
	collections []model.Collection
	clock       clock.Clock
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	onPass      []func(ctx context.Context)
}

// NewRefresher returns a Refresher for every known collection.
func NewRefresher(client *Client, interval time.Duration) *Refresher {
	if interval < MinRefreshInterval {
		interval = MinRefreshInterval
	}
	return &Refresher{
		client:      client,
		interval:    interval,
		collections: model.Collections,
		clock:       client.clock,
		stopChan:    make(chan struct{}),
	}
}

// RefreshAll refreshes every collection once and returns the errors by
// collection name.
func (r *Refresher) RefreshAll(ctx context.Context) map[string]error {
	tasks := make([]Task, 0, len(r.collections))
	for _, coll := range r.collections {
		coll := coll
		tasks = append(tasks, Task{
			Name: string(coll),
			Run:  func(ctx context.Context) error { return r.client.Refresh(ctx, coll) },
		})
	}
	return Gather(ctx, refreshConcurrency, tasks...)
}

// OnPass registers fn to run after every pass, once the cache holds
// the fresh collections. It must be called before Start.
func (r *Refresher) OnPass(fn func(ctx context.Context)) {
	r.onPass = append(r.onPass, fn)
}

// Start begins the refresh loop. The first pass runs immediately.
func (r *Refresher) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			ctx, cancel := context.WithTimeout(context.Background(), r.interval)
			go func() {
				select {
				case <-r.stopChan:
					cancel()
				case <-ctx.Done():
				}
			}()
			results := r.RefreshAll(ctx)
			for _, fn := range r.onPass {
				fn(ctx)
			}
			cancel()

			failed := 0
			for _, err := range results {
				if err != nil {
					failed++
				}
			}
			slog.Info("refreshed collections", "total", len(results), "failed", failed, "next_in", r.interval)

			select {
			case <-r.stopChan:
				return
			case <-r.clock.After(r.interval):
			}
		}
	}()
}

// Stop ends the loop, cancelling an in-flight pass, and waits for it
// to exit.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.wg.Wait()
}
