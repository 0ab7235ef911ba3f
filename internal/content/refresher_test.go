package content

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshAll(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.set("/api/projects", `[]`)
	api.set("/api/events", `[]`)
	api.set("/api/careers/open", `[]`)
	api.fail("/api/videos", http.StatusInternalServerError)
	cache := newMemCache()
	c, _ := newTestClient(t, srv, cache)

	r := NewRefresher(c, time.Minute)
	results := r.RefreshAll(context.Background())

	require.Len(t, results, 5)
	assert.NoError(t, results["projects"])
	assert.NoError(t, results["events"])
	assert.NoError(t, results["careers/open"])
	assert.Error(t, results["videos"])
	assert.NoError(t, results["press"], "no press feed configured")

	for _, key := range []string{"projects", "events", "careers/open"} {
		_, err := cache.GetSnapshot(key)
		assert.NoError(t, err, key)
	}
}

func TestRefresherStartStop(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.set("/api/projects", `[]`)
	c, _ := newTestClient(t, srv, newMemCache())

	r := NewRefresher(c, time.Second) // raised to MinRefreshInterval
	assert.Equal(t, MinRefreshInterval, r.interval)
	r.Start()
	require.Eventually(t, func() bool { return api.hits.Load() >= 4 }, 2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	r.Stop()
}

func TestRefresherOnPass(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.set("/api/projects", `[{"_id":"p1","title":"Lake House","featured":true}]`)
	c, _ := newTestClient(t, srv, newMemCache())

	var passes atomic.Int32
	var seen atomic.Int32
	r := NewRefresher(c, time.Minute)
	r.OnPass(func(ctx context.Context) {
		projects, err := c.Projects(ctx, "")
		if err == nil {
			seen.Store(int32(len(projects)))
		}
		passes.Add(1)
	})
	r.Start()
	defer r.Stop()

	require.Eventually(t, func() bool { return passes.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), seen.Load())
}
