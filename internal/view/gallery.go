// Package view holds the headless controllers behind the interactive
// sections of the site. A controller is mounted when its page section
// comes into use and unmounted when it goes away; nothing it started
// outlives Unmount.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/bryan-buckman/studiofront/internal/content"
	"github.com/bryan-buckman/studiofront/internal/cycler"
	"github.com/bryan-buckman/studiofront/internal/model"
)

// Loader fetches a gallery's items.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Gallery loads a collection and drives a Cycler over the result: the
// team carousel, a project's image slider, the video gallery.
type Gallery[T any] struct {
	coll     model.Collection
	load     Loader[T]
	interval time.Duration
	opts     []cycler.Option

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  content.State[T]
	cyc    *cycler.Cycler[T]
}

// NewGallery returns an unmounted Gallery. A positive interval starts
// auto-advance once the items arrive.
func NewGallery[T any](coll model.Collection, load Loader[T], interval time.Duration, opts ...cycler.Option) *Gallery[T] {
	return &Gallery[T]{coll: coll, load: load, interval: interval, opts: opts}
}

// Mount starts the load. The returned channel is closed once that load
// has resolved, whether its result was applied or discarded.
func (g *Gallery[T]) Mount(ctx context.Context) <-chan struct{} {
	g.Unmount()

	ctx, cancel := context.WithCancel(ctx)
	g.mu.Lock()
	g.gen++
	gen := g.gen
	g.cancel = cancel
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		st := content.Load(ctx, g.coll, g.load)
		g.resolve(gen, st)
	}()
	return done
}

func (g *Gallery[T]) resolve(gen uint64, st content.State[T]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	// Unmounted or remounted while loading.
	if gen != g.gen {
		return
	}
	g.state = st
	// A failed load still gets a cycler, over no items, so callers can
	// navigate without checking the state first.
	g.cyc = cycler.New(st.Items, g.opts...)
	if st.Status == content.Ready && g.interval > 0 {
		g.cyc.SetAutoAdvance(true, g.interval)
	}
}

// Unmount cancels an in-flight load, stops the cycler's timers and
// resets the state. Results that arrive afterwards are dropped.
func (g *Gallery[T]) Unmount() {
	g.mu.Lock()
	g.gen++
	cancel, cyc := g.cancel, g.cyc
	g.cancel, g.cyc = nil, nil
	g.state = content.State[T]{}
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if cyc != nil {
		cyc.Close()
	}
}

// State returns the load state.
func (g *Gallery[T]) State() content.State[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Cycler returns the cycler over the loaded items, or nil until the
// load has resolved. After a failed load it holds no items.
func (g *Gallery[T]) Cycler() *cycler.Cycler[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cyc
}
