// Package scroll turns raw viewport scroll positions into the smoothed
// signal behind the parallax, fade and navbar effects.
package scroll

import (
	"math"
	"sync"
	"time"

	"github.com/bryan-buckman/studiofront/internal/clock"
)

// DefaultDamping is the fraction of the remaining distance the smoothed
// value covers each frame.
const DefaultDamping = 0.3

// snapDistance is how close the smoothed value must get before it is
// set equal to the raw value.
const snapDistance = 0.01

// Viewport reports the scroll position and height of the page. A nil
// Viewport (server-side rendering) reads as scrolled to the top. Pass an
// untyped nil: a nil pointer stored in the interface is not detected
// and its methods are called.
type Viewport interface {
	ScrollY() float64
	Height() float64
}

// FrameSource calls fn once per animation frame until the returned
// cancel function is called.
type FrameSource interface {
	Subscribe(fn func()) (cancel func())
}

// Tracker holds the raw and smoothed scroll values for one mounted
// view. It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	damping  float64
	raw      float64
	smoothed float64
	viewport Viewport
	cancel   func()
	gen      uint64
	onFrame  []func(smoothed float64)
}

// NewTracker returns a Tracker. damping outside (0, 1] falls back to
// DefaultDamping.
func NewTracker(damping float64) *Tracker {
	if damping <= 0 || damping > 1 {
		damping = DefaultDamping
	}
	return &Tracker{damping: damping}
}

// OnFrame registers fn to receive the smoothed value after every
// frame while mounted.
func (t *Tracker) OnFrame(fn func(smoothed float64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFrame = append(t.onFrame, fn)
}

// Mount subscribes to frames. Each frame samples the viewport and
// advances the smoothed value. Mounting an already mounted Tracker
// replaces the previous subscription.
func (t *Tracker) Mount(vp Viewport, frames FrameSource) {
	t.Unmount()

	t.mu.Lock()
	t.viewport = vp
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	cancel := frames.Subscribe(func() { t.frame(gen) })

	t.mu.Lock()
	if gen == t.gen {
		t.cancel = cancel
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	cancel()
}

// Unmount releases the frame subscription and resets both values.
func (t *Tracker) Unmount() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.viewport = nil
	t.gen++
	t.raw, t.smoothed = 0, 0
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (t *Tracker) frame(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	if t.viewport != nil {
		t.raw = t.viewport.ScrollY()
	}
	v := t.stepLocked()
	listeners := append([]func(float64){}, t.onFrame...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}

// SetRaw records a scroll event.
func (t *Tracker) SetRaw(y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.raw = y
}

// Step advances the smoothed value by one frame and returns it.
func (t *Tracker) Step() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stepLocked()
}

func (t *Tracker) stepLocked() float64 {
	diff := t.raw - t.smoothed
	if math.Abs(diff) < snapDistance {
		t.smoothed = t.raw
	} else {
		t.smoothed += diff * t.damping
	}
	if t.smoothed < 0 {
		t.smoothed = 0
	}
	return t.smoothed
}

// Raw returns the last recorded scroll position.
func (t *Tracker) Raw() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.raw
}

// Smoothed returns the damped scroll position.
func (t *Tracker) Smoothed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.smoothed
}

// Frames is a FrameSource driven by a clock at a fixed interval.
type Frames struct {
	Clock    clock.Clock
	Interval time.Duration
}

// FrameInterval is roughly one 60 Hz display frame.
const FrameInterval = 16 * time.Millisecond

// Subscribe implements FrameSource.
func (f Frames) Subscribe(fn func()) func() {
	clk := f.Clock
	if clk == nil {
		clk = clock.Real()
	}
	interval := f.Interval
	if interval <= 0 {
		interval = FrameInterval
	}

	var mu sync.Mutex
	stopped := false
	var timer *clock.Timer
	var loop func()
	loop = func() {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		mu.Unlock()
		fn()
		mu.Lock()
		if !stopped {
			timer = clk.AfterFunc(interval, loop)
		}
		mu.Unlock()
	}

	mu.Lock()
	timer = clk.AfterFunc(interval, loop)
	mu.Unlock()

	return func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		timer.Stop()
	}
}

// Once is a FrameSource that delivers a single frame when subscribed.
// The server uses it to compute the first frame of a page it renders.
type Once struct{}

// Subscribe implements FrameSource.
func (Once) Subscribe(fn func()) func() {
	fn()
	return func() {}
}
