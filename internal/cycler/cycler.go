// Package cycler tracks which item of an ordered collection is on
// screen: the team carousel, project sliders, event hero images and the
// video gallery all share one Cycler.
//
// Navigation is serialized by a transition lock held for the length of
// the slide animation. Manual navigation turns auto-advance off in the
// same critical section that moves the index, so a pending automatic
// tick can never apply a stale advance after the user has acted.
package cycler

import (
	"errors"
	"sync"
	"time"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/motion"
)

var (
	// ErrIndexOutOfRange is returned by Goto for an index outside [0, Len).
	ErrIndexOutOfRange = errors.New("cycler: index out of range")
	// ErrTransitioning is returned by Goto while a manual transition is
	// still running.
	ErrTransitioning = errors.New("cycler: transition in progress")
	// ErrInvalidInterval is returned by SetAutoAdvance for a non-positive
	// interval.
	ErrInvalidInterval = errors.New("cycler: auto-advance interval must be positive")
	// ErrClosed is returned by Goto once the cycler has been closed.
	ErrClosed = errors.New("cycler: closed")
)

// Cause says why the index changed.
type Cause int

const (
	CauseManual Cause = iota
	CauseAuto
	CauseResize
)

func (c Cause) String() string {
	switch c {
	case CauseManual:
		return "manual"
	case CauseAuto:
		return "auto"
	case CauseResize:
		return "resize"
	}
	return "unknown"
}

// Change describes an index move.
type Change struct {
	From, To int
	Cause    Cause
}

// Option configures a Cycler.
type Option func(*options)

type options struct {
	clock    clock.Clock
	lock     time.Duration
	onChange func(Change)
}

// WithClock sets the clock driving the transition lock and auto-advance.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithTransition sets how long the transition lock is held. Zero
// disables the lock.
func WithTransition(d time.Duration) Option {
	return func(o *options) { o.lock = d }
}

// OnChange registers fn to be called after every index move. fn runs
// outside the cycler's lock and may call back into the cycler.
func OnChange(fn func(Change)) Option {
	return func(o *options) { o.onChange = fn }
}

// Cycler is a wraparound position over a slice of items. It is safe for
// concurrent use.
type Cycler[T any] struct {
	mu   sync.Mutex
	opts options

	items []T
	index int

	transitioning bool
	lockCause     Cause
	lockTimer     *clock.Timer
	lockGen       uint64

	auto      bool
	interval  time.Duration
	autoTimer *clock.Timer
	autoGen   uint64

	closed bool
}

// New returns a Cycler positioned at the first item.
func New[T any](items []T, opts ...Option) *Cycler[T] {
	o := options{clock: clock.Real(), lock: motion.Slide.Duration}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cycler[T]{opts: o, items: append([]T(nil), items...)}
}

// Len returns the number of items.
func (c *Cycler[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Index returns the current position. It is 0 for an empty collection,
// where it does not refer to any item.
func (c *Cycler[T]) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Current returns the item on screen, or false for an empty collection.
func (c *Cycler[T]) Current() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if len(c.items) == 0 {
		return zero, false
	}
	return c.items[c.index], true
}

// Items returns a copy of the items.
func (c *Cycler[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Transitioning reports whether the transition lock is held.
func (c *Cycler[T]) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitioning
}

// AutoAdvancing reports whether the auto-advance timer is running.
func (c *Cycler[T]) AutoAdvancing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auto
}

// Next moves forward one item, wrapping at the end. It is user input:
// auto-advance is switched off whether or not the move happens. It
// reports whether the index moved.
func (c *Cycler[T]) Next() bool {
	return c.manualStep(1)
}

// Prev moves back one item, wrapping at the start. Like Next, it
// switches auto-advance off.
func (c *Cycler[T]) Prev() bool {
	return c.manualStep(-1)
}

func (c *Cycler[T]) manualStep(delta int) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.stopAutoLocked()
	if !c.canMoveLocked(CauseManual) {
		c.mu.Unlock()
		return false
	}
	ch := c.stepLocked(delta, CauseManual)
	c.mu.Unlock()

	c.notify(ch)
	return true
}

// Goto jumps to index. An index outside [0, Len) is rejected with
// ErrIndexOutOfRange and leaves the position unchanged. Goto is user
// input and switches auto-advance off. After Close it returns ErrClosed.
func (c *Cycler[T]) Goto(index int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stopAutoLocked()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return ErrIndexOutOfRange
	}
	if index == c.index {
		c.mu.Unlock()
		return nil
	}
	if !c.canMoveLocked(CauseManual) {
		c.mu.Unlock()
		return ErrTransitioning
	}
	ch := Change{From: c.index, To: index, Cause: CauseManual}
	c.index = index
	c.lockLocked(CauseManual)
	c.mu.Unlock()

	c.notify(ch)
	return nil
}

// SetAutoAdvance starts or stops the recurring advance. Enabling
// restarts the interval from now.
func (c *Cycler[T]) SetAutoAdvance(enabled bool, interval time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.stopAutoLocked()
	if !enabled {
		return nil
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}
	c.auto = true
	c.interval = interval
	c.scheduleAutoLocked()
	return nil
}

// SetItems replaces the collection, e.g. when data arrives after the
// view mounted. The index is clamped into the new range.
func (c *Cycler[T]) SetItems(items []T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.items = append([]T(nil), items...)
	from := c.index
	switch {
	case len(c.items) == 0:
		c.index = 0
	case c.index >= len(c.items):
		c.index = len(c.items) - 1
	}
	ch := Change{From: from, To: c.index, Cause: CauseResize}
	c.mu.Unlock()

	if ch.From != ch.To {
		c.notify(ch)
	}
}

// Close stops every timer. Calls after Close are ignored and pending
// timer callbacks are discarded.
func (c *Cycler[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopAutoLocked()
	c.lockGen++
	c.lockTimer.Stop()
	c.transitioning = false
}

// canMoveLocked applies the empty/singleton guard and the transition
// lock. Manual input may preempt an automatic transition.
func (c *Cycler[T]) canMoveLocked(cause Cause) bool {
	if len(c.items) < 2 {
		return false
	}
	if !c.transitioning {
		return true
	}
	return cause == CauseManual && c.lockCause == CauseAuto
}

func (c *Cycler[T]) stepLocked(delta int, cause Cause) Change {
	n := len(c.items)
	ch := Change{From: c.index, Cause: cause}
	c.index = ((c.index+delta)%n + n) % n
	ch.To = c.index
	c.lockLocked(cause)
	return ch
}

func (c *Cycler[T]) lockLocked(cause Cause) {
	if c.opts.lock <= 0 {
		return
	}
	c.lockTimer.Stop()
	c.lockGen++
	gen := c.lockGen
	c.transitioning = true
	c.lockCause = cause
	c.lockTimer = c.opts.clock.AfterFunc(c.opts.lock, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.lockGen {
			c.transitioning = false
		}
	})
}

func (c *Cycler[T]) stopAutoLocked() {
	c.auto = false
	c.autoGen++
	c.autoTimer.Stop()
	c.autoTimer = nil
}

func (c *Cycler[T]) scheduleAutoLocked() {
	c.autoGen++
	gen := c.autoGen
	c.autoTimer = c.opts.clock.AfterFunc(c.interval, func() { c.tick(gen) })
}

func (c *Cycler[T]) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || !c.auto || gen != c.autoGen {
		c.mu.Unlock()
		return
	}
	var ch Change
	moved := c.canMoveLocked(CauseAuto)
	if moved {
		ch = c.stepLocked(1, CauseAuto)
	}
	c.scheduleAutoLocked()
	c.mu.Unlock()

	if moved {
		c.notify(ch)
	}
}

func (c *Cycler[T]) notify(ch Change) {
	if c.opts.onChange != nil {
		c.opts.onChange(ch)
	}
}
