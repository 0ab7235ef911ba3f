// Package showcase runs the lobby display: a server-owned carousel of
// featured projects that advances on its own and can be steered from
// any connected browser.
package showcase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryan-buckman/studiofront/internal/cycler"
	"github.com/bryan-buckman/studiofront/internal/model"
)

// subscriberBuffer is how many slides a slow subscriber may fall behind
// before older slides are dropped for it.
const subscriberBuffer = 8

// Slide is the display's current state as sent to subscribers.
type Slide struct {
	Index   int           `json:"index"`
	Total   int           `json:"total"`
	Project model.Project `json:"project"`
	Auto    bool          `json:"auto"`
	Cause   string        `json:"cause"`
}

// Featured returns the projects flagged as featured, or all of them
// when none are.
func Featured(projects []model.Project) []model.Project {
	var out []model.Project
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return projects
	}
	return out
}

// Display is the lobby carousel. It is safe for concurrent use.
type Display struct {
	cyc      *cycler.Cycler[model.Project]
	interval time.Duration

	mu     sync.Mutex
	subs   map[uuid.UUID]chan Slide
	closed bool
}

// New returns a Display over projects, auto-advancing every interval.
func New(projects []model.Project, interval time.Duration, opts ...cycler.Option) *Display {
	d := &Display{interval: interval, subs: make(map[uuid.UUID]chan Slide)}
	opts = append(opts, cycler.OnChange(d.changed))
	d.cyc = cycler.New(projects, opts...)
	if interval > 0 {
		d.cyc.SetAutoAdvance(true, interval)
	}
	return d
}

// Next shows the following project and stops auto-advance.
func (d *Display) Next() bool { return d.cyc.Next() }

// Prev shows the previous project and stops auto-advance.
func (d *Display) Prev() bool { return d.cyc.Prev() }

// Goto jumps to index and stops auto-advance.
func (d *Display) Goto(index int) error { return d.cyc.Goto(index) }

// SetAuto turns auto-advance on or off and tells subscribers.
func (d *Display) SetAuto(enabled bool) error {
	if err := d.cyc.SetAutoAdvance(enabled, d.interval); err != nil {
		return err
	}
	d.publish(cycler.CauseManual)
	return nil
}

// SetProjects replaces the carousel's projects with the featured subset
// of projects.
func (d *Display) SetProjects(projects []model.Project) {
	d.cyc.SetItems(Featured(projects))
	d.publish(cycler.CauseResize)
}

// Load fetches projects and installs the featured ones. On failure the
// current projects stay on screen.
func (d *Display) Load(ctx context.Context, fetch func(context.Context) ([]model.Project, error)) error {
	projects, err := fetch(ctx)
	if err != nil {
		slog.Warn("showcase load failed", "error", err)
		return err
	}
	d.SetProjects(projects)
	return nil
}

// Current returns the slide on screen, or false when there are no
// projects.
func (d *Display) Current() (Slide, bool) {
	return d.slide(cycler.CauseManual)
}

func (d *Display) slide(cause cycler.Cause) (Slide, bool) {
	p, ok := d.cyc.Current()
	if !ok {
		return Slide{}, false
	}
	return Slide{
		Index:   d.cyc.Index(),
		Total:   d.cyc.Len(),
		Project: p,
		Auto:    d.cyc.AutoAdvancing(),
		Cause:   cause.String(),
	}, true
}

// Subscribe returns a channel of slides, starting with the current one.
// The channel is closed by cancel or Close.
func (d *Display) Subscribe() (id uuid.UUID, slides <-chan Slide, cancel func()) {
	id = uuid.New()
	ch := make(chan Slide, subscriberBuffer)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		close(ch)
		return id, ch, func() {}
	}
	d.subs[id] = ch
	d.mu.Unlock()

	if s, ok := d.Current(); ok {
		d.send(id, s)
	}
	return id, ch, func() { d.unsubscribe(id) }
}

func (d *Display) unsubscribe(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch, ok := d.subs[id]; ok {
		delete(d.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of connected subscribers.
func (d *Display) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

func (d *Display) changed(ch cycler.Change) {
	d.publish(ch.Cause)
}

func (d *Display) publish(cause cycler.Cause) {
	s, ok := d.slide(cause)
	if !ok {
		return
	}
	d.mu.Lock()
	ids := make([]uuid.UUID, 0, len(d.subs))
	for id := range d.subs {
		ids = append(ids, id)
	}
	d.mu.Unlock()

	for _, id := range ids {
		d.send(id, s)
	}
}

// send delivers s without blocking, dropping the subscriber's oldest
// undelivered slide when its buffer is full.
func (d *Display) send(id uuid.UUID, s Slide) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.subs[id]
	if !ok {
		return
	}
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close stops auto-advance and closes every subscriber channel.
func (d *Display) Close() {
	d.cyc.Close()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for id, ch := range d.subs {
		delete(d.subs, id)
		close(ch)
	}
	slog.Info("showcase closed")
}
