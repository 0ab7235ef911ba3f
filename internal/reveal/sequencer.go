// Package reveal drives the landing intro: play the intro clip, swap in
// the alternate logo at the clip's midpoint, hold after the clip ends,
// then transition away to the home page.
//
// The sequencer has no timeout of its own. If the clip never reports
// that it ended, the intro stays on its current stage; whether to add a
// fallback is a product decision, not something the sequencer guesses.
package reveal

import (
	"fmt"
	"sync"
	"time"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/motion"
)

// Stage is a step of the intro. Stages only move forward.
type Stage int

const (
	Initial Stage = iota
	MidpointReached
	HoldComplete
	Exiting
	Done
)

func (s Stage) String() string {
	switch s {
	case Initial:
		return "initial"
	case MidpointReached:
		return "midpoint"
	case HoldComplete:
		return "hold-complete"
	case Exiting:
		return "exiting"
	case Done:
		return "done"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Timings configures the scheduled part of the sequence.
type Timings struct {
	// PostRoll is how long the last frame is held after the clip ends.
	PostRoll time.Duration
	// Exit is the transition away from the intro.
	Exit motion.Transition
}

// DefaultTimings are the landing intro's timings.
var DefaultTimings = Timings{
	PostRoll: 2 * time.Second,
	Exit:     motion.IntroExit,
}

// Sequencer is a one-shot intro state machine. It is safe for
// concurrent use; media callbacks may arrive from any goroutine.
type Sequencer struct {
	mu      sync.Mutex
	clock   clock.Clock
	timings Timings

	stage    Stage
	midpoint bool // guards the midpoint against repeated progress reports
	ended    bool
	timer    *clock.Timer
	closed   bool

	onStage func(Stage)
	onDone  func()
}

// New returns a Sequencer in the Initial stage. onStage is called for
// every stage entered; onDone once the exit transition has finished.
// Either may be nil.
func New(c clock.Clock, timings Timings, onStage func(Stage), onDone func()) *Sequencer {
	if c == nil {
		c = clock.Real()
	}
	return &Sequencer{clock: c, timings: timings, onStage: onStage, onDone: onDone}
}

// Stage returns the current stage.
func (s *Sequencer) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Progress reports the clip's playback position. Crossing half of total
// enters MidpointReached; later reports are ignored.
func (s *Sequencer) Progress(position, total time.Duration) {
	if total <= 0 {
		return
	}
	s.mu.Lock()
	if s.closed || s.midpoint || s.stage != Initial || position*2 < total {
		s.mu.Unlock()
		return
	}
	entered := s.enterLocked(MidpointReached)
	s.mu.Unlock()

	s.emit(entered)
}

// Ended reports that the clip finished. If no midpoint was reported
// (unknown duration) the midpoint is entered now. The hold starts
// counting from this call.
func (s *Sequencer) Ended() {
	s.mu.Lock()
	if s.closed || s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	var entered []Stage
	if s.stage == Initial {
		entered = s.enterLocked(MidpointReached)
	}
	s.timer = s.clock.AfterFunc(positive(s.timings.PostRoll), s.holdComplete)
	s.mu.Unlock()

	s.emit(entered)
}

func (s *Sequencer) holdComplete() {
	s.mu.Lock()
	if s.closed || s.stage != MidpointReached {
		s.mu.Unlock()
		return
	}
	entered := s.enterLocked(HoldComplete)
	entered = append(entered, s.enterLocked(Exiting)...)
	s.timer = s.clock.AfterFunc(positive(s.timings.Exit.Total()), s.finish)
	s.mu.Unlock()

	s.emit(entered)
}

func (s *Sequencer) finish() {
	s.mu.Lock()
	if s.closed || s.stage != Exiting {
		s.mu.Unlock()
		return
	}
	entered := s.enterLocked(Done)
	s.timer = nil
	s.mu.Unlock()

	s.emit(entered)
	if s.onDone != nil {
		s.onDone()
	}
}

// positive keeps scheduled steps asynchronous; a zero delay may run
// the callback inline while the caller still holds the lock.
func positive(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Nanosecond
	}
	return d
}

func (s *Sequencer) enterLocked(next Stage) []Stage {
	if next <= s.stage {
		return nil
	}
	if next == MidpointReached {
		s.midpoint = true
	}
	s.stage = next
	return []Stage{next}
}

func (s *Sequencer) emit(stages []Stage) {
	if s.onStage == nil {
		return
	}
	for _, st := range stages {
		s.onStage(st)
	}
}

// Close cancels any pending hold or exit timer. The stage is frozen and
// no further callbacks are made.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.timer.Stop()
	s.timer = nil
}
