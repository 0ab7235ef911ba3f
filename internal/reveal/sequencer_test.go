package reveal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-buckman/studiofront/internal/clock"
)

var epoch = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	stages []Stage
	done   int
}

func (r *recorder) stage(s Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, s)
}

func (r *recorder) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
}

func newTestSequencer() (*Sequencer, *recorder, *clock.FakeClock) {
	fake := clock.Fake(epoch)
	rec := &recorder{}
	return New(fake, DefaultTimings, rec.stage, rec.finish), rec, fake
}

func TestFullSequence(t *testing.T) {
	s, rec, fake := newTestSequencer()
	total := 6 * time.Second

	s.Progress(time.Second, total)
	assert.Equal(t, Initial, s.Stage())
	s.Progress(3*time.Second, total)
	assert.Equal(t, MidpointReached, s.Stage())

	s.Ended()
	fake.Advance(1999 * time.Millisecond)
	assert.Equal(t, MidpointReached, s.Stage())
	fake.Advance(time.Millisecond)
	assert.Equal(t, Exiting, s.Stage())

	fake.Advance(799 * time.Millisecond)
	assert.Equal(t, 0, rec.done)
	fake.Advance(time.Millisecond)
	assert.Equal(t, Done, s.Stage())
	assert.Equal(t, 1, rec.done)

	assert.Equal(t, []Stage{MidpointReached, HoldComplete, Exiting, Done}, rec.stages)
}

func TestMidpointFiresOnce(t *testing.T) {
	s, rec, _ := newTestSequencer()
	for i := 0; i < 10; i++ {
		s.Progress(time.Duration(3+i)*time.Second, 6*time.Second)
	}
	assert.Equal(t, []Stage{MidpointReached}, rec.stages)
}

func TestEndedWithoutKnownDuration(t *testing.T) {
	s, rec, fake := newTestSequencer()
	s.Progress(time.Second, 0) // duration unknown, ignored
	s.Ended()
	assert.Equal(t, MidpointReached, s.Stage())

	fake.Advance(3 * time.Second)
	assert.Equal(t, Done, s.Stage())
	assert.Equal(t, []Stage{MidpointReached, HoldComplete, Exiting, Done}, rec.stages)
}

func TestRepeatedEndedIgnored(t *testing.T) {
	s, rec, fake := newTestSequencer()
	s.Ended()
	fake.Advance(time.Second)
	s.Ended()
	fake.Advance(time.Second)
	assert.Equal(t, Exiting, s.Stage())
	fake.Advance(10 * time.Second)
	assert.Equal(t, 1, rec.done)
}

func TestProgressAfterEndIgnored(t *testing.T) {
	s, rec, fake := newTestSequencer()
	s.Ended()
	s.Progress(5*time.Second, 6*time.Second)
	fake.Advance(5 * time.Second)
	assert.Equal(t, []Stage{MidpointReached, HoldComplete, Exiting, Done}, rec.stages)
}

func TestNoEndEventStaysPut(t *testing.T) {
	s, rec, fake := newTestSequencer()
	s.Progress(4*time.Second, 6*time.Second)
	fake.Advance(time.Hour)
	assert.Equal(t, MidpointReached, s.Stage())
	assert.Equal(t, 0, rec.done)
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	s, rec, fake := newTestSequencer()
	s.Ended()
	fake.Advance(2 * time.Second)
	require.Equal(t, Exiting, s.Stage())

	s.Close()
	assert.Equal(t, 0, fake.Pending())
	fake.Advance(time.Minute)
	assert.Equal(t, Exiting, s.Stage())
	assert.Equal(t, 0, rec.done)

	s.Ended()
	s.Close()
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "hold-complete", HoldComplete.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}
