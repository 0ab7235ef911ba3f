package view

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/reveal"
	"github.com/bryan-buckman/studiofront/internal/scroll"
)

type page struct {
	mu     sync.Mutex
	y      float64
	height float64
}

func (p *page) ScrollY() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.y
}

func (p *page) Height() float64 { return p.height }

func (p *page) scrollTo(y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.y = y
}

func TestLandingEffects(t *testing.T) {
	fake := clock.Fake(epoch)
	l := NewLanding(fake, reveal.DefaultTimings, nil)
	vp := &page{height: 800}
	l.Mount(vp, scroll.Frames{Clock: fake})

	assert.Equal(t, Effects{HeroOpacity: 1}, l.Effects())

	vp.scrollTo(500)
	fake.Advance(scroll.FrameInterval)
	e := l.Effects()
	assert.InDelta(t, 150, e.ScrollY, 1e-9)
	assert.InDelta(t, 1-150.0/700, e.HeroOpacity, 1e-9)
	assert.InDelta(t, 75, e.ParallaxY, 1e-9)
	assert.True(t, e.NavbarSolid)

	// Settles on the raw position.
	fake.Advance(100 * scroll.FrameInterval)
	e = l.Effects()
	assert.Equal(t, 500.0, e.ScrollY)
	assert.Equal(t, 250.0, e.ParallaxY)

	vp.scrollTo(80)
	fake.Advance(scroll.FrameInterval)
	assert.False(t, l.Effects().NavbarSolid)

	l.Unmount()
	assert.Equal(t, Effects{HeroOpacity: 1}, l.Effects())
	assert.Equal(t, 0, fake.Pending())
}

func TestLandingServerFirstFrame(t *testing.T) {
	fake := clock.Fake(epoch)
	l := NewLanding(fake, reveal.DefaultTimings, nil)
	l.Mount(nil, scroll.Once{})
	assert.Equal(t, Effects{HeroOpacity: 1}, l.Effects())
	assert.Equal(t, Settings{
		NavbarFraction: 0.1,
		HeroFadeFrom:   0,
		HeroFadeTo:     700,
		Parallax:       0.5,
		Damping:        0.3,
		PostRollMS:     2000,
		ExitMS:         800,
	}, l.Settings())

	l.Unmount()
	assert.Equal(t, 0, fake.Pending())
}

func TestLandingHeroFullyFaded(t *testing.T) {
	fake := clock.Fake(epoch)
	l := NewLanding(fake, reveal.DefaultTimings, nil)
	vp := &page{height: 800, y: 2000}
	l.Mount(vp, scroll.Frames{Clock: fake})
	fake.Advance(200 * scroll.FrameInterval)

	assert.Equal(t, 0.0, l.Effects().HeroOpacity)
	l.Unmount()
}

func TestLandingIntro(t *testing.T) {
	fake := clock.Fake(epoch)
	var stages []reveal.Stage
	l := NewLanding(fake, reveal.DefaultTimings, func(s reveal.Stage) { stages = append(stages, s) })
	l.Mount(&page{height: 800}, scroll.Frames{Clock: fake})

	intro := l.Intro()
	require.NotNil(t, intro)
	intro.Progress(3*time.Second, 6*time.Second)
	intro.Ended()
	fake.Advance(reveal.DefaultTimings.PostRoll + reveal.DefaultTimings.Exit.Total())

	assert.Equal(t, []reveal.Stage{reveal.MidpointReached, reveal.HoldComplete, reveal.Exiting, reveal.Done}, stages)
	assert.True(t, l.IntroFinished())
	l.Unmount()
}

func TestLandingUnmountCancelsIntro(t *testing.T) {
	fake := clock.Fake(epoch)
	var stages []reveal.Stage
	l := NewLanding(fake, reveal.DefaultTimings, func(s reveal.Stage) { stages = append(stages, s) })
	l.Mount(nil, scroll.Frames{Clock: fake})

	intro := l.Intro()
	intro.Ended()
	l.Unmount()
	fake.Advance(time.Minute)

	assert.Equal(t, []reveal.Stage{reveal.MidpointReached}, stages)
	assert.Nil(t, l.Intro())
	assert.False(t, l.IntroFinished())
	assert.Equal(t, 0, fake.Pending())
}
