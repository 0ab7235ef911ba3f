package view

import (
	"sync"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/reveal"
	"github.com/bryan-buckman/studiofront/internal/scroll"
)

// Landing page effect parameters.
const (
	// NavbarFraction of the viewport height scrolled before the navbar
	// gets its solid background.
	NavbarFraction = 0.1
	// ParallaxFactor is the hero background's speed relative to the page.
	ParallaxFactor = 0.5
)

// HeroFade is the scroll range over which the hero text fades out.
var HeroFade = scroll.Range{From: 0, To: 700}

// Effects are the scroll-derived values the landing page renders with.
type Effects struct {
	ScrollY     float64 `json:"scrollY"`
	HeroOpacity float64 `json:"heroOpacity"`
	ParallaxY   float64 `json:"parallaxY"`
	NavbarSolid bool    `json:"navbarSolid"`
}

var restingEffects = Effects{HeroOpacity: 1}

// Landing owns the landing page's scroll tracker, navbar threshold and
// intro sequencer.
type Landing struct {
	clock   clock.Clock
	timings reveal.Timings
	tracker *scroll.Tracker

	mu       sync.Mutex
	mounted  bool
	navbar   *scroll.Threshold
	intro    *reveal.Sequencer
	effects  Effects
	onStage  func(reveal.Stage)
	introEnd bool
}

// NewLanding returns an unmounted Landing. onStage, if not nil,
// receives every intro stage.
func NewLanding(c clock.Clock, timings reveal.Timings, onStage func(reveal.Stage)) *Landing {
	if c == nil {
		c = clock.Real()
	}
	l := &Landing{
		clock:   c,
		timings: timings,
		tracker: scroll.NewTracker(scroll.DefaultDamping),
		effects: restingEffects,
		onStage: onStage,
	}
	l.tracker.OnFrame(l.frame)
	return l
}

// Mount starts tracking vp on frames and arms a fresh intro sequence.
func (l *Landing) Mount(vp scroll.Viewport, frames scroll.FrameSource) {
	l.Unmount()

	l.mu.Lock()
	l.mounted = true
	l.navbar = scroll.ViewportThreshold(vp, NavbarFraction, 0)
	l.intro = reveal.New(l.clock, l.timings, l.onStage, l.introDone)
	l.introEnd = false
	l.mu.Unlock()

	l.tracker.Mount(vp, frames)
}

// Unmount releases the frame subscription and cancels the intro.
func (l *Landing) Unmount() {
	l.tracker.Unmount()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.intro != nil {
		l.intro.Close()
	}
	l.mounted = false
	l.intro = nil
	l.navbar = nil
	l.effects = restingEffects
}

func (l *Landing) frame(smoothed float64) {
	raw := l.tracker.Raw()

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.mounted {
		return
	}
	solid, _ := l.navbar.Update(raw)
	l.effects = Effects{
		ScrollY:     smoothed,
		HeroOpacity: scroll.Opacity(smoothed, HeroFade),
		ParallaxY:   scroll.Translate(smoothed, ParallaxFactor),
		NavbarSolid: solid,
	}
}

func (l *Landing) introDone() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.introEnd = true
}

// Effects returns the values computed on the last frame.
func (l *Landing) Effects() Effects {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.effects
}

// Settings are the landing parameters in the units the page script
// uses.
type Settings struct {
	NavbarFraction float64
	HeroFadeFrom   float64
	HeroFadeTo     float64
	Parallax       float64
	Damping        float64
	PostRollMS     int64
	ExitMS         int64
}

// Settings returns the parameters the page script mirrors this
// controller with.
func (l *Landing) Settings() Settings {
	return Settings{
		NavbarFraction: NavbarFraction,
		HeroFadeFrom:   HeroFade.From,
		HeroFadeTo:     HeroFade.To,
		Parallax:       ParallaxFactor,
		Damping:        scroll.DefaultDamping,
		PostRollMS:     l.timings.PostRoll.Milliseconds(),
		ExitMS:         l.timings.Exit.Total().Milliseconds(),
	}
}

// Intro returns the mounted intro sequencer, or nil when unmounted.
// The page forwards the intro clip's progress and end events to it.
func (l *Landing) Intro() *reveal.Sequencer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intro
}

// IntroFinished reports whether the intro has run to Done since the
// last Mount.
func (l *Landing) IntroFinished() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.introEnd
}
