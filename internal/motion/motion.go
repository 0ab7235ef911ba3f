// Package motion holds the named easing presets and transition timings
// shared by the carousels, the intro sequence and the page templates.
package motion

import (
	"fmt"
	"math"
	"time"
)

// Easing is a named timing curve.
type Easing int

const (
	Linear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
	// Emphasized is the slow-settling curve used for hero and intro
	// transitions, cubic-bezier(0.22, 1, 0.36, 1).
	Emphasized
)

var easingNames = map[Easing]string{
	Linear:     "linear",
	EaseIn:     "ease-in",
	EaseOut:    "ease-out",
	EaseInOut:  "ease-in-out",
	Emphasized: "emphasized",
}

func (e Easing) String() string {
	if name, ok := easingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Easing(%d)", int(e))
}

// ParseEasing returns the preset with the given name.
func ParseEasing(name string) (Easing, error) {
	for e, n := range easingNames {
		if n == name {
			return e, nil
		}
	}
	return Linear, fmt.Errorf("unknown easing %q", name)
}

// bezier control points (x1, y1, x2, y2) per preset.
var bezier = map[Easing][4]float64{
	Linear:     {0, 0, 1, 1},
	EaseIn:     {0.42, 0, 1, 1},
	EaseOut:    {0, 0, 0.58, 1},
	EaseInOut:  {0.42, 0, 0.58, 1},
	Emphasized: {0.22, 1, 0.36, 1},
}

// CSS returns the CSS timing function for the preset.
func (e Easing) CSS() string {
	if e == Linear {
		return "linear"
	}
	p, ok := bezier[e]
	if !ok {
		return "linear"
	}
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", p[0], p[1], p[2], p[3])
}

// At evaluates the curve at progress t, clamped to [0, 1].
func (e Easing) At(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	p, ok := bezier[e]
	if !ok || e == Linear {
		return t
	}
	// Solve x(s) = t for s by bisection; x is monotonic for valid presets.
	lo, hi := 0.0, 1.0
	s := t
	for i := 0; i < 32; i++ {
		x := cubic(s, p[0], p[2])
		if math.Abs(x-t) < 1e-6 {
			break
		}
		if x < t {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return cubic(s, p[1], p[3])
}

// cubic evaluates a one-dimensional bezier with endpoints 0 and 1.
func cubic(s, c1, c2 float64) float64 {
	inv := 1 - s
	return 3*inv*inv*s*c1 + 3*inv*s*s*c2 + s*s*s
}

// Transition is a typed animation configuration.
type Transition struct {
	Easing   Easing
	Duration time.Duration
	Delay    time.Duration
}

// Total is the time from trigger until the transition settles.
func (t Transition) Total() time.Duration {
	return t.Delay + t.Duration
}

// Progress returns the eased progress elapsed after the trigger.
func (t Transition) Progress(elapsed time.Duration) float64 {
	if elapsed <= t.Delay {
		return 0
	}
	if t.Duration <= 0 {
		return 1
	}
	return t.Easing.At(float64(elapsed-t.Delay) / float64(t.Duration))
}

// CSS renders the transition as a CSS transition value for property.
func (t Transition) CSS(property string) string {
	return fmt.Sprintf("%s %dms %s %dms", property, t.Duration.Milliseconds(), t.Easing.CSS(), t.Delay.Milliseconds())
}

// Standard transitions.
var (
	// Slide is the carousel slide change; its duration is the cycler's
	// transition lock.
	Slide = Transition{Easing: EaseInOut, Duration: 500 * time.Millisecond}
	// Fade is a section entrance.
	Fade = Transition{Easing: EaseOut, Duration: 600 * time.Millisecond}
	// IntroExit is the landing intro leaving the screen.
	IntroExit = Transition{Easing: Emphasized, Duration: 800 * time.Millisecond}
)
