package scroll

import "math"

// Range is a closed numeric interval. From may be greater than To.
type Range struct {
	From, To float64
}

// Interpolate maps v linearly from in onto out, clamped to out.
func Interpolate(v float64, in, out Range) float64 {
	if in.From == in.To {
		if v < in.From {
			return out.From
		}
		return out.To
	}
	p := (v - in.From) / (in.To - in.From)
	p = math.Max(0, math.Min(1, p))
	return out.From + p*(out.To-out.From)
}

// Opacity fades from 1 at in.From to 0 at in.To. The result is always
// within [0, 1].
func Opacity(scrollY float64, in Range) float64 {
	return math.Max(0, math.Min(1, Interpolate(scrollY, in, Range{From: 1, To: 0})))
}

// Translate is the parallax offset for a background moving at factor
// times the scroll speed.
func Translate(scrollY, factor float64) float64 {
	return scrollY * factor
}

// Threshold is a "scrolled past" switch. Once past, it stays past until
// the position drops to Exit or below, so a page resting on the
// boundary does not flicker. Exit equal to Enter means no hysteresis.
type Threshold struct {
	Enter float64
	Exit  float64
	past  bool
}

// NewThreshold returns a Threshold at enter with the given hysteresis
// band below it.
func NewThreshold(enter, hysteresis float64) *Threshold {
	if hysteresis < 0 {
		hysteresis = 0
	}
	return &Threshold{Enter: enter, Exit: enter - hysteresis}
}

// ViewportThreshold returns a Threshold at fraction of the viewport
// height, e.g. 0.1 for the navbar background. A nil viewport uses a
// zero height.
func ViewportThreshold(vp Viewport, fraction, hysteresis float64) *Threshold {
	h := 0.0
	if vp != nil {
		h = vp.Height()
	}
	return NewThreshold(h*fraction, hysteresis)
}

// Update feeds a new position and reports the state and whether it
// changed.
func (t *Threshold) Update(scrollY float64) (past, changed bool) {
	switch {
	case !t.past && scrollY > t.Enter:
		t.past = true
		return true, true
	case t.past && scrollY <= t.Exit:
		t.past = false
		return false, true
	}
	return t.past, false
}

// Past reports the current state.
func (t *Threshold) Past() bool { return t.past }
