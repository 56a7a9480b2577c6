// Package gradient provides the color ramps used to fill glyph masks: a
// rainbow sweep in HSV space plus a set of named multi-stop RGB presets.
// A ramp repeats horizontally and can shift over time independently of the
// scroll speed.
package gradient

import (
	"math"
	"sort"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Rainbow is the preset name for the HSV hue sweep. It is also the fallback
// for unknown preset names.
const Rainbow = "rainbow"

// presets maps preset names to their control points. Stops are spaced evenly
// across [0,1] and interpolated piecewise-linearly in RGB.
var presets = map[string][]colorful.Color{
	"sunset": {
		rgb(255, 94, 77),
		rgb(255, 0, 128),
		rgb(64, 0, 128),
	},
	"ocean": {
		rgb(0, 32, 128),
		rgb(0, 160, 255),
		rgb(0, 255, 200),
	},
	"fire": {
		rgb(128, 0, 0),
		rgb(255, 64, 0),
		rgb(255, 200, 0),
	},
	"forest": {
		rgb(0, 64, 0),
		rgb(64, 200, 32),
		rgb(200, 255, 100),
	},
	"pastel": {
		rgb(255, 179, 186),
		rgb(186, 225, 255),
		rgb(186, 255, 201),
		rgb(255, 255, 186),
	},
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Names returns all preset names, rainbow first, the rest sorted.
func Names() []string {
	names := []string{Rainbow}
	rest := make([]string, 0, len(presets))
	for name := range presets {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Palette evaluates a preset at positions in [0,1).
type Palette struct {
	stops   []colorful.Color // nil means rainbow
	reverse bool
}

// New returns the named palette. Unknown names fall back to rainbow, so a
// stale preset name from a client never fails an activation.
func New(name string, reverse bool) Palette {
	stops, ok := presets[name]
	if !ok {
		return Palette{reverse: reverse}
	}
	return Palette{stops: stops, reverse: reverse}
}

// Eval returns the palette color at position t in [0,1]. Values outside the
// range wrap, so ramps repeat seamlessly.
func (p Palette) Eval(t float64) (r, g, b uint8) {
	if t < 0 || t > 1 {
		t = t - math.Floor(t)
	}
	if p.reverse {
		t = 1 - t
	}

	var c colorful.Color
	if p.stops == nil {
		c = colorful.Hsv(t*360, 1, 1)
	} else {
		c = evalStops(p.stops, t)
	}
	cr, cg, cb := c.Clamped().RGB255()
	return cr, cg, cb
}

func evalStops(stops []colorful.Color, t float64) colorful.Color {
	if len(stops) == 1 {
		return stops[0]
	}
	span := t * float64(len(stops)-1)
	i := int(span)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := span - float64(i)
	a, b := stops[i], stops[i+1]
	return colorful.Color{
		R: a.R + (b.R-a.R)*f,
		G: a.G + (b.G-a.G)*f,
		B: a.B + (b.B-a.B)*f,
	}
}

// Ramp is a palette stretched over a horizontal period in pixels, optionally
// drifting sideways over time.
type Ramp struct {
	Palette  Palette
	PeriodPx int
	// ShiftPxPerSec moves the ramp horizontally over time. Zero disables
	// the animation.
	ShiftPxPerSec float64
}

// Animated reports whether the ramp changes over time.
func (r Ramp) Animated() bool {
	return r.ShiftPxPerSec != 0
}

// ColorAt returns the ramp color for canvas column x at the given elapsed
// time since activation.
func (r Ramp) ColorAt(x int, elapsed time.Duration) (uint8, uint8, uint8) {
	period := r.PeriodPx
	if period <= 0 {
		period = 1
	}
	shift := elapsed.Seconds() * r.ShiftPxPerSec
	t := (float64(x) + shift) / float64(period)
	return r.Palette.Eval(t)
}
