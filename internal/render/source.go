// Package render turns a display configuration into the sequence of RGB
// frames the transmission loop sends: a single centered frame for static
// mode, or a window sliding across a painted text strip for scroll mode,
// filled with a solid color or a (possibly shifting) gradient.
package render

import (
	"time"

	"ledscroller/internal/config"
	"ledscroller/internal/emoji"
	"ledscroller/internal/gradient"
	"ledscroller/internal/matrix"
)

// keepAliveInterval re-asserts a static frame so receivers with realtime
// timeouts (WLED) do not fall back to their own effects.
const keepAliveInterval = 500 * time.Millisecond

// oscillationPx bounds the center-when-short wiggle.
const oscillationPx = 2

// Source produces successive row-major RGB frames for one activation.
// Implementations are not safe for concurrent use; the transmission loop is
// the single consumer.
type Source interface {
	// Frame returns the next frame to transmit.
	Frame(now time.Time) []byte

	// Interval is the pacing delay between frames.
	Interval() time.Duration
}

// NewSource builds the frame source for cfg. comp may be nil when emoji
// compositing is unavailable. Configuration must already be validated.
func NewSource(cfg *config.DisplayConfig, comp *emoji.Compositor) (Source, error) {
	face := LoadFace(cfg.FontPath, cfg.FontSize)
	lay := layoutText(cfg.Text, face, comp, cfg.FontSize)

	col, animated := colorizer(cfg, lay)
	emojiOffset := 0
	if lay.hasEmoji {
		emojiOffset = cfg.EmojiOffset
	}

	if cfg.DisplayMode == config.DisplayStatic {
		drawX := (matrix.Width-lay.bboxW())/2 - lay.hMin
		s := lay.paint(matrix.Width, drawX, cfg.Crisp && !lay.hasEmoji, emojiOffset)
		return newStaticSource(s, col, animated, cfg.GradientShift), nil
	}

	if cfg.CenterShort && lay.textW <= matrix.Width {
		drawX := (matrix.Width-lay.bboxW())/2 - lay.hMin
		s := lay.paint(matrix.Width, drawX, cfg.Crisp && !lay.hasEmoji, emojiOffset)
		return newScrollSource(s, col, animated, oscillationOffsets(lay.textW), cfg.Speed), nil
	}

	// Full traversal: the strip holds the text just right of the first
	// window; the window then slides one pixel per frame until the text has
	// fully left the other side.
	canvasW := matrix.Width + lay.textW
	s := lay.paint(canvasW, matrix.Width, cfg.Crisp && !lay.hasEmoji, emojiOffset)
	return newScrollSource(s, col, animated, traversalOffsets(lay.textW, cfg.Direction), cfg.Speed), nil
}

// colorizer builds the per-pixel fill function. The second return reports
// whether the fill changes over time (an animated gradient), which decides
// whether scroll frames can be precomputed.
func colorizer(cfg *config.DisplayConfig, lay *layout) (colorAt, bool) {
	if cfg.ColorMode == config.ColorSolid {
		c := cfg.Color
		return func(int, time.Duration) (uint8, uint8, uint8) {
			return c.R, c.G, c.B
		}, false
	}

	period := lay.textW
	if period < matrix.Width {
		period = matrix.Width
	}
	ramp := gradient.Ramp{
		Palette:       gradient.New(cfg.GradientPreset, cfg.GradientReverse),
		PeriodPx:      period,
		ShiftPxPerSec: cfg.GradientShift,
	}
	return ramp.ColorAt, ramp.Animated()
}

// traversalOffsets is the full off-screen-to-off-screen window walk: one
// frame per pixel, matrix width + text width frames in total.
func traversalOffsets(textW int, dir config.Direction) []int {
	n := matrix.Width + textW
	offsets := make([]int, n)
	for i := range offsets {
		if dir == config.DirectionLeft {
			offsets[i] = i
		} else {
			offsets[i] = textW - i
		}
	}
	return offsets
}

// oscillationOffsets keeps short text centered, drifting a couple of pixels
// back and forth instead of traversing the whole window.
func oscillationOffsets(textW int) []int {
	osc := (matrix.Width - textW) / 2
	if osc > oscillationPx {
		osc = oscillationPx
	}
	if osc <= 0 {
		return []int{0}
	}
	var offsets []int
	for o := -osc; o <= osc; o++ {
		offsets = append(offsets, o)
	}
	for o := osc - 1; o > -osc; o-- {
		offsets = append(offsets, o)
	}
	return offsets
}

type staticSource struct {
	strip    *strip
	col      colorAt
	animated bool
	start    time.Time
	cached   []byte
	interval time.Duration
}

func newStaticSource(s *strip, col colorAt, animated bool, shift float64) *staticSource {
	src := &staticSource{
		strip:    s,
		col:      col,
		animated: animated,
		start:    time.Now(),
		interval: keepAliveInterval,
	}
	if animated {
		src.interval = pacing(shift)
	}
	return src
}

func (s *staticSource) Frame(now time.Time) []byte {
	if !s.animated {
		if s.cached == nil {
			s.cached = s.strip.frame(0, s.col, 0)
		}
		return s.cached
	}
	return s.strip.frame(0, s.col, now.Sub(s.start))
}

func (s *staticSource) Interval() time.Duration { return s.interval }

type scrollSource struct {
	strip    *strip
	col      colorAt
	offsets  []int
	idx      int
	start    time.Time
	interval time.Duration

	// frames holds the precomputed cycle when the fill is time-invariant.
	frames [][]byte
}

func newScrollSource(s *strip, col colorAt, animated bool, offsets []int, speed float64) *scrollSource {
	src := &scrollSource{
		strip:    s,
		col:      col,
		offsets:  offsets,
		start:    time.Now(),
		interval: pacing(speed),
	}
	if !animated {
		src.frames = make([][]byte, len(offsets))
		for i, x0 := range offsets {
			src.frames[i] = s.frame(x0, col, 0)
		}
	}
	return src
}

func (s *scrollSource) Frame(now time.Time) []byte {
	i := s.idx
	s.idx = (s.idx + 1) % len(s.offsets)
	if s.frames != nil {
		return s.frames[i]
	}
	return s.strip.frame(s.offsets[i], s.col, now.Sub(s.start))
}

func (s *scrollSource) Interval() time.Duration { return s.interval }

// pacing converts a px/sec speed into the inter-frame delay, with the 1.0
// floor from the config contract.
func pacing(speed float64) time.Duration {
	if speed < 1.0 {
		speed = 1.0
	}
	return time.Duration(float64(time.Second) / speed)
}
