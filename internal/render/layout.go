package render

import (
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"ledscroller/internal/emoji"
)

// glyphRun is a horizontal slice of the laid-out text: either a string drawn
// through the font face or one pre-rasterized color emoji glyph.
type glyphRun struct {
	text string
	img  *image.RGBA // non-nil for an emoji glyph
	pen  fixed.Int26_6
	adv  fixed.Int26_6
}

// layout is the measured text, ready to paint at any horizontal position.
type layout struct {
	face font.Face
	runs []glyphRun

	// textW is the advance width of the whole string in pixels.
	textW int

	// bbox of the rendered text relative to a pen at x=0, in pixels.
	// Vertical extents come from the font runs (or the emoji em box when
	// the text is emoji-only).
	hMin, hMax int
	vMin, vMax int

	emSize   int
	hasEmoji bool
}

// layoutText segments text into runs, resolves emoji glyphs through the
// compositor when one is available, and measures the result. Emoji clusters
// without a usable glyph render through the font face instead; that is the
// explicit fallback path, not an error.
func layoutText(text string, face font.Face, comp *emoji.Compositor, emSize int) *layout {
	l := &layout{face: face, emSize: emSize}

	var pen fixed.Int26_6
	var pending string // text clusters accumulated into one run
	flush := func() {
		if pending == "" {
			return
		}
		adv := font.MeasureString(face, pending)
		l.runs = append(l.runs, glyphRun{text: pending, pen: pen, adv: adv})
		pen += adv
		pending = ""
	}

	for _, c := range emoji.Clusters(text) {
		if !c.Emoji {
			pending += c.Text
			continue
		}
		l.hasEmoji = true
		if comp == nil {
			pending += c.Text
			continue
		}
		img, err := comp.Render(c.Text, emSize)
		if err != nil {
			log.Printf("render: emoji %q via font fallback: %v", c.Text, err)
			pending += c.Text
			continue
		}
		flush()
		l.runs = append(l.runs, glyphRun{img: img, pen: pen, adv: fixed.I(emSize)})
		pen += fixed.I(emSize)
	}
	flush()

	l.measure()
	return l
}

// measure fills the pixel bounding box from the resolved runs.
func (l *layout) measure() {
	first := true
	addH := func(lo, hi int) {
		if first || lo < l.hMin {
			l.hMin = lo
		}
		if first || hi > l.hMax {
			l.hMax = hi
		}
		first = false
	}
	vFirst := true
	addV := func(lo, hi int) {
		if vFirst || lo < l.vMin {
			l.vMin = lo
		}
		if vFirst || hi > l.vMax {
			l.vMax = hi
		}
		vFirst = false
	}

	var total fixed.Int26_6
	for _, run := range l.runs {
		total = run.pen + run.adv
		if run.img != nil {
			addH(run.pen.Floor(), (run.pen + run.adv).Ceil())
			continue
		}
		b, _ := font.BoundString(l.face, run.text)
		addH((run.pen + b.Min.X).Floor(), (run.pen + b.Max.X).Ceil())
		addV(b.Min.Y.Floor(), b.Max.Y.Ceil())
	}
	l.textW = total.Ceil()

	// Emoji-only text: the em box sits above the baseline, so these extents
	// center it when no font run contributed metrics.
	if vFirst {
		addV(-l.emSize, 0)
	}
	if first {
		l.hMin, l.hMax = 0, l.textW
	}
}

// bboxW is the true rendered width, which can differ from the advance width
// by the side bearings.
func (l *layout) bboxW() int { return l.hMax - l.hMin }

// baselineFor returns the baseline y that vertically centers the rendered
// bounding box on a canvas of the given height.
func (l *layout) baselineFor(canvasH int) int {
	h := l.vMax - l.vMin
	return (canvasH-h)/2 - l.vMin
}
