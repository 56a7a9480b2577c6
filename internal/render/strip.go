package render

import (
	"image"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"ledscroller/internal/matrix"
)

// strip is the painted text canvas frames are cropped from: a coverage mask
// for the font glyphs plus an optional full-color emoji overlay. Colors are
// applied per frame so gradients can shift without repainting glyphs.
type strip struct {
	mask    *image.Alpha
	overlay *image.RGBA // nil when the text has no composited emoji
	canvasW int
	canvasH int
}

// paint renders the layout onto a canvas of the given width with the pen
// starting at drawX. crisp thresholds the mask to hard 1-bit edges;
// emojiOffset shifts composited emoji glyphs vertically.
func (l *layout) paint(canvasW, drawX int, crisp bool, emojiOffset int) *strip {
	s := &strip{
		mask:    image.NewAlpha(image.Rect(0, 0, canvasW, matrix.Height)),
		canvasW: canvasW,
		canvasH: matrix.Height,
	}

	baseline := l.baselineFor(matrix.Height)
	drawer := font.Drawer{
		Dst:  s.mask,
		Src:  image.White,
		Face: l.face,
	}

	for _, run := range l.runs {
		x := fixed.I(drawX) + run.pen
		if run.img == nil {
			drawer.Dot = fixed.Point26_6{X: x, Y: fixed.I(baseline)}
			drawer.DrawString(run.text)
			continue
		}
		if s.overlay == nil {
			s.overlay = image.NewRGBA(image.Rect(0, 0, canvasW, matrix.Height))
		}
		top := baseline - l.emSize + emojiOffset
		dst := image.Rect(x.Floor(), top, x.Floor()+l.emSize, top+l.emSize)
		draw.Draw(s.overlay, dst, run.img, image.Point{}, draw.Over)
	}

	if crisp {
		for i, a := range s.mask.Pix {
			if a >= 128 {
				s.mask.Pix[i] = 255
			} else {
				s.mask.Pix[i] = 0
			}
		}
	}
	return s
}

// colorAt supplies the fill color for a glyph pixel at strip column x.
type colorAt func(x int, elapsed time.Duration) (r, g, b uint8)

// frame crops a matrix-sized window starting at strip column x0 and
// colorizes it into a row-major RGB buffer. Columns outside the canvas
// sample black, which is how text slides in from off screen.
func (s *strip) frame(x0 int, col colorAt, elapsed time.Duration) []byte {
	buf := make([]byte, matrix.FrameBytes)
	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			gx := x0 + x
			if gx < 0 || gx >= s.canvasW {
				continue
			}

			o := buf[(y*matrix.Width+x)*3:]
			if a := s.mask.AlphaAt(gx, y).A; a > 0 {
				r, g, b := col(gx, elapsed)
				o[0] = scale(r, a)
				o[1] = scale(g, a)
				o[2] = scale(b, a)
			}
			if s.overlay != nil {
				e := s.overlay.RGBAAt(gx, y)
				if e.A > 0 {
					// Overlay pixels are alpha-premultiplied.
					inv := uint16(255 - e.A)
					o[0] = byte(uint16(e.R) + uint16(o[0])*inv/255)
					o[1] = byte(uint16(e.G) + uint16(o[1])*inv/255)
					o[2] = byte(uint16(e.B) + uint16(o[2])*inv/255)
				}
			}
		}
	}
	return buf
}

func scale(c, a uint8) byte {
	return byte(uint16(c) * uint16(a) / 255)
}
