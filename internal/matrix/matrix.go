// Package matrix holds the fixed geometry of the target LED matrix and the
// pixel-order correction for its physical wiring.
package matrix

import "fmt"

// Geometry of the device family. The wire protocols, the serpentine reorder
// and the renderer all size their buffers from these.
const (
	Width  = 64
	Height = 16
	Pixels = Width * Height

	// FrameBytes is the size of one row-major RGB frame.
	FrameBytes = Pixels * 3
)

// Reorder maps a row-major RGB buffer into the physical wiring order of the
// matrix. With serpentine false the buffer is returned unchanged (progressive
// wiring). With serpentine true, odd rows (0-indexed) have their pixel
// triplets reversed, matching zig-zag wired strips. The returned buffer is
// always a new slice; the input is never modified.
//
// Reorder is its own inverse: applying it twice yields the original buffer.
func Reorder(buf []byte, w, h int, serpentine bool) ([]byte, error) {
	if len(buf) != w*h*3 {
		return nil, fmt.Errorf("matrix: buffer length %d does not match %dx%d RGB frame (%d bytes)", len(buf), w, h, w*h*3)
	}

	out := make([]byte, len(buf))
	if !serpentine {
		copy(out, buf)
		return out, nil
	}

	rowLen := w * 3
	for row := 0; row < h; row++ {
		src := buf[row*rowLen : (row+1)*rowLen]
		dst := out[row*rowLen : (row+1)*rowLen]
		if row%2 == 0 {
			copy(dst, src)
			continue
		}
		for col := 0; col < w; col++ {
			copy(dst[(w-1-col)*3:(w-1-col)*3+3], src[col*3:col*3+3])
		}
	}
	return out, nil
}
