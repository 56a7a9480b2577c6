package render

import (
	"testing"
	"time"

	"ledscroller/internal/config"
	"ledscroller/internal/matrix"
)

func testDisplayConfig() *config.DisplayConfig {
	return &config.DisplayConfig{
		Text:        "HI",
		FontSize:    12,
		Color:       config.RGB{R: 255},
		ColorMode:   config.ColorSolid,
		DisplayMode: config.DisplayStatic,
		Direction:   config.DirectionLeft,
		Speed:       40,
		Crisp:       true,
		Protocol:    config.ProtocolSimple,
		IP:          "127.0.0.1",
		Port:        7777,
		DDPChannel:  1,
	}
}

// TestStaticSolidFrame checks frame sizing, the solid fill and the
// keep-alive interval for a non-animated static activation.
func TestStaticSolidFrame(t *testing.T) {
	src, err := NewSource(testDisplayConfig(), nil)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	frame := src.Frame(time.Now())
	if len(frame) != matrix.FrameBytes {
		t.Fatalf("frame length = %d, want %d", len(frame), matrix.FrameBytes)
	}

	lit := 0
	for i := 0; i < len(frame); i += 3 {
		if frame[i] > 0 {
			lit++
		}
		if frame[i+1] != 0 || frame[i+2] != 0 {
			t.Fatalf("pixel %d = %v, want pure red fill", i/3, frame[i:i+3])
		}
	}
	if lit == 0 {
		t.Error("no glyph pixels rendered")
	}

	// Crisp solid fill is either full-on or off.
	for i := 0; i < len(frame); i += 3 {
		if frame[i] != 0 && frame[i] != 255 {
			t.Fatalf("pixel %d red = %d, want 0 or 255 in crisp mode", i/3, frame[i])
		}
	}

	if src.Interval() != keepAliveInterval {
		t.Errorf("Interval() = %v, want keep-alive %v", src.Interval(), keepAliveInterval)
	}

	// A static frame with no animation is stable across calls.
	again := src.Frame(time.Now().Add(3 * time.Second))
	for i := range frame {
		if frame[i] != again[i] {
			t.Fatal("static frame changed between calls")
		}
	}
}

// TestStaticVerticalCentering checks that a short line leaves the outer
// rows dark.
func TestStaticVerticalCentering(t *testing.T) {
	src, err := NewSource(testDisplayConfig(), nil)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	frame := src.Frame(time.Now())

	for _, y := range []int{0, matrix.Height - 1} {
		for x := 0; x < matrix.Width; x++ {
			i := (y*matrix.Width + x) * 3
			if frame[i] != 0 {
				t.Fatalf("row %d pixel %d lit; 12px text should center clear of it", y, x)
			}
		}
	}
}

// TestTraversalOffsets checks the scroll window walk in both directions.
func TestTraversalOffsets(t *testing.T) {
	face := LoadFace("", 12)
	lay := layoutText("AB", face, nil, 12)
	if lay.textW <= 0 {
		t.Fatalf("layout textW = %d, want > 0", lay.textW)
	}

	left := traversalOffsets(lay.textW, config.DirectionLeft)
	if len(left) != matrix.Width+lay.textW {
		t.Errorf("left traversal length = %d, want %d", len(left), matrix.Width+lay.textW)
	}
	if left[0] != 0 || left[len(left)-1] != matrix.Width+lay.textW-1 {
		t.Errorf("left traversal endpoints = %d..%d", left[0], left[len(left)-1])
	}

	right := traversalOffsets(lay.textW, config.DirectionRight)
	if len(right) != matrix.Width+lay.textW {
		t.Errorf("right traversal length = %d, want %d", len(right), matrix.Width+lay.textW)
	}
	if right[0] != lay.textW {
		t.Errorf("right traversal starts at %d, want %d", right[0], lay.textW)
	}
}

// TestOscillationOffsets checks the center-when-short walk.
func TestOscillationOffsets(t *testing.T) {
	tests := []struct {
		name  string
		textW int
		want  int // sequence length
	}{
		{name: "room to wiggle", textW: 56, want: 8},
		{name: "barely fits", textW: 63, want: 1},
		{name: "exactly fits", textW: 64, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offs := oscillationOffsets(tt.textW)
			if len(offs) != tt.want {
				t.Errorf("oscillationOffsets(%d) length = %d, want %d", tt.textW, len(offs), tt.want)
			}
			for _, o := range offs {
				if o < -oscillationPx || o > oscillationPx {
					t.Errorf("offset %d outside +/-%d", o, oscillationPx)
				}
			}
		})
	}
}

// TestScrollPrecompute checks that time-invariant fills precompute the
// cycle and animated gradients render on the fly.
func TestScrollPrecompute(t *testing.T) {
	cfg := testDisplayConfig()
	cfg.DisplayMode = config.DisplayScroll

	src, err := NewSource(cfg, nil)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	scroll, ok := src.(*scrollSource)
	if !ok {
		t.Fatalf("NewSource() = %T, want *scrollSource", src)
	}
	if scroll.frames == nil {
		t.Error("solid scroll did not precompute its frame cycle")
	}
	if len(scroll.frames) != len(scroll.offsets) {
		t.Errorf("precomputed %d frames for %d offsets", len(scroll.frames), len(scroll.offsets))
	}
	for i, f := range scroll.frames {
		if len(f) != matrix.FrameBytes {
			t.Fatalf("frame %d length = %d, want %d", i, len(f), matrix.FrameBytes)
		}
	}

	// The cycle wraps back to the first frame.
	first := src.Frame(time.Now())
	for i := 1; i < len(scroll.offsets); i++ {
		src.Frame(time.Now())
	}
	wrapped := src.Frame(time.Now())
	for i := range first {
		if first[i] != wrapped[i] {
			t.Fatal("scroll cycle did not wrap to the first frame")
		}
	}

	cfg.ColorMode = config.ColorGradient
	cfg.GradientPreset = "fire"
	cfg.GradientShift = 5
	src, err = NewSource(cfg, nil)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if animated := src.(*scrollSource); animated.frames != nil {
		t.Error("animated gradient scroll precomputed frames; must render on the fly")
	}
}

// TestAnimatedStaticInterval checks gradient-shift pacing on static mode.
func TestAnimatedStaticInterval(t *testing.T) {
	cfg := testDisplayConfig()
	cfg.ColorMode = config.ColorGradient
	cfg.GradientShift = 10

	src, err := NewSource(cfg, nil)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	if src.Interval() != 100*time.Millisecond {
		t.Errorf("Interval() = %v, want 100ms for 10 px/sec shift", src.Interval())
	}
}

// TestPacing checks the speed-to-delay conversion and its floor.
func TestPacing(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  time.Duration
	}{
		{name: "typical", speed: 40, want: 25 * time.Millisecond},
		{name: "unit", speed: 1, want: time.Second},
		{name: "below floor", speed: 0.25, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pacing(tt.speed); got != tt.want {
				t.Errorf("pacing(%v) = %v, want %v", tt.speed, got, tt.want)
			}
		})
	}
}

// TestLoadFaceFallback checks that a bad path falls back instead of failing.
func TestLoadFaceFallback(t *testing.T) {
	face := LoadFace("/no/such/font.ttf", 12)
	if face == nil {
		t.Fatal("LoadFace() returned nil for a missing font")
	}
}
