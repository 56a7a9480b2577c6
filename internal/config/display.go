package config

import "fmt"

// ProtocolMode selects the wire protocol for a transmission.
type ProtocolMode string

const (
	ProtocolSimple ProtocolMode = "simple"
	ProtocolWLED   ProtocolMode = "wled_udp"
	ProtocolDDP    ProtocolMode = "ddp"
)

// DisplayMode selects between a fixed centered frame and a scrolling window.
type DisplayMode string

const (
	DisplayStatic DisplayMode = "static"
	DisplayScroll DisplayMode = "scroll"
)

// ColorMode selects how glyphs are filled.
type ColorMode string

const (
	ColorSolid    ColorMode = "solid"
	ColorGradient ColorMode = "gradient"
)

// Direction is the apparent movement of scrolling text.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// RGB is a color triple, 0-255 per channel.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// DisplayConfig is the immutable snapshot of one activation. The boundary
// layer builds it fully resolved (defaults applied, ranges clamped); the
// core only verifies it and never mutates it.
type DisplayConfig struct {
	Text     string
	FontPath string // empty selects the built-in face
	FontSize int
	Color    RGB

	ColorMode       ColorMode
	GradientPreset  string
	GradientReverse bool
	GradientShift   float64 // px/sec, 0 disables the animation

	DisplayMode DisplayMode
	Direction   Direction
	Speed       float64 // px/sec, floor 1.0
	CenterShort bool

	Serpentine  bool
	Crisp       bool
	EmojiOffset int // signed px, applied only when the text has emoji

	Protocol   ProtocolMode
	IP         string
	Port       int
	DDPChannel int
}

// Validate rejects configurations the transmission loop must never see.
// It performs no defaulting; that is the boundary layer's job.
func (c *DisplayConfig) Validate() error {
	if c.Text == "" {
		return fmt.Errorf("config: text cannot be empty")
	}
	if c.FontSize < 1 {
		return fmt.Errorf("config: font size %d out of range", c.FontSize)
	}
	switch c.ColorMode {
	case ColorSolid, ColorGradient:
	default:
		return fmt.Errorf("config: unknown color mode %q", c.ColorMode)
	}
	switch c.DisplayMode {
	case DisplayStatic, DisplayScroll:
	default:
		return fmt.Errorf("config: unknown display mode %q", c.DisplayMode)
	}
	switch c.Direction {
	case DirectionLeft, DirectionRight:
	default:
		return fmt.Errorf("config: unknown direction %q", c.Direction)
	}
	switch c.Protocol {
	case ProtocolSimple, ProtocolWLED, ProtocolDDP:
	default:
		return fmt.Errorf("config: unknown protocol mode %q", c.Protocol)
	}
	if c.Speed < 1.0 {
		return fmt.Errorf("config: speed %.2f below floor 1.0", c.Speed)
	}
	if c.IP == "" {
		return fmt.Errorf("config: target IP cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.Protocol == ProtocolDDP && (c.DDPChannel < 1 || c.DDPChannel > 255) {
		return fmt.Errorf("config: DDP channel %d out of range", c.DDPChannel)
	}
	return nil
}
