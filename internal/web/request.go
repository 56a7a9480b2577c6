package web

import (
	"fmt"
	"strings"

	"ledscroller/internal/config"
	"ledscroller/internal/fonts"
	"ledscroller/internal/gradient"
	"ledscroller/internal/protocol"
)

// StartRequest is the JSON body of POST /start. Pointer fields distinguish
// "absent" from a deliberate false/zero so that defaults apply correctly.
type StartRequest struct {
	Text     string `json:"text"`
	FontPath string `json:"font_path"`
	FontSize int    `json:"font_size"`
	Color    []int  `json:"color"`

	ColorMode       string  `json:"color_mode"`
	GradientPreset  string  `json:"gradient_preset"`
	GradientReverse bool    `json:"gradient_reverse"`
	GradientShift   float64 `json:"gradient_shift"`

	DisplayMode string  `json:"display_mode"`
	Direction   string  `json:"direction"`
	Speed       float64 `json:"speed"`
	CenterShort bool    `json:"center_short"`

	Serpentine  *bool `json:"serpentine"`
	Crisp       *bool `json:"crisp"`
	EmojiOffset int   `json:"emoji_offset"`

	Mode       string `json:"mode"`
	IP         string `json:"ip"`
	Port       int    `json:"port"`
	DDPChannel int    `json:"ddp_channel"`
}

// Resolve applies defaults and coercions and produces the fully-resolved
// DisplayConfig the core consumes. All defaulting happens here; the core
// performs none.
func (r *StartRequest) Resolve(srv *config.Config, idx *fonts.Index) (config.DisplayConfig, error) {
	var cfg config.DisplayConfig

	cfg.Text = strings.TrimSpace(r.Text)
	if cfg.Text == "" {
		return cfg, fmt.Errorf("text cannot be empty")
	}

	cfg.FontPath = idx.Resolve(r.FontPath, srv.FallbackFont)

	cfg.FontSize = r.FontSize
	if cfg.FontSize == 0 {
		cfg.FontSize = 14
	}
	if cfg.FontSize < 1 || cfg.FontSize > 64 {
		return cfg, fmt.Errorf("font_size %d out of range 1-64", r.FontSize)
	}

	color := r.Color
	if len(color) == 0 {
		color = []int{255, 255, 255}
	}
	if len(color) != 3 {
		return cfg, fmt.Errorf("color must be an [r,g,b] triple")
	}
	for i, c := range color {
		if c < 0 || c > 255 {
			return cfg, fmt.Errorf("color[%d]=%d out of range 0-255", i, c)
		}
	}
	cfg.Color = config.RGB{R: uint8(color[0]), G: uint8(color[1]), B: uint8(color[2])}

	cfg.ColorMode = config.ColorMode(defaultStr(r.ColorMode, string(config.ColorSolid)))
	cfg.GradientPreset = defaultStr(r.GradientPreset, gradient.Rainbow)
	cfg.GradientReverse = r.GradientReverse
	cfg.GradientShift = r.GradientShift

	cfg.DisplayMode = config.DisplayMode(defaultStr(r.DisplayMode, string(config.DisplayScroll)))
	cfg.Direction = config.Direction(defaultStr(r.Direction, string(config.DirectionLeft)))
	cfg.CenterShort = r.CenterShort

	cfg.Speed = r.Speed
	if cfg.Speed == 0 {
		cfg.Speed = 40.0
	}
	if cfg.Speed < 1.0 {
		cfg.Speed = 1.0
	}

	cfg.Serpentine = defaultBool(r.Serpentine, true)
	cfg.Crisp = defaultBool(r.Crisp, true)
	cfg.EmojiOffset = r.EmojiOffset

	cfg.Protocol = config.ProtocolMode(defaultStr(r.Mode, string(config.ProtocolSimple)))

	cfg.IP = defaultStr(r.IP, srv.DefaultTargetIP)
	cfg.Port = resolvePort(r.Port, cfg.Protocol)

	cfg.DDPChannel = r.DDPChannel
	if cfg.DDPChannel == 0 {
		cfg.DDPChannel = 1
	}
	if cfg.DDPChannel < 1 {
		cfg.DDPChannel = 1
	}
	if cfg.DDPChannel > 255 {
		cfg.DDPChannel = 255
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolvePort fills the per-protocol default port. A WLED request still
// pointing at one of the other protocols' defaults is redirected to the
// WLED port, matching how clients flip modes without clearing the field.
func resolvePort(port int, mode config.ProtocolMode) int {
	if mode == config.ProtocolWLED {
		switch port {
		case 0, protocol.DefaultSimplePort, protocol.DefaultDDPPort:
			return protocol.DefaultWLEDPort
		}
		return port
	}
	if port != 0 {
		return port
	}
	switch mode {
	case config.ProtocolDDP:
		return protocol.DefaultDDPPort
	default:
		return protocol.DefaultSimplePort
	}
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
