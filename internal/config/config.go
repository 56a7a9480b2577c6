// Package config holds the server configuration file and the typed,
// validated per-activation display configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the application configuration, loaded from a JSON file.
type Config struct {
	// Listen is the HTTP control surface address.
	Listen string `json:"listen"`

	// FontDirs are scanned for selectable fonts.
	FontDirs []string `json:"font_dirs"`

	// FallbackFont is tried when a requested font path does not exist.
	// Empty selects the built-in face.
	FallbackFont string `json:"fallback_font"`

	// EmojiDir holds per-codepoint SVG emoji assets. Empty disables color
	// emoji compositing.
	EmojiDir string `json:"emoji_dir"`

	// DefaultTargetIP is used when a start request omits the target.
	DefaultTargetIP string `json:"default_target_ip"`

	Quote QuoteConfig `json:"quote"`
}

// QuoteConfig drives the daily-quote generator.
type QuoteConfig struct {
	// APIURL is a chat-completions style endpoint. Empty disables API
	// calls; fallback quotes are used instead.
	APIURL string `json:"api_url"`
	Model  string `json:"model"`
	Prompt string `json:"prompt"`

	// KeyFile is read when the OPENAI_API_KEY env var is unset.
	KeyFile string `json:"key_file"`

	// CachePath stores today's quote so restarts do not regenerate it.
	CachePath string `json:"cache_path"`
}

// LoadConfig loads the configuration from a file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Listen: "127.0.0.1:5070",
		FontDirs: []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library/Fonts"),
			"/usr/share/fonts/truetype",
		},
		DefaultTargetIP: "192.168.1.181",
		Quote: QuoteConfig{
			APIURL:    "https://api.openai.com/v1/chat/completions",
			Model:     "gpt-4.1",
			Prompt:    "Generate a short, uplifting inspirational quote suitable for a home office. Make it about 10-15 words max. No markdown, just the quote text.",
			CachePath: "today_quote_cache.json",
		},
	}
}
