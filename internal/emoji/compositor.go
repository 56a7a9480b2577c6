package emoji

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Compositor rasterizes color emoji glyphs from a directory of per-codepoint
// SVG assets (twemoji naming: lowercase hex codepoints joined by hyphens,
// FE0F variation selectors dropped, ".svg" suffix).
type Compositor struct {
	dir string

	mu    sync.Mutex
	cache map[cacheKey]*image.RGBA
}

type cacheKey struct {
	name string
	size int
}

// NewCompositor opens the asset directory. A missing or unreadable directory
// is an error so the caller can resolve the capability once at startup and
// log the fallback.
func NewCompositor(dir string) (*Compositor, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("emoji: asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("emoji: %s is not a directory", dir)
	}
	return &Compositor{dir: dir, cache: make(map[cacheKey]*image.RGBA)}, nil
}

// AssetName maps a grapheme cluster to its SVG file name.
func AssetName(cluster string) string {
	var parts []string
	for _, r := range cluster {
		if r == 0xFE0F {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-") + ".svg"
}

// Render rasterizes the glyph for cluster into a size x size RGBA square.
// Rendered glyphs are cached per size; the same text renders many frames.
func (c *Compositor) Render(cluster string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("emoji: invalid glyph size %d", size)
	}
	name := AssetName(cluster)
	key := cacheKey{name: name, size: size}

	c.mu.Lock()
	img, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	f, err := os.Open(filepath.Join(c.dir, name))
	if err != nil {
		return nil, fmt.Errorf("emoji: no asset for %q: %w", cluster, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("emoji: parse %s: %w", name, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img = image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	c.mu.Lock()
	c.cache[key] = img
	c.mu.Unlock()
	return img, nil
}
