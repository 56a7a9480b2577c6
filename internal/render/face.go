package render

import (
	"log"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// LoadFace loads the TrueType file at path at the given pixel size. A
// missing or unparseable font falls back to the built-in face rather than
// failing the activation.
func LoadFace(path string, size int) font.Face {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("render: font %s unreadable, using built-in face: %v", path, err)
		} else {
			data = b
		}
	}

	f, err := truetype.Parse(data)
	if err != nil {
		log.Printf("render: font %s unparseable, using built-in face: %v", path, err)
		f, _ = truetype.Parse(goregular.TTF)
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
