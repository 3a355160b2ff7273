package render

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

var (
	boldOnce sync.Once
	boldFont *truetype.Font
	boldErr  error
)

// BoldFont returns the parsed Go Bold font. It is parsed once and shared.
func BoldFont() (*truetype.Font, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = truetype.Parse(gobold.TTF)
	})
	return boldFont, boldErr
}

// textWidth measures s in pixels at size points and dpi.
func textWidth(f *truetype.Font, size, dpi float64, s string) int {
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
	defer face.Close()
	return font.MeasureString(face, s).Ceil()
}

// textHeight is the ascent plus descent of the face in pixels.
func textHeight(f *truetype.Font, size, dpi float64) int {
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
	defer face.Close()
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}
