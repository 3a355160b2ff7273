package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var markerShorthands = map[string]Marker{
	"p": MarkerPentagon,
	"^": MarkerTriangleUp,
	"x": MarkerX,
	"o": MarkerCircle,
	"s": MarkerSquare,
	"+": MarkerPlus,
	"D": MarkerDiamond,
}

var lineShorthands = map[string]LineStyle{
	"-":  LineSolid,
	"--": LineDashed,
	":":  LineDotted,
	"-.": LineDashDot,
}

// matplotlib base names plus a few CSS ones used in palettes
var namedColors = map[string]color.RGBA{
	"red":    {R: 0xff, A: 0xff},
	"blue":   {B: 0xff, A: 0xff},
	"green":  {G: 0x80, A: 0xff},
	"purple": {R: 0x80, B: 0x80, A: 0xff},
	"black":  {A: 0xff},
	"orange": {R: 0xff, G: 0xa5, A: 0xff},
	"brown":  {R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff},
	"gray":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"grey":   {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"cyan":   {G: 0xff, B: 0xff, A: 0xff},
	"olive":  {R: 0x80, G: 0x80, A: 0xff},
	"pink":   {R: 0xff, G: 0xc0, B: 0xcb, A: 0xff},
}

// ParseMarker accepts a marker name (pentagon, circle, ...) or its
// matplotlib shorthand (p, o, ...).
func ParseMarker(s string) (Marker, error) {
	s = strings.TrimSpace(s)
	if m, ok := markerShorthands[s]; ok {
		return m, nil
	}
	switch m := Marker(strings.ToLower(s)); m {
	case MarkerPentagon, MarkerTriangleUp, MarkerX, MarkerCircle, MarkerSquare, MarkerPlus, MarkerDiamond:
		return m, nil
	}
	return "", fmt.Errorf("unknown marker %q", s)
}

// ParseLineStyle accepts solid|dashed|dotted|dashdot or - -- : -.
func ParseLineStyle(s string) (LineStyle, error) {
	s = strings.TrimSpace(s)
	if l, ok := lineShorthands[s]; ok {
		return l, nil
	}
	switch l := LineStyle(strings.ToLower(s)); l {
	case LineSolid, LineDashed, LineDotted, LineDashDot:
		return l, nil
	}
	return "", fmt.Errorf("unknown line style %q", s)
}

// ParseColor accepts a color name or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// HexColor formats c as #rrggbb.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
