// Package style holds the fixed per-algorithm plot styles (marker, line style,
// color) and the lookups the renderers use.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
)

// ErrUnknownStyle is returned when a label has no style entry.
var ErrUnknownStyle = errors.New("no style for label")

// Marker is the glyph drawn at each data point.
type Marker string

const (
	MarkerPentagon   Marker = "pentagon"
	MarkerTriangleUp Marker = "triangle_up"
	MarkerX          Marker = "x"
	MarkerCircle     Marker = "circle"
	MarkerSquare     Marker = "square"
	MarkerPlus       Marker = "plus"
	MarkerDiamond    Marker = "diamond"
)

// LineStyle is the dash pattern connecting the points of a series.
type LineStyle string

const (
	LineSolid   LineStyle = "solid"
	LineDashed  LineStyle = "dashed"
	LineDotted  LineStyle = "dotted"
	LineDashDot LineStyle = "dashdot"
)

// Style is the visual identity of one series.
type Style struct {
	Marker    Marker
	LineStyle LineStyle
	Color     color.RGBA
}

func (s Style) String() string {
	return fmt.Sprintf("%s/%s/%s", s.Marker, s.LineStyle, HexColor(s.Color))
}

// Table maps display labels to styles.
type Table map[string]Style

var defaultTable = Table{
	"LMI":            {Marker: MarkerPentagon, LineStyle: LineDotted, Color: namedColors["red"]},
	"HSP":            {Marker: MarkerTriangleUp, LineStyle: LineSolid, Color: namedColors["blue"]},
	"DEGLIB":         {Marker: MarkerX, LineStyle: LineDashed, Color: namedColors["green"]},
	"HIOB":           {Marker: MarkerX, LineStyle: LineDotted, Color: namedColors["purple"]},
	"BL-SearchGraph": {Marker: MarkerCircle, LineStyle: LineSolid, Color: namedColors["black"]},
}

// Default returns a copy of the built-in table.
func Default() Table {
	return defaultTable.Clone()
}

// Clone returns a shallow copy (Style is a value type).
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Lookup returns the style for label.
func (t Table) Lookup(label string) (Style, error) {
	s, ok := t[label]
	if !ok {
		return Style{}, fmt.Errorf("%w %q", ErrUnknownStyle, label)
	}
	return s, nil
}

// Labels returns the table's labels sorted.
func (t Table) Labels() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
