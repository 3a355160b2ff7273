// Package render draws recall/QPS series to image files.
//
// Two backends share the same Options and output contract: one log-scaled
// line+marker plot per series in its fixed style, optional params annotations,
// major and minor grid lines, a legend to the right of the plot area, and the
// image written to Options.Output.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/style"
)

var (
	ErrNoSeries          = errors.New("nothing to plot")
	ErrNonPositiveQPS    = errors.New("qps must be positive on a log axis")
	ErrUnknownBackend    = errors.New("unknown render backend")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Backend names.
const (
	BackendGoChart = "gochart"
	BackendGonum   = "gonum"
)

// Options controls one rendered image.
type Options struct {
	Title        string
	XLabel       string
	YLabel       string
	Annotate     bool
	WidthInches  float64
	HeightInches float64
	DPI          float64
	FontSize     float64 // points, bold
	Format       string  // png, svg, ... ; empty means derive from Output
	Output       string
}

// DefaultOptions returns a 10x8 inch, 300 DPI figure with bold 20pt text.
func DefaultOptions() Options {
	return Options{
		XLabel:       "Recall",
		YLabel:       "QPS (1/s)",
		WidthInches:  10,
		HeightInches: 8,
		DPI:          300,
		FontSize:     20,
	}
}

// withDefaults fills zero fields from DefaultOptions and resolves Format.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.XLabel == "" {
		o.XLabel = d.XLabel
	}
	if o.YLabel == "" {
		o.YLabel = d.YLabel
	}
	if o.WidthInches <= 0 {
		o.WidthInches = d.WidthInches
	}
	if o.HeightInches <= 0 {
		o.HeightInches = d.HeightInches
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Format == "" {
		o.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(o.Output)), ".")
	}
	o.Format = strings.TrimPrefix(strings.ToLower(o.Format), ".")
	if o.Format == "" {
		o.Format = "png"
	}
	return o
}

// PixelSize returns the raster size of the figure.
func (o Options) PixelSize() (int, int) {
	o = o.withDefaults()
	return int(math.Round(o.WidthInches * o.DPI)), int(math.Round(o.HeightInches * o.DPI))
}

// pointPx is the number of pixels per typographic point.
func (o Options) pointPx() float64 { return o.DPI / 72 }

// Renderer draws series to opts.Output.
type Renderer interface {
	Render(series []*analysis.Series, styles style.Resolver, opts Options) error
}

// New returns the renderer for a backend name; empty means gochart.
func New(backend string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendGoChart:
		return &GoChart{}, nil
	case BackendGonum:
		return &Gonum{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, backend)
}

// Formats lists the output formats a backend can write.
func Formats(backend string) []string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendGoChart:
		return []string{"png", "svg"}
	case BackendGonum:
		return []string{"png", "svg", "pdf", "eps", "tiff", "tif", "jpeg", "jpg"}
	}
	return nil
}

// SupportsFormat reports whether backend can write format.
func SupportsFormat(backend, format string) bool {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	for _, f := range Formats(backend) {
		if f == format {
			return true
		}
	}
	return false
}

// OutputPath derives the image path from an input path: a trailing .csv,
// .jsonl or .ndjson is replaced by "."+ext, any other name gets "."+ext
// appended. ext defaults to png.
func OutputPath(input, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = "png"
	}
	base := input
	switch strings.ToLower(filepath.Ext(input)) {
	case ".csv", ".jsonl", ".ndjson":
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return base + "." + ext
}

// styled is a series paired with its resolved style.
type styled struct {
	*analysis.Series
	Style style.Style
}

type bounds struct {
	minRecall, maxRecall float64
	minQPS, maxQPS       float64
}

// prepare resolves styles and the data extent. Series without points stay in
// the legend.
func prepare(series []*analysis.Series, styles style.Resolver) ([]styled, bounds, error) {
	b := bounds{
		minRecall: math.Inf(1), maxRecall: math.Inf(-1),
		minQPS: math.Inf(1), maxQPS: math.Inf(-1),
	}
	if len(series) == 0 {
		return nil, b, ErrNoSeries
	}
	out := make([]styled, 0, len(series))
	points := 0
	for _, s := range series {
		if len(s.Recall) != len(s.QPS) || len(s.Recall) != len(s.Params) {
			return nil, b, fmt.Errorf("series %s: mismatched lengths recall=%d qps=%d params=%d",
				s.Label, len(s.Recall), len(s.QPS), len(s.Params))
		}
		st, err := styles.Resolve(s.Label)
		if err != nil {
			return nil, b, err
		}
		for i := range s.Recall {
			q := s.QPS[i]
			if !(q > 0) || math.IsInf(q, 0) {
				return nil, b, fmt.Errorf("series %s point %d: qps=%v: %w", s.Label, i, q, ErrNonPositiveQPS)
			}
			b.minRecall = math.Min(b.minRecall, s.Recall[i])
			b.maxRecall = math.Max(b.maxRecall, s.Recall[i])
			b.minQPS = math.Min(b.minQPS, q)
			b.maxQPS = math.Max(b.maxQPS, q)
			points++
		}
		out = append(out, styled{Series: s, Style: st})
	}
	if points == 0 {
		return nil, b, fmt.Errorf("%w: all series are empty", ErrNoSeries)
	}
	return out, b, nil
}

// writeOutput writes buf to path, creating the parent directory.
func writeOutput(path string, buf *bytes.Buffer) error {
	if path == "" {
		return errors.New("no output path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
