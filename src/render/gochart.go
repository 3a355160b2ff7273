package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/logging"
	"github.com/sisap-challenges/challenge2024/src/style"
)

// GoChart renders PNG or SVG with go-chart.
type GoChart struct{}

var (
	textColor      = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	gridMajorColor = drawing.Color{R: 176, G: 176, B: 176, A: 255}
	gridMinorColor = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	legendFrame    = drawing.Color{R: 204, G: 204, B: 204, A: 255}
)

// Render implements Renderer.
func (g *GoChart) Render(series []*analysis.Series, styles style.Resolver, opts Options) error {
	defer logging.TimeTrack(time.Now(), "gochart render")
	opts = opts.withDefaults()
	if !SupportsFormat(BackendGoChart, opts.Format) {
		return fmt.Errorf("%w: %s (gochart writes png or svg)", ErrUnsupportedFormat, opts.Format)
	}
	sts, b, err := prepare(series, styles)
	if err != nil {
		return err
	}
	f, err := BoldFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	ch := buildChart(sts, b, opts, f)

	provider := chart.PNG
	if opts.Format == "svg" {
		provider = chart.SVG
	}
	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return fmt.Errorf("render %s: %w", opts.Output, err)
	}
	return writeOutput(opts.Output, &buf)
}

// chartLayout holds pixel sizes derived from DPI and font size.
type chartLayout struct {
	px        float64 // pixels per point
	fontSize  float64 // points
	fontPx    int
	lineWidth float64
	markerR   float64
	legend    legendLayout
}

type legendLayout struct {
	pad, sample, gap, rowH int
	width, height          int
	frameWidth             float64
}

func newLayout(sts []styled, opts Options, f *truetype.Font) chartLayout {
	px := opts.pointPx()
	l := chartLayout{
		px:        px,
		fontSize:  opts.FontSize,
		fontPx:    textHeight(f, opts.FontSize, opts.DPI),
		lineWidth: 1.5 * px,
		markerR:   3 * px,
	}
	em := opts.FontSize * px
	maxLabel := 0
	for _, s := range sts {
		if w := textWidth(f, opts.FontSize, opts.DPI, s.Label); w > maxLabel {
			maxLabel = w
		}
	}
	lg := legendLayout{
		pad:        int(0.4 * em),
		sample:     int(2 * em),
		gap:        int(0.8 * em),
		rowH:       l.fontPx + int(0.5*em),
		frameWidth: 0.8 * px,
	}
	lg.width = lg.pad + lg.sample + lg.gap + maxLabel + lg.pad
	lg.height = 2*lg.pad + len(sts)*lg.rowH
	l.legend = lg
	return l
}

func buildChart(sts []styled, b bounds, opts Options, f *truetype.Font) chart.Chart {
	w, h := opts.PixelSize()
	lay := newLayout(sts, opts, f)

	xt := recallTicks(b.minRecall, b.maxRecall)
	yt := decadeTicks(b.minQPS, b.maxQPS)

	textStyle := chart.Style{Font: f, FontSize: opts.FontSize, FontColor: textColor}
	axisStyle := chart.Style{
		Font:        f,
		FontSize:    opts.FontSize,
		FontColor:   textColor,
		StrokeColor: textColor,
		StrokeWidth: 0.8 * lay.px,
	}
	majorGrid := chart.Style{StrokeColor: gridMajorColor, StrokeWidth: 0.8 * lay.px}
	minorGrid := chart.Style{StrokeColor: gridMinorColor, StrokeWidth: 0.5 * lay.px}

	padTop := lay.fontPx
	if opts.Title != "" {
		padTop = 3 * lay.fontPx
	}
	padRight := int(0.05*float64(w)) + lay.legend.width + lay.fontPx/2

	series := make([]chart.Series, 0, len(sts))
	for _, s := range sts {
		series = append(series, markerSeries{
			styled:   s,
			lay:      lay,
			annotate: opts.Annotate,
			font:     f,
		})
	}

	ch := chart.Chart{
		Title: opts.Title,
		TitleStyle: chart.Style{
			Font:      f,
			FontSize:  opts.FontSize,
			FontColor: textColor,
			Padding:   chart.Box{Top: lay.fontPx / 2},
		},
		Width:  w,
		Height: h,
		DPI:    opts.DPI,
		Font:   f,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    padTop,
				Left:   2 * lay.fontPx,
				Right:  padRight,
				Bottom: lay.fontPx / 2,
			},
		},
		XAxis: chart.XAxis{
			Name:           opts.XLabel,
			NameStyle:      textStyle,
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{},
			Ticks:          toChartTicks(xt),
			GridLines:      toGridLines(xt),
			GridMajorStyle: majorGrid,
			GridMinorStyle: minorGrid,
		},
		YAxis: chart.YAxis{
			Name:      opts.YLabel,
			NameStyle: textStyle,
			Style:     axisStyle,
			// left side, like a conventional scientific plot
			AxisType:       chart.YAxisSecondary,
			Range:          &logRange{},
			Ticks:          toChartTicks(yt),
			GridLines:      toGridLines(yt),
			GridMajorStyle: majorGrid,
			GridMinorStyle: minorGrid,
		},
		YAxisSecondary: chart.HideYAxis(),
		Series:         series,
	}
	ch.Elements = []chart.Renderable{legendElement(sts, lay)}
	return ch
}

func toChartTicks(ts []axisTick) []chart.Tick {
	out := make([]chart.Tick, 0, len(ts))
	for _, t := range ts {
		out = append(out, chart.Tick{Value: t.Value, Label: t.Label})
	}
	return out
}

func toGridLines(ts []axisTick) []chart.GridLine {
	out := make([]chart.GridLine, 0, len(ts))
	for _, t := range ts {
		out = append(out, chart.GridLine{Value: t.Value, IsMinor: t.Minor})
	}
	return out
}

func toDrawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// logRange maps values to pixels on a base-10 logarithmic scale.
type logRange struct {
	Min    float64
	Max    float64
	Domain int
}

func (r *logRange) String() string {
	return fmt.Sprintf("LogRange [%g,%g] => %d", r.Min, r.Max, r.Domain)
}

func (r *logRange) IsZero() bool         { return r.Min == 0 && r.Max == 0 }
func (r *logRange) GetMin() float64      { return r.Min }
func (r *logRange) SetMin(min float64)   { r.Min = min }
func (r *logRange) GetMax() float64      { return r.Max }
func (r *logRange) SetMax(max float64)   { r.Max = max }
func (r *logRange) GetDelta() float64    { return r.Max - r.Min }
func (r *logRange) GetDomain() int       { return r.Domain }
func (r *logRange) SetDomain(domain int) { r.Domain = domain }
func (r *logRange) IsDescending() bool   { return false }

// Translate returns the pixel offset of value from the bottom of the range.
// Non-positive values map to 0.
func (r *logRange) Translate(value float64) int {
	if value <= 0 || r.Min <= 0 || r.Max <= r.Min {
		return 0
	}
	lo, hi := math.Log10(r.Min), math.Log10(r.Max)
	return int(math.Round((math.Log10(value) - lo) / (hi - lo) * float64(r.Domain)))
}

// markerSeries draws one series: a styled polyline, a marker per point and
// optional params labels above the markers.
type markerSeries struct {
	styled
	lay      chartLayout
	annotate bool
	font     *truetype.Font
}

func (s markerSeries) GetName() string           { return s.Label }
func (s markerSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s markerSeries) GetStyle() chart.Style {
	return chart.Style{StrokeColor: toDrawingColor(s.Style.Color)}
}

func (s markerSeries) Validate() error {
	if len(s.Recall) != len(s.QPS) || len(s.Recall) != len(s.Params) {
		return fmt.Errorf("series %s: mismatched lengths", s.Label)
	}
	return nil
}

func (s markerSeries) Render(r chart.Renderer, cb chart.Box, xr, yr chart.Range, _ chart.Style) {
	n := len(s.Recall)
	if n == 0 {
		return
	}
	c := toDrawingColor(s.Style.Color)
	xs := make([]int, n)
	ys := make([]int, n)
	for i := 0; i < n; i++ {
		xs[i] = cb.Left + xr.Translate(s.Recall[i])
		ys[i] = cb.Bottom - yr.Translate(s.QPS[i])
	}

	r.SetStrokeColor(c)
	r.SetStrokeWidth(s.lay.lineWidth)
	r.SetStrokeDashArray(dashArray(s.Style.LineStyle, s.lay.lineWidth))
	r.MoveTo(xs[0], ys[0])
	for i := 1; i < n; i++ {
		r.LineTo(xs[i], ys[i])
	}
	r.Stroke()
	r.SetStrokeDashArray(nil)

	for i := 0; i < n; i++ {
		drawMarker(r, s.Style.Marker, c, xs[i], ys[i], s.lay.markerR, s.lay.lineWidth)
	}

	if !s.annotate {
		return
	}
	r.SetFont(s.font)
	r.SetFontSize(s.lay.fontSize)
	r.SetFontColor(textColor)
	lift := int(s.lay.markerR) + s.lay.fontPx/4
	for i := 0; i < n; i++ {
		if s.Params[i] == "" {
			continue
		}
		tb := r.MeasureText(s.Params[i])
		r.Text(s.Params[i], xs[i]-tb.Width()/2, ys[i]-lift)
	}
}

// dashArray returns the on/off pattern for a line style, scaled by width.
func dashArray(ls style.LineStyle, width float64) []float64 {
	var unit []float64
	switch ls {
	case style.LineDashed:
		unit = []float64{3.7, 1.6}
	case style.LineDotted:
		unit = []float64{1, 1.65}
	case style.LineDashDot:
		unit = []float64{6.4, 1.6, 1, 1.6}
	default:
		return nil
	}
	out := make([]float64, len(unit))
	for i, u := range unit {
		out[i] = u * width
	}
	return out
}

// drawMarker draws a filled (or stroked, for x and plus) glyph centered on x,y.
func drawMarker(r chart.Renderer, m style.Marker, c drawing.Color, x, y int, radius, lineWidth float64) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(lineWidth)
	r.SetStrokeDashArray(nil)
	switch m {
	case style.MarkerCircle:
		r.Circle(radius, x, y)
		r.Fill()
	case style.MarkerPentagon:
		polygon(r, x, y, radius*1.15, 5, -math.Pi/2)
		r.Fill()
	case style.MarkerTriangleUp:
		polygon(r, x, y, radius*1.2, 3, -math.Pi/2)
		r.Fill()
	case style.MarkerSquare:
		polygon(r, x, y, radius*1.2, 4, math.Pi/4)
		r.Fill()
	case style.MarkerDiamond:
		polygon(r, x, y, radius*1.2, 4, 0)
		r.Fill()
	case style.MarkerX:
		d := int(math.Round(radius * 0.85))
		r.MoveTo(x-d, y-d)
		r.LineTo(x+d, y+d)
		r.Stroke()
		r.MoveTo(x-d, y+d)
		r.LineTo(x+d, y-d)
		r.Stroke()
	case style.MarkerPlus:
		d := int(math.Round(radius))
		r.MoveTo(x, y-d)
		r.LineTo(x, y+d)
		r.Stroke()
		r.MoveTo(x-d, y)
		r.LineTo(x+d, y)
		r.Stroke()
	default:
		r.Circle(radius, x, y)
		r.Fill()
	}
}

// polygon traces a regular polygon path; the caller fills or strokes it.
func polygon(r chart.Renderer, cx, cy int, radius float64, sides int, start float64) {
	for i := 0; i < sides; i++ {
		a := start + float64(i)*2*math.Pi/float64(sides)
		px := cx + int(math.Round(radius*math.Cos(a)))
		py := cy + int(math.Round(radius*math.Sin(a)))
		if i == 0 {
			r.MoveTo(px, py)
		} else {
			r.LineTo(px, py)
		}
	}
	r.Close()
}

// legendElement draws a framed legend whose upper-left corner sits just
// right of the plot area, level with its top edge.
func legendElement(sts []styled, lay chartLayout) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		lg := lay.legend
		left := cb.Right + int(0.05*float64(cb.Width()))
		top := cb.Top

		r.SetFillColor(drawing.ColorWhite)
		r.SetStrokeColor(legendFrame)
		r.SetStrokeWidth(lg.frameWidth)
		r.SetStrokeDashArray(nil)
		r.MoveTo(left, top)
		r.LineTo(left+lg.width, top)
		r.LineTo(left+lg.width, top+lg.height)
		r.LineTo(left, top+lg.height)
		r.Close()
		r.FillStroke()

		for i, s := range sts {
			cy := top + lg.pad + i*lg.rowH + lg.rowH/2
			x0 := left + lg.pad
			x1 := x0 + lg.sample
			c := toDrawingColor(s.Style.Color)

			r.SetStrokeColor(c)
			r.SetStrokeWidth(lay.lineWidth)
			r.SetStrokeDashArray(dashArray(s.Style.LineStyle, lay.lineWidth))
			r.MoveTo(x0, cy)
			r.LineTo(x1, cy)
			r.Stroke()
			drawMarker(r, s.Style.Marker, c, (x0+x1)/2, cy, lay.markerR, lay.lineWidth)

			r.SetFont(defaults.GetFont())
			r.SetFontSize(lay.fontSize)
			r.SetFontColor(textColor)
			r.Text(s.Label, x1+lg.gap, cy+lay.fontPx/3)
		}
	}
}
