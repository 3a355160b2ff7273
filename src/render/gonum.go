package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"time"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/logging"
	"github.com/sisap-challenges/challenge2024/src/style"
)

// Gonum renders with gonum.org/v1/plot and supports vector formats.
type Gonum struct{}

// Render implements Renderer.
func (g *Gonum) Render(series []*analysis.Series, styles style.Resolver, opts Options) error {
	defer logging.TimeTrack(time.Now(), "gonum render")
	opts = opts.withDefaults()
	if !SupportsFormat(BackendGonum, opts.Format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
	sts, b, err := prepare(series, styles)
	if err != nil {
		return err
	}

	fnt := font.Font{
		Typeface: "Liberation",
		Variant:  "Sans",
		Weight:   xfont.WeightBold,
		Size:     vg.Points(opts.FontSize),
	}
	p, legend, err := buildPlot(sts, b, opts, fnt)
	if err != nil {
		return err
	}
	names := make([]string, len(sts))
	for i, s := range sts {
		names[i] = s.Label
	}

	w := vg.Length(opts.WidthInches) * vg.Inch
	h := vg.Length(opts.HeightInches) * vg.Inch
	c, err := newCanvas(opts.Format, w, h, opts.DPI)
	if err != nil {
		return err
	}
	dc := draw.New(c)
	drawWithOutsideLegend(dc, p, &legend, names, fnt)

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode %s: %w", opts.Format, err)
	}
	return writeOutput(opts.Output, &buf)
}

func buildPlot(sts []styled, b bounds, opts Options, fnt font.Font) (*plot.Plot, plot.Legend, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font = fnt
	p.X.Label.Text = opts.XLabel
	p.X.Label.TextStyle.Font = fnt
	p.Y.Label.Text = opts.YLabel
	p.Y.Label.TextStyle.Font = fnt
	p.X.Tick.Label.Font = fnt
	p.Y.Tick.Label.Font = fnt

	xt := recallTicks(b.minRecall, b.maxRecall)
	p.X.Tick.Marker = plot.ConstantTicks(toPlotTicks(xt))
	p.X.Min, p.X.Max = xt[0].Value, xt[len(xt)-1].Value

	yt := decadeTicks(b.minQPS, b.maxQPS)
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.ConstantTicks(toPlotTicks(yt))
	p.Y.Min, p.Y.Max = yt[0].Value, yt[len(yt)-1].Value

	grid := plotter.NewGrid()
	grid.Vertical = draw.LineStyle{Color: color.Gray{Y: 176}, Width: vg.Points(0.8)}
	grid.Horizontal = grid.Vertical
	p.Add(grid, minorGrid{LineStyle: draw.LineStyle{Color: color.Gray{Y: 221}, Width: vg.Points(0.5)}})

	legend := plot.NewLegend()
	legend.TextStyle.Font = fnt
	legend.Top = true
	legend.Left = true
	legend.ThumbnailWidth = vg.Points(2 * opts.FontSize)
	legend.Padding = vg.Points(0.5 * opts.FontSize)

	for _, s := range sts {
		xys := make(plotter.XYs, len(s.Recall))
		for i := range s.Recall {
			xys[i].X = s.Recall[i]
			xys[i].Y = s.QPS[i]
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, legend, fmt.Errorf("series %s: %w", s.Label, err)
		}
		line.LineStyle = draw.LineStyle{
			Color:  s.Style.Color,
			Width:  vg.Points(1.5),
			Dashes: gonumDashes(s.Style.LineStyle, 1.5),
		}
		points.GlyphStyle = draw.GlyphStyle{
			Color:  s.Style.Color,
			Radius: vg.Points(3),
			Shape:  glyphFor(s.Style.Marker),
		}
		if len(xys) > 0 {
			p.Add(line, points)
		}
		legend.Add(s.Label, line, points)

		if opts.Annotate && len(xys) > 0 {
			labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: s.Params})
			if err != nil {
				return nil, legend, fmt.Errorf("series %s labels: %w", s.Label, err)
			}
			for i := range labels.TextStyle {
				labels.TextStyle[i].Font = fnt
				labels.TextStyle[i].XAlign = text.XCenter
			}
			labels.Offset = vg.Point{Y: vg.Points(4)}
			p.Add(labels)
		}
	}
	return p, legend, nil
}

// drawWithOutsideLegend draws p into the left part of dc and the legend
// right of the data area, top-aligned with it.
func drawWithOutsideLegend(dc draw.Canvas, p *plot.Plot, legend *plot.Legend, names []string, fnt font.Font) {
	var labelW vg.Length
	for _, name := range names {
		if w := legend.TextStyle.Width(" " + name); w > labelW {
			labelW = w
		}
	}
	pad := vg.Points(0.4 * fnt.Size.Points())
	legendW := legend.ThumbnailWidth + labelW
	width := dc.Max.X - dc.Min.X
	plotArea := draw.Crop(dc, 0, -(legendW + 2*pad + width*0.05), 0, 0)
	p.Draw(plotArea)

	data := p.DataCanvas(plotArea)
	left := data.Max.X + (data.Max.X-data.Min.X)*0.05 + pad
	top := data.Max.Y - pad
	// Legend.Rectangle mirrors X when Left is set, so only its height is used.
	r := legend.Rectangle(dc)
	height := r.Max.Y - r.Min.Y
	area := draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: left, Y: top - height},
			Max: vg.Point{X: left + legendW, Y: top},
		},
	}
	frame := vg.Rectangle{
		Min: vg.Point{X: area.Min.X - pad, Y: area.Min.Y - pad},
		Max: vg.Point{X: area.Max.X + pad, Y: area.Max.Y + pad},
	}
	corners := []vg.Point{
		frame.Min,
		{X: frame.Max.X, Y: frame.Min.Y},
		frame.Max,
		{X: frame.Min.X, Y: frame.Max.Y},
	}
	dc.FillPolygon(color.White, corners)
	dc.StrokeLines(draw.LineStyle{Color: color.Gray{Y: 204}, Width: vg.Points(0.8)}, append(corners, corners[0]))
	legend.Draw(area)
}

func toPlotTicks(ts []axisTick) []plot.Tick {
	out := make([]plot.Tick, 0, len(ts))
	for _, t := range ts {
		// plot treats an empty label as a minor tick
		out = append(out, plot.Tick{Value: t.Value, Label: t.Label})
	}
	return out
}

// minorGrid draws lines at the unlabeled ticks; plotter.Grid only draws
// the labeled ones.
type minorGrid struct {
	draw.LineStyle
}

func (g minorGrid) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, tk := range plt.X.Tick.Marker.Ticks(plt.X.Min, plt.X.Max) {
		if !tk.IsMinor() {
			continue
		}
		if x := trX(tk.Value); x >= c.Min.X && x <= c.Max.X {
			c.StrokeLine2(g.LineStyle, x, c.Min.Y, x, c.Max.Y)
		}
	}
	for _, tk := range plt.Y.Tick.Marker.Ticks(plt.Y.Min, plt.Y.Max) {
		if !tk.IsMinor() {
			continue
		}
		if y := trY(tk.Value); y >= c.Min.Y && y <= c.Max.Y {
			c.StrokeLine2(g.LineStyle, c.Min.X, y, c.Max.X, y)
		}
	}
}

func gonumDashes(ls style.LineStyle, width float64) []vg.Length {
	d := dashArray(ls, width)
	if d == nil {
		return nil
	}
	out := make([]vg.Length, len(d))
	for i, v := range d {
		out[i] = vg.Points(v)
	}
	return out
}

func glyphFor(m style.Marker) draw.GlyphDrawer {
	switch m {
	case style.MarkerCircle:
		return draw.CircleGlyph{}
	case style.MarkerTriangleUp:
		return draw.PyramidGlyph{}
	case style.MarkerSquare:
		return draw.BoxGlyph{}
	case style.MarkerPentagon:
		return polygonGlyph{sides: 5, scale: 1.15}
	case style.MarkerDiamond:
		return polygonGlyph{sides: 4, scale: 1.2}
	case style.MarkerX:
		return strokeGlyph{diagonal: true}
	case style.MarkerPlus:
		return strokeGlyph{}
	}
	return draw.CircleGlyph{}
}

// polygonGlyph is a filled regular polygon with a vertex pointing up.
type polygonGlyph struct {
	sides int
	scale float64
}

func (g polygonGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius * vg.Length(g.scale)
	p := make(vg.Path, 0, g.sides+1)
	for i := 0; i < g.sides; i++ {
		a := math.Pi/2 + float64(i)*2*math.Pi/float64(g.sides)
		v := vg.Point{X: pt.X + r*vg.Length(math.Cos(a)), Y: pt.Y + r*vg.Length(math.Sin(a))}
		if i == 0 {
			p.Move(v)
		} else {
			p.Line(v)
		}
	}
	p.Close()
	c.Fill(p)
}

// strokeGlyph draws a plus, or an x when diagonal, with a 1.5pt stroke.
type strokeGlyph struct {
	diagonal bool
}

func (g strokeGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	ls := draw.LineStyle{Color: sty.Color, Width: vg.Points(1.5)}
	r := sty.Radius
	if g.diagonal {
		r *= 0.85
		c.StrokeLine2(ls, pt.X-r, pt.Y-r, pt.X+r, pt.Y+r)
		c.StrokeLine2(ls, pt.X-r, pt.Y+r, pt.X+r, pt.Y-r)
		return
	}
	c.StrokeLine2(ls, pt.X, pt.Y-r, pt.X, pt.Y+r)
	c.StrokeLine2(ls, pt.X-r, pt.Y, pt.X+r, pt.Y)
}

func newCanvas(format string, w, h vg.Length, dpi float64) (vg.CanvasWriterTo, error) {
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(math.Round(dpi))))
	}
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	case "svg":
		return vgsvg.New(w, h), nil
	case "pdf":
		return vgpdf.New(w, h), nil
	case "eps":
		return vgeps.New(w, h), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
