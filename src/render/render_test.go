package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/style"
)

func sampleSeries() []*analysis.Series {
	return []*analysis.Series{
		{Label: "HSP", Recall: []float64{0.5, 0.7, 0.9}, QPS: []float64{5000, 2500, 400}, Params: []string{"a", "b", "c"}},
		{Label: "LMI", Recall: []float64{0.6, 0.95}, QPS: []float64{12000, 80}, Params: []string{"x", "y"}},
		{Label: "HIOB", Recall: []float64{0.3}, QPS: []float64{30}, Params: []string{""}},
	}
}

func smallOptions(out string) Options {
	o := DefaultOptions()
	o.Title = "test"
	o.WidthInches = 6
	o.HeightInches = 4
	o.DPI = 40
	o.FontSize = 8
	o.Annotate = true
	o.Output = out
	return o
}

func TestRenderPNGBothBackends(t *testing.T) {
	for _, backend := range []string{BackendGoChart, BackendGonum} {
		t.Run(backend, func(t *testing.T) {
			r, err := New(backend)
			require.NoError(t, err)
			out := filepath.Join(t.TempDir(), "nested", "plot.png")
			opts := smallOptions(out)
			require.NoError(t, r.Render(sampleSeries(), style.NewResolver(style.Default(), false), opts))

			f, err := os.Open(out)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			w, h := opts.PixelSize()
			assert.Equal(t, 240, w)
			assert.Equal(t, 160, h)
			assert.Equal(t, w, img.Bounds().Dx())
			assert.Equal(t, h, img.Bounds().Dy())
		})
	}
}

func TestRenderSVG(t *testing.T) {
	for _, backend := range []string{BackendGoChart, BackendGonum} {
		t.Run(backend, func(t *testing.T) {
			r, err := New(backend)
			require.NoError(t, err)
			out := filepath.Join(t.TempDir(), "plot.svg")
			require.NoError(t, r.Render(sampleSeries(), style.NewResolver(style.Default(), false), smallOptions(out)))
			b, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.Contains(b, []byte("<svg")), "not an svg document")
		})
	}
}

func TestRenderGonumPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.pdf")
	require.NoError(t, (&Gonum{}).Render(sampleSeries(), style.NewResolver(style.Default(), false), smallOptions(out)))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF"))
}

func TestRenderUnsupportedFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.pdf")
	err := (&GoChart{}).Render(sampleSeries(), style.NewResolver(style.Default(), false), smallOptions(out))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRenderErrors(t *testing.T) {
	strict := style.NewResolver(style.Default(), false)
	out := filepath.Join(t.TempDir(), "plot.png")
	for _, backend := range []string{BackendGoChart, BackendGonum} {
		r, err := New(backend)
		require.NoError(t, err)

		err = r.Render(nil, strict, smallOptions(out))
		assert.ErrorIs(t, err, ErrNoSeries, backend)

		err = r.Render([]*analysis.Series{{Label: "HSP"}}, strict, smallOptions(out))
		assert.ErrorIs(t, err, ErrNoSeries, backend)

		unknown := []*analysis.Series{{Label: "NEW", Recall: []float64{0.5}, QPS: []float64{10}, Params: []string{""}}}
		err = r.Render(unknown, strict, smallOptions(out))
		assert.ErrorIs(t, err, style.ErrUnknownStyle, backend)

		zero := []*analysis.Series{{Label: "HSP", Recall: []float64{0.5}, QPS: []float64{0}, Params: []string{""}}}
		err = r.Render(zero, strict, smallOptions(out))
		assert.ErrorIs(t, err, ErrNonPositiveQPS, backend)
	}
	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("matplotlib")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	r, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &GoChart{}, r)
}

func TestFormats(t *testing.T) {
	assert.True(t, SupportsFormat(BackendGoChart, "PNG"))
	assert.True(t, SupportsFormat(BackendGonum, ".pdf"))
	assert.False(t, SupportsFormat(BackendGoChart, "pdf"))
	assert.Nil(t, Formats("nope"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "results/run1.png", OutputPath("results/run1.csv", "png"))
	assert.Equal(t, "run.svg", OutputPath("run.jsonl", ".svg"))
	assert.Equal(t, "data.txt.png", OutputPath("data.txt", ""))
	assert.Equal(t, "noext.png", OutputPath("noext", "png"))
}

func TestWithDefaults(t *testing.T) {
	o := Options{Output: "x/y.SVG"}.withDefaults()
	assert.Equal(t, "svg", o.Format)
	assert.Equal(t, 300.0, o.DPI)
	assert.Equal(t, 20.0, o.FontSize)
	w, h := o.PixelSize()
	assert.Equal(t, 3000, w)
	assert.Equal(t, 2400, h)

	o = Options{Output: "plain"}.withDefaults()
	assert.Equal(t, "png", o.Format)
}
