package style

import (
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	assert.Equal(t, []string{"BL-SearchGraph", "DEGLIB", "HIOB", "HSP", "LMI"}, tbl.Labels())

	lmi, err := tbl.Lookup("LMI")
	require.NoError(t, err)
	assert.Equal(t, Style{Marker: MarkerPentagon, LineStyle: LineDotted, Color: color.RGBA{R: 0xff, A: 0xff}}, lmi)

	hiob, err := tbl.Lookup("HIOB")
	require.NoError(t, err)
	assert.Equal(t, "x/dotted/#800080", hiob.String())
}

func TestDefaultReturnsCopy(t *testing.T) {
	tbl := Default()
	delete(tbl, "HSP")
	_, err := Default().Lookup("HSP")
	assert.NoError(t, err)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("FAISS")
	require.ErrorIs(t, err, ErrUnknownStyle)
	assert.Contains(t, err.Error(), "FAISS")
}

func TestParseShorthands(t *testing.T) {
	m, err := ParseMarker("^")
	require.NoError(t, err)
	assert.Equal(t, MarkerTriangleUp, m)
	m, err = ParseMarker("Diamond")
	require.NoError(t, err)
	assert.Equal(t, MarkerDiamond, m)
	_, err = ParseMarker("*")
	assert.Error(t, err)

	l, err := ParseLineStyle("-.")
	require.NoError(t, err)
	assert.Equal(t, LineDashDot, l)
	l, err = ParseLineStyle("dashed")
	require.NoError(t, err)
	assert.Equal(t, LineDashed, l)
	_, err = ParseLineStyle("~")
	assert.Error(t, err)

	c, err := ParseColor("#1a2B3c")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}, c)
	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("chartreuse-ish")
	assert.Error(t, err)
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "styles.yaml")
	doc := `
HSP:
  color: "#00aa00"
FAISS:
  marker: s
  linestyle: "--"
  color: orange
`
	require.NoError(t, os.WriteFile(p, []byte(doc), 0o644))
	tbl, err := LoadFile(p)
	require.NoError(t, err)

	hsp, err := tbl.Lookup("HSP")
	require.NoError(t, err)
	assert.Equal(t, MarkerTriangleUp, hsp.Marker)
	assert.Equal(t, "#00aa00", HexColor(hsp.Color))

	faiss, err := tbl.Lookup("FAISS")
	require.NoError(t, err)
	assert.Equal(t, Style{Marker: MarkerSquare, LineStyle: LineDashed, Color: color.RGBA{R: 0xff, G: 0xa5, A: 0xff}}, faiss)
}

func TestParseJSONAndErrors(t *testing.T) {
	tbl, err := Parse([]byte(`{"LMI": {"marker": "o"}}`), Default())
	require.NoError(t, err)
	assert.Equal(t, MarkerCircle, tbl["LMI"].Marker)
	assert.Equal(t, MarkerPentagon, Default()["LMI"].Marker)

	_, err = Parse([]byte("NEW:\n  marker: o\n"), Default())
	assert.ErrorContains(t, err, "linestyle required")

	_, err = Parse([]byte("HSP:\n  marker: star\n"), Default())
	assert.ErrorContains(t, err, "unknown marker")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolverFallback(t *testing.T) {
	strict := NewResolver(Default(), false)
	_, err := strict.Resolve("NEW")
	require.ErrorIs(t, err, ErrUnknownStyle)

	r := NewResolver(Default(), true)
	a, err := r.Resolve("A")
	require.NoError(t, err)
	b, err := r.Resolve("B")
	require.NoError(t, err)
	again, err := r.Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, palette[0], a)
	assert.Equal(t, palette[1], b)
	assert.Equal(t, a, again)

	hsp, err := r.Resolve("HSP")
	require.NoError(t, err)
	assert.Equal(t, Default()["HSP"], hsp)
}

func TestResolverConcurrent(t *testing.T) {
	r := NewResolver(Default(), true)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Resolve("SHARED")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.next)
}
