package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"ANNPLOT_QPS_CONSTANT", "ANNPLOT_RECALL_TARGET", "ANNPLOT_BACKEND",
	"ANNPLOT_FORMAT", "ANNPLOT_DPI", "ANNPLOT_ANNOTATE", "ANNPLOT_STYLES_FILE",
	"ANNPLOT_LOG_LEVEL", "ANNPLOT_LOG_FORMAT", "ANNPLOT_PARALLEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, cfg.QPSConstant)
	assert.Equal(t, 0.9, cfg.RecallTarget)
	assert.Equal(t, 1, cfg.Parallel)
	assert.Equal(t, "gochart", cfg.Render.Backend)
	assert.Equal(t, "png", cfg.Render.Format)
	assert.Equal(t, 10.0, cfg.Render.WidthInches)
	assert.Equal(t, 8.0, cfg.Render.HeightInches)
	assert.Equal(t, 300.0, cfg.Render.DPI)
	assert.Equal(t, 20.0, cfg.Render.FontSize)
	assert.Equal(t, "Recall", cfg.Render.XLabel)
	assert.False(t, cfg.Render.Annotate)
	assert.False(t, cfg.Styles.PaletteFallback)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "annplot.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
qps_constant: 5000
render:
  backend: gonum
  format: pdf
  dpi: 150
  annotate: true
styles:
  file: styles.yaml
  palette_fallback: true
logging:
  level: debug
`), 0o644))
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.QPSConstant)
	assert.Equal(t, "gonum", cfg.Render.Backend)
	assert.Equal(t, "pdf", cfg.Render.Format)
	assert.Equal(t, 150.0, cfg.Render.DPI)
	assert.True(t, cfg.Render.Annotate)
	assert.Equal(t, 10.0, cfg.Render.WidthInches, "unset keys keep defaults")
	assert.Equal(t, "styles.yaml", cfg.Styles.File)
	assert.True(t, cfg.Styles.PaletteFallback)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANNPLOT_QPS_CONSTANT", "2000")
	t.Setenv("ANNPLOT_RECALL_TARGET", "0.95")
	t.Setenv("ANNPLOT_BACKEND", "gonum")
	t.Setenv("ANNPLOT_FORMAT", "svg")
	t.Setenv("ANNPLOT_DPI", "72")
	t.Setenv("ANNPLOT_ANNOTATE", "true")
	t.Setenv("ANNPLOT_STYLES_FILE", "/tmp/s.yaml")
	t.Setenv("ANNPLOT_LOG_LEVEL", "warn")
	t.Setenv("ANNPLOT_LOG_FORMAT", "json")
	t.Setenv("ANNPLOT_PARALLEL", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, cfg.QPSConstant)
	assert.Equal(t, 0.95, cfg.RecallTarget)
	assert.Equal(t, "gonum", cfg.Render.Backend)
	assert.Equal(t, "svg", cfg.Render.Format)
	assert.Equal(t, 72.0, cfg.Render.DPI)
	assert.True(t, cfg.Render.Annotate)
	assert.Equal(t, "/tmp/s.yaml", cfg.Styles.File)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Parallel)
}

func TestLoadEnvParseErrors(t *testing.T) {
	for k, v := range map[string]string{
		"ANNPLOT_DPI":      "high",
		"ANNPLOT_ANNOTATE": "maybe",
		"ANNPLOT_PARALLEL": "two",
	} {
		clearEnv(t)
		t.Setenv(k, v)
		_, err := Load("")
		assert.ErrorIs(t, err, ErrInvalid, k)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero constant": func(c *Config) { c.QPSConstant = 0 },
		"recall target": func(c *Config) { c.RecallTarget = 1.5 },
		"parallel":      func(c *Config) { c.Parallel = 0 },
		"width":         func(c *Config) { c.Render.WidthInches = -1 },
		"dpi":           func(c *Config) { c.Render.DPI = 0 },
		"font":          func(c *Config) { c.Render.FontSize = 0 },
		"backend":       func(c *Config) { c.Render.Backend = "matplotlib" },
		"gochart pdf":   func(c *Config) { c.Render.Format = "pdf" },
		"log level":     func(c *Config) { c.Logging.Level = "trace" },
		"log format":    func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		c := Default()
		mutate(c)
		assert.ErrorIs(t, c.Validate(), ErrInvalid, name)
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadMissingAndBadFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("render: [1, 2"), 0o644))
	_, err = Load(p)
	assert.ErrorContains(t, err, "parse config")
}

func TestRenderOptions(t *testing.T) {
	c := Default()
	c.Render.Annotate = true
	o := c.RenderOptions("Run 1", "out/run1.png")
	assert.Equal(t, "Run 1", o.Title)
	assert.Equal(t, "out/run1.png", o.Output)
	assert.True(t, o.Annotate)
	assert.Equal(t, 300.0, o.DPI)
}
