// Package config holds the settings shared by the command line tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/logging"
	"github.com/sisap-challenges/challenge2024/src/render"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	QPSConstant  float64       `yaml:"qps_constant"`
	RecallTarget float64       `yaml:"recall_target"`
	Parallel     int           `yaml:"parallel"`
	Render       RenderConfig  `yaml:"render"`
	Styles       StylesConfig  `yaml:"styles"`
	Logging      LoggingConfig `yaml:"logging"`
}

type RenderConfig struct {
	Backend      string  `yaml:"backend"`
	Format       string  `yaml:"format"`
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
	DPI          float64 `yaml:"dpi"`
	FontSize     float64 `yaml:"font_size"`
	XLabel       string  `yaml:"x_label"`
	YLabel       string  `yaml:"y_label"`
	Annotate     bool    `yaml:"annotate"`
}

type StylesConfig struct {
	File            string `yaml:"file"`
	PaletteFallback bool   `yaml:"palette_fallback"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	ro := render.DefaultOptions()
	return &Config{
		QPSConstant:  analysis.DefaultQPSConstant,
		RecallTarget: 0.9,
		Parallel:     1,
		Render: RenderConfig{
			Backend:      render.BackendGoChart,
			Format:       "png",
			WidthInches:  ro.WidthInches,
			HeightInches: ro.HeightInches,
			DPI:          ro.DPI,
			FontSize:     ro.FontSize,
			XLabel:       ro.XLabel,
			YLabel:       ro.YLabel,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load applies an optional YAML file and ANNPLOT_* environment variables on
// top of Default, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	float := func(name string, dst *float64) error {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalid, name, v)
			}
			*dst = f
		}
		return nil
	}
	if err := float("ANNPLOT_QPS_CONSTANT", &cfg.QPSConstant); err != nil {
		return err
	}
	if err := float("ANNPLOT_RECALL_TARGET", &cfg.RecallTarget); err != nil {
		return err
	}
	if err := float("ANNPLOT_DPI", &cfg.Render.DPI); err != nil {
		return err
	}
	if v := os.Getenv("ANNPLOT_BACKEND"); v != "" {
		cfg.Render.Backend = v
	}
	if v := os.Getenv("ANNPLOT_FORMAT"); v != "" {
		cfg.Render.Format = v
	}
	if v := os.Getenv("ANNPLOT_ANNOTATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: ANNPLOT_ANNOTATE=%q", ErrInvalid, v)
		}
		cfg.Render.Annotate = b
	}
	if v := os.Getenv("ANNPLOT_STYLES_FILE"); v != "" {
		cfg.Styles.File = v
	}
	if v := os.Getenv("ANNPLOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ANNPLOT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ANNPLOT_PARALLEL"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: ANNPLOT_PARALLEL=%q", ErrInvalid, v)
		}
		cfg.Parallel = n
	}
	return nil
}

// Validate checks ranges and names. Load calls it; callers that change
// fields afterwards (flags) should call it again.
func (c *Config) Validate() error {
	switch {
	case !(c.QPSConstant > 0):
		return fmt.Errorf("%w: qps_constant must be positive, got %v", ErrInvalid, c.QPSConstant)
	case c.RecallTarget < 0 || c.RecallTarget > 1:
		return fmt.Errorf("%w: recall_target must be in [0,1], got %v", ErrInvalid, c.RecallTarget)
	case c.Parallel < 1:
		return fmt.Errorf("%w: parallel must be at least 1, got %d", ErrInvalid, c.Parallel)
	case !(c.Render.WidthInches > 0) || !(c.Render.HeightInches > 0):
		return fmt.Errorf("%w: figure size %vx%v", ErrInvalid, c.Render.WidthInches, c.Render.HeightInches)
	case !(c.Render.DPI > 0):
		return fmt.Errorf("%w: dpi must be positive, got %v", ErrInvalid, c.Render.DPI)
	case !(c.Render.FontSize > 0):
		return fmt.Errorf("%w: font_size must be positive, got %v", ErrInvalid, c.Render.FontSize)
	}
	if _, err := render.New(c.Render.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !render.SupportsFormat(c.Render.Backend, c.Render.Format) {
		return fmt.Errorf("%w: backend %s cannot write %q (supported: %s)", ErrInvalid,
			c.Render.Backend, c.Render.Format, strings.Join(render.Formats(c.Render.Backend), ", "))
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// RenderOptions converts the render section into render.Options for output.
func (c *Config) RenderOptions(title, output string) render.Options {
	return render.Options{
		Title:        title,
		XLabel:       c.Render.XLabel,
		YLabel:       c.Render.YLabel,
		Annotate:     c.Render.Annotate,
		WidthInches:  c.Render.WidthInches,
		HeightInches: c.Render.HeightInches,
		DPI:          c.Render.DPI,
		FontSize:     c.Render.FontSize,
		Format:       c.Render.Format,
		Output:       output,
	}
}
