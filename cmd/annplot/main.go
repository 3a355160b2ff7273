// Command annplot draws recall/QPS Pareto plots from benchmark results.
//
//	annplot [flags] results.csv [more.csv ...]
//
// Every input is written next to itself with its data extension replaced by
// the output format (results/run1.csv -> results/run1.png).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/config"
	"github.com/sisap-challenges/challenge2024/src/logging"
	"github.com/sisap-challenges/challenge2024/src/render"
	"github.com/sisap-challenges/challenge2024/src/results"
	"github.com/sisap-challenges/challenge2024/src/style"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK = iota
	exitUsage
	exitLoad
	exitStyle
	exitRender
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, err error) error { return &exitError{code: code, err: err} }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath      string
	title           string
	backend         string
	format          string
	annotate        bool
	stylesFile      string
	paletteFallback bool
	qpsConstant     float64
	recallTarget    float64
	width           float64
	height          float64
	dpi             float64
	xLabel          string
	yLabel          string
	logLevel        string
	parallel        int
	reportJSON      string
	showVersion     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, map[string]bool, error) {
	o := &options{}
	fs := flag.NewFlagSet("annplot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	d := config.Default()
	fs.StringVar(&o.configPath, "config", "", "YAML config file (optional)")
	fs.StringVar(&o.title, "title", "", "Plot title")
	fs.StringVar(&o.backend, "backend", d.Render.Backend, "Render backend (gochart|gonum)")
	fs.StringVar(&o.format, "format", d.Render.Format, "Output format (gochart: png|svg; gonum: png|svg|pdf|eps|tiff|jpeg)")
	fs.BoolVar(&o.annotate, "annotate", d.Render.Annotate, "Label every point with its params")
	fs.StringVar(&o.stylesFile, "styles", "", "YAML file with label: {marker, linestyle, color} overrides")
	fs.BoolVar(&o.paletteFallback, "palette-fallback", false, "Give labels without a style a palette style instead of failing")
	fs.Float64Var(&o.qpsConstant, "qps-constant", d.QPSConstant, "Queries per run; qps = constant / querytime")
	fs.Float64Var(&o.recallTarget, "recall-target", d.RecallTarget, "Recall level reported in --report-json")
	fs.Float64Var(&o.width, "width", d.Render.WidthInches, "Figure width in inches")
	fs.Float64Var(&o.height, "height", d.Render.HeightInches, "Figure height in inches")
	fs.Float64Var(&o.dpi, "dpi", d.Render.DPI, "Raster resolution")
	fs.StringVar(&o.xLabel, "xlabel", d.Render.XLabel, "X axis label")
	fs.StringVar(&o.yLabel, "ylabel", d.Render.YLabel, "Y axis label")
	fs.StringVar(&o.logLevel, "log-level", d.Logging.Level, "Log level (debug|info|warn|error)")
	fs.IntVar(&o.parallel, "parallel", d.Parallel, "Maximum inputs rendered concurrently")
	fs.StringVar(&o.reportJSON, "report-json", "", "Write per-input series summaries as JSON to this path")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: annplot [flags] results.csv [more.csv ...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, fs.Args(), set, nil
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cfg *config.Config, o *options, set map[string]bool) {
	if set["backend"] {
		cfg.Render.Backend = o.backend
	}
	if set["format"] {
		cfg.Render.Format = o.format
	}
	if set["annotate"] {
		cfg.Render.Annotate = o.annotate
	}
	if set["styles"] {
		cfg.Styles.File = o.stylesFile
	}
	if set["palette-fallback"] {
		cfg.Styles.PaletteFallback = o.paletteFallback
	}
	if set["qps-constant"] {
		cfg.QPSConstant = o.qpsConstant
	}
	if set["recall-target"] {
		cfg.RecallTarget = o.recallTarget
	}
	if set["width"] {
		cfg.Render.WidthInches = o.width
	}
	if set["height"] {
		cfg.Render.HeightInches = o.height
	}
	if set["dpi"] {
		cfg.Render.DPI = o.dpi
	}
	if set["xlabel"] {
		cfg.Render.XLabel = o.xLabel
	}
	if set["ylabel"] {
		cfg.Render.YLabel = o.yLabel
	}
	if set["log-level"] {
		cfg.Logging.Level = o.logLevel
	}
	if set["parallel"] {
		cfg.Parallel = o.parallel
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	errOut := color.New(color.FgHiRed)
	o, inputs, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if o.showVersion {
		fmt.Fprintf(stdout, "annplot %s\n", version)
		return exitOK
	}
	if len(inputs) == 0 {
		errOut.Fprintln(stderr, "annplot: at least one results file is required")
		return exitUsage
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		errOut.Fprintln(stderr, err)
		return exitUsage
	}
	applyFlags(cfg, o, set)
	if err := cfg.Validate(); err != nil {
		errOut.Fprintln(stderr, err)
		return exitUsage
	}
	logging.SetupWriter(stderr, cfg.Logging.Level, cfg.Logging.Format)

	if err := plotAll(context.Background(), cfg, o.title, o.reportJSON, inputs, stdout, stderr); err != nil {
		errOut.Fprintln(stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return exitRender
	}
	return exitOK
}

// inputReport is one entry of --report-json.
type inputReport struct {
	Input     string                   `json:"input"`
	Output    string                   `json:"output"`
	Records   int                      `json:"records"`
	Series    []analysis.SeriesSummary `json:"series"`
	ElapsedMs int64                    `json:"elapsed_ms"`
}

type report struct {
	GeneratedAt  string        `json:"generated_at"`
	Version      string        `json:"version"`
	Backend      string        `json:"backend"`
	QPSConstant  float64       `json:"qps_constant"`
	RecallTarget float64       `json:"recall_target"`
	Inputs       []inputReport `json:"inputs"`
}

func plotAll(ctx context.Context, cfg *config.Config, title, reportPath string, inputs []string, stdout, stderr io.Writer) error {
	table := style.Default()
	if cfg.Styles.File != "" {
		t, err := style.LoadFile(cfg.Styles.File)
		if err != nil {
			return fail(exitStyle, err)
		}
		table = t
	}
	resolver := style.NewResolver(table, cfg.Styles.PaletteFallback)
	renderer, err := render.New(cfg.Render.Backend)
	if err != nil {
		return fail(exitUsage, err)
	}

	var bar *progressbar.ProgressBar
	if len(inputs) > 1 {
		bar = progressbar.NewOptions(len(inputs),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	reports := make([]inputReport, len(inputs))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := plotOne(cfg, renderer, resolver, title, in)
			if err != nil {
				return err
			}
			reports[i] = rep
			if bar != nil {
				mu.Lock()
				_ = bar.Add(1)
				mu.Unlock()
			} else {
				fmt.Fprintf(stdout, "wrote %s\n", rep.Output)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		for _, r := range reports {
			fmt.Fprintf(stdout, "wrote %s\n", r.Output)
		}
	}

	if reportPath != "" {
		rep := report{
			GeneratedAt:  time.Now().UTC().Format(time.RFC3339Nano),
			Version:      version,
			Backend:      cfg.Render.Backend,
			QPSConstant:  cfg.QPSConstant,
			RecallTarget: cfg.RecallTarget,
			Inputs:       reports,
		}
		if err := writeReport(reportPath, rep); err != nil {
			return fail(exitRender, err)
		}
		log.Info().Str("path", reportPath).Msg("wrote report")
	}
	return nil
}

// plotOne runs load, group, frontier and render for a single input.
func plotOne(cfg *config.Config, r render.Renderer, styles style.Resolver, title, input string) (inputReport, error) {
	start := time.Now()
	rep := inputReport{Input: input, Output: render.OutputPath(input, cfg.Render.Format)}
	recs, err := results.Load(input)
	if err != nil {
		return rep, fail(exitLoad, err)
	}
	rep.Records = len(recs)
	series := analysis.GroupSeries(recs, cfg.QPSConstant)
	// summaries need every point, the plot only the frontier
	rep.Series = analysis.Summarize(series, cfg.RecallTarget)
	analysis.ApplyParetoFrontierAll(series)
	log.Debug().Str("input", input).Int("records", len(recs)).Int("series", len(series)).Msg("grouped")

	if err := r.Render(series, styles, cfg.RenderOptions(title, rep.Output)); err != nil {
		if errors.Is(err, style.ErrUnknownStyle) {
			return rep, fail(exitStyle, fmt.Errorf("%s: %w", input, err))
		}
		return rep, fail(exitRender, fmt.Errorf("%s: %w", input, err))
	}
	rep.ElapsedMs = time.Since(start).Milliseconds()
	log.Debug().Str("output", rep.Output).Int64("ms", rep.ElapsedMs).Msg("rendered")
	return rep, nil
}

func writeReport(path string, rep report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
