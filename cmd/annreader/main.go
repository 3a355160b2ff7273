// Command annreader prints per-algorithm summaries of a benchmark results file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sisap-challenges/challenge2024/src/analysis"
	"github.com/sisap-challenges/challenge2024/src/logging"
	"github.com/sisap-challenges/challenge2024/src/results"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("annreader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file string
	var recall, qpsConstant float64
	var frontier bool
	var logLevel string
	fs.StringVar(&file, "file", "", "Results file (.csv or .jsonl); may also be given as the first argument")
	fs.Float64Var(&recall, "recall", 0.9, "Recall target for the QPS-at-recall column")
	fs.Float64Var(&qpsConstant, "qps-constant", analysis.DefaultQPSConstant, "Queries per run; qps = constant / querytime")
	fs.BoolVar(&frontier, "frontier", false, "Also print every Pareto frontier point")
	fs.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if file == "" && fs.NArg() > 0 {
		file = fs.Arg(0)
	}
	errOut := color.New(color.FgHiRed)
	if file == "" {
		errOut.Fprintln(stderr, "annreader: no results file given")
		return 1
	}
	logging.SetupWriter(stderr, logLevel, "console")

	recs, err := results.Load(file)
	if err != nil {
		errOut.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	series := analysis.GroupSeries(recs, qpsConstant)
	sums := analysis.Summarize(series, recall)
	printSummaries(stdout, file, len(recs), sums)

	if frontier {
		analysis.ApplyParetoFrontierAll(series)
		printFrontiers(stdout, series)
	}
	return 0
}

func printSummaries(w io.Writer, file string, records int, sums []analysis.SeriesSummary) {
	title := color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	label := color.New(color.FgHiCyan).SprintFunc()
	good := color.New(color.FgGreen).SprintFunc()
	miss := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s: %d records, %d algorithms\n", title(file), records, len(sums))
	var best analysis.SeriesSummary
	for _, s := range sums {
		if s.QPSAtRecall > best.QPSAtRecall {
			best = s
		}
	}
	for _, s := range sums {
		at := miss(fmt.Sprintf("never reaches recall %.3g", s.RecallTarget))
		if s.QPSAtRecall > 0 {
			at = good(fmt.Sprintf("%.1f qps @ recall>=%.3g (%s)", s.QPSAtRecall, s.RecallTarget, s.ParamsAtRecall))
			if ratio := analysis.CompareAtRecall(s, best); ratio > 0 && s.Label != best.Label {
				at += fmt.Sprintf(" %.2fx of %s", ratio, best.Label)
			}
		}
		fmt.Fprintf(w, "  %-16s points=%d frontier=%d max_recall=%.4f max_qps=%.1f %s\n",
			label(s.Label), s.Points, s.FrontierPoints, s.MaxRecall, s.MaxQPS, at)
	}
}

func printFrontiers(w io.Writer, series []*analysis.Series) {
	label := color.New(color.FgHiCyan).SprintFunc()
	for _, s := range series {
		fmt.Fprintf(w, "%s frontier:\n", label(s.Label))
		for i := range s.Recall {
			fmt.Fprintf(w, "    recall=%.4f qps=%.1f params=%s\n", s.Recall[i], s.QPS[i], s.Params[i])
		}
	}
}
