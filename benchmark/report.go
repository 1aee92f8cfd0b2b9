package benchmark

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/fatih/color"
)

// PrintResult writes the summary of one benchmark.
func PrintResult(w io.Writer, result *BenchmarkResult) {
	stddev := 0.0
	if result.StdDev != nil {
		stddev = *result.StdDev
	}
	fmt.Fprintf(w, "  Time (%s ± %s):\t%s ± %s\t%s\n",
		color.GreenString("mean"),
		color.GreenString("σ"),
		color.GreenString("%s", formatSeconds(result.Mean)),
		color.GreenString("%s", formatIn(stddev, result.Mean)),
		fmt.Sprintf("[User: %s, System: %s]",
			color.CyanString("%s", formatSeconds(result.User)),
			color.CyanString("%s", formatSeconds(result.System))))
	fmt.Fprintf(w, "  Range (%s … %s):\t%s … %s\t%s\n",
		color.CyanString("min"),
		color.RedString("max"),
		color.CyanString("%s", formatIn(result.Min, result.Mean)),
		color.RedString("%s", formatIn(result.Max, result.Mean)),
		color.HiBlackString("%d runs", result.Runs()))

	if len(result.CustomMetrics) > 0 {
		s := stats.Sample{Xs: result.CustomMetrics}
		min, max := s.Bounds()
		fmt.Fprintf(w, "  Metric (%s):\t\t%s\t[%s … %s]\n",
			color.GreenString("mean"),
			color.GreenString("%.4g", s.Mean()),
			color.CyanString("%.4g", min),
			color.RedString("%.4g", max))
	}
	if len(result.MemUsage) > 0 {
		var peak uint64
		for _, m := range result.MemUsage {
			if m > peak {
				peak = m
			}
		}
		fmt.Fprintf(w, "  Memory (%s):\t\t%s\n", color.RedString("max"), color.GreenString("%s", formatBytes(peak)))
	}

	if failed := failedRuns(result); failed > 0 {
		fmt.Fprintf(w, "  %s %d of %d runs did not exit successfully\n",
			color.YellowString("Warning:"), failed, result.Runs())
	}
	fmt.Fprintln(w)
}

func failedRuns(result *BenchmarkResult) int {
	n := 0
	for _, code := range result.ExitCodes {
		if code == nil || *code != 0 {
			n++
		}
	}
	return n
}

// PrintSummary ranks results by mean time relative to the fastest. It
// prints nothing for fewer than two results.
func PrintSummary(w io.Writer, results []*BenchmarkResult) {
	if len(results) < 2 {
		return
	}
	fmt.Fprintln(w, "Summary")

	sorted := append([]*BenchmarkResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Mean < sorted[j].Mean })
	fastest := sorted[0]
	fmt.Fprintf(w, "  '%s' ran\n", color.CyanString("%s", fastest.Command))
	for _, result := range sorted[1:] {
		ratio, ratioStdDev := relativeSpeed(result, fastest)
		fmt.Fprintf(w, "    %s ± %s times faster than '%s'\n",
			color.GreenString("%.2f", ratio),
			color.GreenString("%.2f", ratioStdDev),
			color.RedString("%s", result.Command))
	}
}

// relativeSpeed returns how many times slower result is than fastest, with
// the uncertainty propagated from both standard deviations.
func relativeSpeed(result, fastest *BenchmarkResult) (float64, float64) {
	ratio := result.Mean / fastest.Mean
	if result.StdDev == nil || fastest.StdDev == nil {
		return ratio, 0
	}
	a := *result.StdDev / result.Mean
	b := *fastest.StdDev / fastest.Mean
	return ratio, ratio * math.Sqrt(a*a+b*b)
}
