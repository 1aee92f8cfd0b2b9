package benchmark

import (
	"errors"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/violenttestpen/sokutei/command"
	"github.com/violenttestpen/sokutei/timer"
)

// AggregateOptions selects the optional series kept in a BenchmarkResult.
type AggregateOptions struct {
	// KeepTimes keeps every run's wall time.
	KeepTimes bool

	// CustomMetrics keeps every run's custom metric.
	CustomMetrics bool

	// MemUsage keeps every run's peak memory. Every run must have been
	// measured with memory collection.
	MemUsage bool
}

// Aggregate summarises the runs of cmd, in run order.
func Aggregate(cmd command.Command, runs []timer.TimerResult, opts AggregateOptions) (*BenchmarkResult, error) {
	if len(runs) == 0 {
		return nil, errors.New("no runs to aggregate")
	}

	times := make([]float64, len(runs))
	users := make([]float64, len(runs))
	systems := make([]float64, len(runs))
	exitCodes := make([]*int, len(runs))
	for i, run := range runs {
		times[i] = run.TimeReal
		users[i] = run.TimeUser
		systems[i] = run.TimeSystem
		exitCodes[i] = run.Status.Code()
	}

	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	sample := stats.Sample{Xs: sorted, Sorted: true}
	min, max := sample.Bounds()

	result := &BenchmarkResult{
		Command:                     cmd.DisplayName(),
		CommandWithUnusedParameters: cmd.WithUnusedParameters(),
		Mean:                        sample.Mean(),
		Median:                      sample.Quantile(0.5),
		User:                        stats.Mean(users),
		System:                      stats.Mean(systems),
		Min:                         min,
		Max:                         max,
		ExitCodes:                   exitCodes,
		Parameters:                  cmd.Parameters,
	}
	if len(runs) > 1 {
		stddev := sample.StdDev()
		result.StdDev = &stddev
	}
	if opts.KeepTimes {
		result.Times = times
	}
	if opts.CustomMetrics {
		result.CustomMetrics = make([]float64, len(runs))
		for i, run := range runs {
			result.CustomMetrics[i] = run.CustomMetric
		}
	}
	if opts.MemUsage {
		result.MemUsage = make([]uint64, len(runs))
		for i, run := range runs {
			if run.MemUsage == nil {
				return nil, errors.New("memory usage was not collected for every run")
			}
			result.MemUsage[i] = *run.MemUsage
		}
	}
	return result, nil
}
