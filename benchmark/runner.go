// Package benchmark runs commands repeatedly and summarises the runs.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/violenttestpen/sokutei/command"
	"github.com/violenttestpen/sokutei/timer"
)

// Options configure a Runner.
type Options struct {
	Runs   int
	Warmup int

	// Setup runs once before the warmup runs, Prepare before every run.
	Setup   string
	Prepare string

	// IgnoreFailure records runs with a non-zero exit instead of aborting.
	IgnoreFailure bool

	// MemUsage collects the peak memory of every measured run.
	MemUsage bool

	// Detailed keeps every run's wall time in the result.
	Detailed bool

	// Progress receives the progress line. Nil disables it.
	Progress io.Writer

	Logger logrus.FieldLogger
}

// Runner benchmarks commands built by a command.Builder.
type Runner struct {
	opts    Options
	builder *command.Builder
	log     logrus.FieldLogger
}

// NewRunner returns a Runner that builds every command with builder.
func NewRunner(builder *command.Builder, opts Options) *Runner {
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	l := opts.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Runner{opts: opts, builder: builder, log: l}
}

// FailureError reports a run that did not exit successfully.
type FailureError struct {
	Command string
	Status  timer.ExitStatus
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("command %q terminated with %s; use --ignore-failure to ignore it", e.Command, e.Status)
}

// Run benchmarks cmd. It stops between runs when ctx is done; a run in
// flight is killed.
func (r *Runner) Run(ctx context.Context, cmd command.Command) (*BenchmarkResult, error) {
	log := r.log.WithField("command", cmd.DisplayName())

	if r.opts.Setup != "" {
		log.Debug("running setup")
		if err := r.auxiliary(ctx, r.opts.Setup); err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if r.opts.Warmup > 0 {
		r.progress("Performing warmup runs")
		for i := 0; i < r.opts.Warmup; i++ {
			if _, err := r.measure(ctx, cmd, false); err != nil {
				return nil, fmt.Errorf("warmup run %d: %w", i+1, err)
			}
		}
		r.clearProgress()
	}

	runs := make([]timer.TimerResult, 0, r.opts.Runs)
	var estimate float64
	r.progress("Initial time measurement")
	for i := 0; i < r.opts.Runs; i++ {
		res, err := r.measure(ctx, cmd, r.opts.MemUsage)
		if err != nil {
			r.clearProgress()
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		runs = append(runs, res)

		estimate = (estimate*float64(i) + res.TimeReal) / float64(i+1)
		eta := time.Duration(estimate * float64(r.opts.Runs-i-1) * float64(time.Second))
		r.clearProgress()
		if r.opts.Progress != nil {
			line := fmt.Sprintf("Current estimate: %s ", color.GreenString("%s", formatSeconds(estimate)))
			printProgressLine(r.opts.Progress, line, float64(i+1)/float64(r.opts.Runs), eta)
		}
	}
	r.clearProgress()

	log.WithField("runs", len(runs)).Debug("aggregating")
	return Aggregate(cmd, runs, AggregateOptions{
		KeepTimes:     r.opts.Detailed,
		CustomMetrics: r.builder.Output == command.OutputReport,
		MemUsage:      r.opts.MemUsage,
	})
}

// measure runs prepare and one invocation of cmd.
func (r *Runner) measure(ctx context.Context, cmd command.Command, mem bool) (timer.TimerResult, error) {
	if err := ctx.Err(); err != nil {
		return timer.TimerResult{}, err
	}
	if r.opts.Prepare != "" {
		if err := r.auxiliary(ctx, r.opts.Prepare); err != nil {
			return timer.TimerResult{}, fmt.Errorf("prepare: %w", err)
		}
	}

	c, err := r.builder.Build(ctx, cmd)
	if err != nil {
		return timer.TimerResult{}, err
	}
	res, err := timer.Execute(c, r.builder.Output.Policy(), mem)
	if err != nil {
		return timer.TimerResult{}, err
	}
	if res.Status.Success() {
		return res, nil
	}
	// A run killed by cancellation is never recorded.
	if err := ctx.Err(); err != nil {
		return timer.TimerResult{}, err
	}
	if !r.opts.IgnoreFailure {
		return timer.TimerResult{}, &FailureError{Command: cmd.DisplayName(), Status: res.Status}
	}
	return res, nil
}

// auxiliary runs a setup or prepare command with its output discarded.
func (r *Runner) auxiliary(ctx context.Context, expression string) error {
	c, err := r.builder.Build(ctx, command.New(expression))
	if err != nil {
		return err
	}
	c.Stdout = nil
	res, err := timer.Execute(c, timer.OutputDiscard, false)
	if err != nil {
		return err
	}
	if !res.Status.Success() {
		return &FailureError{Command: expression, Status: res.Status}
	}
	return nil
}

func (r *Runner) progress(msg string) {
	if r.opts.Progress != nil {
		fmt.Fprint(r.opts.Progress, msg)
	}
}

func (r *Runner) clearProgress() {
	if r.opts.Progress != nil {
		clearCurrentTerminalLine(r.opts.Progress)
	}
}

// IsFailure reports whether err was caused by a command exiting
// unsuccessfully rather than by the harness.
func IsFailure(err error) bool {
	var f *FailureError
	return errors.As(err, &f)
}
