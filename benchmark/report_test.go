package benchmark

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func seconds(v float64) *Second { return &v }

func intp(v int) *int { return &v }

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, &BenchmarkResult{
		Command:       "sleep 1",
		Mean:          1.0,
		StdDev:        seconds(0.01),
		User:          0.001,
		System:        0.002,
		Min:           0.99,
		Max:           1.02,
		ExitCodes:     []*int{intp(0), intp(1), nil},
		CustomMetrics: []float64{1, 2, 3},
		MemUsage:      []uint64{1 << 20, 2 << 20, 1 << 10},
	})
	out := buf.String()

	assert.Contains(t, out, "Time (mean ± σ):\t1.00 s ± 0.01 s")
	assert.Contains(t, out, "[User: 1.00 ms, System: 2.00 ms]")
	assert.Contains(t, out, "0.99 s … 1.02 s")
	assert.Contains(t, out, "3 runs")
	assert.Contains(t, out, "Metric (mean):\t\t2\t[1 … 3]")
	assert.Contains(t, out, "2.00 MiB")
	assert.Contains(t, out, "2 of 3 runs did not exit successfully")
}

func TestPrintSummary(t *testing.T) {
	slow := &BenchmarkResult{Command: "slow", Mean: 2, StdDev: seconds(0)}
	fast := &BenchmarkResult{Command: "fast", Mean: 1, StdDev: seconds(0)}

	var buf bytes.Buffer
	PrintSummary(&buf, []*BenchmarkResult{slow, fast})
	out := buf.String()
	assert.Contains(t, out, "'fast' ran")
	assert.Contains(t, out, "2.00 ± 0.00 times faster than 'slow'")

	buf.Reset()
	PrintSummary(&buf, []*BenchmarkResult{slow})
	assert.Empty(t, buf.String())
}

func TestRelativeSpeed(t *testing.T) {
	ratio, sd := relativeSpeed(
		&BenchmarkResult{Mean: 4, StdDev: seconds(0.4)},
		&BenchmarkResult{Mean: 2, StdDev: seconds(0.2)})
	assert.InDelta(t, 2.0, ratio, 1e-9)
	assert.InDelta(t, 2*0.1414213, sd, 1e-6)

	_, sd = relativeSpeed(&BenchmarkResult{Mean: 4}, &BenchmarkResult{Mean: 2})
	assert.Zero(t, sd)
}
