package benchmark

import (
	"sort"

	"github.com/violenttestpen/sokutei/timer"
)

// Second is a duration in seconds.
type Second = timer.Second

// BenchmarkResult is the outcome of all measured runs of one command.
type BenchmarkResult struct {
	// Command is the command line that was benchmarked.
	Command string `json:"command"`

	// CommandWithUnusedParameters is Command followed by the parameters
	// that do not appear in it.
	CommandWithUnusedParameters string `json:"-"`

	Mean Second `json:"mean"`

	// StdDev is nil when fewer than two runs were performed.
	StdDev *Second `json:"stddev"`

	Median Second `json:"median"`

	// User and System are the mean CPU times per run.
	User   Second `json:"user"`
	System Second `json:"system"`

	Min Second `json:"min"`
	Max Second `json:"max"`

	// Times holds every wall time, in run order. Only kept for detailed
	// output.
	Times []Second `json:"times,omitempty"`

	// ExitCodes has one entry per run; nil where the process did not exit
	// normally.
	ExitCodes []*int `json:"exit_codes"`

	CustomMetrics []float64 `json:"custom_metrics,omitempty"`

	// MemUsage holds the peak resident set size of every run in bytes.
	MemUsage []uint64 `json:"mem_usage,omitempty"`

	Parameters map[string]string `json:"parameters,omitempty"`
}

// Parameter is one name/value pair of a parameterized run.
type Parameter struct {
	Name, Value string
}

// ParameterPairs returns the parameters sorted by name.
func (r *BenchmarkResult) ParameterPairs() []Parameter {
	pairs := make([]Parameter, 0, len(r.Parameters))
	for name, value := range r.Parameters {
		pairs = append(pairs, Parameter{name, value})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs
}

// Runs returns the number of runs the result was built from.
func (r *BenchmarkResult) Runs() int {
	return len(r.ExitCodes)
}
