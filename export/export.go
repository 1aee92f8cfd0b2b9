// Package export writes benchmark results to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/violenttestpen/sokutei/benchmark"
)

// WriteFunc writes results to w in some format.
type WriteFunc func(w io.Writer, results []*benchmark.BenchmarkResult) error

// ToFile writes results to filename using write.
func ToFile(filename string, results []*benchmark.BenchmarkResult, write WriteFunc) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON writes {"results": [...]}.
func WriteJSON(w io.Writer, results []*benchmark.BenchmarkResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Results []*benchmark.BenchmarkResult `json:"results"`
	}{results})
}

// WriteCSV writes one row per result. Parameters have no fixed column set,
// so every parameter name seen in any result gets a parameter_<name>
// column.
func WriteCSV(w io.Writer, results []*benchmark.BenchmarkResult) error {
	names := parameterNames(results)

	cw := csv.NewWriter(w)
	header := []string{"command", "mean", "stddev", "median", "user", "system", "min", "max"}
	for _, name := range names {
		header = append(header, "parameter_"+name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		stddev := ""
		if r.StdDev != nil {
			stddev = formatFloat(*r.StdDev)
		}
		record := []string{
			r.Command,
			formatFloat(r.Mean),
			stddev,
			formatFloat(r.Median),
			formatFloat(r.User),
			formatFloat(r.System),
			formatFloat(r.Min),
			formatFloat(r.Max),
		}
		for _, name := range names {
			record = append(record, r.Parameters[name])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parameterNames(results []*benchmark.BenchmarkResult) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range results {
		for _, p := range r.ParameterPairs() {
			if !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
