package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/violenttestpen/sokutei/benchmark"
)

func sample() []*benchmark.BenchmarkResult {
	sd := 0.25
	zero := 0
	return []*benchmark.BenchmarkResult{
		{
			Command: "sleep 1", Mean: 1.5, StdDev: &sd, Median: 1.5, User: 0.01, System: 0.02,
			Min: 1, Max: 2, ExitCodes: []*int{&zero, nil},
			Parameters: map[string]string{"t": "1"},
		},
		{
			Command: "sleep 2", Mean: 2, Median: 2, Min: 2, Max: 2,
			ExitCodes:  []*int{&zero},
			Parameters: map[string]string{"t": "2", "mode": "x"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	assert.Equal(t, ""+
		"command,mean,stddev,median,user,system,min,max,parameter_mode,parameter_t\n"+
		"sleep 1,1.5,0.25,1.5,0.01,0.02,1,2,,1\n"+
		"sleep 2,2,,2,0,0,2,2,x,2\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	var doc struct {
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Results, 2)

	first := doc.Results[0]
	assert.Equal(t, "sleep 1", first["command"])
	assert.Equal(t, []interface{}{0.0, nil}, first["exit_codes"])
	assert.Equal(t, map[string]interface{}{"t": "1"}, first["parameters"])
	assert.NotContains(t, first, "times")
	assert.Nil(t, doc.Results[1]["stddev"])
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ToFile(path, sample(), WriteCSV))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "sleep 2")

	assert.Error(t, ToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), sample(), WriteJSON))
}
