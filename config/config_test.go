package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/violenttestpen/sokutei/command"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
runs: 25
warmup: 3
prepare: "sync"
output: pipe
mem_usage: true
export:
  json: results.json
`))
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Runs)
	assert.Equal(t, 3, cfg.Warmup)
	assert.Equal(t, "sync", cfg.Prepare)
	assert.Equal(t, "pipe", cfg.Output)
	assert.True(t, cfg.MemUsage)
	assert.Equal(t, "results.json", cfg.Export.JSON)

	// untouched fields keep their defaults
	assert.Equal(t, command.DefaultShell, cfg.Shell)
	assert.Empty(t, cfg.Export.CSV)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("runs: 0"))
	assert.Error(t, err)

	_, err = Parse([]byte("output: file"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sokutei.yml")
	require.NoError(t, os.WriteFile(path, []byte("runs: 4\nignore_failure: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Runs)
	assert.True(t, cfg.IgnoreFailure)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
