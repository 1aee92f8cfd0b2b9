// Package config loads benchmark defaults from a YAML file.
package config

import (
	"fmt"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"

	"github.com/violenttestpen/sokutei/command"
)

// Config holds the settings that can be given in a configuration file.
// Command-line flags override every field.
type Config struct {
	Runs          int    `config:"runs" validate:"min=1"`
	Warmup        int    `config:"warmup" validate:"min=0"`
	Setup         string `config:"setup"`
	Prepare       string `config:"prepare"`
	Shell         string `config:"shell"`
	NoShell       bool   `config:"no_shell"`
	Output        string `config:"output"`
	ShowOutput    bool   `config:"show_output"`
	IgnoreFailure bool   `config:"ignore_failure"`
	MemUsage      bool   `config:"mem_usage"`
	Detailed      bool   `config:"detailed"`
	Export        Export `config:"export"`
}

// Export names the files results are written to.
type Export struct {
	JSON string `config:"json"`
	CSV  string `config:"csv"`
}

var options = []ucfg.Option{ucfg.PathSep(".")}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Runs:   10,
		Shell:  command.DefaultShell,
		Output: command.OutputNull.String(),
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	raw, err := yaml.NewConfigWithFile(path, options...)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return unpack(raw)
}

// Parse reads YAML content over the defaults.
func Parse(content []byte) (Config, error) {
	raw, err := yaml.NewConfig(content, options...)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return unpack(raw)
}

func unpack(raw *ucfg.Config) (Config, error) {
	cfg := Default()
	if err := raw.Unpack(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := command.ParseOutput(cfg.Output); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
