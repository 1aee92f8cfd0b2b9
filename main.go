// Command sokutei benchmarks shell commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/violenttestpen/sokutei/benchmark"
	"github.com/violenttestpen/sokutei/command"
	"github.com/violenttestpen/sokutei/config"
	"github.com/violenttestpen/sokutei/export"
	"github.com/violenttestpen/sokutei/timer"
)

type CLI struct {
	Config string `help:"YAML file with default settings." placeholder:"FILE"`

	Runs          int    `short:"r" default:"${runs}" help:"Number of runs for each command."`
	Warmup        int    `short:"w" default:"${warmup}" help:"Number of warmup runs before measuring."`
	Setup         string `short:"s" default:"${setup}" help:"Command to run once before each benchmark."`
	Prepare       string `short:"p" default:"${prepare}" help:"Command to run before every run."`
	Shell         string `short:"S" default:"${shell}" help:"The intermediate shell to run benchmarks in."`
	NoShell       bool   `short:"N" default:"${no_shell}" help:"Run benchmarks without an intermediate shell."`
	Output        string `enum:"null,pipe,inherit,report" default:"${output}" help:"Where command stdout goes: null, pipe, inherit, or report (stdout is a custom metric)."`
	ShowOutput    bool   `default:"${show_output}" negatable:"" help:"Show the stdout and stderr of the commands."`
	IgnoreFailure bool   `short:"i" default:"${ignore_failure}" negatable:"" help:"Ignore non-zero exit codes."`
	MemUsage      bool   `default:"${mem_usage}" negatable:"" help:"Collect the peak memory usage of every run."`
	Detailed      bool   `default:"${detailed}" negatable:"" help:"Keep every run time in exported results."`
	ExportJSON    string `name:"export-json" default:"${export_json}" placeholder:"FILE" help:"Export results as JSON."`
	ExportCSV     string `name:"export-csv" default:"${export_csv}" placeholder:"FILE" help:"Export results as CSV."`
	Input         string `type:"existingfile" placeholder:"FILE" help:"File fed to the stdin of every command."`
	NoColor       bool   `help:"Disable coloured output."`
	Verbose       bool   `short:"v" help:"Log debug information to stderr."`

	CommandName []string `short:"n" name:"command-name" sep:"none" help:"Name for a command, in order."`
	Commands    []string `arg:"" name:"command" sep:"none" help:"Commands to benchmark."`
}

// configPath finds --config before flags are parsed, since the file
// supplies the flag defaults.
func configPath(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func vars(cfg config.Config) kong.Vars {
	return kong.Vars{
		"runs":           strconv.Itoa(cfg.Runs),
		"warmup":         strconv.Itoa(cfg.Warmup),
		"setup":          cfg.Setup,
		"prepare":        cfg.Prepare,
		"shell":          cfg.Shell,
		"no_shell":       strconv.FormatBool(cfg.NoShell),
		"output":         cfg.Output,
		"show_output":    strconv.FormatBool(cfg.ShowOutput),
		"ignore_failure": strconv.FormatBool(cfg.IgnoreFailure),
		"mem_usage":      strconv.FormatBool(cfg.MemUsage),
		"detailed":       strconv.FormatBool(cfg.Detailed),
		"export_json":    cfg.Export.JSON,
		"export_csv":     cfg.Export.CSV,
	}
}

func main() {
	cfg := config.Default()
	if path := configPath(os.Args[1:]); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			fmt.Fprintln(os.Stderr, "sokutei:", err)
			os.Exit(2)
		}
	}

	var cli CLI
	kong.Parse(&cli,
		kong.Name("sokutei"),
		kong.Description("A command-line benchmarking tool."),
		kong.UsageOnError(),
		vars(cfg))

	color.NoColor = color.NoColor || cli.NoColor
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cli.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	timer.SetLogger(logger)

	if err := run(cli, logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(cli CLI, logger *logrus.Logger) error {
	output, err := command.ParseOutput(cli.Output)
	if err != nil {
		return err
	}
	if cli.ShowOutput && output == command.OutputNull {
		output = command.OutputInherit
	}
	shell := cli.Shell
	if cli.NoShell {
		shell = ""
	}

	builder, err := command.NewBuilder(shell, output)
	if err != nil {
		return err
	}
	defer builder.Close()
	builder.ShowStderr = cli.ShowOutput
	if cli.Input != "" {
		if builder.Stdin, err = os.ReadFile(cli.Input); err != nil {
			return fmt.Errorf("input: %w", err)
		}
	}

	var progress = color.Output
	if cli.ShowOutput {
		progress = nil
	}
	runner := benchmark.NewRunner(builder, benchmark.Options{
		Runs:          cli.Runs,
		Warmup:        cli.Warmup,
		Setup:         cli.Setup,
		Prepare:       cli.Prepare,
		IgnoreFailure: cli.IgnoreFailure,
		MemUsage:      cli.MemUsage,
		Detailed:      cli.Detailed,
		Progress:      progress,
		Logger:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make([]*benchmark.BenchmarkResult, 0, len(cli.Commands))
	failed := 0
	for i, expr := range cli.Commands {
		cmd := command.New(expr)
		if i < len(cli.CommandName) {
			cmd.Name = cli.CommandName[i]
		}

		fmt.Fprintf(color.Output, "Benchmark %d: %s\n", i+1, color.New(color.Bold).Sprint(cmd.DisplayName()))
		result, err := runner.Run(ctx, cmd)
		if err != nil {
			fmt.Fprintln(color.Output, color.RedString("An error occurred during benchmark:"), err)
			fmt.Fprintln(color.Output)
			failed++
			if ctx.Err() != nil {
				break
			}
			continue
		}
		benchmark.PrintResult(color.Output, result)
		results = append(results, result)
	}
	benchmark.PrintSummary(color.Output, results)

	if cli.ExportJSON != "" {
		if err := export.ToFile(cli.ExportJSON, results, export.WriteJSON); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	}
	if cli.ExportCSV != "" {
		if err := export.ToFile(cli.ExportCSV, results, export.WriteCSV); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d benchmarks failed", failed, len(cli.Commands))
	}
	return nil
}
