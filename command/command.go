// Package command turns a benchmarked command line into a ready-to-run
// *exec.Cmd.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/violenttestpen/sokutei/timer"
)

// DefaultShell is the shell commands run in unless shell use is disabled.
var DefaultShell = defaultShell()

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/sh"
}

// Command is one benchmarked command line.
type Command struct {
	// Name is shown in reports instead of Expression when set.
	Name string

	// Expression is the command line to run.
	Expression string

	// Parameters holds the parameter values that produced Expression.
	Parameters map[string]string
}

// New returns a command with no parameters.
func New(expression string) Command {
	return Command{Expression: expression}
}

// DisplayName returns Name, or Expression when no name was given.
func (c Command) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Expression
}

// WithUnusedParameters returns the expression followed by parameters that do
// not appear in it, so commands that only differ by such parameters stay
// distinguishable.
func (c Command) WithUnusedParameters() string {
	var unused []string
	for name, value := range c.Parameters {
		if !strings.Contains(c.Expression, "{"+name+"}") {
			unused = append(unused, name+" = "+value)
		}
	}
	if len(unused) == 0 {
		return c.Expression
	}
	sort.Strings(unused)
	return fmt.Sprintf("%s (%s)", c.Expression, strings.Join(unused, ", "))
}

// Args splits the expression into an argument vector. Windows command lines
// follow the MS C runtime rules, everything else POSIX shell rules.
func (c Command) Args() ([]string, error) {
	var args []string
	if runtime.GOOS == "windows" {
		args = list2Cmdline(c.Expression)
	} else {
		var err error
		if args, err = shellquote.Split(c.Expression); err != nil {
			return nil, fmt.Errorf("parse %q: %w", c.Expression, err)
		}
	}
	if len(args) == 0 || args[0] == "" {
		return nil, errors.New("empty command string")
	}
	return args, nil
}

// Output decides where a child's stdout goes.
type Output int

const (
	// OutputNull sends stdout to the null device.
	OutputNull Output = iota
	// OutputPipe pipes stdout to the harness, which drains it.
	OutputPipe
	// OutputInherit shares the harness's own stdout.
	OutputInherit
	// OutputReport pipes stdout to the harness, which reads it as a
	// custom metric.
	OutputReport
)

var outputNames = map[string]Output{
	"null":    OutputNull,
	"pipe":    OutputPipe,
	"inherit": OutputInherit,
	"report":  OutputReport,
}

// ParseOutput parses an output mode name.
func ParseOutput(s string) (Output, error) {
	if o, ok := outputNames[strings.ToLower(s)]; ok {
		return o, nil
	}
	return 0, fmt.Errorf("unknown output mode %q", s)
}

func (o Output) String() string {
	for name, v := range outputNames {
		if v == o {
			return name
		}
	}
	return fmt.Sprintf("Output(%d)", int(o))
}

// Policy returns the harness output policy matching o.
func (o Output) Policy() timer.OutputPolicy {
	if o == OutputReport {
		return timer.OutputReport
	}
	return timer.OutputDiscard
}

// Builder builds commands for execution. A Builder holds an open handle on
// the null device and must be closed.
type Builder struct {
	// Shell runs each expression as "Shell -c expression" ("/C" for
	// cmd.exe). An empty Shell executes the split expression directly.
	Shell string

	Output Output

	// ShowStderr shares the harness's stderr with the child instead of
	// discarding it.
	ShowStderr bool

	// Stdin, if set, is fed to every child. Otherwise children read from
	// the null device.
	Stdin []byte

	null *os.File
}

// NewBuilder opens the null device used for discarded streams.
func NewBuilder(shell string, output Output) (*Builder, error) {
	null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &Builder{Shell: shell, Output: output, null: null}, nil
}

// Close releases the null device.
func (b *Builder) Close() error {
	return b.null.Close()
}

// Build returns an unstarted *exec.Cmd for c. When ctx is done the child is
// killed.
func (b *Builder) Build(ctx context.Context, c Command) (*exec.Cmd, error) {
	var cmd *exec.Cmd
	if b.Shell != "" {
		cmd = exec.CommandContext(ctx, b.Shell, shellFlag(b.Shell), c.Expression)
	} else {
		args, err := c.Args()
		if err != nil {
			return nil, err
		}
		cmd = exec.CommandContext(ctx, args[0], args[1:]...)
	}

	switch b.Output {
	case OutputNull:
		cmd.Stdout = b.null
	case OutputInherit:
		cmd.Stdout = os.Stdout
	case OutputPipe, OutputReport:
		// Left nil: timer.Execute pipes it to the harness.
	}

	cmd.Stderr = b.null
	if b.ShowStderr {
		cmd.Stderr = os.Stderr
	}

	var stdin io.Reader = b.null
	if b.Stdin != nil {
		stdin = bytes.NewReader(b.Stdin)
	}
	cmd.Stdin = stdin
	killProcessGroup(cmd)
	return cmd, nil
}

func shellFlag(shell string) string {
	base := strings.ToLower(shell)
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if base == "cmd" || base == "cmd.exe" {
		return "/C"
	}
	return "-c"
}
