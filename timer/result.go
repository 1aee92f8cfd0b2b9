package timer

import (
	"fmt"
	"os"
	"syscall"
)

// OutputPolicy selects what the harness does with a child's stdout when it
// is redirected to the harness.
type OutputPolicy int

const (
	// OutputDiscard drains stdout as cheaply as possible.
	OutputDiscard OutputPolicy = iota
	// OutputReport reads stdout as a custom metric channel.
	OutputReport
)

func (p OutputPolicy) String() string {
	switch p {
	case OutputDiscard:
		return "discard"
	case OutputReport:
		return "report"
	}
	return fmt.Sprintf("OutputPolicy(%d)", int(p))
}

// ExitStatus records how a child process terminated.
type ExitStatus struct {
	code   int
	exited bool
	signal syscall.Signal
}

// Exited returns the status of a process that exited with code.
func Exited(code int) ExitStatus {
	return ExitStatus{code: code, exited: true}
}

// Signaled returns the status of a process terminated by sig.
func Signaled(sig syscall.Signal) ExitStatus {
	return ExitStatus{code: -1, signal: sig}
}

func exitStatusOf(ps *os.ProcessState) ExitStatus {
	if ps.Exited() {
		return Exited(ps.ExitCode())
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Signaled(ws.Signal())
	}
	return ExitStatus{code: -1}
}

// Code returns the exit code, or nil if the process did not exit normally.
func (s ExitStatus) Code() *int {
	if !s.exited {
		return nil
	}
	code := s.code
	return &code
}

// Signal returns the signal that terminated the process, if any.
func (s ExitStatus) Signal() (syscall.Signal, bool) {
	return s.signal, s.signal != 0
}

// Success reports whether the process exited normally with code 0.
func (s ExitStatus) Success() bool {
	return s.exited && s.code == 0
}

func (s ExitStatus) String() string {
	switch {
	case s.exited:
		return fmt.Sprintf("exit status %d", s.code)
	case s.signal != 0:
		return "signal: " + s.signal.String()
	}
	return "terminated abnormally"
}

// TimerResult holds the measurements of exactly one invocation.
type TimerResult struct {
	TimeReal   Second
	TimeUser   Second
	TimeSystem Second

	// Status is the exit status of the process.
	Status ExitStatus

	// CustomMetric is the number the child printed on stdout under
	// OutputReport, 0 when it printed nothing parseable.
	CustomMetric float64

	// MemUsage is the peak memory of the process in bytes: the resident set
	// size on unix, the committed memory on windows. Nil unless memory usage
	// collection was requested.
	MemUsage *uint64
}
