// Package timer runs a command once and measures its wall time, CPU time,
// exit status, peak memory and optional custom metric.
package timer

import (
	"errors"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Execute runs cmd once and measures it.
//
// cmd must be fully configured and not yet started. If cmd.Stdout is nil the
// child's stdout is piped to the harness and handled according to policy:
// OutputDiscard drains it, OutputReport parses it as a custom metric.
// Otherwise stdout goes wherever the caller pointed it and policy is unused.
// Stderr and stdin are left as configured.
//
// Execute blocks until the child is reaped and its stdout pipe is closed. A
// grandchild that inherited stdout keeps Execute waiting after the child
// itself was killed, so cancellation should kill the child's whole process
// group (see command.Builder).
//
// A non-zero exit or a signal is recorded in the result and is not an
// error. The returned error, if any, is an *Error of kind SpawnFailure,
// TimerFailure or ReapFailure.
func Execute(cmd *exec.Cmd, policy OutputPolicy, collectMemUsage bool) (TimerResult, error) {
	var stdout, pw *os.File
	if cmd.Stdout == nil {
		var err error
		stdout, pw, err = os.Pipe()
		if err != nil {
			return TimerResult{}, newError(SpawnFailure, cmd.String(), err)
		}
		defer stdout.Close()
		cmd.Stdout = pw
	}

	cpu, wall, err := spawn(cmd)
	if pw != nil {
		// The child holds its own copy; ours must go for EOF to arrive.
		pw.Close()
	}
	if err != nil {
		return TimerResult{}, err
	}
	defer cpu.close()

	var metric float64
	if stdout != nil {
		if policy == OutputReport {
			metric = readMetric(stdout)
		}
		discard(stdout)
	}

	waitErr := cmd.Wait()
	timeReal := wall.Stop()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return TimerResult{}, newError(ReapFailure, cmd.String(), waitErr)
	}
	if cmd.ProcessState == nil {
		return TimerResult{}, newError(ReapFailure, cmd.String(), errors.New("no process state after wait"))
	}

	user, system, err := cpu.stop()
	if err != nil {
		return TimerResult{}, newError(TimerFailure, cmd.String(), err)
	}

	result := TimerResult{
		TimeReal:     timeReal,
		TimeUser:     user,
		TimeSystem:   system,
		Status:       exitStatusOf(cmd.ProcessState),
		CustomMetric: metric,
	}
	if collectMemUsage {
		mem, err := cpu.peakMemory(cmd.ProcessState)
		if err != nil {
			return TimerResult{}, newError(ReapFailure, cmd.String(), err)
		}
		result.MemUsage = &mem
	}

	log.WithFields(logrus.Fields{
		"command": cmd.String(),
		"real":    result.TimeReal,
		"user":    result.TimeUser,
		"system":  result.TimeSystem,
		"status":  result.Status.String(),
	}).Debug("invocation measured")
	return result, nil
}
