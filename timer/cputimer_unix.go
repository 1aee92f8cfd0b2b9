//go:build unix

package timer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// rusageTimer diffs the resource usage of all reaped children of this
// process. The kernel only adds a child's usage to RUSAGE_CHILDREN when it
// is reaped, so the child must be waited on by Execute and nothing else.
type rusageTimer struct {
	before unix.Rusage
}

var _ cpuTimer = (*rusageTimer)(nil)

func startRusageTimer() (*rusageTimer, error) {
	t := new(rusageTimer)
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &t.before); err != nil {
		return nil, fmt.Errorf("getrusage: %w", err)
	}
	return t, nil
}

// spawn snapshots the children's usage, starts the wall clock and starts cmd.
func spawn(cmd *exec.Cmd) (cpuTimer, WallClockTimer, error) {
	cpu, err := startRusageTimer()
	if err != nil {
		return nil, WallClockTimer{}, newError(TimerFailure, cmd.String(), err)
	}
	wall := StartWallClock()
	if err := cmd.Start(); err != nil {
		return nil, wall, newError(SpawnFailure, cmd.String(), err)
	}
	return cpu, wall, nil
}

func (t *rusageTimer) stop() (user, system Second, err error) {
	var after unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &after); err != nil {
		return 0, 0, fmt.Errorf("getrusage: %w", err)
	}
	user = timevalDelta(&t.before.Utime, &after.Utime)
	system = timevalDelta(&t.before.Stime, &after.Stime)
	return user, system, nil
}

func timevalDelta(before, after *unix.Timeval) Second {
	d := after.Nano() - before.Nano()
	if d < 0 {
		return 0
	}
	return float64(d) / 1e9
}

// peakMemory uses the usage the reap returned for this child only.
// Maxrss is in bytes on Darwin and in KiB everywhere else.
func (t *rusageTimer) peakMemory(ps *os.ProcessState) (uint64, error) {
	ru, ok := ps.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil {
		return 0, errors.New("no resource usage for reaped process")
	}
	rss := uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" {
		rss <<= 10
	}
	return rss, nil
}

func (t *rusageTimer) close() {}
