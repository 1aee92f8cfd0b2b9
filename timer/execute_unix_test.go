//go:build unix

package timer

import (
	"context"
	"math"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sh(script string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", script)
}

func execute(t *testing.T, cmd *exec.Cmd, policy OutputPolicy, mem bool) TimerResult {
	t.Helper()
	res, err := Execute(cmd, policy, mem)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.TimeReal, 0.0)
	assert.GreaterOrEqual(t, res.TimeUser, 0.0)
	assert.GreaterOrEqual(t, res.TimeSystem, 0.0)
	return res
}

func TestExecuteSleepIsMostlyWallTime(t *testing.T) {
	res := execute(t, sh("sleep 0.3"), OutputDiscard, false)

	assert.InDelta(t, 0.3, res.TimeReal, 0.25)
	assert.Less(t, res.TimeUser+res.TimeSystem, res.TimeReal/2)
	assert.True(t, res.Status.Success())
}

func TestExecuteBusyLoopIsMostlyCPUTime(t *testing.T) {
	res := execute(t, sh("i=0; while [ $i -lt 300000 ]; do i=$((i+1)); done"), OutputDiscard, false)

	cpu := res.TimeUser + res.TimeSystem
	assert.Greater(t, cpu, res.TimeReal/2)
	assert.Less(t, cpu, res.TimeReal*1.5)
}

func TestExecuteExitCode(t *testing.T) {
	res := execute(t, sh("exit 7"), OutputDiscard, false)

	code := res.Status.Code()
	require.NotNil(t, code)
	assert.Equal(t, 7, *code)
	assert.False(t, res.Status.Success())
	_, signaled := res.Status.Signal()
	assert.False(t, signaled)
}

func TestExecuteKilledBySignal(t *testing.T) {
	res := execute(t, sh("kill -TERM $$"), OutputDiscard, false)

	assert.Nil(t, res.Status.Code())
	sig, ok := res.Status.Signal()
	assert.True(t, ok)
	assert.Equal(t, syscall.SIGTERM, sig)
	assert.False(t, res.Status.Success())
}

func TestExecuteReportMetric(t *testing.T) {
	res := execute(t, sh(`printf '  42.5\n'`), OutputReport, false)
	assert.Equal(t, 42.5, res.CustomMetric)

	res = execute(t, sh("echo not-a-number"), OutputReport, false)
	assert.Equal(t, 0.0, res.CustomMetric)
}

func TestExecuteDiscardIgnoresMetric(t *testing.T) {
	res := execute(t, sh("echo 42.5"), OutputDiscard, false)
	assert.Equal(t, 0.0, res.CustomMetric)
}

func TestExecuteDiscardLargeOutput(t *testing.T) {
	res := execute(t, sh("head -c 67108864 /dev/zero"), OutputDiscard, false)
	assert.True(t, res.Status.Success())
}

func TestExecuteReportLargeOutputDoesNotBlock(t *testing.T) {
	res := execute(t, sh("head -c 1048576 /dev/zero"), OutputReport, false)
	assert.True(t, res.Status.Success())
	assert.Equal(t, 0.0, res.CustomMetric)
}

func TestExecuteCallerStdout(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	defer f.Close()

	cmd := sh("echo 12")
	cmd.Stdout = f
	res := execute(t, cmd, OutputReport, false)
	assert.Equal(t, 0.0, res.CustomMetric)

	out, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "12\n", string(out))
}

func TestExecuteMemUsage(t *testing.T) {
	res := execute(t, sh("true"), OutputDiscard, true)
	require.NotNil(t, res.MemUsage)
	assert.Greater(t, *res.MemUsage, uint64(0))

	res = execute(t, sh("true"), OutputDiscard, false)
	assert.Nil(t, res.MemUsage)
}

func TestExecuteRepeatable(t *testing.T) {
	a := execute(t, sh("sleep 0.1"), OutputDiscard, false)
	b := execute(t, sh("sleep 0.1"), OutputDiscard, false)

	assert.Less(t, math.Abs(a.TimeReal-b.TimeReal), 0.1)
}

func TestExecuteCanceledInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", "exec sleep 5")
	time.AfterFunc(100*time.Millisecond, cancel)

	res := execute(t, cmd, OutputDiscard, false)

	assert.Less(t, res.TimeReal, 2.0)
	assert.Nil(t, res.Status.Code())
	sig, ok := res.Status.Signal()
	require.True(t, ok)
	assert.Equal(t, syscall.SIGKILL, sig)
	assert.False(t, res.Status.Success())
}
