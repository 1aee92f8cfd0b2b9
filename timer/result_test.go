package timer

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitStatus(t *testing.T) {
	ok := Exited(0)
	require.NotNil(t, ok.Code())
	assert.Equal(t, 0, *ok.Code())
	assert.True(t, ok.Success())
	assert.Equal(t, "exit status 0", ok.String())

	failed := Exited(3)
	assert.False(t, failed.Success())
	assert.Equal(t, 3, *failed.Code())

	killed := Signaled(syscall.Signal(9))
	assert.Nil(t, killed.Code())
	assert.False(t, killed.Success())
	sig, signaled := killed.Signal()
	assert.True(t, signaled)
	assert.Equal(t, syscall.Signal(9), sig)
	assert.Contains(t, killed.String(), "signal")

	assert.Equal(t, "terminated abnormally", ExitStatus{code: -1}.String())
}

func TestOutputPolicyString(t *testing.T) {
	assert.Equal(t, "discard", OutputDiscard.String())
	assert.Equal(t, "report", OutputReport.String())
	assert.Equal(t, "OutputPolicy(9)", OutputPolicy(9).String())
}
