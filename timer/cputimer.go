package timer

import (
	"os"

	"github.com/sirupsen/logrus"
)

// cpuTimer measures the CPU time of one spawned child. Exactly one
// implementation is compiled per target; it is created by spawn, which also
// starts the child, so callers never observe a child that is running
// without its CPU timer.
type cpuTimer interface {
	// stop returns the user and system time consumed by the child. It must
	// only be called after the child was reaped.
	stop() (user, system Second, err error)

	// peakMemory returns the peak resident set size of the reaped child in
	// bytes.
	peakMemory(ps *os.ProcessState) (uint64, error)

	close()
}

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for debug output.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	log = l
}
