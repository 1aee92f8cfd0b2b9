package timer

import (
	"os"

	"golang.org/x/sys/unix"
)

// spliceToNull moves r into the null device with splice(2), one chunk per
// call. It reports false if the transfer could not run to EOF, in which case
// the caller drains whatever is left.
func spliceToNull(r *os.File) bool {
	null, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	defer null.Close()

	rfd, wfd := int(r.Fd()), int(null.Fd())
	for {
		n, err := unix.Splice(rfd, nil, wfd, nil, chunkSize, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			log.WithError(err).Debug("splice unavailable, falling back to reads")
			return false
		}
		if n == 0 {
			return true
		}
	}
}
