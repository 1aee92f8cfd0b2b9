package timer

import (
	"io"
	"os"
	"strconv"
	"strings"
)

const chunkSize = 64 << 10

// discard reads r to EOF without keeping anything, preferring a zero-copy
// kernel transfer when the platform has one.
func discard(r *os.File) {
	if spliceToNull(r) {
		return
	}
	drain(r)
}

// drain reads r into one reusable buffer until EOF or an error.
func drain(r io.Reader) {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n == 0 || err != nil {
			return
		}
	}
}

// readMetric reads all of r and parses it as a float. Output that is not a
// single number yields 0.
func readMetric(r io.Reader) float64 {
	out, err := io.ReadAll(r)
	if err != nil {
		log.WithError(err).Debug("reading custom metric")
	}
	s := strings.TrimSpace(string(out))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.WithField("output", s).Debug("custom metric is not a number, using 0")
		return 0
	}
	return v
}
