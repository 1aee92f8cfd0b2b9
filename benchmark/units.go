package benchmark

import (
	"fmt"
	"time"
)

var denominators = []time.Duration{time.Hour, time.Minute, time.Second, time.Millisecond, time.Microsecond, time.Nanosecond}
var units = []string{"h", "m", "s", "ms", "µs", "ns"}

// getMeasurementMetrics picks the largest unit that keeps seconds at or
// above one.
func getMeasurementMetrics(seconds Second) (float64, string) {
	timing := time.Duration(seconds * float64(time.Second))
	for i, denominator := range denominators {
		if timing/denominator > 0 {
			return denominator.Seconds(), units[i]
		}
	}
	return time.Nanosecond.Seconds(), "ns"
}

func formatSeconds(seconds Second) string {
	d, unit := getMeasurementMetrics(seconds)
	return fmt.Sprintf("%.2f %s", seconds/d, unit)
}

// formatIn formats seconds in a unit chosen for another value, so that
// figures printed side by side share a unit.
func formatIn(seconds, reference Second) string {
	d, unit := getMeasurementMetrics(reference)
	return fmt.Sprintf("%.2f %s", seconds/d, unit)
}

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

func formatBytes(n uint64) string {
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[i])
}
