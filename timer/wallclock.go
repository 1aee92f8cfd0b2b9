package timer

import "time"

// Second is a duration expressed as a floating-point number of seconds.
type Second = float64

// WallClockTimer measures elapsed real time between StartWallClock and Stop.
type WallClockTimer struct {
	start time.Time
}

// StartWallClock captures the current instant. time.Now carries a monotonic
// reading, so Stop is unaffected by wall clock adjustments.
func StartWallClock() WallClockTimer {
	return WallClockTimer{start: time.Now()}
}

// Stop returns the seconds elapsed since the timer was started.
func (t WallClockTimer) Stop() Second {
	return time.Since(t.start).Seconds()
}
