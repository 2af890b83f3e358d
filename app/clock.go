// SPDX-License-Identifier: Unlicense OR MIT

package app

import "time"

// Clock is a monotonic time source. Its zero point is arbitrary.
type Clock interface {
	Now() time.Duration
}

// ManualClock is a Clock that only moves when its Loop is advanced.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	return c.now
}

// MonotonicClock returns the system monotonic clock.
func MonotonicClock() Clock {
	return newMonotonicClock()
}

// sinceClock measures time since its creation. It backs
// MonotonicClock on platforms without clock_gettime.
type sinceClock struct {
	start time.Time
}

func (c sinceClock) Now() time.Duration {
	return time.Since(c.start)
}
