// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || darwin || freebsd || netbsd || openbsd

package app

import (
	"time"

	"golang.org/x/sys/unix"
)

// unixClock reads CLOCK_MONOTONIC, the clock input drivers stamp
// touch events with, so event times and loop time share a base.
type unixClock struct{}

func newMonotonicClock() Clock {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		tracer().Infof("clock_gettime unavailable, using time.Since: %v", err)
		return sinceClock{start: time.Now()}
	}
	return unixClock{}
}

func (unixClock) Now() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic(err)
	}
	return time.Duration(ts.Nano())
}
