// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package app

import "time"

func newMonotonicClock() Clock {
	return sinceClock{start: time.Now()}
}
