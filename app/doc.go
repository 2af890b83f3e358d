// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app provides the run loop that serializes gesture work.

Recognizer state transitions, timer callbacks and arbitration all run on
one logical UI thread. A Loop models that thread: input is dispatched
between tasks, delayed tasks stand in for the deadline, repeat and
thumbnail timers, and the result of asynchronous work such as a
snapshot capture re-enters through Post.

# Clocks

A Loop reads time from a Clock. Interactive programs use
MonotonicClock and drive the loop with Run or by calling Flush once per
frame:

	loop := app.NewLoop(app.MonotonicClock())
	go loop.Run(ctx)

Tests and replays use a manual clock and move time explicitly:

	loop := app.NewManualLoop()
	loop.PostDelayed(500*time.Millisecond, fire)
	loop.Advance(520 * time.Millisecond) // fire has run

A Timer returned by PostDelayed belongs to the code that created it.
Cancelling it guarantees the callback never runs, which is what lets a
recognizer be reset and reused without stale timers firing into a later
touch sequence.
*/
package app
