/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package clock lets the hub schedule delayed work against either the
// wall clock or a manually advanced test clock.
package clock

import "time"

// Clock is the subset of the time package the hub schedules against.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call. Stop mirrors time.Timer; the hub
// lets its timers fire and relies on re-checking state instead.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
