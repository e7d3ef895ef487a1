// Package clock provides an injectable wall-clock source so snapshot
// cooldowns and calendar-day boundaries are deterministic in tests.
package clock

import "time"

// Clock is a wall-clock source
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the real wall clock
func System() Clock { return systemClock{} }

// Fixed is a clock pinned to a settable instant, for tests
type Fixed struct {
	Time time.Time
}

// Now returns the pinned instant
func (f *Fixed) Now() time.Time { return f.Time }

// Advance moves the pinned instant forward
func (f *Fixed) Advance(d time.Duration) { f.Time = f.Time.Add(d) }
