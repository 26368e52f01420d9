// Package clock provides an abstraction over the wall clock so that "today"
// can be pinned in tests instead of read from time.Now().
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that always returns the same instant.
type Fixed struct {
	Time time.Time
}

// Now returns the pinned time.
func (f Fixed) Now() time.Time {
	return f.Time
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)
