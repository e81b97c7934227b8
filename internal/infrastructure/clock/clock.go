package clock

import "time"

// System is the wall clock.
type System struct{}

// New creates a new System clock.
func New() *System {
	return &System{}
}

// Now returns the current UTC time.
func (*System) Now() time.Time {
	return time.Now().UTC()
}
