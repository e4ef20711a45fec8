package ratelimit

import "time"

// Window is an admission window: a ceiling enforced over a fixed interval.
type Window struct {
	Interval time.Duration
	Max      int
}

// PerMinute returns a per-minute window with the given ceiling.
func PerMinute(max int) Window {
	return Window{Interval: time.Minute, Max: max}
}

// PerDay returns a per-day window with the given ceiling.
func PerDay(max int) Window {
	return Window{Interval: 24 * time.Hour, Max: max}
}
