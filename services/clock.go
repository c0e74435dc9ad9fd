package services

import "time"

// Clock supplies the current time to services so due-date comparisons and
// aging snapshots are testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
