package analytics

import "time"

// Clock supplies "now" to the callers of this package.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location, the single timezone
// the application runs in. A nil Location means time.Local.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
