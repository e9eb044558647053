package bench

import "time"

// wallClock reads the system clock. time.Now carries a monotonic reading, so
// differences between two calls are immune to wall-clock adjustments.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
