package commands

import "time"

// fakeClock pins the engine clock so window checks are deterministic.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Now() time.Time {
	return time.Unix(c.now, 0).UTC()
}
