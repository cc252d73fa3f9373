package clock

import "time"

// FakeClock pins Now for tests that depend on the reporting calendar.
type FakeClock struct {
	now time.Time
}

// NewFakeClock returns a clock frozen at t (normalized to UTC).
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the frozen clock forward, crossing day or period
// boundaries as needed.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
