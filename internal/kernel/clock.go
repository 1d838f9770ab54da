package kernel

import "sync/atomic"

// Clock is a monotonic logical tick counter.
//
// Ticks are numbered by the clock, never by wall time. Sharing one clock
// between runs numbers their ticks continuously.
//
// Clock is safe for concurrent reads, but only the runner advances it.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first tick is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that resumes after tick start.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new tick number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last tick number handed out, or the start value.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
