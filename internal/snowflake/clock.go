package snowflake

import (
	"fmt"
	"time"
)

const (
	ClockMonotonic = "monotonic"
	ClockRaw       = "raw"
)

// Clock is the time source a Structure measures elapsed ticks with.
type Clock interface {
	Now() time.Time
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a clock whose wall reading is anchored at creation
// and then advanced by the runtime's monotonic clock only, so later wall clock
// steps (NTP, manual changes) are not observed.
func NewMonotonicClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) Now() time.Time {
	return c.start.Add(time.Since(c.start))
}

// NewClock resolves a configured clock name.
func NewClock(name string) (Clock, error) {
	switch name {
	case "", ClockMonotonic:
		return NewMonotonicClock(), nil
	case ClockRaw:
		return NewRawClock()
	default:
		return nil, fmt.Errorf("unsupported clock: %q", name)
	}
}
