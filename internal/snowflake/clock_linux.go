//go:build linux

package snowflake

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type rawClock struct {
	wall time.Time
	base time.Duration
}

// NewRawClock reads CLOCK_MONOTONIC_RAW, which is not slewed by NTP.
func NewRawClock() (Clock, error) {
	base, err := readRaw()
	if err != nil {
		return nil, fmt.Errorf("clock_gettime(CLOCK_MONOTONIC_RAW): %w", err)
	}
	return &rawClock{wall: time.Now().Round(0), base: base}, nil
}

func (c *rawClock) Now() time.Time {
	now, err := readRaw()
	if err != nil {
		// the probe in NewRawClock succeeded, so this cannot fail on a sane kernel
		panic(fmt.Sprintf("clock_gettime(CLOCK_MONOTONIC_RAW): %v", err))
	}
	return c.wall.Add(now - c.base)
}

func readRaw() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Nano()), nil
}
