package snowflake

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClockRegression is matched by every *ClockRegressionError.
var ErrClockRegression = errors.New("clock source not monotonic")

// ConfigError lists everything wrong with a builder at Build time.
type ConfigError struct {
	Target   string
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Target, strings.Join(e.Problems, "; "))
}

// ClockRegressionError is returned when the masked clock reading is below the
// last issued tick.
type ClockRegressionError struct {
	Last     uint64
	Observed uint64
}

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("%s: observed tick %d < last tick %d", ErrClockRegression, e.Observed, e.Last)
}

func (e *ClockRegressionError) Is(target error) bool {
	return target == ErrClockRegression
}

type problems struct {
	target string
	list   []string
}

func (p *problems) addf(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) err() error {
	if len(p.list) == 0 {
		return nil
	}
	return &ConfigError{Target: p.target, Problems: p.list}
}
