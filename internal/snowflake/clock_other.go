//go:build !linux

package snowflake

import "errors"

func NewRawClock() (Clock, error) {
	return nil, errors.New("raw clock is only supported on linux")
}
