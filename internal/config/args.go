package config

import (
	"fmt"
	"runtime"
	"strconv"
)

const (
	threadCountIdx = 0
	pointsIdx      = 1
)

// Warner receives a warning when arguments cannot be used
type Warner interface {
	Warn(format string, a ...interface{})
}

// DefaultParams returns one thread per CPU and DefaultPoints samples
func DefaultParams() Params {
	return Params{
		Threads: runtime.NumCPU(),
		Points:  DefaultPoints,
	}
}

// ParseArgs derives the thread and point counts from positional arguments
// Missing arguments keep their defaults. A malformed or non-positive argument is
// never fatal: a warning is emitted and both values fall back to the defaults
func ParseArgs(args []string, defaults Params, warn Warner) Params {
	params := defaults

	var err error
	if len(args) > threadCountIdx {
		params.Threads, err = parsePositive(args[threadCountIdx])
	}
	if err == nil && len(args) > pointsIdx {
		params.Points, err = parsePositive(args[pointsIdx])
	}

	if err != nil {
		if warn != nil {
			warn.Warn("Invalid CLI arguments detected (%v)! Falling back to defaults: threads = %d, points = %d",
				err, defaults.Threads, defaults.Points)
		}
		return defaults
	}

	return params
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}
