package utils

import (
	"os"
	"strconv"
	"time"
)

const (
	// PlanIterEnvVar is the environment variable that can be set to override the default
	// planner iteration cap.
	PlanIterEnvVar = "MP_PLAN_ITER"

	// PlanTimeoutEnvVar is the environment variable that can be set to override the default
	// planner wall-clock budget. It is parsed with time.ParseDuration.
	PlanTimeoutEnvVar = "MP_PLAN_TIMEOUT"
)

// GetenvInt returns the integer value of the environment variable with the given name, or
// the default if it is unset or not an integer.
func GetenvInt(v string, def int) int {
	x, err := strconv.ParseInt(os.Getenv(v), 10, 64)
	if err != nil {
		return def
	}
	return int(x)
}

// GetenvDuration returns the duration value of the environment variable with the given name, or
// the default if it is unset or malformed.
func GetenvDuration(v string, def time.Duration) time.Duration {
	s := os.Getenv(v)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
