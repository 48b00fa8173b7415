package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrSchedulerNotRunning is returned when triggering a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobAlreadyRunning is returned when a trigger fires while the previous run is still going
	ErrJobAlreadyRunning = errors.New("scheduled job already running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("scheduled job panicked: %v", p.value)
}
