package session

import (
	"errors"
	"fmt"
)

// ErrQueueFull is returned when a command is submitted while the backlog
// is at capacity. Backpressure is fail fast: the caller is never blocked.
var ErrQueueFull = errors.New("command backlog full")

// BootstrapError is fatal: the session cannot exist with only one of its
// two subsystems, so bootstrap is all-or-nothing.
type BootstrapError struct {
	Stage string
	Err   error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap %s: %v", e.Stage, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }
