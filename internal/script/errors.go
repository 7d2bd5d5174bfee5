package script

import "errors"

// Errors for script execution.
var (
	// ErrClosed is returned when running a script on a closed engine.
	ErrClosed = errors.New("script engine is closed")

	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("script execution timeout")
)
