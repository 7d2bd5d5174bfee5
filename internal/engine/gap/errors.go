package gap

import "errors"

// Errors shared by every layer of the text engine. Higher level packages
// re-export these so callers can match with errors.Is regardless of which
// layer rejected the call.
var (
	// ErrOutOfRange indicates an index, line or column outside valid bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidArgument indicates a malformed argument, such as a negative
	// length, an inverted range or malformed text.
	ErrInvalidArgument = errors.New("invalid argument")
)
