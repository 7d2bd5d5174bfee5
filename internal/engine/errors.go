package engine

import (
	"errors"

	"github.com/dshills/wrapstore/internal/engine/gap"
)

// Errors returned by document operations.
var (
	// ErrOutOfRange indicates a line, column or index outside valid bounds.
	ErrOutOfRange = gap.ErrOutOfRange

	// ErrInvalidArgument indicates malformed input such as unpaired
	// surrogates or an inverted range.
	ErrInvalidArgument = gap.ErrInvalidArgument

	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrClosed indicates the document was used after Close.
	ErrClosed = errors.New("document is closed")
)
