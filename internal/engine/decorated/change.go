package decorated

import "github.com/dshills/wrapstore/internal/engine/text"

// ChangeKind identifies the mutation that produced a Change.
type ChangeKind uint8

const (
	ChangeInsert ChangeKind = iota
	ChangeRemove
	ChangeDecorate
)

// String returns the name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeDecorate:
		return "decorate"
	default:
		return "unknown"
	}
}

// Change describes one mutating call.
//
// For inserts Start is where the first scalar was stored and End is the
// location after the last one. For removals Start and End are the
// normalized bounds before the text was removed. Structural is set when
// lines were created, joined or removed, or when a terminator changed.
type Change struct {
	Kind       ChangeKind
	Start      text.Location
	End        text.Location
	Structural bool
	Revision   uint64
}

// Listener is called synchronously after each change.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}
