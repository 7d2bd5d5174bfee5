package text

import "fmt"

// Location is a 0-indexed (line, column) position. Column counts scalar
// values from the start of the line.
type Location struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("(%d:%d)", l.Line, l.Column)
}

// Compare returns -1 if l < other, 0 if l == other, 1 if l > other.
func (l Location) Compare(other Location) int {
	if l.Line < other.Line {
		return -1
	}
	if l.Line > other.Line {
		return 1
	}
	if l.Column < other.Column {
		return -1
	}
	if l.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if l comes before other.
func (l Location) Before(other Location) bool {
	return l.Compare(other) < 0
}

// After returns true if l comes after other.
func (l Location) After(other Location) bool {
	return l.Compare(other) > 0
}
