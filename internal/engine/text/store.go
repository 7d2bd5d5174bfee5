package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/wrapstore/internal/engine/codepoint"
	"github.com/dshills/wrapstore/internal/engine/gap"
)

// Re-exported errors.
var (
	ErrOutOfRange      = gap.ErrOutOfRange
	ErrInvalidArgument = gap.ErrInvalidArgument
)

// InsertKind describes how a single scalar insertion changed the store.
type InsertKind uint8

const (
	// InsertInline stored the scalar inside an existing line.
	InsertInline InsertKind = iota
	// InsertPaired appended "\n" after a lone "\r", completing "\r\n".
	InsertPaired
	// InsertSplit stored a terminator and moved the rest of the line
	// into a new line.
	InsertSplit
)

// Insertion reports the effect of inserting one scalar value.
type Insertion struct {
	Kind InsertKind
	// At is where the scalar was stored. It differs from the requested
	// location when a "\n" completes a "\r" at the end of the previous line.
	At Location
	// Next is the location directly after the inserted scalar.
	Next Location
}

// Removal reports the effect of a range removal.
type Removal struct {
	// Start and End are the normalized bounds of the removed range, in
	// coordinates from before the removal.
	Start, End Location
	// Merged is true when the remainder of End's line was joined onto
	// Start's line. A cross-line removal that starts between "\r" and "\n"
	// keeps the lines apart.
	Merged bool
	// Terminator is true when a removal within one line reaches into its
	// terminator, as when the "\r" of a "\r\n" pair is removed.
	Terminator bool
}

// Empty reports whether nothing was removed.
func (r Removal) Empty() bool {
	return r.Start == r.End
}

// Store is a mutable sequence of lines of scalar values.
// A Store is not safe for concurrent use.
type Store struct {
	lines *gap.Buffer[*codepoint.Store]
}

// New creates a store holding a single empty line.
func New() *Store {
	lines := gap.New[*codepoint.Store](16)
	lines.Append(codepoint.New(0))
	return &Store{lines: lines}
}

// FromString creates a store holding s.
func FromString(s string) (*Store, error) {
	st := New()
	if _, err := st.InsertString(Location{}, s); err != nil {
		return nil, err
	}
	return st, nil
}

// LineCount returns the number of lines. It is always at least 1.
func (s *Store) LineCount() int {
	return s.lines.Len()
}

func (s *Store) line(i int) (*codepoint.Store, error) {
	if i < 0 || i >= s.lines.Len() {
		return nil, fmt.Errorf("%w: line %d, line count %d", ErrOutOfRange, i, s.lines.Len())
	}
	return s.lines.MustAt(i), nil
}

// ColumnCount returns the number of scalars on line. With ignoreNewline
// the trailing terminator (0, 1 or 2 scalars) is not counted.
func (s *Store) ColumnCount(line int, ignoreNewline bool) (int, error) {
	ln, err := s.line(line)
	if err != nil {
		return 0, err
	}
	if ignoreNewline {
		return ln.Len() - terminatorLen(ln), nil
	}
	return ln.Len(), nil
}

// TerminatorLen returns the number of scalars in line's terminator.
func (s *Store) TerminatorLen(line int) (int, error) {
	ln, err := s.line(line)
	if err != nil {
		return 0, err
	}
	return terminatorLen(ln), nil
}

// At returns the scalar value at loc.
func (s *Store) At(loc Location) (rune, error) {
	ln, err := s.line(loc.Line)
	if err != nil {
		return 0, err
	}
	return ln.At(loc.Column)
}

// LineRunes returns a copy of the scalars on line, terminator included.
func (s *Store) LineRunes(line int) ([]rune, error) {
	ln, err := s.line(line)
	if err != nil {
		return nil, err
	}
	return ln.Runes(), nil
}

// LineString returns line as a string, terminator included.
func (s *Store) LineString(line int) (string, error) {
	ln, err := s.line(line)
	if err != nil {
		return "", err
	}
	return ln.String(), nil
}

// String returns the full content of the store.
func (s *Store) String() string {
	var sb strings.Builder
	buf := make([]rune, 0, 64)
	for _, ln := range s.lines.All() {
		buf = ln.AppendTo(buf[:0])
		for _, r := range buf {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// CheckInsert validates inserting r at loc without changing the store.
func (s *Store) CheckInsert(loc Location, r rune) error {
	_, err := s.plan(loc, r)
	return err
}

// plan decides how inserting r at loc is applied.
func (s *Store) plan(loc Location, r rune) (Insertion, error) {
	if !utf8.ValidRune(r) {
		return Insertion{}, fmt.Errorf("%w: %U is not a scalar value", ErrInvalidArgument, r)
	}
	ln, err := s.line(loc.Line)
	if err != nil {
		return Insertion{}, err
	}

	if r == LineFeed {
		if loc.Column == 0 && loc.Line > 0 {
			prev := s.lines.MustAt(loc.Line - 1)
			if endsWithLoneCR(prev) {
				return Insertion{
					Kind: InsertPaired,
					At:   Location{Line: loc.Line - 1, Column: prev.Len()},
					Next: loc,
				}, nil
			}
		}
		if loc.Column == ln.Len() && endsWithLoneCR(ln) {
			return Insertion{Kind: InsertPaired, At: loc, Next: loc}, nil
		}
	}

	content := ln.Len() - terminatorLen(ln)
	if loc.Column < 0 || loc.Column > content {
		return Insertion{}, fmt.Errorf("%w: insert column %d on line %d with %d columns",
			ErrOutOfRange, loc.Column, loc.Line, content)
	}
	if IsTerminator(r) {
		return Insertion{Kind: InsertSplit, At: loc, Next: Location{Line: loc.Line + 1}}, nil
	}
	return Insertion{Kind: InsertInline, At: loc, Next: Location{Line: loc.Line, Column: loc.Column + 1}}, nil
}

// InsertRune inserts r at loc and reports how the store changed.
func (s *Store) InsertRune(loc Location, r rune) (Insertion, error) {
	ins, err := s.plan(loc, r)
	if err != nil {
		return Insertion{}, err
	}

	ln := s.lines.MustAt(ins.At.Line)
	switch ins.Kind {
	case InsertPaired:
		err = ln.Append(LineFeed)
	case InsertSplit:
		var rest *codepoint.Store
		if rest, err = ln.Split(ins.At.Column); err != nil {
			break
		}
		if err = ln.Append(r); err != nil {
			break
		}
		err = s.lines.Insert(ins.At.Line+1, rest)
	default:
		err = ln.Insert(ins.At.Column, r)
	}
	if err != nil {
		return Insertion{}, err
	}
	return ins, nil
}

// Insert inserts r at loc and returns the location following it.
func (s *Store) Insert(loc Location, r rune) (Location, error) {
	ins, err := s.InsertRune(loc, r)
	if err != nil {
		return loc, err
	}
	return ins.Next, nil
}

// InsertRunes inserts rs at loc and returns the location following them.
// Nothing is inserted unless every value and the location are valid.
func (s *Store) InsertRunes(loc Location, rs []rune) (Location, error) {
	if err := ValidateRunes(rs); err != nil {
		return loc, err
	}
	if len(rs) == 0 {
		if _, err := s.line(loc.Line); err != nil {
			return loc, err
		}
		return loc, nil
	}
	if err := s.CheckInsert(loc, rs[0]); err != nil {
		return loc, err
	}
	for _, r := range rs {
		next, err := s.Insert(loc, r)
		if err != nil {
			return loc, err
		}
		loc = next
	}
	return loc, nil
}

// InsertString inserts the UTF-8 string str at loc.
func (s *Store) InsertString(loc Location, str string) (Location, error) {
	if !utf8.ValidString(str) {
		return loc, fmt.Errorf("%w: malformed UTF-8", ErrInvalidArgument)
	}
	return s.InsertRunes(loc, []rune(str))
}

// InsertUTF16 inserts the UTF-16 code units u at loc. Unpaired surrogates
// are rejected.
func (s *Store) InsertUTF16(loc Location, u []uint16) (Location, error) {
	rs, err := DecodeUTF16(u)
	if err != nil {
		return loc, err
	}
	return s.InsertRunes(loc, rs)
}

// Normalize validates loc for removal and moves a location at the very end
// of a terminated line to the start of the next line.
func (s *Store) Normalize(loc Location) (Location, error) {
	ln, err := s.line(loc.Line)
	if err != nil {
		return loc, err
	}
	if loc.Column < 0 || loc.Column > ln.Len() {
		return loc, fmt.Errorf("%w: column %d on line %d with %d columns",
			ErrOutOfRange, loc.Column, loc.Line, ln.Len())
	}
	if loc.Column == ln.Len() && loc.Line < s.lines.Len()-1 {
		return Location{Line: loc.Line + 1}, nil
	}
	return loc, nil
}

// PlanRemoval validates removing [start, end) and returns the removal
// that RemoveRange would perform, without changing the store.
func (s *Store) PlanRemoval(start, end Location) (Removal, error) {
	from, err := s.Normalize(start)
	if err != nil {
		return Removal{}, err
	}
	to, err := s.Normalize(end)
	if err != nil {
		return Removal{}, err
	}
	if end.Before(start) {
		return Removal{}, fmt.Errorf("%w: range end %v precedes start %v", ErrInvalidArgument, end, start)
	}
	rm := Removal{Start: from, End: to}
	first := s.lines.MustAt(from.Line)
	content := first.Len() - terminatorLen(first)
	if from.Line != to.Line {
		rm.Merged = from.Column <= content
	} else {
		rm.Terminator = to.Column > content && from.Column < to.Column
	}
	return rm, nil
}

// RemoveRange removes the scalars in [start, end).
func (s *Store) RemoveRange(start, end Location) (Removal, error) {
	rm, err := s.PlanRemoval(start, end)
	if err != nil || rm.Empty() {
		return rm, err
	}

	from, to := rm.Start, rm.End
	first := s.lines.MustAt(from.Line)
	if from.Line == to.Line {
		return rm, first.RemoveRange(from.Column, to.Column-from.Column)
	}

	last := s.lines.MustAt(to.Line)
	if !rm.Merged {
		// The start sits between "\r" and "\n": the "\r" stays behind as the
		// start line's terminator.
		if err := first.RemoveRange(from.Column, first.Len()-from.Column); err != nil {
			return rm, err
		}
		if err := last.RemoveRange(0, to.Column); err != nil {
			return rm, err
		}
		return rm, s.lines.RemoveRange(from.Line+1, to.Line-from.Line-1)
	}

	rest := last.Runes()[to.Column:]
	if err := first.RemoveRange(from.Column, first.Len()-from.Column); err != nil {
		return rm, err
	}
	if err := first.Append(rest...); err != nil {
		return rm, err
	}
	return rm, s.lines.RemoveRange(from.Line+1, to.Line-from.Line)
}
