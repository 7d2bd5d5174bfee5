package decorated

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/dshills/wrapstore/internal/engine/gap"
	"github.com/dshills/wrapstore/internal/engine/text"
)

// Re-exported errors.
var (
	ErrOutOfRange      = text.ErrOutOfRange
	ErrInvalidArgument = text.ErrInvalidArgument
)

// Store is a text store with one decoration of type D per scalar value.
// A Store is not safe for concurrent use.
type Store[D comparable] struct {
	text     *text.Store
	lines    *gap.Buffer[*gap.Buffer[D]]
	def      D
	revision uint64

	subs   []subscription
	nextID int
}

// New creates an empty store whose scalars default to def.
func New[D comparable](def D) *Store[D] {
	lines := gap.New[*gap.Buffer[D]](16)
	lines.Append(gap.New[D](0))
	return &Store[D]{
		text:  text.New(),
		lines: lines,
		def:   def,
	}
}

// FromString creates a store holding s with every scalar set to def.
func FromString[D comparable](s string, def D) (*Store[D], error) {
	st := New(def)
	if _, err := st.InsertString(text.Location{}, s); err != nil {
		return nil, err
	}
	st.revision = 0
	return st, nil
}

// Default returns the decoration given to newly inserted scalars.
func (s *Store[D]) Default() D {
	return s.def
}

// Revision returns the number of state-changing calls made so far.
func (s *Store[D]) Revision() uint64 {
	return s.revision
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store[D]) Subscribe(fn Listener) func() {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store[D]) emit(c Change) {
	s.revision++
	c.Revision = s.revision
	for _, sub := range s.subs {
		sub.fn(c)
	}
}

// LineCount returns the number of lines.
func (s *Store[D]) LineCount() int {
	return s.text.LineCount()
}

// ColumnCount returns the number of scalars on line, optionally ignoring
// its terminator.
func (s *Store[D]) ColumnCount(line int, ignoreNewline bool) (int, error) {
	return s.text.ColumnCount(line, ignoreNewline)
}

// At returns the scalar at loc.
func (s *Store[D]) At(loc text.Location) (rune, error) {
	return s.text.At(loc)
}

// Decoration returns the decoration at loc.
func (s *Store[D]) Decoration(loc text.Location) (D, error) {
	if loc.Line < 0 || loc.Line >= s.lines.Len() {
		var zero D
		return zero, fmt.Errorf("%w: line %d, line count %d", ErrOutOfRange, loc.Line, s.lines.Len())
	}
	return s.lines.MustAt(loc.Line).At(loc.Column)
}

// Cell returns the scalar and decoration at loc.
func (s *Store[D]) Cell(loc text.Location) (rune, D, error) {
	r, err := s.text.At(loc)
	if err != nil {
		var zero D
		return 0, zero, err
	}
	d, err := s.Decoration(loc)
	return r, d, err
}

// LineDecorations returns a copy of the decorations of line.
func (s *Store[D]) LineDecorations(line int) ([]D, error) {
	if line < 0 || line >= s.lines.Len() {
		return nil, fmt.Errorf("%w: line %d, line count %d", ErrOutOfRange, line, s.lines.Len())
	}
	return s.lines.MustAt(line).Values(), nil
}

// LineRunes returns a copy of the scalars on line.
func (s *Store[D]) LineRunes(line int) ([]rune, error) {
	return s.text.LineRunes(line)
}

// LineString returns line as a string, terminator included.
func (s *Store[D]) LineString(line int) (string, error) {
	return s.text.LineString(line)
}

// String returns the full text.
func (s *Store[D]) String() string {
	return s.text.String()
}

// Read copies UTF-16 code units starting at *loc. dst needs at least
// text.MinReadLen units. See text.Store.Read.
func (s *Store[D]) Read(dst []uint16, loc *text.Location) int {
	return s.text.Read(dst, loc)
}

// CheckInsert validates inserting r at loc without changing the store.
func (s *Store[D]) CheckInsert(loc text.Location, r rune) error {
	return s.text.CheckInsert(loc, r)
}

// Insert inserts r at loc and returns the location following it.
func (s *Store[D]) Insert(loc text.Location, r rune) (text.Location, error) {
	return s.InsertRunes(loc, []rune{r})
}

// InsertString inserts the UTF-8 string str at loc.
func (s *Store[D]) InsertString(loc text.Location, str string) (text.Location, error) {
	if !utf8.ValidString(str) {
		return loc, fmt.Errorf("%w: malformed UTF-8", ErrInvalidArgument)
	}
	return s.InsertRunes(loc, []rune(str))
}

// InsertUTF16 inserts UTF-16 code units at loc.
func (s *Store[D]) InsertUTF16(loc text.Location, u []uint16) (text.Location, error) {
	rs, err := text.DecodeUTF16(u)
	if err != nil {
		return loc, err
	}
	return s.InsertRunes(loc, rs)
}

// InsertRunes inserts rs at loc and returns the location following them.
// The call is rejected as a whole if any value or the location is invalid.
func (s *Store[D]) InsertRunes(loc text.Location, rs []rune) (text.Location, error) {
	if err := text.ValidateRunes(rs); err != nil {
		return loc, err
	}
	if len(rs) == 0 {
		_, err := s.text.ColumnCount(loc.Line, false)
		return loc, err
	}
	if err := s.text.CheckInsert(loc, rs[0]); err != nil {
		return loc, err
	}

	change := Change{Kind: ChangeInsert}
	for i, r := range rs {
		ins, err := s.text.InsertRune(loc, r)
		if err != nil {
			return loc, err
		}
		if i == 0 {
			change.Start = ins.At
		}
		if ins.Kind != text.InsertInline {
			change.Structural = true
		}
		if err := s.mirrorInsert(ins); err != nil {
			return loc, err
		}
		loc = ins.Next
	}
	change.End = loc
	s.emit(change)
	return loc, nil
}

// mirrorInsert applies an insertion that already happened in the text to
// the decoration lines.
func (s *Store[D]) mirrorInsert(ins text.Insertion) error {
	line := s.lines.MustAt(ins.At.Line)
	col := ins.At.Column
	switch ins.Kind {
	case text.InsertPaired:
		line.Append(s.def)
		return nil
	case text.InsertSplit:
		suffix, err := line.Slice(col, line.Len())
		if err != nil {
			return err
		}
		if err := line.Truncate(col); err != nil {
			return err
		}
		line.Append(s.def)
		return s.lines.Insert(ins.At.Line+1, gap.From(suffix...))
	default:
		// The text already holds the new scalar, so the content length
		// before the insert is one less than now.
		content, err := s.text.ColumnCount(ins.At.Line, true)
		if err != nil {
			return err
		}
		return line.Insert(col, s.inherited(line, col, content-1))
	}
}

// inherited returns the decoration for a scalar inserted at col of a line
// with content scalars. Interior inserts between two equal decorations take
// that decoration. Everything else gets the default.
func (s *Store[D]) inherited(line *gap.Buffer[D], col, content int) D {
	if col <= 0 || col >= content {
		return s.def
	}
	before, after := line.MustAt(col-1), line.MustAt(col)
	if before == after {
		return before
	}
	return s.def
}

// RemoveRange removes [start, end). Removing an empty range does not
// change the revision.
func (s *Store[D]) RemoveRange(start, end text.Location) error {
	rm, err := s.text.RemoveRange(start, end)
	if err != nil || rm.Empty() {
		return err
	}

	from, to := rm.Start, rm.End
	first := s.lines.MustAt(from.Line)
	switch {
	case from.Line == to.Line:
		err = first.RemoveRange(from.Column, to.Column-from.Column)
	case rm.Merged:
		last := s.lines.MustAt(to.Line)
		var rest []D
		if rest, err = last.Slice(to.Column, last.Len()); err != nil {
			break
		}
		if err = first.Truncate(from.Column); err != nil {
			break
		}
		first.Append(rest...)
		err = s.lines.RemoveRange(from.Line+1, to.Line-from.Line)
	default:
		last := s.lines.MustAt(to.Line)
		if err = first.Truncate(from.Column); err != nil {
			break
		}
		if err = last.RemoveRange(0, to.Column); err != nil {
			break
		}
		err = s.lines.RemoveRange(from.Line+1, to.Line-from.Line-1)
	}
	if err != nil {
		return err
	}

	s.emit(Change{
		Kind:       ChangeRemove,
		Start:      from,
		End:        to,
		Structural: from.Line != to.Line || rm.Terminator,
	})
	return nil
}

// DecorateRange sets the decoration of every scalar in [start, end) to v.
// A span crossing lines paints line content only, leaving terminators
// alone. The revision changes only if some decoration actually changed.
func (s *Store[D]) DecorateRange(v D, start, end text.Location) error {
	if err := s.checkDecorate(start); err != nil {
		return err
	}
	if err := s.checkDecorate(end); err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: range end %v precedes start %v", ErrInvalidArgument, end, start)
	}

	changed := 0
	if start.Line == end.Line {
		changed = s.paint(start.Line, start.Column, end.Column, v)
	} else {
		for line := start.Line; line <= end.Line; line++ {
			content, _ := s.text.ColumnCount(line, true)
			from, to := 0, content
			if line == start.Line {
				from = start.Column
			}
			if line == end.Line {
				to = min(end.Column, content)
			}
			changed += s.paint(line, from, to, v)
		}
	}
	if changed == 0 {
		return nil
	}
	s.emit(Change{Kind: ChangeDecorate, Start: start, End: end})
	return nil
}

// paint sets columns [from, to) of line to v and returns how many slots
// changed.
func (s *Store[D]) paint(line, from, to int, v D) int {
	deco := s.lines.MustAt(line)
	changed := 0
	for col := from; col < to; col++ {
		if deco.MustAt(col) != v {
			_ = deco.Set(col, v)
			changed++
		}
	}
	return changed
}

func (s *Store[D]) checkDecorate(loc text.Location) error {
	n, err := s.text.ColumnCount(loc.Line, false)
	if err != nil {
		return err
	}
	if loc.Column < 0 || loc.Column > n {
		return fmt.Errorf("%w: column %d on line %d with %d columns", ErrOutOfRange, loc.Column, loc.Line, n)
	}
	return nil
}
