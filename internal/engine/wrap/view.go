package wrap

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dshills/wrapstore/internal/engine/decorated"
	"github.com/dshills/wrapstore/internal/engine/text"
)

// Re-exported errors.
var (
	ErrOutOfRange      = text.ErrOutOfRange
	ErrInvalidArgument = text.ErrInvalidArgument
)

// View is a wrapped projection of a decorated store with a caret.
//
// The View borrows the store: other views and callers may edit it directly
// and the View stays consistent through change notifications. Call Close
// to stop listening. A View is not safe for concurrent use.
type View[D comparable] struct {
	store *decorated.Store[D]
	max   int
	cache cache

	caret  text.Location
	sticky int
	dirty  bool

	unsubscribe func()
}

// New creates a view over store that wraps lines longer than
// maxLineLength scalars. A maxLineLength of 0 disables wrapping.
func New[D comparable](store *decorated.Store[D], maxLineLength int) (*View[D], error) {
	if maxLineLength < 0 {
		return nil, fmt.Errorf("%w: max line length %d", ErrInvalidArgument, maxLineLength)
	}
	v := &View[D]{store: store, max: maxLineLength}
	v.unsubscribe = store.Subscribe(v.onChange)
	return v, nil
}

// Close detaches the view from its store.
func (v *View[D]) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Store returns the underlying store.
func (v *View[D]) Store() *decorated.Store[D] {
	return v.store
}

// MaxLineLength returns the wrap width. 0 means unwrapped.
func (v *View[D]) MaxLineLength() int {
	return v.max
}

// SetMaxLineLength changes the wrap width and discards the cache.
func (v *View[D]) SetMaxLineLength(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: max line length %d", ErrInvalidArgument, n)
	}
	if n == v.max {
		return nil
	}
	v.max = n
	v.cache.reset()
	v.sticky = v.WrappedCaret().Column
	return nil
}

func (v *View[D]) onChange(c decorated.Change) {
	v.dirty = true
	if v.max == 0 || c.Kind == decorated.ChangeDecorate {
		return
	}
	if !c.Structural {
		// Boundaries of a line depend only on its content length, so an
		// edit that keeps the fragment count keeps every cached start.
		if cached, ok := v.cache.contains(c.Start.Line); ok {
			content, err := v.store.ColumnCount(c.Start.Line, true)
			if err == nil && cached == v.fragments(content) {
				return
			}
		}
	}
	v.cache.truncateFrom(c.Start)
}

// fragments returns how many wrapped lines a raw line with content
// scalars occupies.
func (v *View[D]) fragments(content int) int {
	if content == 0 {
		return 1
	}
	return (content + v.max - 1) / v.max
}

func (v *View[D]) checkRaw(loc text.Location) error {
	n, err := v.store.ColumnCount(loc.Line, false)
	if err != nil {
		return err
	}
	if loc.Column < 0 || loc.Column > n {
		return fmt.Errorf("%w: column %d on line %d with %d columns", ErrOutOfRange, loc.Column, loc.Line, n)
	}
	return nil
}

// NextWrapPoint returns where the wrapped line after the one containing
// loc begins. When the rest of loc's line fits, that is the start of the
// next raw line, which may equal LineCount of the store for the last line.
func (v *View[D]) NextWrapPoint(loc text.Location) (text.Location, error) {
	if err := v.checkRaw(loc); err != nil {
		return loc, err
	}
	content, _ := v.store.ColumnCount(loc.Line, true)
	if v.max == 0 || content-loc.Column <= v.max {
		return text.Location{Line: loc.Line + 1}, nil
	}
	return text.Location{Line: loc.Line, Column: loc.Column + v.max}, nil
}

// grow appends one boundary to the cache. It returns false once the cache
// is complete.
func (v *View[D]) grow() bool {
	c := &v.cache
	if c.complete {
		return false
	}
	if len(c.starts) == 0 {
		c.push(text.Location{})
		return true
	}
	next, err := v.NextWrapPoint(c.starts[len(c.starts)-1])
	if err != nil || next.Line >= v.store.LineCount() {
		c.complete = true
		return false
	}
	c.push(next)
	return true
}

// ensureWrapped extends the cache until wrapped line w is known or the
// text ends.
func (v *View[D]) ensureWrapped(w int) {
	for len(v.cache.starts) <= w && v.grow() {
	}
}

// ensureRaw extends the cache until every fragment of raw line l is known.
func (v *View[D]) ensureRaw(l int) {
	for len(v.cache.firstWrapped) <= l+1 && v.grow() {
	}
}

// fragment returns the raw location where wrapped line w begins.
func (v *View[D]) fragment(w int) (text.Location, bool) {
	if w < 0 {
		return text.Location{}, false
	}
	if v.max == 0 {
		return text.Location{Line: w}, w < v.store.LineCount()
	}
	v.ensureWrapped(w)
	if w >= len(v.cache.starts) {
		return text.Location{}, false
	}
	return v.cache.starts[w], true
}

// softWrapped reports whether wrapped line w is followed by another
// fragment of the same raw line.
func (v *View[D]) softWrapped(w int) bool {
	start, ok := v.fragment(w)
	if !ok {
		return false
	}
	next, ok := v.fragment(w + 1)
	return ok && next.Line == start.Line
}

// LineCount returns the number of wrapped lines.
func (v *View[D]) LineCount() int {
	if v.max == 0 {
		return v.store.LineCount()
	}
	for v.grow() {
	}
	return len(v.cache.starts)
}

// ColumnCount returns the number of scalars on wrapped line w. The
// terminator, which only the final fragment of a raw line carries, is
// excluded when ignoreNewline is set.
func (v *View[D]) ColumnCount(w int, ignoreNewline bool) (int, error) {
	start, ok := v.fragment(w)
	if !ok {
		return 0, fmt.Errorf("%w: wrapped line %d", ErrOutOfRange, w)
	}
	if next, ok := v.fragment(w + 1); ok && next.Line == start.Line {
		return next.Column - start.Column, nil
	}
	n, err := v.store.ColumnCount(start.Line, ignoreNewline)
	if err != nil {
		return 0, err
	}
	return n - start.Column, nil
}

// ToWrapped maps a raw location to wrapped coordinates. A raw column on a
// soft-wrap boundary maps to the start of the later fragment.
func (v *View[D]) ToWrapped(raw text.Location) (text.Location, error) {
	if err := v.checkRaw(raw); err != nil {
		return raw, err
	}
	if v.max == 0 {
		return raw, nil
	}
	v.ensureRaw(raw.Line)
	first := v.cache.firstWrapped[raw.Line]
	end := len(v.cache.starts)
	if raw.Line+1 < len(v.cache.firstWrapped) {
		end = v.cache.firstWrapped[raw.Line+1]
	}
	k, _ := slices.BinarySearchFunc(v.cache.starts[first:end], raw.Column+1, func(s text.Location, col int) int {
		return cmp.Compare(s.Column, col)
	})
	w := first + k - 1
	return text.Location{Line: w, Column: raw.Column - v.cache.starts[w].Column}, nil
}

// ToRaw maps a wrapped location to raw coordinates. The column may run
// past the fragment as long as it stays within the raw line.
func (v *View[D]) ToRaw(wrapped text.Location) (text.Location, error) {
	start, ok := v.fragment(wrapped.Line)
	if !ok {
		return wrapped, fmt.Errorf("%w: wrapped line %d", ErrOutOfRange, wrapped.Line)
	}
	raw := text.Location{Line: start.Line, Column: start.Column + wrapped.Column}
	if wrapped.Column < 0 {
		return wrapped, fmt.Errorf("%w: wrapped column %d", ErrOutOfRange, wrapped.Column)
	}
	if err := v.checkRaw(raw); err != nil {
		return wrapped, err
	}
	return raw, nil
}

// LineRunes returns the scalars of wrapped line w without any terminator.
func (v *View[D]) LineRunes(w int) ([]rune, error) {
	n, err := v.ColumnCount(w, true)
	if err != nil {
		return nil, err
	}
	start, _ := v.fragment(w)
	rs, err := v.store.LineRunes(start.Line)
	if err != nil {
		return nil, err
	}
	return rs[start.Column : start.Column+n], nil
}

// LineString returns wrapped line w as display text, without terminator.
func (v *View[D]) LineString(w int) (string, error) {
	rs, err := v.LineRunes(w)
	if err != nil {
		return "", err
	}
	return string(rs), nil
}

// Cell returns the scalar and decoration at a wrapped location.
func (v *View[D]) Cell(wrapped text.Location) (rune, D, error) {
	raw, err := v.ToRaw(wrapped)
	if err != nil {
		var zero D
		return 0, zero, err
	}
	return v.store.Cell(raw)
}
