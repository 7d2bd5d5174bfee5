package wrap

import (
	"fmt"

	"github.com/dshills/wrapstore/internal/engine/text"
)

// settle clamps the caret into the text after edits made behind the
// view's back.
func (v *View[D]) settle() {
	if !v.dirty {
		return
	}
	v.dirty = false
	line := max(min(v.caret.Line, v.store.LineCount()-1), 0)
	content, _ := v.store.ColumnCount(line, true)
	v.caret = text.Location{Line: line, Column: max(min(v.caret.Column, content), 0)}
}

// Caret returns the raw caret location.
func (v *View[D]) Caret() text.Location {
	v.settle()
	return v.caret
}

// WrappedCaret returns the caret in wrapped coordinates.
func (v *View[D]) WrappedCaret() text.Location {
	w, _ := v.ToWrapped(v.Caret())
	return w
}

// StickyColumn returns the wrapped column vertical moves aim for.
func (v *View[D]) StickyColumn() int {
	return v.sticky
}

// SetCaret places the caret at a raw location and resets the sticky column.
func (v *View[D]) SetCaret(raw text.Location) error {
	content, err := v.store.ColumnCount(raw.Line, true)
	if err != nil {
		return err
	}
	if raw.Column < 0 || raw.Column > content {
		return fmt.Errorf("%w: caret column %d on line %d with %d columns", ErrOutOfRange, raw.Column, raw.Line, content)
	}
	v.place(raw)
	return nil
}

// place moves the caret after a horizontal move or an edit.
func (v *View[D]) place(raw text.Location) {
	v.caret = raw
	v.dirty = false
	v.sticky = v.WrappedCaret().Column
}

// maxCaretColumn returns the last caret column on wrapped line w. A
// soft-wrapped fragment stops one short of its width because that column
// is the start of the next fragment.
func (v *View[D]) maxCaretColumn(w int) int {
	n, _ := v.ColumnCount(w, true)
	if v.softWrapped(w) {
		return n - 1
	}
	return n
}

// Insert inserts r at the caret and moves the caret past it.
func (v *View[D]) Insert(r rune) error {
	loc, err := v.store.Insert(v.Caret(), r)
	if err != nil {
		return err
	}
	v.place(loc)
	return nil
}

// InsertString inserts UTF-8 text at the caret.
func (v *View[D]) InsertString(s string) error {
	loc, err := v.store.InsertString(v.Caret(), s)
	if err != nil {
		return err
	}
	v.place(loc)
	return nil
}

// InsertUTF16 inserts UTF-16 code units at the caret.
func (v *View[D]) InsertUTF16(u []uint16) error {
	loc, err := v.store.InsertUTF16(v.Caret(), u)
	if err != nil {
		return err
	}
	v.place(loc)
	return nil
}

// Remove deletes the scalar before the caret, or the previous line's
// terminator when the caret is at the start of a line. It returns false
// at the start of the text.
func (v *View[D]) Remove() (bool, error) {
	caret := v.Caret()
	var from text.Location
	switch {
	case caret.Column > 0:
		from = text.Location{Line: caret.Line, Column: caret.Column - 1}
	case caret.Line > 0:
		content, err := v.store.ColumnCount(caret.Line-1, true)
		if err != nil {
			return false, err
		}
		from = text.Location{Line: caret.Line - 1, Column: content}
	default:
		return false, nil
	}
	if err := v.store.RemoveRange(from, caret); err != nil {
		return false, err
	}
	v.place(from)
	return true, nil
}

// MoveLeft moves the caret one scalar back, onto the end of the previous
// line from column 0.
func (v *View[D]) MoveLeft() bool {
	caret := v.Caret()
	switch {
	case caret.Column > 0:
		caret.Column--
	case caret.Line > 0:
		content, _ := v.store.ColumnCount(caret.Line-1, true)
		caret = text.Location{Line: caret.Line - 1, Column: content}
	default:
		return false
	}
	v.place(caret)
	return true
}

// MoveRight moves the caret one scalar forward, onto the next line from
// the end of a line's content.
func (v *View[D]) MoveRight() bool {
	caret := v.Caret()
	content, _ := v.store.ColumnCount(caret.Line, true)
	switch {
	case caret.Column < content:
		caret.Column++
	case caret.Line < v.store.LineCount()-1:
		caret = text.Location{Line: caret.Line + 1}
	default:
		return false
	}
	v.place(caret)
	return true
}

// MoveUp moves the caret to the previous wrapped line.
func (v *View[D]) MoveUp() bool {
	return v.moveVertical(-1)
}

// MoveDown moves the caret to the next wrapped line.
func (v *View[D]) MoveDown() bool {
	return v.moveVertical(1)
}

func (v *View[D]) moveVertical(delta int) bool {
	target := v.WrappedCaret().Line + delta
	if _, ok := v.fragment(target); !ok {
		return false
	}
	col := min(v.sticky, v.maxCaretColumn(target))
	raw, err := v.ToRaw(text.Location{Line: target, Column: col})
	if err != nil {
		return false
	}
	v.caret = raw
	return true
}
