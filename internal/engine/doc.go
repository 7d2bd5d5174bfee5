// Package engine provides Document, the editing session that ties the
// text storage core together.
//
// A Document owns one decorated store and one wrapped view of it. The
// store keeps lines of Unicode scalar values with a parallel layer of
// decorations, and the view maps raw locations onto fixed-width wrapped
// lines and hosts the caret.
//
// # Architecture
//
// The engine is built on several sub-packages, leaf first:
//
//   - gap: generic gap buffer
//   - codepoint: gap buffer of scalar values packed at 1, 2 or 3 bytes
//   - text: lines of scalar values with terminator handling
//   - decorated: text plus per-scalar decorations and a revision counter
//   - wrap: wrapped projection, wrap cache and caret
//   - inspect: JSON state dumps
//
// # Thread Safety
//
// The sub-packages are single-threaded. Document serializes every call
// with a mutex, so one Document can be shared between an input goroutine
// and a render goroutine. Reads take the same lock as writes because they
// may extend the wrap cache.
//
// # Basic Usage
//
//	d, err := engine.New(
//	    engine.WithContent("hello world"),
//	    engine.WithWrapWidth(5),
//	)
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	d.WrappedLineCount()      // 3: "hello", " worl", "d"
//	d.MoveDown()              // caret to wrapped line 1
//	_ = d.InsertString(" big") // "hello big world"
//
// # Decorations
//
// Decoration is a style index, 0 being the default. Renderers map it to
// colors through a palette:
//
//	_ = d.Decorate(2, engine.Location{Line: 0, Column: 0}, engine.Location{Line: 0, Column: 5})
//
// Revision increases with every change, so a renderer can skip a frame
// when neither the revision nor the caret moved.
//
// # Error Handling
//
//   - ErrOutOfRange: invalid line, column or wrapped location
//   - ErrInvalidArgument: malformed input or inverted range
//   - ErrReadOnly: edit on a read-only document
//   - ErrClosed: use after Close
package engine
