// Package wrap projects a decorated store onto fixed-width wrapped lines.
//
// A View maps raw (line, column) locations to wrapped ones and back. Raw
// lines whose content is longer than the maximum line length are split
// every maxLineLength scalars; terminators never count toward the width.
// A maximum of 0 disables wrapping and makes both coordinate systems equal.
//
// Wrapped line boundaries are computed lazily and kept in a cache that is
// always a valid prefix of the full boundary list. Edits truncate the cache
// from the first boundary they can affect.
//
// The View also owns the caret. Horizontal moves walk raw locations, so a
// soft wrap never costs an extra keystroke. Vertical moves aim for a sticky
// column that only horizontal moves and explicit placement update.
package wrap
