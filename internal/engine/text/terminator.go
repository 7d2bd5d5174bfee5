package text

import "github.com/dshills/wrapstore/internal/engine/codepoint"

// Line terminator scalar values.
const (
	LineFeed           = '\n'
	CarriageReturn     = '\r'
	LineSeparator      = '\u2028'
	ParagraphSeparator = '\u2029'
)

// IsTerminator reports whether r ends a line on its own.
func IsTerminator(r rune) bool {
	switch r {
	case LineFeed, CarriageReturn, LineSeparator, ParagraphSeparator:
		return true
	}
	return false
}

// terminatorLen returns how many trailing scalars of line form its
// terminator: 2 for "\r\n", 1 for any other terminator, 0 otherwise.
func terminatorLen(line *codepoint.Store) int {
	last, ok := line.Last()
	if !ok || !IsTerminator(last) {
		return 0
	}
	if last == LineFeed && line.Len() >= 2 {
		if prev, _ := line.At(line.Len() - 2); prev == CarriageReturn {
			return 2
		}
	}
	return 1
}

// endsWithLoneCR reports whether line ends in a "\r" not yet paired with "\n".
func endsWithLoneCR(line *codepoint.Store) bool {
	last, ok := line.Last()
	return ok && last == CarriageReturn
}
