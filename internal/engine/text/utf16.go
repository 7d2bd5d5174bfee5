package text

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeUTF16 converts UTF-16 code units to scalar values. Unlike
// utf16.Decode it fails on unpaired surrogates instead of substituting
// U+FFFD.
func DecodeUTF16(u []uint16) ([]rune, error) {
	out := make([]rune, 0, len(u))
	for i := 0; i < len(u); i++ {
		c := rune(u[i])
		if !utf16.IsSurrogate(c) {
			out = append(out, c)
			continue
		}
		if c >= 0xDC00 || i+1 >= len(u) {
			return nil, fmt.Errorf("%w: unpaired surrogate %#04x at %d", ErrInvalidArgument, c, i)
		}
		r := utf16.DecodeRune(c, rune(u[i+1]))
		if r == utf8.RuneError {
			return nil, fmt.Errorf("%w: unpaired surrogate %#04x at %d", ErrInvalidArgument, c, i)
		}
		out = append(out, r)
		i++
	}
	return out, nil
}

// ValidateRunes reports an error if any value in rs is not a scalar value.
func ValidateRunes(rs []rune) error {
	for i, r := range rs {
		if !utf8.ValidRune(r) {
			return fmt.Errorf("%w: %U at %d is not a scalar value", ErrInvalidArgument, r, i)
		}
	}
	return nil
}

// MinReadLen is the smallest dst that lets Read always make progress.
const MinReadLen = 2

// Read copies scalars starting at *loc into dst as UTF-16 code units,
// advancing line by line. It returns the number of code units written and
// moves *loc to the resume point. A surrogate pair is never split: if only
// one unit of space remains for a supplementary scalar, Read stops early.
// dst must hold at least MinReadLen units; a shorter dst positioned at a
// supplementary scalar returns 0 without advancing, which cannot be told
// apart from the end of the text. An invalid *loc reads nothing.
func (s *Store) Read(dst []uint16, loc *Location) int {
	l := *loc
	if l.Line < 0 || l.Line >= s.lines.Len() || l.Column < 0 {
		return 0
	}
	if l.Column > s.lines.MustAt(l.Line).Len() {
		return 0
	}

	n := 0
	last := s.lines.Len() - 1
	for n < len(dst) {
		ln := s.lines.MustAt(l.Line)
		if l.Column >= ln.Len() {
			if l.Line == last {
				break
			}
			l = Location{Line: l.Line + 1}
			continue
		}
		r, _ := ln.At(l.Column)
		if r >= 0x10000 {
			if n+2 > len(dst) {
				break
			}
			r1, r2 := utf16.EncodeRune(r)
			dst[n], dst[n+1] = uint16(r1), uint16(r2)
			n += 2
		} else {
			dst[n] = uint16(r)
			n++
		}
		l.Column++
	}
	if l.Line < last && l.Column == s.lines.MustAt(l.Line).Len() {
		l = Location{Line: l.Line + 1}
	}
	*loc = l
	return n
}
