package codepoint

import (
	"fmt"
	"math/bits"
	"unicode/utf8"

	"github.com/dshills/wrapstore/internal/engine/gap"
)

// Re-exported errors.
var (
	ErrOutOfRange      = gap.ErrOutOfRange
	ErrInvalidArgument = gap.ErrInvalidArgument
)

// Store is a gap buffer of scalar values with adaptive element width.
//
// The element capacity is len(data)/width. The head occupies the first
// head elements and the tail the last tail elements of data.
type Store struct {
	width Width
	data  []byte
	head  int
	tail  int
}

// New creates an empty store with room for capacity one-byte elements.
func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{width: Width1, data: make([]byte, capacity)}
}

// FromRunes creates a store holding rs.
func FromRunes(rs []rune) (*Store, error) {
	s := New(nextPow2(len(rs)))
	if err := s.InsertRange(0, rs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	return s.head + s.tail
}

// Cap returns the element capacity.
func (s *Store) Cap() int {
	return len(s.data) / int(s.width)
}

// Width returns the current element width.
func (s *Store) Width() Width {
	return s.width
}

// slot returns the byte slice holding physical element p.
func (s *Store) slot(p int) []byte {
	w := int(s.width)
	return s.data[p*w : p*w+w]
}

func (s *Store) physical(i int) int {
	if i < s.head {
		return i
	}
	return s.Cap() - s.Len() + i
}

// At returns the value at index i.
func (s *Store) At(i int) (rune, error) {
	if i < 0 || i >= s.Len() {
		return 0, fmt.Errorf("%w: code point index %d, length %d", ErrOutOfRange, i, s.Len())
	}
	return s.width.decode(s.slot(s.physical(i))), nil
}

// Last returns the final value, if any.
func (s *Store) Last() (rune, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	return s.width.decode(s.slot(s.physical(s.Len() - 1))), true
}

// Set replaces the value at index i, widening the store if needed.
func (s *Store) Set(i int, r rune) error {
	if i < 0 || i >= s.Len() {
		return fmt.Errorf("%w: code point index %d, length %d", ErrOutOfRange, i, s.Len())
	}
	if !utf8.ValidRune(r) {
		return fmt.Errorf("%w: %U is not a scalar value", ErrInvalidArgument, r)
	}
	s.widen(WidthFor(r))
	s.width.encode(s.slot(s.physical(i)), r)
	return nil
}

// Insert inserts r before index i.
func (s *Store) Insert(i int, r rune) error {
	return s.InsertRange(i, r)
}

// InsertRange inserts rs before index i, preserving their order.
// Every value is validated before the store changes.
func (s *Store) InsertRange(i int, rs ...rune) error {
	if i < 0 || i > s.Len() {
		return fmt.Errorf("%w: code point insert index %d, length %d", ErrOutOfRange, i, s.Len())
	}
	need := Width1
	for _, r := range rs {
		if !utf8.ValidRune(r) {
			return fmt.Errorf("%w: %U is not a scalar value", ErrInvalidArgument, r)
		}
		need = max(need, WidthFor(r))
	}
	if len(rs) == 0 {
		return nil
	}

	s.widen(need)
	s.reserve(s.Len() + len(rs))
	s.moveGap(i)
	for _, r := range rs {
		s.width.encode(s.slot(s.head), r)
		s.head++
	}
	return nil
}

// Append adds rs to the end of the store.
func (s *Store) Append(rs ...rune) error {
	return s.InsertRange(s.Len(), rs...)
}

// RemoveRange removes n values starting at index i.
func (s *Store) RemoveRange(i, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInvalidArgument, n)
	}
	if i < 0 || i+n > s.Len() {
		return fmt.Errorf("%w: remove [%d, %d) from length %d", ErrOutOfRange, i, i+n, s.Len())
	}
	if n == 0 {
		return nil
	}

	end := i + n
	switch {
	case i >= s.head:
		s.moveGap(i)
		s.tail -= n
	case end <= s.head:
		s.moveGap(end)
		s.head = i
	default:
		s.tail -= end - s.head
		s.head = i
	}
	return nil
}

// Split removes values [i, Len()) and returns them as a new store.
func (s *Store) Split(i int) (*Store, error) {
	if i < 0 || i > s.Len() {
		return nil, fmt.Errorf("%w: split index %d, length %d", ErrOutOfRange, i, s.Len())
	}
	moved := s.Runes()[i:]
	rest, err := FromRunes(moved)
	if err != nil {
		return nil, err
	}
	if err := s.RemoveRange(i, len(moved)); err != nil {
		return nil, err
	}
	return rest, nil
}

// Runes returns a copy of every value in order.
func (s *Store) Runes() []rune {
	return s.AppendTo(make([]rune, 0, s.Len()))
}

// AppendTo appends every value to dst and returns the extended slice.
func (s *Store) AppendTo(dst []rune) []rune {
	for i := 0; i < s.head; i++ {
		dst = append(dst, s.width.decode(s.slot(i)))
	}
	for p := s.Cap() - s.tail; p < s.Cap(); p++ {
		dst = append(dst, s.width.decode(s.slot(p)))
	}
	return dst
}

// String returns the stored values as a string.
func (s *Store) String() string {
	return string(s.Runes())
}

// widen re-packs every element at width w if w is wider than the current
// width. Head and tail keep their physical element positions.
func (s *Store) widen(w Width) {
	if w <= s.width {
		return
	}
	capacity := s.Cap()
	data := make([]byte, capacity*int(w))
	for p := 0; p < capacity; p++ {
		if p >= s.head && p < capacity-s.tail {
			continue
		}
		r := s.width.decode(s.slot(p))
		w.encode(data[p*int(w):p*int(w)+int(w)], r)
	}
	s.width = w
	s.data = data
}

// reserve grows the element capacity to the next power of two >= n.
func (s *Store) reserve(n int) {
	capacity := s.Cap()
	if n <= capacity {
		return
	}
	w := int(s.width)
	grown := nextPow2(n)
	data := make([]byte, grown*w)
	copy(data, s.data[:s.head*w])
	copy(data[(grown-s.tail)*w:], s.data[(capacity-s.tail)*w:])
	s.data = data
}

// moveGap relocates the gap to logical index pos.
func (s *Store) moveGap(pos int) {
	w := int(s.width)
	switch {
	case pos < s.head:
		d := s.head - pos
		dst := s.Cap() - s.tail - d
		copy(s.data[dst*w:(dst+d)*w], s.data[pos*w:s.head*w])
		s.head -= d
		s.tail += d
	case pos > s.head:
		d := pos - s.head
		src := s.Cap() - s.tail
		copy(s.data[s.head*w:(s.head+d)*w], s.data[src*w:(src+d)*w])
		s.head += d
		s.tail -= d
	}
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
