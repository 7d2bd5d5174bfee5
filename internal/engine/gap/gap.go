package gap

import (
	"fmt"
	"iter"
	"math/bits"
)

// Buffer is a growable gap buffer of T.
//
// Invariants: head+tail == Len() and head+tail <= len(data). The head
// occupies data[:head] and the tail occupies data[len(data)-tail:].
type Buffer[T any] struct {
	data []T
	head int
	tail int
}

// New creates an empty buffer with room for capacity elements.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// From creates a buffer holding a copy of values.
func From[T any](values ...T) *Buffer[T] {
	b := New[T](nextPow2(len(values)))
	copy(b.data, values)
	b.head = len(values)
	return b
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return b.head + b.tail
}

// Cap returns the number of elements the buffer holds before it must grow.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// physical maps a logical index to its slot in data.
func (b *Buffer[T]) physical(i int) int {
	if i < b.head {
		return i
	}
	return len(b.data) - b.Len() + i
}

// At returns the element at index i.
func (b *Buffer[T]) At(i int) (T, error) {
	if i < 0 || i >= b.Len() {
		var zero T
		return zero, outOfRange("at", i, b.Len())
	}
	return b.data[b.physical(i)], nil
}

// MustAt returns the element at index i and panics if i is out of range.
// It is meant for callers that have already validated the index.
func (b *Buffer[T]) MustAt(i int) T {
	if i < 0 || i >= b.Len() {
		panic(outOfRange("at", i, b.Len()))
	}
	return b.data[b.physical(i)]
}

// Set replaces the element at index i.
func (b *Buffer[T]) Set(i int, v T) error {
	if i < 0 || i >= b.Len() {
		return outOfRange("set", i, b.Len())
	}
	b.data[b.physical(i)] = v
	return nil
}

// Last returns the final element, if any.
func (b *Buffer[T]) Last() (T, bool) {
	if b.Len() == 0 {
		var zero T
		return zero, false
	}
	return b.data[b.physical(b.Len()-1)], true
}

// Insert inserts v before index i. i may equal Len() to append.
func (b *Buffer[T]) Insert(i int, v T) error {
	if i < 0 || i > b.Len() {
		return outOfRange("insert", i, b.Len())
	}
	b.reserve(b.Len() + 1)
	b.moveGap(i)
	b.data[b.head] = v
	b.head++
	return nil
}

// InsertRange inserts values before index i, preserving their order.
func (b *Buffer[T]) InsertRange(i int, values ...T) error {
	if i < 0 || i > b.Len() {
		return outOfRange("insert", i, b.Len())
	}
	if len(values) == 0 {
		return nil
	}
	b.reserve(b.Len() + len(values))
	b.moveGap(i)
	copy(b.data[b.head:], values)
	b.head += len(values)
	return nil
}

// Append adds values to the end of the buffer.
func (b *Buffer[T]) Append(values ...T) {
	// Len() is always a valid insertion index.
	_ = b.InsertRange(b.Len(), values...)
}

// RemoveRange removes n elements starting at index i.
func (b *Buffer[T]) RemoveRange(i, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInvalidArgument, n)
	}
	if i < 0 || i+n > b.Len() {
		return fmt.Errorf("%w: remove [%d, %d) from length %d", ErrOutOfRange, i, i+n, b.Len())
	}
	if n == 0 {
		return nil
	}

	end := i + n
	switch {
	case i >= b.head:
		// Entirely in the tail: pull the prefix of the tail over to the head,
		// then drop the removed elements from the tail.
		b.moveGap(i)
		start := len(b.data) - b.tail
		clear(b.data[start : start+n])
		b.tail -= n
	case end <= b.head:
		// Entirely in the head.
		b.moveGap(end)
		clear(b.data[i:end])
		b.head = i
	default:
		// Straddles the gap: shrink both sides in place.
		fromTail := end - b.head
		start := len(b.data) - b.tail
		clear(b.data[i:b.head])
		clear(b.data[start : start+fromTail])
		b.head = i
		b.tail -= fromTail
	}
	return nil
}

// Truncate drops every element at or after index n.
func (b *Buffer[T]) Truncate(n int) error {
	if n < 0 || n > b.Len() {
		return outOfRange("truncate", n, b.Len())
	}
	return b.RemoveRange(n, b.Len()-n)
}

// Clear removes every element while keeping the allocated capacity.
func (b *Buffer[T]) Clear() {
	clear(b.data)
	b.head, b.tail = 0, 0
}

// Slice returns a copy of elements [from, to).
func (b *Buffer[T]) Slice(from, to int) ([]T, error) {
	if from < 0 || to > b.Len() || from > to {
		return nil, fmt.Errorf("%w: slice [%d, %d) of length %d", ErrOutOfRange, from, to, b.Len())
	}
	out := make([]T, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, b.data[b.physical(i)])
	}
	return out, nil
}

// Values returns a copy of every element in order.
func (b *Buffer[T]) Values() []T {
	out := make([]T, 0, b.Len())
	out = append(out, b.data[:b.head]...)
	return append(out, b.data[len(b.data)-b.tail:]...)
}

// All iterates over the elements in order.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.Len(); i++ {
			if !yield(i, b.data[b.physical(i)]) {
				return
			}
		}
	}
}

// moveGap relocates the gap so that it starts at logical index pos.
// Only the elements between the old and new gap position move.
func (b *Buffer[T]) moveGap(pos int) {
	switch {
	case pos < b.head:
		d := b.head - pos
		dst := len(b.data) - b.tail - d
		copy(b.data[dst:dst+d], b.data[pos:b.head])
		clear(b.data[pos:min(b.head, dst)])
		b.head -= d
		b.tail += d
	case pos > b.head:
		d := pos - b.head
		src := len(b.data) - b.tail
		copy(b.data[b.head:b.head+d], b.data[src:src+d])
		clear(b.data[max(src, b.head+d) : src+d])
		b.head += d
		b.tail -= d
	}
}

// reserve grows the backing slice so it can hold n elements. The new
// capacity is the next power of two >= n, and the gap keeps its logical
// position.
func (b *Buffer[T]) reserve(n int) {
	if n <= len(b.data) {
		return
	}
	data := make([]T, nextPow2(n))
	copy(data, b.data[:b.head])
	copy(data[len(data)-b.tail:], b.data[len(b.data)-b.tail:])
	b.data = data
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func outOfRange(op string, i, n int) error {
	return fmt.Errorf("%w: %s index %d, length %d", ErrOutOfRange, op, i, n)
}
