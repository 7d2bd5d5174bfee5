// Package gap provides a generic gap buffer: an ordered sequence optimised
// for bursts of localized insertions and removals.
//
// The backing slice is split into a head region (elements before the gap)
// and a tail region (elements after the gap, right-aligned in the slice).
// Every insertion or removal first relocates the gap to the edit point, so
// the cost of an edit is proportional to the distance from the previous edit
// rather than to the length of the sequence.
//
// Basic usage:
//
//	b := gap.New[int](8)
//	_ = b.Insert(0, 1)
//	_ = b.InsertRange(1, 2, 3)  // [1 2 3]
//	_ = b.RemoveRange(0, 1)     // [2 3]
//	v, _ := b.At(1)             // 3
//
// A Buffer is not safe for concurrent use.
package gap
