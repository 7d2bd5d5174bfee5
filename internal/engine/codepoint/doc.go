// Package codepoint provides Store, a gap buffer of Unicode scalar values
// packed at the smallest uniform byte width that fits every value it has
// ever held.
//
// A store starts with one byte per element. Inserting a value above 0xFF
// re-packs every element at two bytes, and a value above 0xFFFF re-packs at
// three bytes. The width never shrinks again, even after the wide values are
// removed: many small edits on a line keep their amortized cost instead of
// paying for repeated re-packing.
package codepoint
