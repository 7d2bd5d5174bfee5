// Package text provides Store, a line-structured sequence of Unicode scalar
// values.
//
// Each line is a codepoint.Store holding the line's content followed by at
// most one line terminator. Recognized terminators are "\n", "\r\n" (one
// two-scalar unit), "\r", U+2028 and U+2029. The store always has at least one
// line, and only the final line lacks a terminator.
//
// Inserting a terminator splits a line; inserting "\n" directly after a lone
// "\r" completes a "\r\n" pair instead of starting another line. Removing a
// range that spans a terminator merges the lines on either side.
package text
