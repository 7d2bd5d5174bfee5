package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeDocument(b *testing.B, lines int) *Document {
	b.Helper()
	var sb strings.Builder
	line := strings.Repeat("x", 100) + "\n"
	for range lines {
		sb.WriteString(line)
	}
	d, err := New(WithContent(sb.String()), WithWrapWidth(80))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(d.Close)
	return d
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkDocumentWrappedLineCount(b *testing.B) {
	d := setupLargeDocument(b, 10000)
	for b.Loop() {
		_ = d.WrappedLineCount()
	}
}

func BenchmarkDocumentTypingMidDocument(b *testing.B) {
	d := setupLargeDocument(b, 10000)
	if err := d.SetCaret(Location{Line: 5000, Column: 50}); err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		_ = d.Insert('y')
		_ = d.WrappedCaret()
	}
}

func BenchmarkDocumentLines(b *testing.B) {
	d := setupLargeDocument(b, 10000)
	for b.Loop() {
		_ = d.Lines(9000, 50)
	}
}
