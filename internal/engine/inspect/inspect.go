// Package inspect renders document state as JSON for debugging and tests.
package inspect

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/wrapstore/internal/engine"
)

// Source is the read side of a document.
type Source interface {
	ID() uuid.UUID
	Revision() uint64
	WrapWidth() int
	Caret() engine.Location
	WrappedCaret() engine.Location
	WrappedLineCount() int
	Lines(first, count int) []engine.Line
}

// Snapshot returns src's state as JSON:
//
//	{"id":..., "revision":..., "wrapWidth":...,
//	 "caret":{"line":..,"column":..}, "wrappedCaret":{...},
//	 "lines":[{"text":..,"raw":{"line":..,"column":..},"decorations":[..],"softWrapped":..}]}
func Snapshot(src Source) ([]byte, error) {
	doc := []byte(`{}`)
	set := func(path string, v any) {
		if doc == nil {
			return
		}
		var err error
		if doc, err = sjson.SetBytes(doc, path, v); err != nil {
			doc = nil
		}
	}

	set("id", src.ID().String())
	set("revision", src.Revision())
	set("wrapWidth", src.WrapWidth())
	caret, wrapped := src.Caret(), src.WrappedCaret()
	set("caret.line", caret.Line)
	set("caret.column", caret.Column)
	set("wrappedCaret.line", wrapped.Line)
	set("wrappedCaret.column", wrapped.Column)
	set("lines", []any{})
	for _, ln := range src.Lines(0, src.WrappedLineCount()) {
		set("lines.-1", map[string]any{
			"text":        string(ln.Runes),
			"raw":         map[string]int{"line": ln.Raw.Line, "column": ln.Raw.Column},
			"decorations": ln.Decorations,
			"softWrapped": ln.SoftWrapped,
		})
	}
	if doc == nil {
		return nil, fmt.Errorf("inspect: building snapshot of %s failed", src.ID())
	}
	return doc, nil
}

// Query evaluates a gjson path against a snapshot.
func Query(snapshot []byte, path string) gjson.Result {
	return gjson.GetBytes(snapshot, path)
}

// Pretty indents a snapshot for display.
func Pretty(snapshot []byte) []byte {
	return pretty.Pretty(snapshot)
}

// MatchLines returns the indexes of wrapped lines whose text matches the
// glob pattern, where * matches any run and ? any single character.
func MatchLines(snapshot []byte, pattern string) []int {
	var out []int
	for i, text := range Query(snapshot, "lines.#.text").Array() {
		if match.Match(text.String(), pattern) {
			out = append(out, i)
		}
	}
	return out
}
