package inspect

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/wrapstore/internal/engine"
)

func newDoc(t *testing.T) *engine.Document {
	t.Helper()
	d, err := engine.New(engine.WithContent("abcdef\nxy"), engine.WithWrapWidth(4))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestSnapshot(t *testing.T) {
	d := newDoc(t)
	if err := d.SetCaret(engine.Location{Line: 0, Column: 5}); err != nil {
		t.Fatal(err)
	}
	if err := d.Decorate(2, engine.Location{Line: 1, Column: 0}, engine.Location{Line: 1, Column: 1}); err != nil {
		t.Fatal(err)
	}

	snap, err := Snapshot(d)
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]string{
		"id":                  d.ID().String(),
		"revision":            "1",
		"wrapWidth":           "4",
		"caret.column":        "5",
		"wrappedCaret.line":   "1",
		"wrappedCaret.column": "1",
		"lines.#":             "3",
		"lines.1.text":        "ef",
		"lines.1.raw.column":  "4",
		"lines.2.decorations": "[2,0]",
		"lines.0.softWrapped": "true",
		"lines.1.softWrapped": "false",
	}
	for path, want := range checks {
		if got := Query(snap, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestMatchLines(t *testing.T) {
	snap, err := Snapshot(newDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, MatchLines(snap, "*")); diff != "" {
		t.Errorf("MatchLines(*) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, MatchLines(snap, "e*")); diff != "" {
		t.Errorf("MatchLines(e*) mismatch (-want +got):\n%s", diff)
	}
	if got := MatchLines(snap, "zz*"); len(got) != 0 {
		t.Errorf("MatchLines(zz*) = %v", got)
	}
}

func TestPretty(t *testing.T) {
	snap, err := Snapshot(newDoc(t))
	if err != nil {
		t.Fatal(err)
	}
	out := Pretty(snap)
	if !bytes.Contains(out, []byte("\n  \"revision\": 0")) {
		t.Errorf("unexpected pretty output:\n%s", out)
	}
}
