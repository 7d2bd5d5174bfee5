package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/wrapstore/internal/renderer/core"
)

func TestNullBackendSetGetCell(t *testing.T) {
	b := NewNullBackend(8, 2)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if w, h := b.Size(); w != 8 || h != 2 {
		t.Errorf("Size() = (%d, %d), want (8, 2)", w, h)
	}

	cell := core.NewStyledCell('X', core.NewStyle(core.ColorFromRGB(255, 0, 0)))
	b.SetCell(3, 1, cell)
	if got := b.GetCell(3, 1); got != cell {
		t.Errorf("GetCell = %+v, want %+v", got, cell)
	}

	b.SetCell(-1, 0, cell)
	b.SetCell(8, 0, cell)
	if got := b.GetCell(-1, 0); got != core.EmptyCell() {
		t.Errorf("out of bounds GetCell = %+v", got)
	}
	if row := b.Row(1); row != "   X    " {
		t.Errorf("Row(1) = %q", row)
	}

	b.Clear()
	if row := b.Row(1); row != "        " {
		t.Errorf("Row(1) after Clear = %q", row)
	}
}

func TestNullBackendCursorAndShow(t *testing.T) {
	b := NewNullBackend(4, 4)
	_ = b.Init()
	b.ShowCursor(2, 3)
	if x, y, vis := b.CursorPosition(); x != 2 || y != 3 || !vis {
		t.Errorf("CursorPosition = (%d, %d, %v)", x, y, vis)
	}
	b.HideCursor()
	if _, _, vis := b.CursorPosition(); vis {
		t.Error("cursor still visible after HideCursor")
	}
	b.Show()
	b.Show()
	if b.Shows() != 2 {
		t.Errorf("Shows() = %d, want 2", b.Shows())
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(4, 4)
	_ = b.Init()
	b.Resize(10, 2)
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 10 || ev.Height != 2 {
		t.Errorf("event = %+v, want resize 10x2", ev)
	}
	if w, h := b.Size(); w != 10 || h != 2 {
		t.Errorf("Size() = (%d, %d)", w, h)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(1, 1)
	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	if ev := b.PollEvent(); ev.Rune != 'q' {
		t.Errorf("PollEvent = %+v", ev)
	}
}

func newSimTerminal(t *testing.T, w, h int) *Terminal {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return term
}

func TestTerminalCells(t *testing.T) {
	term := newSimTerminal(t, 10, 3)
	if w, h := term.Size(); w != 10 || h != 3 {
		t.Fatalf("Size() = (%d, %d), want (10, 3)", w, h)
	}

	style := core.NewStyle(core.ColorFromRGB(255, 0, 0)).WithAttributes(core.AttrBold)
	term.SetCell(1, 1, core.NewStyledCell('Z', style))
	term.Show()

	got := term.GetCell(1, 1)
	if got.Rune != 'Z' || got.Width != 1 {
		t.Errorf("GetCell = %+v", got)
	}
	if got.Style.Foreground != core.ColorFromRGB(255, 0, 0) {
		t.Errorf("foreground = %v", got.Style.Foreground)
	}
	if !got.Style.Attributes.Has(core.AttrBold) {
		t.Error("bold attribute lost")
	}
	if !got.Style.Background.IsDefault() {
		t.Errorf("background = %v, want default", got.Style.Background)
	}
}

func TestConvertKey(t *testing.T) {
	for _, k := range []Key{KeyRune, KeyEscape, KeyEnter, KeyTab, KeyBackspace, KeyUp, KeyDown, KeyLeft, KeyRight, KeyCtrlQ, KeyCtrlS} {
		if got := convertKey(convertToTcellKey(k)); got != k {
			t.Errorf("round trip of key %d = %d", k, got)
		}
	}
	if got := convertKey(tcell.KeyBackspace); got != KeyBackspace {
		t.Errorf("KeyBackspace = %d", got)
	}
	if got := convertKey(tcell.KeyF5); got != KeyNone {
		t.Errorf("unbound key = %d, want KeyNone", got)
	}
}

func TestConvertMod(t *testing.T) {
	m := ModShift | ModAlt
	if got := convertMod(convertToTcellMod(m)); got != m {
		t.Errorf("mod round trip = %b, want %b", got, m)
	}
}

func TestConvertEvent(t *testing.T) {
	if ev := convertEvent(tcell.NewEventResize(30, 4)); ev.Type != EventResize || ev.Width != 30 || ev.Height != 4 {
		t.Errorf("resize event = %+v", ev)
	}
	if ev := convertEvent(nil); ev.Type != EventInterrupt {
		t.Errorf("nil event = %+v", ev)
	}
	if ev := convertEvent(tcell.NewEventInterrupt(nil)); ev.Type != EventInterrupt {
		t.Errorf("interrupt event = %+v", ev)
	}
}
