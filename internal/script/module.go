package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wrapstore/internal/engine"
)

// docModule implements the doc table.
type docModule struct {
	doc *engine.Document
}

func newDocModule(doc *engine.Document) *docModule {
	return &docModule{doc: doc}
}

// table builds the doc table for L.
func (m *docModule) table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":               m.text,
		"line":               m.line,
		"wrapped_line":       m.wrappedLine,
		"line_count":         m.lineCount,
		"wrapped_line_count": m.wrappedLineCount,
		"revision":           m.revision,
		"insert":             m.insert,
		"insert_at":          m.insertAt,
		"remove":             m.remove,
		"remove_range":       m.removeRange,
		"decorate":           m.decorate,
		"caret":              m.caret,
		"wrapped_caret":      m.wrappedCaret,
		"set_caret":          m.setCaret,
		"left":               m.mover(m.doc.MoveLeft),
		"right":              m.mover(m.doc.MoveRight),
		"up":                 m.mover(m.doc.MoveUp),
		"down":               m.mover(m.doc.MoveDown),
		"wrap":               m.wrap,
		"set_wrap":           m.setWrap,
	})
}

// checkLocation reads a 1-based line and column at arguments n and n+1.
func checkLocation(L *lua.LState, n int) engine.Location {
	line := L.CheckInt(n)
	col := L.CheckInt(n + 1)
	if line < 1 {
		L.ArgError(n, "line must be >= 1")
	}
	if col < 1 {
		L.ArgError(n+1, "column must be >= 1")
	}
	return engine.Location{Line: line - 1, Column: col - 1}
}

// pushLocation pushes loc as a 1-based line and column.
func pushLocation(L *lua.LState, loc engine.Location) int {
	L.Push(lua.LNumber(loc.Line + 1))
	L.Push(lua.LNumber(loc.Column + 1))
	return 2
}

// text() -> string
func (m *docModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Text()))
	return 1
}

// line(n) -> string
// Returns raw line n, terminator included.
func (m *docModule) line(L *lua.LState) int {
	s, err := m.doc.RawLine(L.CheckInt(1) - 1)
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LString(s))
	return 1
}

// wrapped_line(n) -> string
func (m *docModule) wrappedLine(L *lua.LState) int {
	s, err := m.doc.WrappedLine(L.CheckInt(1) - 1)
	if err != nil {
		L.RaiseError("wrapped_line: %v", err)
		return 0
	}
	L.Push(lua.LString(s))
	return 1
}

// line_count() -> number
func (m *docModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.LineCount()))
	return 1
}

// wrapped_line_count() -> number
func (m *docModule) wrappedLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.WrappedLineCount()))
	return 1
}

// revision() -> number
func (m *docModule) revision(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.Revision()))
	return 1
}

// insert(text)
// Inserts text at the caret and leaves the caret after it.
func (m *docModule) insert(L *lua.LState) int {
	if err := m.doc.InsertString(L.CheckString(1)); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// insert_at(line, col, text) -> line, col
// Inserts text at a raw location and returns the location after it.
func (m *docModule) insertAt(L *lua.LState) int {
	loc := checkLocation(L, 1)
	end, err := m.doc.InsertAt(loc, L.CheckString(3))
	if err != nil {
		L.RaiseError("insert_at: %v", err)
		return 0
	}
	return pushLocation(L, end)
}

// remove([n]) -> number
// Removes up to n scalars before the caret and returns how many went.
func (m *docModule) remove(L *lua.LState) int {
	n := L.OptInt(1, 1)
	removed := 0
	for range n {
		ok, err := m.doc.Remove()
		if err != nil {
			L.RaiseError("remove: %v", err)
			return 0
		}
		if !ok {
			break
		}
		removed++
	}
	L.Push(lua.LNumber(removed))
	return 1
}

// remove_range(l1, c1, l2, c2)
func (m *docModule) removeRange(L *lua.LState) int {
	start := checkLocation(L, 1)
	end := checkLocation(L, 3)
	if err := m.doc.RemoveRange(start, end); err != nil {
		L.RaiseError("remove_range: %v", err)
	}
	return 0
}

// decorate(dec, l1, c1, l2, c2)
func (m *docModule) decorate(L *lua.LState) int {
	dec := L.CheckInt(1)
	if dec < 0 || dec > 0xffff {
		L.ArgError(1, "decoration must be between 0 and 65535")
		return 0
	}
	start := checkLocation(L, 2)
	end := checkLocation(L, 4)
	if err := m.doc.Decorate(engine.Decoration(dec), start, end); err != nil {
		L.RaiseError("decorate: %v", err)
	}
	return 0
}

// caret() -> line, col
func (m *docModule) caret(L *lua.LState) int {
	return pushLocation(L, m.doc.Caret())
}

// wrapped_caret() -> line, col
func (m *docModule) wrappedCaret(L *lua.LState) int {
	return pushLocation(L, m.doc.WrappedCaret())
}

// set_caret(line, col)
func (m *docModule) setCaret(L *lua.LState) int {
	if err := m.doc.SetCaret(checkLocation(L, 1)); err != nil {
		L.RaiseError("set_caret: %v", err)
	}
	return 0
}

// mover wraps a caret move as left/right/up/down([n]) -> number, returning
// how many steps succeeded.
func (m *docModule) mover(move func() bool) lua.LGFunction {
	return func(L *lua.LState) int {
		n := L.OptInt(1, 1)
		moved := 0
		for range n {
			if !move() {
				break
			}
			moved++
		}
		L.Push(lua.LNumber(moved))
		return 1
	}
}

// wrap() -> number
func (m *docModule) wrap(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.WrapWidth()))
	return 1
}

// set_wrap(n)
func (m *docModule) setWrap(L *lua.LState) int {
	if err := m.doc.SetWrapWidth(L.CheckInt(1)); err != nil {
		L.RaiseError("set_wrap: %v", err)
	}
	return 0
}
