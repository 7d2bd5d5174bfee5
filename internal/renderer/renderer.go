package renderer

import (
	"fmt"

	"github.com/dshills/wrapstore/internal/engine"
	"github.com/dshills/wrapstore/internal/renderer/backend"
	"github.com/dshills/wrapstore/internal/renderer/core"
)

// Source provides the document content to render.
type Source interface {
	Revision() uint64
	WrappedCaret() engine.Location
	WrappedLineCount() int
	Lines(first, count int) []engine.Line
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPalette sets the decoration palette.
func WithPalette(p core.Palette) Option {
	return func(r *Renderer) {
		r.palette = p
	}
}

// WithTabWidth sets the distance between tab stops.
func WithTabWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tabWidth = n
		}
	}
}

// WithWrapMarker draws marker after the last cell of soft-wrapped lines.
// Zero disables the marker.
func WithWrapMarker(marker rune) Option {
	return func(r *Renderer) {
		r.wrapMarker = marker
	}
}

// WithStatusLine reserves the bottom row for a caret and revision summary.
func WithStatusLine() Option {
	return func(r *Renderer) {
		r.status = true
	}
}

// frame identifies what was last painted.
type frame struct {
	revision      uint64
	caret         engine.Location
	top           int
	width, height int
}

// Renderer paints a Source onto a Backend.
type Renderer struct {
	backend backend.Backend
	src     Source

	palette    core.Palette
	tabWidth   int
	wrapMarker rune
	status     bool

	top   int
	last  frame
	valid bool
}

// New creates a renderer.
func New(b backend.Backend, src Source, opts ...Option) *Renderer {
	r := &Renderer{
		backend:  b,
		src:      src,
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetPalette replaces the palette and forces a repaint.
func (r *Renderer) SetPalette(p core.Palette) {
	r.palette = p
	r.Invalidate()
}

// SetTabWidth changes the tab stop distance and forces a repaint.
func (r *Renderer) SetTabWidth(n int) {
	if n > 0 {
		r.tabWidth = n
		r.Invalidate()
	}
}

// Invalidate forces the next Render to repaint.
func (r *Renderer) Invalidate() {
	r.valid = false
}

// Top returns the first visible wrapped line.
func (r *Renderer) Top() int {
	return r.top
}

// textRows returns the rows available for document lines.
func (r *Renderer) textRows(height int) int {
	if r.status {
		return max(height-1, 0)
	}
	return height
}

// scroll moves top the least distance that keeps caret visible.
func (r *Renderer) scroll(caret, rows int) {
	if caret < r.top {
		r.top = caret
	} else if caret >= r.top+rows {
		r.top = caret - rows + 1
	}
	r.top = max(r.top, 0)
}

// Render paints the visible lines. It reports false, touching nothing, when
// the document revision, caret and screen size are unchanged since the
// last paint.
func (r *Renderer) Render() bool {
	width, height := r.backend.Size()
	rows := r.textRows(height)
	if width <= 0 || rows <= 0 {
		return false
	}

	caret := r.src.WrappedCaret()
	r.scroll(caret.Line, rows)

	cur := frame{
		revision: r.src.Revision(),
		caret:    caret,
		top:      r.top,
		width:    width,
		height:   height,
	}
	if r.valid && cur == r.last {
		return false
	}

	r.backend.Clear()
	lines := r.src.Lines(r.top, rows)
	caretX, caretY := -1, -1
	for y, line := range lines {
		end := r.paintLine(y, width, line)
		if line.SoftWrapped && r.wrapMarker != 0 && end < width {
			r.backend.SetCell(end, y, core.NewStyledCell(r.wrapMarker, r.markerStyle()))
		}
		if line.Index == caret.Line {
			caretX, caretY = r.displayColumn(line.Runes, caret.Column), y
		}
	}
	if r.status {
		r.paintStatus(height-1, width, caret, cur.revision)
	}

	if caretY >= 0 && caretX < width {
		r.backend.ShowCursor(caretX, caretY)
	} else {
		r.backend.HideCursor()
	}
	r.backend.Show()

	r.last = cur
	r.valid = true
	return true
}

// paintLine draws line on row y and returns the column after its last cell.
func (r *Renderer) paintLine(y, width int, line engine.Line) int {
	x := 0
	for i, ch := range line.Runes {
		if x >= width {
			break
		}
		style := r.palette.Style(line.Decorations[i])
		n := r.advance(ch, x)
		switch {
		case ch == '\t':
			for k := range n {
				r.backend.SetCell(x+k, y, core.NewStyledCell(' ', style))
			}
		case core.RuneWidth(ch) == 0:
			r.backend.SetCell(x, y, core.NewStyledCell('·', style.WithAttributes(core.AttrDim)))
		default:
			if x+n > width {
				// A wide rune that does not fit leaves the last column blank.
				return width
			}
			r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
			if n == 2 {
				r.backend.SetCell(x+1, y, core.ContinuationCell())
			}
		}
		x += n
	}
	return min(x, width)
}

// advance returns how many columns ch occupies when drawn at column x.
func (r *Renderer) advance(ch rune, x int) int {
	if ch == '\t' {
		return r.tabWidth - x%r.tabWidth
	}
	return max(core.RuneWidth(ch), 1)
}

// displayColumn returns the screen column of the scalar at col.
func (r *Renderer) displayColumn(runes []rune, col int) int {
	x := 0
	for _, ch := range runes[:min(col, len(runes))] {
		x += r.advance(ch, x)
	}
	return x
}

func (r *Renderer) markerStyle() core.Style {
	return r.palette.Style(0).WithAttributes(core.AttrDim)
}

func (r *Renderer) paintStatus(y, width int, caret engine.Location, revision uint64) {
	style := core.DefaultStyle().WithAttributes(core.AttrReverse)
	text := []rune(fmt.Sprintf(" %d:%d  %d lines  rev %d", caret.Line+1, caret.Column+1, r.src.WrappedLineCount(), revision))
	for x := range width {
		ch := ' '
		if x < len(text) {
			ch = text[x]
		}
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
	}
}
