package engine

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/wrapstore/internal/engine/decorated"
	"github.com/dshills/wrapstore/internal/engine/text"
	"github.com/dshills/wrapstore/internal/engine/wrap"
	"github.com/dshills/wrapstore/internal/logging"
	"github.com/dshills/wrapstore/internal/textio"
)

// Re-export commonly used types for convenience.
type (
	// Location is a 0-indexed (line, column) position counted in scalar
	// values. Depending on the method it is raw or wrapped.
	Location = text.Location

	// Decoration is a style index attached to every scalar. 0 is the
	// default style.
	Decoration = uint16

	// Change describes one mutation of the underlying store.
	Change = decorated.Change
)

// Line is one wrapped line prepared for display.
type Line struct {
	// Index is the wrapped line index.
	Index int
	// Raw is where the line starts in raw coordinates.
	Raw Location
	// Runes holds the line's scalars without any terminator.
	Runes []rune
	// Decorations holds one decoration per rune.
	Decorations []Decoration
	// SoftWrapped reports that the raw line continues on the next
	// wrapped line.
	SoftWrapped bool
}

// Document is an editing session over one decorated store and its wrapped
// view. All methods are safe for concurrent use.
type Document struct {
	mu sync.Mutex

	id    uuid.UUID
	store *decorated.Store[Decoration]
	view  *wrap.View[Decoration]
	log   *zap.Logger

	unsubscribe func()
	closed      bool

	// Configuration
	wrapWidth         int
	defaultDecoration Decoration
	readOnly          bool

	// Initialization
	initContent string
}

// New creates a document with the given options.
func New(opts ...Option) (*Document, error) {
	d := &Document{
		id:        uuid.New(),
		wrapWidth: DefaultWrapWidth,
		log:       logging.Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}

	store, err := decorated.FromString(d.initContent, d.defaultDecoration)
	if err != nil {
		return nil, err
	}
	view, err := wrap.New(store, d.wrapWidth)
	if err != nil {
		return nil, err
	}
	d.store, d.view = store, view
	d.initContent = ""
	d.log = d.log.With(zap.String("doc", d.id.String()))
	d.unsubscribe = store.Subscribe(d.logChange)

	d.log.Debug("document created",
		zap.Int("lines", store.LineCount()),
		zap.Int("wrap_width", d.wrapWidth),
		zap.Bool("read_only", d.readOnly))
	return d, nil
}

// NewFromReader creates a document from r. The input may carry a UTF-8 or
// UTF-16 byte order mark.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	content, err := textio.Decode(r)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithContent(content))...)
}

func (d *Document) logChange(c Change) {
	if !c.Structural {
		return
	}
	d.log.Debug("lines changed",
		zap.Stringer("kind", c.Kind),
		zap.Int("line", c.Start.Line),
		zap.Int("column", c.Start.Column),
		zap.Uint64("revision", c.Revision))
}

// rejected logs a failed edit and returns err unchanged.
func (d *Document) rejected(op string, err error) error {
	if err != nil {
		d.log.Warn("edit rejected",
			zap.String("op", op),
			zap.Error(err),
			zap.Uint64("revision", d.store.Revision()))
	}
	return err
}

// Close detaches the view from the store. Later edits return ErrClosed.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.view.Close()
	d.unsubscribe()
}

// writable reports why the document cannot be edited, if it cannot.
func (d *Document) writable() error {
	if d.closed {
		return ErrClosed
	}
	if d.readOnly {
		return ErrReadOnly
	}
	return nil
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// ReadOnly reports whether edits are rejected.
func (d *Document) ReadOnly() bool {
	return d.readOnly
}

// ============================================================================
// Read Operations
// ============================================================================

// Revision returns the store's change counter.
func (d *Document) Revision() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Revision()
}

// Text returns the full content.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.String()
}

// LineCount returns the number of raw lines.
func (d *Document) LineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.LineCount()
}

// RawLine returns raw line l, terminator included.
func (d *Document) RawLine(l int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.LineString(l)
}

// WrappedLineCount returns the number of wrapped lines.
func (d *Document) WrappedLineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.LineCount()
}

// WrappedLine returns wrapped line w without terminator.
func (d *Document) WrappedLine(w int) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.LineString(w)
}

// ColumnCount returns the number of scalars on wrapped line w.
func (d *Document) ColumnCount(w int, ignoreNewline bool) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.ColumnCount(w, ignoreNewline)
}

// Cell returns the scalar and decoration at a wrapped location.
func (d *Document) Cell(wrapped Location) (rune, Decoration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.Cell(wrapped)
}

// Lines returns up to count wrapped lines starting at first.
func (d *Document) Lines(first, count int) []Line {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Line
	for w := max(first, 0); w < first+count; w++ {
		raw, err := d.view.ToRaw(Location{Line: w})
		if err != nil {
			break
		}
		rs, err := d.view.LineRunes(w)
		if err != nil {
			break
		}
		decs, _ := d.store.LineDecorations(raw.Line)
		next, err := d.view.ToRaw(Location{Line: w + 1})
		out = append(out, Line{
			Index:       w,
			Raw:         raw,
			Runes:       rs,
			Decorations: decs[raw.Column : raw.Column+len(rs)],
			SoftWrapped: err == nil && next.Line == raw.Line,
		})
	}
	return out
}

// Read copies UTF-16 code units starting at the raw location *loc and
// advances *loc. dst needs at least text.MinReadLen units to always make
// progress.
func (d *Document) Read(dst []uint16, loc *Location) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Read(dst, loc)
}

// ============================================================================
// Coordinate Mapping
// ============================================================================

// WrapWidth returns the maximum wrapped line length. 0 means unwrapped.
func (d *Document) WrapWidth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.MaxLineLength()
}

// SetWrapWidth changes the wrap width.
func (d *Document) SetWrapWidth(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.view.SetMaxLineLength(n); err != nil {
		return err
	}
	d.log.Debug("wrap width changed", zap.Int("wrap_width", n))
	return nil
}

// ToWrapped maps a raw location to wrapped coordinates.
func (d *Document) ToWrapped(raw Location) (Location, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.ToWrapped(raw)
}

// ToRaw maps a wrapped location to raw coordinates.
func (d *Document) ToRaw(wrapped Location) (Location, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.ToRaw(wrapped)
}

// ============================================================================
// Caret
// ============================================================================

// Caret returns the raw caret location.
func (d *Document) Caret() Location {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.Caret()
}

// WrappedCaret returns the caret in wrapped coordinates.
func (d *Document) WrappedCaret() Location {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.WrappedCaret()
}

// StickyColumn returns the wrapped column vertical moves aim for.
func (d *Document) StickyColumn() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.StickyColumn()
}

// SetCaret places the caret at a raw location.
func (d *Document) SetCaret(raw Location) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.SetCaret(raw)
}

// MoveLeft moves the caret one scalar back.
func (d *Document) MoveLeft() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.MoveLeft()
}

// MoveRight moves the caret one scalar forward.
func (d *Document) MoveRight() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.MoveRight()
}

// MoveUp moves the caret to the previous wrapped line.
func (d *Document) MoveUp() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.MoveUp()
}

// MoveDown moves the caret to the next wrapped line.
func (d *Document) MoveDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view.MoveDown()
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts r at the caret.
func (d *Document) Insert(r rune) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	return d.rejected("insert", d.view.Insert(r))
}

// InsertString inserts UTF-8 text at the caret.
func (d *Document) InsertString(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	return d.rejected("insert", d.view.InsertString(s))
}

// InsertUTF16 inserts UTF-16 code units at the caret.
func (d *Document) InsertUTF16(u []uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	return d.rejected("insert", d.view.InsertUTF16(u))
}

// Remove deletes the scalar before the caret. It returns false at the
// start of the text.
func (d *Document) Remove() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return false, err
	}
	ok, err := d.view.Remove()
	return ok, d.rejected("remove", err)
}

// InsertAt inserts UTF-8 text at a raw location without moving the caret
// and returns the location after it.
func (d *Document) InsertAt(raw Location, s string) (Location, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return raw, err
	}
	loc, err := d.store.InsertString(raw, s)
	return loc, d.rejected("insert", err)
}

// RemoveRange removes the raw range [start, end).
func (d *Document) RemoveRange(start, end Location) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	return d.rejected("remove", d.store.RemoveRange(start, end))
}

// Decorate sets the decoration of the raw range [start, end).
func (d *Document) Decorate(dec Decoration, start, end Location) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writable(); err != nil {
		return err
	}
	return d.rejected("decorate", d.store.DecorateRange(dec, start, end))
}
