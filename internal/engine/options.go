package engine

import (
	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultWrapWidth = 80
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithWrapWidth sets the wrap width. 0 disables wrapping.
func WithWrapWidth(width int) Option {
	return func(d *Document) {
		if width >= 0 {
			d.wrapWidth = width
		}
	}
}

// WithDefaultDecoration sets the decoration given to inserted text.
func WithDefaultDecoration(dec Decoration) Option {
	return func(d *Document) {
		d.defaultDecoration = dec
	}
}

// WithLogger sets the logger. The shared logger from the logging package
// is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// WithReadOnly creates a read-only document.
// Edits return ErrReadOnly; caret movement still works.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}
