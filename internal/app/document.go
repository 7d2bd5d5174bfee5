package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/wrapstore/internal/engine"
	"github.com/dshills/wrapstore/internal/textio"
)

// File is an open document and the file it came from.
type File struct {
	// Path is the absolute file path, empty for scratch documents.
	Path string

	// Doc is the document.
	Doc *engine.Document

	// Format is the encoding the file was read in and is saved in.
	Format textio.Format

	saved uint64
}

// OpenFile loads path into a document. A missing file opens empty and is
// created on save. encoding names an IANA charset; empty detects UTF-8
// and UTF-16 by byte order mark. The detected Format is kept for Save.
func OpenFile(path, encoding string, opts ...engine.Option) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}

	f, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		_, format, err := textio.Read(strings.NewReader(""), encoding)
		if err != nil {
			return nil, &FileError{Op: "open", Path: abs, Err: err}
		}
		doc, err := engine.New(opts...)
		if err != nil {
			return nil, err
		}
		return &File{Path: abs, Doc: doc, Format: format, saved: doc.Revision()}, nil
	}
	if err != nil {
		return nil, &FileError{Op: "open", Path: abs, Err: err}
	}
	defer f.Close()

	content, format, err := textio.Read(f, encoding)
	if err != nil {
		return nil, &FileError{Op: "read", Path: abs, Err: err}
	}
	doc, err := engine.New(append(opts, engine.WithContent(content))...)
	if err != nil {
		return nil, err
	}
	return &File{Path: abs, Doc: doc, Format: format, saved: doc.Revision()}, nil
}

// ScratchFile creates a document with no backing file.
func ScratchFile(opts ...engine.Option) (*File, error) {
	doc, err := engine.New(opts...)
	if err != nil {
		return nil, err
	}
	return &File{Doc: doc, saved: doc.Revision()}, nil
}

// Name returns the base name of the file, or "Untitled".
func (f *File) Name() string {
	if f.Path == "" {
		return "Untitled"
	}
	return filepath.Base(f.Path)
}

// Modified reports whether the document changed since it was loaded or
// saved.
func (f *File) Modified() bool {
	return f.Doc.Revision() != f.saved
}

// Save writes the document in its Format through a temporary file in the
// same directory. Text the Format cannot represent fails the save and
// leaves the file untouched.
func (f *File) Save() error {
	if f.Path == "" {
		return ErrNoPath
	}
	rev := f.Doc.Revision()
	data, err := f.Format.Encode(f.Doc.Text())
	if err != nil {
		return &FileError{Op: "save", Path: f.Path, Err: err}
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return &FileError{Op: "save", Path: f.Path, Err: err}
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &FileError{Op: "save", Path: f.Path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &FileError{Op: "save", Path: f.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &FileError{Op: "save", Path: f.Path, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		os.Remove(tmp.Name())
		return &FileError{Op: "save", Path: f.Path, Err: err}
	}
	f.saved = rev
	return nil
}
