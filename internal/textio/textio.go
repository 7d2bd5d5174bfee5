// Package textio decodes input files into UTF-8 text for the store and
// encodes text back in the form it was read.
package textio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrInvalidText indicates input that does not decode to valid UTF-8.
	ErrInvalidText = errors.New("invalid text")

	// ErrUnknownEncoding indicates an encoding name that is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrUnencodable indicates text that the target encoding cannot represent.
	ErrUnencodable = errors.New("text not representable in encoding")
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Format is the encoding a file was read in. The zero Format is UTF-8
// without a byte order mark.
type Format struct {
	name string
	enc  encoding.Encoding // nil for UTF-8
	bom  []byte
}

// String returns a display name such as "UTF-8" or "UTF-16LE BOM".
func (f Format) String() string {
	name := f.name
	if name == "" {
		name = "UTF-8"
	}
	if len(f.bom) > 0 {
		name += " BOM"
	}
	return name
}

// IsUTF8 reports whether f writes plain UTF-8 without a byte order mark.
func (f Format) IsUTF8() bool {
	return f.enc == nil && len(f.bom) == 0
}

// Encode converts UTF-8 text to f, restoring the byte order mark if the
// input had one. Runes f cannot represent fail with ErrUnencodable rather
// than being replaced.
func (f Format) Encode(s string) ([]byte, error) {
	body := []byte(s)
	if f.enc != nil {
		var err error
		body, _, err = transform.Bytes(f.enc.NewEncoder(), body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnencodable, f, err)
		}
	}
	return append(slices.Clone(f.bom), body...), nil
}

// Decode reads r as UTF-8, honoring a UTF-8, UTF-16LE or UTF-16BE byte
// order mark. The mark itself is dropped.
func Decode(r io.Reader) (string, error) {
	s, _, err := Read(r, "")
	return s, err
}

// DecodeAs reads r in the IANA-named encoding. A byte order mark still
// takes precedence.
func DecodeAs(r io.Reader, name string) (string, error) {
	s, _, err := Read(r, name)
	return s, err
}

// Read decodes r like DecodeAs, or like Decode when name is empty, and
// reports the Format needed to write the text back unchanged.
func Read(r io.Reader, name string) (string, Format, error) {
	var fallback Format
	if name != "" {
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return "", Format{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
		}
		if canonical, err := ianaindex.MIME.Name(enc); err == nil && canonical != "" {
			name = canonical
		}
		fallback = Format{name: name, enc: enc}
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", Format{}, err
	}
	format := sniff(b, fallback)

	dec := encoding.Nop.NewDecoder()
	if fallback.enc != nil {
		dec = fallback.enc.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(dec), b)
	if err != nil {
		return "", Format{}, fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	if !utf8.Valid(out) {
		return "", Format{}, fmt.Errorf("%w: malformed UTF-8", ErrInvalidText)
	}
	return string(out), format, nil
}

// sniff picks the Format for b. A byte order mark wins over fallback.
func sniff(b []byte, fallback Format) Format {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return Format{bom: bomUTF8}
	case bytes.HasPrefix(b, bomUTF16LE):
		return Format{name: "UTF-16LE", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), bom: bomUTF16LE}
	case bytes.HasPrefix(b, bomUTF16BE):
		return Format{name: "UTF-16BE", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), bom: bomUTF16BE}
	}
	return fallback
}
