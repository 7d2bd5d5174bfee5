package textio

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("héllo\n"), "héllo\n"},
		{"utf-8 bom", []byte("\xEF\xBB\xBFabc"), "abc"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'a', 0, 0x3D, 0xD8, 0x00, 0xDE}, "a\U0001F600"},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'a', 0, '\n'}, "a\n"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(bytes.NewReader(tt.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeRejectsMalformedUTF8(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("ab\xffc"))); !errors.Is(err, ErrInvalidText) {
		t.Errorf("got %v, want ErrInvalidText", err)
	}
}

func TestDecodeAs(t *testing.T) {
	got, err := DecodeAs(bytes.NewReader([]byte{'c', 'a', 'f', 0xE9}), "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "café" {
		t.Errorf("DecodeAs = %q, want %q", got, "café")
	}

	if _, err := DecodeAs(bytes.NewReader(nil), "no-such-charset"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("unknown charset: got %v", err)
	}
}

func TestReadFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		encoding string
		format   string
		text     string
	}{
		{"plain", []byte("ab\n"), "", "UTF-8", "ab\n"},
		{"utf-8 bom", []byte("\xEF\xBB\xBFab"), "", "UTF-8 BOM", "ab"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'a', 0, 0x3D, 0xD8, 0x00, 0xDE}, "", "UTF-16LE BOM", "a\U0001F600"},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'a', 0, '\n'}, "", "UTF-16BE BOM", "a\n"},
		{"named charset", []byte{'c', 'a', 'f', 0xE9}, "ISO-8859-1", "ISO-8859-1", "café"},
		{"bom beats name", []byte{0xFF, 0xFE, 'x', 0}, "ISO-8859-1", "UTF-16LE BOM", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, format, err := Read(bytes.NewReader(tt.in), tt.encoding)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if text != tt.text {
				t.Errorf("text = %q, want %q", text, tt.text)
			}
			if format.String() != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			out, err := format.Encode(text)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(out, tt.in) {
				t.Errorf("Encode = % x, want % x", out, tt.in)
			}
		})
	}
}

func TestEncodeRejectsUnrepresentable(t *testing.T) {
	_, format, err := Read(bytes.NewReader([]byte("abc")), "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := format.Encode("日本"); !errors.Is(err, ErrUnencodable) {
		t.Errorf("got %v, want ErrUnencodable", err)
	}
	if (Format{}).IsUTF8() != true || format.IsUTF8() {
		t.Errorf("IsUTF8 mismatch")
	}
}
