package codepoint

// Width is the number of bytes used to store each element.
type Width uint8

// Supported element widths.
const (
	Width1 Width = 1 // values <= 0xFF
	Width2 Width = 2 // values <= 0xFFFF
	Width3 Width = 3 // values <= 0x10FFFF
)

// WidthFor returns the narrowest width able to hold r.
func WidthFor(r rune) Width {
	switch {
	case r <= 0xFF:
		return Width1
	case r <= 0xFFFF:
		return Width2
	default:
		return Width3
	}
}

// String returns a human-readable width.
func (w Width) String() string {
	switch w {
	case Width1:
		return "1 byte"
	case Width2:
		return "2 bytes"
	case Width3:
		return "3 bytes"
	default:
		return "invalid"
	}
}

// decode reads the little-endian element stored in b.
func (w Width) decode(b []byte) rune {
	switch w {
	case Width1:
		return rune(b[0])
	case Width2:
		return rune(b[0]) | rune(b[1])<<8
	default:
		return rune(b[0]) | rune(b[1])<<8 | rune(b[2])<<16
	}
}

// encode writes r into b in little-endian order.
func (w Width) encode(b []byte, r rune) {
	switch w {
	case Width1:
		b[0] = byte(r)
	case Width2:
		b[0] = byte(r)
		b[1] = byte(r >> 8)
	default:
		b[0] = byte(r)
		b[1] = byte(r >> 8)
		b[2] = byte(r >> 16)
	}
}
