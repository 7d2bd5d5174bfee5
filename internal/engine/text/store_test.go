package text

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lines(t *testing.T, s *Store) []string {
	t.Helper()
	out := make([]string, s.LineCount())
	for i := range out {
		ln, err := s.LineString(i)
		if err != nil {
			t.Fatalf("LineString(%d): %v", i, err)
		}
		out[i] = ln
	}
	return out
}

func mustStore(t *testing.T, content string) *Store {
	t.Helper()
	s, err := FromString(content)
	if err != nil {
		t.Fatalf("FromString(%q): %v", content, err)
	}
	return s
}

func TestFromStringLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"abc", []string{"abc"}},
		{"a\r\n", []string{"a\r\n", ""}},
		{"a\n\nb", []string{"a\n", "\n", "b"}},
		{"\r\n\r\n", []string{"\r\n", "\r\n", ""}},
		{"a\rb", []string{"a\r", "b"}},
		{"a\u2028b\u2029c", []string{"a\u2028", "b\u2029", "c"}},
		{"\r\r\n\n", []string{"\r", "\r\n", "\n", ""}},
		{"x\U0001F600y\n", []string{"x\U0001F600y\n", ""}},
	}
	for _, tt := range tests {
		s := mustStore(t, tt.in)
		if diff := cmp.Diff(tt.want, lines(t, s)); diff != "" {
			t.Errorf("FromString(%q) lines mismatch (-want +got):\n%s", tt.in, diff)
		}
		if got := s.String(); got != tt.in {
			t.Errorf("FromString(%q).String() = %q", tt.in, got)
		}
	}
}

func TestColumnCount(t *testing.T) {
	s := mustStore(t, "ab\r\ncd\ref\u2028")
	tests := []struct {
		line   int
		ignore bool
		want   int
	}{
		{0, false, 4},
		{0, true, 2},
		{1, false, 3},
		{1, true, 2},
		{2, false, 3},
		{2, true, 2},
		{3, false, 0},
		{3, true, 0},
	}
	for _, tt := range tests {
		got, err := s.ColumnCount(tt.line, tt.ignore)
		if err != nil {
			t.Fatalf("ColumnCount(%d, %v): %v", tt.line, tt.ignore, err)
		}
		if got != tt.want {
			t.Errorf("ColumnCount(%d, %v) = %d, want %d", tt.line, tt.ignore, got, tt.want)
		}
	}
	if _, err := s.ColumnCount(4, false); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ColumnCount past end: got %v, want ErrOutOfRange", err)
	}
}

func TestInsertCarriageReturnPairing(t *testing.T) {
	t.Run("newline at start of line after CR", func(t *testing.T) {
		s := mustStore(t, "a\rb")
		loc, err := s.Insert(Location{Line: 1, Column: 0}, '\n')
		if err != nil {
			t.Fatal(err)
		}
		if loc != (Location{Line: 1, Column: 0}) {
			t.Errorf("returned %v, want (1:0)", loc)
		}
		if diff := cmp.Diff([]string{"a\r\n", "b"}, lines(t, s)); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("newline after CR on same line", func(t *testing.T) {
		s := mustStore(t, "a\rb")
		ins, err := s.InsertRune(Location{Line: 0, Column: 2}, '\n')
		if err != nil {
			t.Fatal(err)
		}
		want := Insertion{Kind: InsertPaired, At: Location{Line: 0, Column: 2}, Next: Location{Line: 0, Column: 2}}
		if ins != want {
			t.Errorf("InsertRune = %+v, want %+v", ins, want)
		}
		if got := s.String(); got != "a\r\nb" {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("CR before unpaired newline splits", func(t *testing.T) {
		s := mustStore(t, "ab\ncd")
		ins, err := s.InsertRune(Location{Line: 0, Column: 2}, '\r')
		if err != nil {
			t.Fatal(err)
		}
		want := Insertion{Kind: InsertSplit, At: Location{Line: 0, Column: 2}, Next: Location{Line: 1, Column: 0}}
		if ins != want {
			t.Errorf("InsertRune = %+v, want %+v", ins, want)
		}
		if diff := cmp.Diff([]string{"ab\r", "\n", "cd"}, lines(t, s)); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
		if got := s.String(); got != "ab\r\ncd" {
			t.Errorf("String() = %q", got)
		}
		checkLines(t, s)
	})

	t.Run("other terminators split", func(t *testing.T) {
		s := mustStore(t, "abcd")
		loc, err := s.Insert(Location{Line: 0, Column: 2}, LineSeparator)
		if err != nil {
			t.Fatal(err)
		}
		if loc != (Location{Line: 1, Column: 0}) {
			t.Errorf("returned %v, want (1:0)", loc)
		}
		if diff := cmp.Diff([]string{"ab\u2028", "cd"}, lines(t, s)); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestInsertErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		loc     Location
		r       rune
		want    error
	}{
		{"line past end", "ab", Location{Line: 1}, 'x', ErrOutOfRange},
		{"negative column", "ab", Location{Column: -1}, 'x', ErrOutOfRange},
		{"column past content", "ab", Location{Column: 3}, 'x', ErrOutOfRange},
		{"inside terminator", "ab\r\n", Location{Column: 3}, 'x', ErrOutOfRange},
		{"after terminator", "ab\n", Location{Column: 3}, 'x', ErrOutOfRange},
		{"surrogate", "ab", Location{}, 0xD800, ErrInvalidArgument},
		{"too large", "ab", Location{}, 0x110000, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustStore(t, tt.content)
			if _, err := s.Insert(tt.loc, tt.r); !errors.Is(err, tt.want) {
				t.Errorf("Insert(%v, %U) error = %v, want %v", tt.loc, tt.r, err, tt.want)
			}
			if got := s.String(); got != tt.content {
				t.Errorf("store changed to %q", got)
			}
		})
	}
}

func TestInsertStringRejectsBeforeMutating(t *testing.T) {
	s := mustStore(t, "abc")
	if _, err := s.InsertString(Location{Column: 1}, "x\xffy"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed UTF-8: got %v", err)
	}
	if _, err := s.InsertUTF16(Location{Column: 1}, []uint16{'x', 0xD800, 'y'}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unpaired high surrogate: got %v", err)
	}
	if _, err := s.InsertUTF16(Location{Column: 1}, []uint16{'x', 0xDC00}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("lone low surrogate: got %v", err)
	}
	if _, err := s.InsertString(Location{Column: 9}, "xyz"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("bad location: got %v", err)
	}
	if got := s.String(); got != "abc" {
		t.Errorf("store changed to %q", got)
	}
}

func TestInsertUTF16(t *testing.T) {
	s := mustStore(t, "ac")
	loc, err := s.InsertUTF16(Location{Column: 1}, []uint16{'b', 0xD83D, 0xDE00, '\n'})
	if err != nil {
		t.Fatal(err)
	}
	if loc != (Location{Line: 1, Column: 0}) {
		t.Errorf("returned %v, want (1:0)", loc)
	}
	if diff := cmp.Diff([]string{"ab\U0001F600\n", "c"}, lines(t, s)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveRange(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		start, end Location
		want       string
		merged     bool
		terminator bool
	}{
		{"within line", "abc", Location{0, 1}, Location{0, 2}, "ac", false, false},
		{"everything", "abc\ndef\nghi", Location{0, 0}, Location{2, 3}, "", true, false},
		{"join lines", "abc\ndef", Location{0, 3}, Location{1, 0}, "abcdef", true, false},
		{"end of line normalized", "abc\ndef", Location{0, 4}, Location{1, 1}, "abc\nef", false, false},
		{"across middle line", "ab\ncd\nef", Location{0, 1}, Location{2, 1}, "af", true, false},
		{"split CRLF", "ab\r\ncd", Location{0, 3}, Location{1, 0}, "ab\rcd", false, false},
		{"from inside CRLF across lines", "ab\r\ncd\nef", Location{0, 3}, Location{2, 1}, "ab\rf", false, false},
		{"keep LF of CRLF", "ab\r\ncd", Location{0, 1}, Location{0, 3}, "a\ncd", false, true},
		{"CR of CRLF only", "ab\r\ncd", Location{0, 2}, Location{0, 3}, "ab\ncd", false, true},
		{"empty range", "abc", Location{0, 1}, Location{0, 1}, "abc", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustStore(t, tt.content)
			rm, err := s.RemoveRange(tt.start, tt.end)
			if err != nil {
				t.Fatalf("RemoveRange(%v, %v): %v", tt.start, tt.end, err)
			}
			if got := s.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if rm.Merged != tt.merged {
				t.Errorf("Merged = %v, want %v", rm.Merged, tt.merged)
			}
			if rm.Terminator != tt.terminator {
				t.Errorf("Terminator = %v, want %v", rm.Terminator, tt.terminator)
			}
			checkLines(t, s)
		})
	}
}

func TestRemoveRangeErrors(t *testing.T) {
	s := mustStore(t, "abc\ndef")
	if _, err := s.RemoveRange(Location{1, 1}, Location{0, 1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("inverted range: got %v", err)
	}
	if _, err := s.RemoveRange(Location{0, 0}, Location{2, 0}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("line past end: got %v", err)
	}
	if _, err := s.RemoveRange(Location{0, 0}, Location{1, 4}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("column past end: got %v", err)
	}
	if got := s.String(); got != "abc\ndef" {
		t.Errorf("store changed to %q", got)
	}
}

func TestRead(t *testing.T) {
	s := mustStore(t, "a\U0001F600\nbc")

	t.Run("whole content", func(t *testing.T) {
		dst := make([]uint16, 16)
		loc := Location{}
		n := s.Read(dst, &loc)
		want := []uint16{'a', 0xD83D, 0xDE00, '\n', 'b', 'c'}
		if diff := cmp.Diff(want, dst[:n]); diff != "" {
			t.Errorf("Read mismatch (-want +got):\n%s", diff)
		}
		if loc != (Location{Line: 1, Column: 2}) {
			t.Errorf("loc = %v, want (1:2)", loc)
		}
	})

	t.Run("never splits a surrogate pair", func(t *testing.T) {
		dst := make([]uint16, 2)
		loc := Location{}
		if n := s.Read(dst, &loc); n != 1 {
			t.Errorf("Read = %d, want 1", n)
		}
		if loc != (Location{Line: 0, Column: 1}) {
			t.Errorf("loc = %v, want (0:1)", loc)
		}
	})

	t.Run("short buffer stalls on a supplementary scalar", func(t *testing.T) {
		dst := make([]uint16, MinReadLen-1)
		loc := Location{Column: 1}
		if n := s.Read(dst, &loc); n != 0 || loc != (Location{Column: 1}) {
			t.Errorf("Read = %d at %v, want 0 at (0:1)", n, loc)
		}
		dst = make([]uint16, MinReadLen)
		if n := s.Read(dst, &loc); n != 2 || loc != (Location{Line: 0, Column: 2}) {
			t.Errorf("Read = %d at %v, want 2 at (0:2)", n, loc)
		}
	})

	t.Run("resumes across lines", func(t *testing.T) {
		dst := make([]uint16, 3)
		loc := Location{Column: 1}
		n := s.Read(dst, &loc)
		if n != 3 || loc != (Location{Line: 1, Column: 0}) {
			t.Errorf("Read = %d at %v, want 3 at (1:0)", n, loc)
		}
		n = s.Read(dst, &loc)
		if n != 2 || string(rune(dst[0]))+string(rune(dst[1])) != "bc" {
			t.Errorf("second Read = %d %v", n, dst[:n])
		}
	})

	t.Run("invalid location", func(t *testing.T) {
		dst := make([]uint16, 4)
		loc := Location{Line: 5}
		if n := s.Read(dst, &loc); n != 0 {
			t.Errorf("Read = %d, want 0", n)
		}
	})
}

// checkLines verifies that terminators only appear at line ends and that
// every line but the last is terminated.
func checkLines(t *testing.T, s *Store) {
	t.Helper()
	for i := range s.LineCount() {
		rs, _ := s.LineRunes(i)
		term, _ := s.TerminatorLen(i)
		last := i == s.LineCount()-1
		if !last && term == 0 {
			t.Fatalf("line %d %q is not terminated", i, string(rs))
		}
		if last && term != 0 {
			t.Fatalf("last line %q is terminated", string(rs))
		}
		for j, r := range rs[:len(rs)-term] {
			if IsTerminator(r) {
				t.Fatalf("line %d has terminator %U at column %d", i, r, j)
			}
		}
	}
}

func TestRandomEditsKeepLineStructure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune{'a', 'b', '\n', '\r', '\u2028', 'é', '\U0001F600'}
	s := New()
	for range 2000 {
		line := rng.Intn(s.LineCount())
		content, _ := s.ColumnCount(line, true)
		if rng.Intn(3) > 0 {
			r := alphabet[rng.Intn(len(alphabet))]
			if _, err := s.Insert(Location{Line: line, Column: rng.Intn(content + 1)}, r); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		} else {
			endLine := line + rng.Intn(s.LineCount()-line)
			full, _ := s.ColumnCount(endLine, false)
			start := Location{Line: line, Column: rng.Intn(content + 1)}
			end := Location{Line: endLine, Column: rng.Intn(full + 1)}
			if end.Before(start) {
				start, end = end, start
			}
			if _, err := s.RemoveRange(start, end); err != nil {
				t.Fatalf("RemoveRange(%v, %v): %v", start, end, err)
			}
		}
		checkLines(t, s)
	}

	again := mustStore(t, s.String())
	if diff := cmp.Diff(lines(t, s), lines(t, again)); diff != "" && !strings.Contains(s.String(), "\r") {
		t.Errorf("rebuilt store differs (-edited +rebuilt):\n%s", diff)
	}
}
