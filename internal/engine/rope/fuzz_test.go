package rope

import (
	"testing"
	"unicode/utf8"
)

// clampRange constrains [a, b) to [0, limit] with a <= b, the shared
// guard every fuzz target below applies to its random offsets so the
// rope methods under test only ever see in-range arguments.
func clampRange(a, b, limit int) (int, int) {
	if a < 0 {
		a = 0
	}
	if a > limit {
		a = limit
	}
	if b < a {
		b = a
	}
	if b > limit {
		b = limit
	}
	return a, b
}

func FuzzFromString(f *testing.F) {
	for _, seed := range []string{"", "hello", "hello\nworld", "hello\r\nworld", "日本語", "emoji 🎉 test", "\x00\x01\x02"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			return
		}

		r := FromString(s)
		if int(r.Len()) != len(s) {
			t.Errorf("Len() = %d, want %d", r.Len(), len(s))
		}
		if r.String() != s {
			t.Error("String() does not reproduce the input")
		}
	})
}

func FuzzInsert(f *testing.F) {
	f.Add("hello", 0, "x")
	f.Add("hello", 5, "x")
	f.Add("hello", 3, "world")
	f.Add("", 0, "test")
	f.Add("日本語", 3, "x")

	f.Fuzz(func(t *testing.T, initial string, offset int, text string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(text) {
			return
		}

		offset, _ = clampRange(offset, offset, len(initial))
		result := FromString(initial).Insert(ByteOffset(offset), text)

		want := initial[:offset] + text + initial[offset:]
		if result.String() != want {
			t.Errorf("Insert at %d: got %q, want %q", offset, result.String(), want)
		}
	})
}

func FuzzDelete(f *testing.F) {
	f.Add("hello world", 0, 5)
	f.Add("hello world", 6, 11)
	f.Add("hello world", 5, 6)
	f.Add("日本語", 0, 3)

	f.Fuzz(func(t *testing.T, initial string, start, end int) {
		if !utf8.ValidString(initial) {
			return
		}

		start, end = clampRange(start, end, len(initial))
		result := FromString(initial).Delete(ByteOffset(start), ByteOffset(end))

		want := initial[:start] + initial[end:]
		if result.String() != want {
			t.Errorf("Delete [%d, %d): got %q, want %q", start, end, result.String(), want)
		}
	})
}

func FuzzReplace(f *testing.F) {
	f.Add("hello world", 0, 5, "hi")
	f.Add("hello world", 6, 11, "universe")
	f.Add("abcdef", 2, 4, "XYZ")

	f.Fuzz(func(t *testing.T, initial string, start, end int, replacement string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(replacement) {
			return
		}

		start, end = clampRange(start, end, len(initial))
		result := FromString(initial).Replace(ByteOffset(start), ByteOffset(end), replacement)

		want := initial[:start] + replacement + initial[end:]
		if result.String() != want {
			t.Errorf("Replace [%d, %d): got %q, want %q", start, end, result.String(), want)
		}
	})
}

func FuzzSplit(f *testing.F) {
	f.Add("hello world", 0)
	f.Add("hello world", 5)
	f.Add("hello world", 11)
	f.Add("日本語", 3)

	f.Fuzz(func(t *testing.T, s string, offset int) {
		if !utf8.ValidString(s) {
			return
		}

		offset, _ = clampRange(offset, offset, len(s))
		left, right := FromString(s).Split(ByteOffset(offset))

		if left.String() != s[:offset] {
			t.Errorf("left half at %d: got %q, want %q", offset, left.String(), s[:offset])
		}
		if right.String() != s[offset:] {
			t.Errorf("right half at %d: got %q, want %q", offset, right.String(), s[offset:])
		}
		if combined := left.Concat(right); combined.String() != s {
			t.Error("Split followed by Concat does not reproduce the input")
		}
	})
}

func FuzzConcat(f *testing.F) {
	f.Add("hello", "world")
	f.Add("", "world")
	f.Add("hello", "")
	f.Add("", "")
	f.Add("日本語", "abc")

	f.Fuzz(func(t *testing.T, a, b string) {
		if !utf8.ValidString(a) || !utf8.ValidString(b) {
			return
		}

		combined := FromString(a).Concat(FromString(b))
		want := a + b
		if combined.String() != want {
			t.Error("Concat mismatch")
		}
		if int(combined.Len()) != len(want) {
			t.Errorf("Len() = %d, want %d", combined.Len(), len(want))
		}
	})
}

func FuzzLineOperations(f *testing.F) {
	f.Add("line1\nline2\nline3")
	f.Add("no newline")
	f.Add("\n\n\n")
	f.Add("")
	f.Add("日本語\n英語\n中国語")

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			return
		}

		r := FromString(s)
		lineCount := r.LineCount()
		if lineCount == 0 {
			t.Error("LineCount() should never be 0")
		}

		for i := uint32(0); i < lineCount; i++ {
			start, end := r.LineStartOffset(i), r.LineEndOffset(i)
			if start > end {
				t.Errorf("line %d: start %d > end %d", i, start, end)
			}
			if start > r.Len() || end > r.Len() {
				t.Errorf("line %d: offsets out of range", i)
			}
			_ = r.LineText(i)
		}
	})
}

func FuzzOffsetToPoint(f *testing.F) {
	f.Add("line1\nline2\nline3", 0)
	f.Add("line1\nline2\nline3", 5)
	f.Add("line1\nline2\nline3", 6)
	f.Add("abc", 2)

	f.Fuzz(func(t *testing.T, s string, offset int) {
		if !utf8.ValidString(s) {
			return
		}

		offset, _ = clampRange(offset, offset, len(s))
		r := FromString(s)
		point := r.OffsetToPoint(ByteOffset(offset))

		if point.Line >= r.LineCount() {
			t.Errorf("point line %d >= LineCount() %d", point.Line, r.LineCount())
		}

		// PointToOffset may land at the start of the line if offset
		// itself was a newline, but never past the original offset.
		if back := r.PointToOffset(point); back > ByteOffset(offset) {
			t.Errorf("round trip: %d -> (%d,%d) -> %d", offset, point.Line, point.Column, back)
		}
	})
}

func FuzzSlice(f *testing.F) {
	f.Add("hello world", 0, 5)
	f.Add("hello world", 6, 11)
	f.Add("hello world", 0, 11)
	f.Add("日本語", 0, 3)

	f.Fuzz(func(t *testing.T, s string, start, end int) {
		if !utf8.ValidString(s) {
			return
		}

		start, end = clampRange(start, end, len(s))
		got := FromString(s).Slice(ByteOffset(start), ByteOffset(end))
		if want := s[start:end]; got != want {
			t.Errorf("Slice [%d, %d): got %q, want %q", start, end, got, want)
		}
	})
}

func FuzzByteAt(f *testing.F) {
	f.Add("hello", 0)
	f.Add("hello", 4)
	f.Add("hello", 5)
	f.Add("日本語", 0)

	f.Fuzz(func(t *testing.T, s string, offset int) {
		if !utf8.ValidString(s) {
			return
		}

		b, ok := FromString(s).ByteAt(ByteOffset(offset))
		inRange := offset >= 0 && offset < len(s)

		if inRange && (!ok || b != s[offset]) {
			t.Errorf("ByteAt(%d) = (%v, %v), want (%v, true)", offset, b, ok, s[offset])
		}
		if !inRange && ok {
			t.Errorf("ByteAt(%d) should report ok=false", offset)
		}
	})
}

func FuzzMultipleOperations(f *testing.F) {
	f.Add("hello", 0, 0, 5, "x")
	f.Add("hello", 1, 0, 3, "")
	f.Add("hello", 2, 1, 4, "abc")

	f.Fuzz(func(t *testing.T, initial string, op int, pos1, pos2 int, text string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(text) {
			return
		}

		pos1, pos2 = clampRange(pos1, pos2, len(initial))
		r := FromString(initial)

		switch op % 3 {
		case 0:
			r = r.Insert(ByteOffset(pos1), text)
		case 1:
			r = r.Delete(ByteOffset(pos1), ByteOffset(pos2))
		case 2:
			r = r.Replace(ByteOffset(pos1), ByteOffset(pos2), text)
		}

		if !utf8.ValidString(r.String()) {
			t.Error("result is not valid UTF-8")
		}
		if int(r.Len()) != len(r.String()) {
			t.Errorf("Len() = %d, len(String()) = %d", r.Len(), len(r.String()))
		}
	})
}
