package rope

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// byteSizes and lineCounts are the scale points most rope benchmarks
// sweep across.
var (
	byteSizes = []int{1000, 10000, 100000}
	lineCounts = []int{100, 1000, 10000}
)

// prose builds size bytes of space/newline-separated words, wrapping
// roughly every 60 columns so the text exercises both chunk and line
// boundaries.
func prose(size int) string {
	var sb strings.Builder
	sb.Grow(size)

	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "hello", "world"}
	col := 0

	for sb.Len() < size {
		word := words[rand.Intn(len(words))]
		if sb.Len()+len(word)+1 > size {
			break
		}
		if sb.Len() > 0 {
			if col > 60 {
				sb.WriteByte('\n')
				col = 0
			} else {
				sb.WriteByte(' ')
				col++
			}
		}
		sb.WriteString(word)
		col += len(word)
	}

	return sb.String()
}

// linesOf builds a document with the given number of lines, each
// avgLen bytes give or take ten.
func linesOf(lines, avgLen int) string {
	var sb strings.Builder
	sb.Grow(lines * (avgLen + 1))

	for i := 0; i < lines; i++ {
		n := avgLen + rand.Intn(21) - 10
		if n < 10 {
			n = 10
		}
		for j := 0; j < n; j++ {
			sb.WriteByte(byte('a' + rand.Intn(26)))
		}
		if i < lines-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func BenchmarkRope_FromString(b *testing.B) {
	for _, size := range append([]int{100}, byteSizes...) {
		text := prose(size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = FromString(text)
			}
		})
	}
}

func BenchmarkRope_Builder(b *testing.B) {
	const pieceSize = 100

	for _, size := range append([]int{100}, byteSizes...) {
		text := prose(size)
		var pieces []string
		for i := 0; i < len(text); i += pieceSize {
			pieces = append(pieces, text[i:min(i+pieceSize, len(text))])
		}

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				builder := NewBuilder()
				for _, p := range pieces {
					builder.WriteString(p)
				}
				_ = builder.Build()
			}
		})
	}
}

func BenchmarkRope_Insert(b *testing.B) {
	positions := map[string]func(size int) ByteOffset{
		"start":  func(int) ByteOffset { return 0 },
		"middle": func(size int) ByteOffset { return ByteOffset(size / 2) },
		"end":    func(size int) ByteOffset { return ByteOffset(size) },
		"random": func(size int) ByteOffset { return ByteOffset(rand.Intn(size)) },
	}

	for name, at := range positions {
		for _, size := range byteSizes {
			text := prose(size)
			r := FromString(text)

			b.Run(fmt.Sprintf("%s/size=%d", name, size), func(b *testing.B) {
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_ = r.Insert(at(size), "x")
				}
			})
		}
	}
}

func BenchmarkRope_DeleteMiddle(b *testing.B) {
	for _, size := range byteSizes {
		text := prose(size)
		r := FromString(text)
		start, end := ByteOffset(size/2-50), ByteOffset(size/2+50)

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.Delete(start, end)
			}
		})
	}
}

func BenchmarkRope_Concat(b *testing.B) {
	for _, size := range byteSizes {
		r1 := FromString(prose(size / 2))
		r2 := FromString(prose(size / 2))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r1.Concat(r2)
			}
		})
	}
}

func BenchmarkRope_Split(b *testing.B) {
	for _, size := range byteSizes {
		r := FromString(prose(size))
		mid := ByteOffset(size / 2)

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = r.Split(mid)
			}
		})
	}
}

func BenchmarkRope_ByteAt(b *testing.B) {
	for _, size := range append(byteSizes, 1000000) {
		text := prose(size)
		r := FromString(text)

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = r.ByteAt(ByteOffset(rand.Intn(size)))
			}
		})
	}
}

func BenchmarkRope_Slice(b *testing.B) {
	for _, size := range byteSizes {
		text := prose(size)
		r := FromString(text)

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				start := ByteOffset(rand.Intn(size - 100))
				_ = r.Slice(start, start+100)
			}
		})
	}
}

func BenchmarkRope_LineCount(b *testing.B) {
	for _, lines := range lineCounts {
		r := FromString(linesOf(lines, 80))

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.LineCount()
			}
		})
	}
}

func BenchmarkRope_LineText(b *testing.B) {
	for _, lines := range lineCounts {
		r := FromString(linesOf(lines, 80))

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.LineText(uint32(rand.Intn(lines)))
			}
		})
	}
}

func BenchmarkRope_LineStartOffset(b *testing.B) {
	for _, lines := range lineCounts {
		r := FromString(linesOf(lines, 80))

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.LineStartOffset(uint32(rand.Intn(lines)))
			}
		})
	}
}

func BenchmarkRope_OffsetToPoint(b *testing.B) {
	for _, lines := range lineCounts {
		text := linesOf(lines, 80)
		r := FromString(text)
		size := len(text)

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.OffsetToPoint(ByteOffset(rand.Intn(size)))
			}
		})
	}
}

func BenchmarkRope_PointToOffset(b *testing.B) {
	for _, lines := range lineCounts {
		r := FromString(linesOf(lines, 80))

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				p := Point{Line: uint32(rand.Intn(lines)), Column: uint32(rand.Intn(80))}
				_ = r.PointToOffset(p)
			}
		})
	}
}

func BenchmarkCursor_SeekOffset(b *testing.B) {
	for _, size := range byteSizes {
		r := FromString(prose(size))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			cursor := NewCursor(r)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cursor.SeekOffset(ByteOffset(rand.Intn(size)))
			}
		})
	}
}

func BenchmarkCursor_SeekLine(b *testing.B) {
	for _, lines := range lineCounts {
		r := FromString(linesOf(lines, 80))

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			cursor := NewCursor(r)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cursor.SeekLine(uint32(rand.Intn(lines)))
			}
		})
	}
}

func BenchmarkCursor_Iterate(b *testing.B) {
	for _, size := range []int{1000, 10000} {
		r := FromString(prose(size))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cursor := NewCursor(r)
				for cursor.Next() {
				}
			}
		})
	}
}

func BenchmarkIterator_Chunks(b *testing.B) {
	for _, size := range byteSizes {
		r := FromString(prose(size))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := r.Chunks()
				for it.Next() {
					_ = it.Chunk()
				}
			}
		})
	}
}

func BenchmarkIterator_Lines(b *testing.B) {
	for _, lines := range lineCounts {
		r := FromString(linesOf(lines, 80))

		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				it := r.Lines()
				for it.Next() {
					_ = it.Text()
				}
			}
		})
	}
}

// BenchmarkRope_VsNativeStringInsert compares a rope insert against
// the naive string-concatenation approach it's meant to beat at scale.
func BenchmarkRope_VsNativeStringInsert(b *testing.B) {
	for _, size := range []int{1000, 10000} {
		text := prose(size)

		b.Run(fmt.Sprintf("string/size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				mid := size / 2
				_ = text[:mid] + "x" + text[mid:]
			}
		})

		r := FromString(text)
		b.Run(fmt.Sprintf("rope/size=%d", size), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = r.Insert(ByteOffset(size/2), "x")
			}
		})
	}
}
