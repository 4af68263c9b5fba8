package rope

import (
	"io"
	"strings"
)

// Builder accumulates text incrementally and produces a Rope in one
// shot via Build, rather than repeatedly concatenating one-off ropes.
type Builder struct {
	chunks []Chunk
	pend   strings.Builder
	n      int
}

// NewBuilder returns a ready-to-use Builder.
func NewBuilder() *Builder {
	return &Builder{chunks: make([]Chunk, 0, 64)}
}

// WriteString appends s, flushing to chunks once the pending buffer
// grows past twice the chunk ceiling.
func (b *Builder) WriteString(s string) {
	if len(s) == 0 {
		return
	}

	b.n += len(s)
	b.pend.WriteString(s)

	if b.pend.Len() >= MaxChunkSize*2 {
		b.flush()
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.n++
	return b.pend.WriteByte(c)
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	n, err := b.pend.WriteRune(r)
	b.n += n
	return n, err
}

// flush moves the pending buffer's contents into b.chunks.
func (b *Builder) flush() {
	if b.pend.Len() == 0 {
		return
	}
	s := b.pend.String()
	b.pend.Reset()
	b.chunks = append(b.chunks, chunkify(s)...)
}

// Len returns the total number of bytes written so far.
func (b *Builder) Len() int { return b.n }

// Reset discards everything written, readying the builder for reuse.
func (b *Builder) Reset() {
	b.chunks = b.chunks[:0]
	b.pend.Reset()
	b.n = 0
}

// Build assembles the accumulated text into a Rope and resets the
// builder.
func (b *Builder) Build() Rope {
	b.flush()

	if len(b.chunks) == 0 {
		b.Reset()
		return New()
	}

	chunks := b.chunks
	b.Reset()
	return buildFromChunks(chunks)
}

// String renders the builder's current contents for debugging; callers
// assembling a Rope should use Build instead.
func (b *Builder) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for _, chunk := range b.chunks {
		sb.WriteString(chunk.String())
	}
	sb.WriteString(b.pend.String())
	return sb.String()
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// FromLines joins lines with '\n' (none trailing the last line) into a
// rope.
func FromLines(lines []string) Rope {
	if len(lines) == 0 {
		return New()
	}

	var b Builder
	last := len(lines) - 1
	for i, line := range lines {
		b.WriteString(line)
		if i != last {
			b.WriteByte('\n')
		}
	}
	return b.Build()
}

// FromChunks builds a rope directly from pre-chunked data.
func FromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}
	return buildFromChunks(chunks)
}

// Join concatenates ropes with sep between each pair.
func Join(ropes []Rope, sep string) Rope {
	if len(ropes) == 0 {
		return New()
	}
	if len(ropes) == 1 {
		return ropes[0]
	}

	result := ropes[0]
	sepRope := FromString(sep)
	for _, r := range ropes[1:] {
		if sep != "" {
			result = result.Concat(sepRope)
		}
		result = result.Concat(r)
	}
	return result
}

// Repeat builds a rope holding s repeated n times.
func Repeat(s string, n int) Rope {
	if n <= 0 || len(s) == 0 {
		return New()
	}

	if len(s)*n <= MaxChunkSize*4 {
		return FromString(strings.Repeat(s, n))
	}

	var b Builder
	for i := 0; i < n; i++ {
		b.WriteString(s)
	}
	return b.Build()
}
