package rope

import (
	"io"
	"strings"
)

// Rope is the immutable handle to a text tree: every mutating method
// returns a new Rope and leaves the receiver untouched.
type Rope struct {
	root *Node
}

// New returns an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString builds a rope holding s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(chunkify(s))
}

// FromReader drains r and builds a rope from its contents.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	buf := make([]byte, 64*1024)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.WriteString(string(buf[:n]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Rope{}, err
		}
	}

	return b.Build(), nil
}

// buildFromChunks assembles a balanced tree bottom-up from chunks:
// first group them into leaves of at most MaxChunksPerLeaf, then
// repeatedly group nodes into parents of at most MaxChildren until a
// single root remains.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	level := leaves
	for len(level) > 1 {
		var parents []*Node
		for i := 0; i < len(level); i += MaxChildren {
			end := min(i+MaxChildren, len(level))
			children := make([]*Node, end-i)
			copy(children, level[i:end])
			parents = append(parents, newInternalNode(children))
		}
		level = parents
	}

	if len(level) == 0 {
		return New()
	}
	return Rope{root: level[0]}
}

// Len returns the rope's byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LineCount returns the rope's line count (newlines + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.LineCount()
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool { return r.Len() == 0 }

// String materializes the rope's full text. Expensive for large
// ropes; prefer Slice or an iterator where possible.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text covering [start, end).
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	return r.root.textInRange(start, end)
}

// ByteAt returns the byte at offset, or (0, false) if out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if r.root == nil || offset >= r.Len() {
		return 0, false
	}

	node := r.root
	for !node.IsLeaf() {
		idx, rel := node.findChildByOffset(offset)
		node = node.children[idx]
		offset = rel
	}

	for _, chunk := range node.chunks {
		chunkLen := ByteOffset(chunk.Len())
		if offset < chunkLen {
			return chunk.String()[offset], true
		}
		offset -= chunkLen
	}
	return 0, false
}

// Insert returns a new rope with text inserted at offset.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	switch {
	case len(text) == 0:
		return r
	case r.root == nil || r.Len() == 0:
		return FromString(text)
	case offset == 0:
		return FromString(text).Concat(r)
	case offset >= r.Len():
		return r.Concat(FromString(text))
	default:
		left, right := r.Split(offset)
		return left.Concat(FromString(text)).Concat(right)
	}
}

// Delete returns a new rope with [start, end) removed.
func (r Rope) Delete(start, end ByteOffset) Rope {
	if r.root == nil || start >= end {
		return r
	}

	length := r.Len()
	if start >= length {
		return r
	}
	if end > length {
		end = length
	}

	switch {
	case start == 0 && end >= length:
		return New()
	case start == 0:
		_, right := r.Split(end)
		return right
	case end >= length:
		left, _ := r.Split(start)
		return left
	default:
		left, rest := r.Split(start)
		_, right := rest.Split(end - start)
		return left.Concat(right)
	}
}

// Replace returns a new rope with [start, end) swapped for text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	switch {
	case start >= end && len(text) == 0:
		return r
	case start >= end:
		return r.Insert(start, text)
	case len(text) == 0:
		return r.Delete(start, end)
	default:
		return r.Delete(start, end).Insert(start, text)
	}
}

// Split divides the rope at offset into [0, offset) and [offset, end).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset == 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat returns a new rope holding r followed by other.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the rope's aggregated metrics.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// LineStartOffset returns the byte offset where the given 0-indexed
// line begins.
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}

	cursor := NewCursor(r)
	if cursor.SeekLine(line) {
		return cursor.Offset()
	}
	return r.Len()
}

// LineEndOffset returns the byte offset where the given line ends,
// excluding its newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	if r.root == nil {
		return 0
	}

	lineCount := r.LineCount()
	if line >= lineCount || line == lineCount-1 {
		return r.Len()
	}

	next := r.LineStartOffset(line + 1)
	if next > 0 {
		return next - 1
	}
	return 0
}

// LineText returns a line's text, excluding its newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset to a line/column position.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	if r.root == nil || offset == 0 {
		return Point{}
	}

	if offset >= r.Len() {
		last := r.LineCount() - 1
		return Point{Line: last, Column: uint32(r.Len() - r.LineStartOffset(last))}
	}

	cursor := NewCursor(r)
	cursor.SeekOffset(offset)
	return cursor.Point()
}

// PointToOffset converts a line/column position to a byte offset.
func (r Rope) PointToOffset(point Point) ByteOffset {
	if r.root == nil {
		return 0
	}

	lineStart := r.LineStartOffset(point.Line)
	lineEnd := r.LineEndOffset(point.Line)
	if ByteOffset(point.Column) >= lineEnd-lineStart {
		return lineEnd
	}
	return lineStart + ByteOffset(point.Column)
}

// Height returns the tree's height, root to leaf.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the rope's total chunk count.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	total := 0
	for _, child := range n.children {
		total += countChunks(child)
	}
	return total
}

// Equals reports whether r and other hold identical text, comparing
// content chunk by chunk rather than tree shape.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}

	a, b := r.Chunks(), other.Chunks()
	for a.Next() {
		if !b.Next() || a.Chunk().String() != b.Chunk().String() {
			return false
		}
	}
	return !b.Next()
}
