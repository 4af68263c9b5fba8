package rope

import "unicode/utf8"

// Cursor walks a rope while keeping a root-to-leaf path, so seeking is
// O(log n) and stepping one rune at a time is amortized O(1).
type Cursor struct {
	rope     Rope
	path     []cursorFrame
	offset   ByteOffset
	point    Point
	pointSet bool

	leafNode *Node
	chunkIdx int
	chunkOff int
}

// cursorFrame is one level of the path from root to the cursor's leaf.
type cursorFrame struct {
	node     *Node
	childIdx int
	offset   ByteOffset
	line     uint32
}

// NewCursor returns a cursor positioned at the start of r.
func NewCursor(r Rope) *Cursor {
	c := &Cursor{rope: r, path: make([]cursorFrame, 0, 16)}
	c.seekToStart()
	return c
}

func (c *Cursor) seekToStart() {
	c.path = c.path[:0]
	c.offset = 0
	c.point = Point{}
	c.pointSet = true

	if c.rope.root == nil {
		c.leafNode = nil
		return
	}

	node := c.rope.root
	for !node.IsLeaf() {
		c.path = append(c.path, cursorFrame{node: node})
		node = node.children[0]
	}

	c.leafNode = node
	c.chunkIdx = 0
	c.chunkOff = 0
}

// Offset returns the cursor's current byte offset.
func (c *Cursor) Offset() ByteOffset { return c.offset }

// Point returns the cursor's current line/column, computing it lazily.
func (c *Cursor) Point() Point {
	if !c.pointSet {
		c.computePoint()
	}
	return c.point
}

// computePoint derives the current line/column from the cursor's path
// plus its position within the current leaf.
func (c *Cursor) computePoint() {
	var line uint32
	for _, frame := range c.path {
		for i := 0; i < frame.childIdx; i++ {
			line += frame.node.childSummaries[i].Lines
		}
	}

	if c.leafNode != nil {
		for i := 0; i < c.chunkIdx; i++ {
			line += c.leafNode.chunks[i].Summary().Lines
		}

		if c.chunkIdx < len(c.leafNode.chunks) {
			text := c.leafNode.chunks[c.chunkIdx].String()[:c.chunkOff]
			for _, ch := range text {
				if ch == '\n' {
					line++
				}
			}
		}
	}

	c.point = Point{Line: line, Column: c.computeColumn()}
	c.pointSet = true
}

// computeColumn returns the byte distance from the current line's
// start to the cursor.
func (c *Cursor) computeColumn() uint32 {
	return uint32(c.offset - c.LineStartOffset())
}

// LineStartOffset returns the byte offset where the cursor's current
// line begins, using each chunk's newline index where possible and
// only falling back to a byte-by-byte scan across leaf boundaries.
func (c *Cursor) LineStartOffset() ByteOffset {
	if c.offset == 0 {
		return 0
	}
	if c.leafNode == nil || c.chunkIdx >= len(c.leafNode.chunks) {
		return 0
	}

	chunk := c.leafNode.chunks[c.chunkIdx]
	if pos := chunk.Newlines().NewlineBefore(c.chunkOff); pos >= 0 {
		chunkStart := c.offset - ByteOffset(c.chunkOff)
		return chunkStart + ByteOffset(pos) + 1
	}

	chunkStart := c.offset - ByteOffset(c.chunkOff)
	for i := c.chunkIdx - 1; i >= 0; i-- {
		prev := c.leafNode.chunks[i]
		chunkStart -= ByteOffset(prev.Len())
		if last := prev.Newlines().LastNewlinePosition(); last >= 0 {
			return chunkStart + ByteOffset(last) + 1
		}
	}

	for search := chunkStart; search > 0; {
		b, ok := c.rope.ByteAt(search - 1)
		if !ok {
			break
		}
		if b == '\n' {
			return search
		}
		search--
	}
	return 0
}

// SeekOffset repositions the cursor at offset, which must fall on a
// rune boundary. Returns false if offset is out of range.
func (c *Cursor) SeekOffset(offset ByteOffset) bool {
	if c.rope.root == nil {
		return offset == 0
	}
	if offset > c.rope.Len() {
		return false
	}

	c.path = c.path[:0]
	c.offset = offset
	c.pointSet = false

	if offset == c.rope.Len() {
		return c.seekToEnd()
	}

	node := c.rope.root
	nodeStart, nodeLine := ByteOffset(0), uint32(0)

	for !node.IsLeaf() {
		childStart, childLine := nodeStart, nodeLine
		descended := false

		for i, summary := range node.childSummaries {
			childEnd := childStart + summary.Bytes
			if childEnd > offset {
				c.path = append(c.path, cursorFrame{node: node, childIdx: i, offset: childStart, line: childLine})
				node = node.children[i]
				nodeStart, nodeLine = childStart, childLine
				descended = true
				break
			}
			childStart = childEnd
			childLine += summary.Lines
		}

		if !descended {
			return false
		}
	}

	c.leafNode = node
	chunkStart := nodeStart

	for i, chunk := range node.chunks {
		chunkEnd := chunkStart + ByteOffset(chunk.Len())
		if chunkEnd > offset {
			c.chunkIdx = i
			c.chunkOff = int(offset - chunkStart)
			c.snapToRuneBoundary(chunk)
			return true
		}
		chunkStart = chunkEnd
	}

	c.chunkIdx = len(node.chunks) - 1
	if c.chunkIdx >= 0 {
		c.chunkOff = node.chunks[c.chunkIdx].Len()
	} else {
		c.chunkOff = 0
	}
	return true
}

// snapToRuneBoundary walks c.chunkOff back to the nearest UTF-8 lead
// byte within chunk, in case offset landed mid-rune.
func (c *Cursor) snapToRuneBoundary(chunk Chunk) {
	if c.chunkOff <= 0 {
		return
	}
	text := chunk.String()
	if c.chunkOff >= len(text) || isUTF8LeadByte(text[c.chunkOff]) {
		return
	}
	for c.chunkOff > 0 && !isUTF8LeadByte(text[c.chunkOff]) {
		c.chunkOff--
		c.offset--
	}
}

func (c *Cursor) seekToEnd() bool {
	c.path = c.path[:0]
	c.offset = c.rope.Len()
	c.pointSet = false

	if c.rope.root == nil {
		c.leafNode = nil
		return true
	}

	node := c.rope.root
	pos, line := ByteOffset(0), uint32(0)

	for !node.IsLeaf() {
		last := len(node.children) - 1
		for i := 0; i < last; i++ {
			pos += node.childSummaries[i].Bytes
			line += node.childSummaries[i].Lines
		}
		c.path = append(c.path, cursorFrame{node: node, childIdx: last, offset: pos, line: line})
		node = node.children[last]
	}

	c.leafNode = node
	if len(node.chunks) > 0 {
		c.chunkIdx = len(node.chunks) - 1
		c.chunkOff = node.chunks[c.chunkIdx].Len()
	} else {
		c.chunkIdx = 0
		c.chunkOff = 0
	}
	return true
}

// SeekLine repositions the cursor at the start of line. Returns false
// if line is out of range.
func (c *Cursor) SeekLine(line uint32) bool {
	if c.rope.root == nil {
		return line == 0
	}
	if line == 0 {
		c.seekToStart()
		return true
	}
	if line >= c.rope.LineCount() {
		return false
	}

	c.path = c.path[:0]
	c.pointSet = false

	node := c.rope.root
	pos, curLine := ByteOffset(0), uint32(0)

	for !node.IsLeaf() {
		descended := false
		for i, summary := range node.childSummaries {
			if curLine+summary.Lines >= line {
				c.path = append(c.path, cursorFrame{node: node, childIdx: i, offset: pos, line: curLine})
				node = node.children[i]
				descended = true
				break
			}
			pos += summary.Bytes
			curLine += summary.Lines
		}
		if !descended {
			return false
		}
	}

	c.leafNode = node
	remaining := line - curLine

	for i, chunk := range node.chunks {
		summary := chunk.Summary()
		if summary.Lines < remaining {
			remaining -= summary.Lines
			pos += ByteOffset(chunk.Len())
			continue
		}

		c.chunkIdx = i
		at := chunk.Newlines().FindNthNewline(remaining)
		if at < 0 {
			return false
		}
		c.chunkOff = at + 1
		c.offset = pos + ByteOffset(c.chunkOff)
		c.point = Point{Line: line, Column: 0}
		c.pointSet = true
		return true
	}

	return false
}

// Rune returns the rune at the cursor and its byte width, or (0, 0)
// at the end of the rope.
func (c *Cursor) Rune() (rune, int) {
	if c.leafNode == nil || c.chunkIdx >= len(c.leafNode.chunks) {
		return 0, 0
	}
	chunk := c.leafNode.chunks[c.chunkIdx]
	if c.chunkOff >= chunk.Len() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(chunk.String()[c.chunkOff:])
}

// Byte returns the byte at the cursor, or (0, false) at the end.
func (c *Cursor) Byte() (byte, bool) {
	if c.leafNode == nil || c.chunkIdx >= len(c.leafNode.chunks) {
		return 0, false
	}
	chunk := c.leafNode.chunks[c.chunkIdx]
	if c.chunkOff >= chunk.Len() {
		return 0, false
	}
	return chunk.String()[c.chunkOff], true
}

// Next advances the cursor by one rune. Returns false at the end.
func (c *Cursor) Next() bool {
	if c.offset >= c.rope.Len() {
		return false
	}

	r, size := c.Rune()
	if size == 0 {
		return false
	}

	c.offset += ByteOffset(size)
	c.chunkOff += size

	if c.pointSet {
		if r == '\n' {
			c.point.Line++
			c.point.Column = 0
		} else {
			c.point.Column += uint32(size)
		}
	}

	if c.leafNode != nil && c.chunkIdx < len(c.leafNode.chunks) && c.chunkOff >= c.leafNode.chunks[c.chunkIdx].Len() {
		c.advanceChunk()
	}

	return true
}

func (c *Cursor) advanceChunk() {
	c.chunkIdx++
	c.chunkOff = 0
	if c.chunkIdx >= len(c.leafNode.chunks) {
		c.advanceLeaf()
	}
}

// advanceLeaf walks the path upward until it can step to a right
// sibling, then descends to that sibling's leftmost leaf.
func (c *Cursor) advanceLeaf() {
	for len(c.path) > 0 {
		frame := c.path[len(c.path)-1]
		c.path = c.path[:len(c.path)-1]

		nextIdx := frame.childIdx + 1
		if nextIdx >= len(frame.node.children) {
			continue
		}

		siblingOffset := frame.offset + frame.node.childSummaries[frame.childIdx].Bytes
		siblingLine := frame.line + frame.node.childSummaries[frame.childIdx].Lines

		c.path = append(c.path, cursorFrame{node: frame.node, childIdx: nextIdx, offset: siblingOffset, line: siblingLine})

		node := frame.node.children[nextIdx]
		pos, line := siblingOffset, siblingLine
		for !node.IsLeaf() {
			c.path = append(c.path, cursorFrame{node: node, offset: pos, line: line})
			node = node.children[0]
		}

		c.leafNode = node
		c.chunkIdx = 0
		c.chunkOff = 0
		return
	}

	c.leafNode = nil
	c.chunkIdx = 0
	c.chunkOff = 0
}

// Prev steps the cursor back by one rune. Returns false at the start.
func (c *Cursor) Prev() bool {
	if c.offset == 0 {
		return false
	}

	target := c.offset - 1
	for target > 0 {
		b, ok := c.rope.ByteAt(target)
		if !ok || isUTF8LeadByte(b) {
			break
		}
		target--
	}

	c.SeekOffset(target)
	return true
}

// AtEnd reports whether the cursor is at the rope's end.
func (c *Cursor) AtEnd() bool { return c.offset >= c.rope.Len() }

// AtStart reports whether the cursor is at the rope's start.
func (c *Cursor) AtStart() bool { return c.offset == 0 }

// Clone returns an independent copy of the cursor at the same
// position.
func (c *Cursor) Clone() *Cursor {
	out := &Cursor{
		rope:     c.rope,
		path:     make([]cursorFrame, len(c.path)),
		offset:   c.offset,
		point:    c.point,
		pointSet: c.pointSet,
		leafNode: c.leafNode,
		chunkIdx: c.chunkIdx,
		chunkOff: c.chunkOff,
	}
	copy(out.path, c.path)
	return out
}
