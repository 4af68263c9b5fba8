package rope

import "unicode/utf8"

// chunkIterFrame is one level of a chunk-iteration stack: which child
// (internal node) or chunk (leaf) to visit next, and the absolute
// offset where this node's subtree begins.
type chunkIterFrame struct {
	node     *Node
	childIdx int
	chunkIdx int
	offset   ByteOffset
}

// ChunkIterator walks a rope's Chunks in order without materializing
// the whole text.
type ChunkIterator struct {
	rope       Rope
	stack      []chunkIterFrame
	started    bool
	chunk      Chunk
	chunkStart ByteOffset
}

// Chunks returns an iterator over every chunk in r.
func (r Rope) Chunks() *ChunkIterator {
	return &ChunkIterator{rope: r, stack: make([]chunkIterFrame, 0, 16)}
}

// Next advances to the next chunk, returning false once exhausted.
func (it *ChunkIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.root == nil {
			return false
		}
		it.stack = append(it.stack, chunkIterFrame{node: it.rope.root})
		return it.advance()
	}

	if len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.IsLeaf() {
			top.chunkIdx++
		}
	}
	return it.advance()
}

// advance walks the stack until it finds the next unvisited chunk,
// popping finished frames and bumping the parent's child cursor as it
// goes.
func (it *ChunkIterator) advance() bool {
	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		node := frame.node

		if node.IsLeaf() {
			if frame.chunkIdx < len(node.chunks) {
				start := frame.offset
				for i := 0; i < frame.chunkIdx; i++ {
					start += ByteOffset(node.chunks[i].Len())
				}
				it.chunk = node.chunks[frame.chunkIdx]
				it.chunkStart = start
				return true
			}
			it.popAndAdvanceParent()
			continue
		}

		if frame.childIdx < len(node.children) {
			start := frame.offset
			for i := 0; i < frame.childIdx; i++ {
				start += node.childSummaries[i].Bytes
			}
			it.stack = append(it.stack, chunkIterFrame{node: node.children[frame.childIdx], offset: start})
			continue
		}

		it.popAndAdvanceParent()
	}
	return false
}

func (it *ChunkIterator) popAndAdvanceParent() {
	it.stack = it.stack[:len(it.stack)-1]
	if len(it.stack) > 0 {
		it.stack[len(it.stack)-1].childIdx++
	}
}

// Chunk returns the chunk the iterator currently sits on.
func (it *ChunkIterator) Chunk() Chunk { return it.chunk }

// Offset returns the current chunk's starting byte offset.
func (it *ChunkIterator) Offset() ByteOffset { return it.chunkStart }

// LineIterator iterates over a rope's lines, each reported without its
// trailing newline.
type LineIterator struct {
	cursor    *Cursor
	lineNum   uint32
	lineStart ByteOffset
	lineEnd   ByteOffset
	text      string
	done      bool
	started   bool
}

// Lines returns an iterator over every line in r.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{cursor: NewCursor(r)}
}

// Next advances to the next line, returning false once exhausted.
func (it *LineIterator) Next() bool {
	if it.done {
		return false
	}

	if !it.started {
		it.started = true
		if it.cursor.rope.IsEmpty() {
			it.lineStart, it.lineEnd, it.text = 0, 0, ""
			it.done = true
			return true
		}
	} else {
		it.lineNum++
		if it.lineNum >= it.cursor.rope.LineCount() {
			it.done = true
			return false
		}
	}

	it.lineStart = it.cursor.rope.LineStartOffset(it.lineNum)
	it.lineEnd = it.cursor.rope.LineEndOffset(it.lineNum)
	it.text = it.cursor.rope.Slice(it.lineStart, it.lineEnd)
	return true
}

// Text returns the current line's text.
func (it *LineIterator) Text() string { return it.text }

// Line returns the current 0-indexed line number.
func (it *LineIterator) Line() uint32 { return it.lineNum }

// StartOffset returns the current line's starting byte offset.
func (it *LineIterator) StartOffset() ByteOffset { return it.lineStart }

// EndOffset returns the current line's ending byte offset.
func (it *LineIterator) EndOffset() ByteOffset { return it.lineEnd }

// RuneIterator iterates over a rope's runes in order.
type RuneIterator struct {
	cursor  *Cursor
	current rune
	size    int
	offset  ByteOffset
	started bool
}

// Runes returns an iterator over every rune in r.
func (r Rope) Runes() *RuneIterator {
	return &RuneIterator{cursor: NewCursor(r)}
}

// Next advances to the next rune, returning false once exhausted.
func (it *RuneIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.cursor.AtEnd() {
			return false
		}
		it.offset = it.cursor.Offset()
		it.current, it.size = it.cursor.Rune()
		return it.size > 0
	}

	if !it.cursor.Next() || it.cursor.AtEnd() {
		return false
	}

	it.offset = it.cursor.Offset()
	it.current, it.size = it.cursor.Rune()
	return it.size > 0
}

// Rune returns the current rune.
func (it *RuneIterator) Rune() rune { return it.current }

// Size returns the current rune's byte width.
func (it *RuneIterator) Size() int { return it.size }

// Offset returns the current rune's byte offset.
func (it *RuneIterator) Offset() ByteOffset { return it.offset }

// ByteIterator iterates over a rope's bytes in order, walking chunk by
// chunk rather than materializing the whole text.
type ByteIterator struct {
	chunks  *ChunkIterator
	text    string
	idx     int
	offset  ByteOffset
	started bool
}

// Bytes returns an iterator over every byte in r.
func (r Rope) Bytes() *ByteIterator {
	return &ByteIterator{chunks: r.Chunks()}
}

// Next advances to the next byte, returning false once exhausted.
func (it *ByteIterator) Next() bool {
	if !it.started {
		it.started = true
		return it.loadChunk()
	}

	it.idx++
	it.offset++
	if it.idx >= len(it.text) {
		return it.loadChunk()
	}
	return true
}

func (it *ByteIterator) loadChunk() bool {
	if !it.chunks.Next() {
		return false
	}
	it.text = it.chunks.Chunk().String()
	it.idx = 0
	it.offset = it.chunks.Offset()
	return len(it.text) > 0
}

// Byte returns the current byte.
func (it *ByteIterator) Byte() byte {
	if it.idx < len(it.text) {
		return it.text[it.idx]
	}
	return 0
}

// Offset returns the current byte's offset.
func (it *ByteIterator) Offset() ByteOffset { return it.offset }

// ReverseRuneIterator iterates over a rope's runes back to front,
// caching the current chunk so repeated steps stay amortized O(1).
type ReverseRuneIterator struct {
	rope    Rope
	offset  ByteOffset
	current rune
	size    int
	started bool

	text      string
	textStart ByteOffset
	textPos   int
	stack     []reverseChunkFrame
}

// reverseChunkFrame is one level of the tree-walk stack used to locate
// the chunk preceding the current one.
type reverseChunkFrame struct {
	node     *Node
	childIdx int
	chunkIdx int
}

// ReverseRunes returns an iterator over r's runes, last to first.
func (r Rope) ReverseRunes() *ReverseRuneIterator {
	return &ReverseRuneIterator{rope: r, offset: r.Len()}
}

// Next steps to the preceding rune, returning false once exhausted.
func (it *ReverseRuneIterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rope.IsEmpty() || !it.loadLastChunk() {
			return false
		}
		it.textPos = len(it.text)
	}

	if it.textPos > 0 {
		return it.prevInChunk()
	}
	if !it.loadPrevChunk() {
		return false
	}
	it.textPos = len(it.text)
	return it.prevInChunk()
}

// prevInChunk steps it.textPos back to the start of the preceding rune
// within the already-loaded chunk and decodes it.
func (it *ReverseRuneIterator) prevInChunk() bool {
	if it.textPos <= 0 {
		return false
	}
	it.textPos--
	for it.textPos > 0 && !isUTF8LeadByte(it.text[it.textPos]) {
		it.textPos--
	}
	it.current, it.size = utf8.DecodeRuneInString(it.text[it.textPos:])
	it.offset = it.textStart + ByteOffset(it.textPos)
	return it.size > 0
}

// loadLastChunk descends to the rope's rightmost leaf and its last
// chunk, seeding the traversal stack along the way.
func (it *ReverseRuneIterator) loadLastChunk() bool {
	if it.rope.root == nil {
		return false
	}

	it.stack = make([]reverseChunkFrame, 0, 16)
	node := it.rope.root
	pos := ByteOffset(0)

	for !node.IsLeaf() {
		last := len(node.children) - 1
		for i := 0; i < last; i++ {
			pos += node.childSummaries[i].Bytes
		}
		it.stack = append(it.stack, reverseChunkFrame{node: node, childIdx: last})
		node = node.children[last]
	}

	if len(node.chunks) == 0 {
		return false
	}
	last := len(node.chunks) - 1
	for i := 0; i < last; i++ {
		pos += ByteOffset(node.chunks[i].Len())
	}

	it.stack = append(it.stack, reverseChunkFrame{node: node, chunkIdx: last})
	it.text = node.chunks[last].String()
	it.textStart = pos
	return true
}

// loadPrevChunk moves the traversal stack to the chunk preceding the
// current one, whether that means stepping within the same leaf or
// climbing to an ancestor and descending its previous sibling.
func (it *ReverseRuneIterator) loadPrevChunk() bool {
	if len(it.stack) == 0 {
		return false
	}

	top := &it.stack[len(it.stack)-1]
	if top.node.IsLeaf() {
		if top.chunkIdx > 0 {
			top.chunkIdx--
			start := it.nodeStartOffset(len(it.stack) - 1)
			for i := 0; i < top.chunkIdx; i++ {
				start += ByteOffset(top.node.chunks[i].Len())
			}
			it.text = top.node.chunks[top.chunkIdx].String()
			it.textStart = start
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}

	for len(it.stack) > 0 {
		frame := &it.stack[len(it.stack)-1]
		if frame.childIdx > 0 {
			frame.childIdx--
			return it.descendToRightmostLeaf(len(it.stack) - 1)
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	return false
}

// descendToRightmostLeaf pushes frames from stack[at]'s chosen child
// down to that subtree's rightmost leaf.
func (it *ReverseRuneIterator) descendToRightmostLeaf(at int) bool {
	frame := it.stack[at]
	node := frame.node.children[frame.childIdx]
	pos := it.nodeStartOffset(at)
	for i := 0; i < frame.childIdx; i++ {
		pos += frame.node.childSummaries[i].Bytes
	}

	for !node.IsLeaf() {
		last := len(node.children) - 1
		for i := 0; i < last; i++ {
			pos += node.childSummaries[i].Bytes
		}
		it.stack = append(it.stack, reverseChunkFrame{node: node, childIdx: last})
		node = node.children[last]
	}

	if len(node.chunks) == 0 {
		return false
	}
	last := len(node.chunks) - 1
	for i := 0; i < last; i++ {
		pos += ByteOffset(node.chunks[i].Len())
	}

	it.stack = append(it.stack, reverseChunkFrame{node: node, chunkIdx: last})
	it.text = node.chunks[last].String()
	it.textStart = pos
	return true
}

// nodeStartOffset sums the byte offset contributed by every ancestor
// frame before stackIdx.
func (it *ReverseRuneIterator) nodeStartOffset(stackIdx int) ByteOffset {
	var offset ByteOffset
	for i := 0; i < stackIdx; i++ {
		frame := it.stack[i]
		if frame.node.IsLeaf() {
			continue
		}
		for j := 0; j < frame.childIdx; j++ {
			offset += frame.node.childSummaries[j].Bytes
		}
	}
	return offset
}

// Rune returns the current rune.
func (it *ReverseRuneIterator) Rune() rune { return it.current }

// Size returns the current rune's byte width.
func (it *ReverseRuneIterator) Size() int { return it.size }

// Offset returns the current rune's byte offset.
func (it *ReverseRuneIterator) Offset() ByteOffset { return it.offset }
