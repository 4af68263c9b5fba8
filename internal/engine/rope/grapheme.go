package rope

import "github.com/rivo/uniseg"

// windowRadius bounds how many bytes of context are pulled around an offset
// when answering a boundary query. Grapheme segmentation only needs a
// handful of runes of lookbehind/lookahead, so this avoids materializing
// the whole rope for boundary queries on large documents.
const windowRadius = 64

// PrevCodepointOffset returns the offset of the start of the codepoint
// immediately before offset, or (0, false) if offset is already at the
// start of the rope.
func (r Rope) PrevCodepointOffset(offset ByteOffset) (ByteOffset, bool) {
	if offset <= 0 {
		return 0, false
	}
	if offset > r.Len() {
		offset = r.Len()
	}

	prev := offset - 1
	for prev > 0 {
		b, ok := r.ByteAt(prev)
		if !ok || isUTF8LeadByte(b) {
			break
		}
		prev--
	}
	return prev, true
}

// NextCodepointOffset returns the offset of the start of the codepoint
// immediately after offset, or (len, false) if offset is already at or
// past the end of the rope.
func (r Rope) NextCodepointOffset(offset ByteOffset) (ByteOffset, bool) {
	length := r.Len()
	if offset >= length {
		return length, false
	}

	cur := NewCursor(r)
	cur.SeekOffset(offset)
	if !cur.Next() {
		return length, false
	}
	return cur.Offset(), true
}

// PrevGraphemeOffset returns the offset of the start of the grapheme
// cluster immediately before offset, or (0, false) at the start of the
// rope. Grounded on github.com/rivo/uniseg, which implements Unicode
// Standard Annex #29 grapheme cluster boundaries.
func (r Rope) PrevGraphemeOffset(offset ByteOffset) (ByteOffset, bool) {
	if offset <= 0 {
		return 0, false
	}

	var windowStart ByteOffset
	if offset > windowRadius {
		windowStart = offset - windowRadius
	}
	window := r.Slice(windowStart, offset)
	if window == "" {
		return 0, false
	}

	// Walk grapheme boundaries forward across the window; the last
	// boundary strictly before the window's end is the answer.
	state := -1
	pos := 0
	lastBoundary := 0
	remaining := window
	for len(remaining) > 0 {
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(remaining, state)
		lastBoundary = pos
		pos += len(cluster)
		remaining = rest
		state = newState
	}

	return windowStart + ByteOffset(lastBoundary), true
}

// NextGraphemeOffset returns the offset immediately after the grapheme
// cluster starting at or containing offset, or (len, false) at the end
// of the rope.
func (r Rope) NextGraphemeOffset(offset ByteOffset) (ByteOffset, bool) {
	length := r.Len()
	if offset >= length {
		return length, false
	}

	windowEnd := offset + windowRadius
	if windowEnd > length {
		windowEnd = length
	}
	window := r.Slice(offset, windowEnd)
	if window == "" {
		return length, false
	}

	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(window, -1)
	if len(cluster) == 0 {
		return length, false
	}
	return offset + ByteOffset(len(cluster)), true
}
