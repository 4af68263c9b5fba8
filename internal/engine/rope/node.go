package rope

import "strings"

// Node shapes bound the B+-tree's branching factor. A leaf holds up to
// MaxChunksPerLeaf chunks; an internal node holds up to MaxChildren
// subtrees. MinChildren documents the floor a balanced tree aims for,
// but it isn't independently enforced by a merge-on-underflow pass:
// concat/split already keep practical trees well above it.
const (
	MinChildren      = 4
	MaxChildren      = 8
	MaxChunksPerLeaf = 4
)

// Node is one B+-tree node. height == 0 marks a leaf holding Chunks
// directly; height > 0 marks an internal node holding child subtrees.
// Every node carries the aggregated TextSummary of everything beneath
// it, so length/line/offset queries never need to walk to a leaf.
type Node struct {
	height  uint8
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	var total TextSummary
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf reports whether n stores chunks directly.
func (n *Node) IsLeaf() bool { return n.height == 0 }

// Len returns the byte length of n's subtree.
func (n *Node) Len() ByteOffset { return n.summary.Bytes }

// LineCount returns n's subtree line count (newlines + 1).
func (n *Node) LineCount() uint32 { return n.summary.Lines + 1 }

// recomputeSummary rebuilds n.summary (and childSummaries, for an
// internal node) from its direct contents. Callers mutate chunks or
// children first, then call this once.
func (n *Node) recomputeSummary() {
	fresh := TextSummary{Flags: FlagASCII}

	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			fresh = fresh.Add(chunk.Summary())
		}
		n.summary = fresh
		return
	}

	n.childSummaries = make([]TextSummary, len(n.children))
	for i, child := range n.children {
		n.childSummaries[i] = child.summary
		fresh = fresh.Add(child.summary)
	}
	n.summary = fresh
}

// clone makes a shallow copy: new slice headers over the same chunks
// or child pointers, safe to mutate independently of n.
func (n *Node) clone() *Node {
	if n.IsLeaf() {
		chunks := append([]Chunk(nil), n.chunks...)
		return &Node{summary: n.summary, chunks: chunks}
	}

	children := append([]*Node(nil), n.children...)
	summaries := append([]TextSummary(nil), n.childSummaries...)
	return &Node{
		height:         n.height,
		summary:        n.summary,
		children:       children,
		childSummaries: summaries,
	}
}

// appendTo writes every byte of n's subtree, in order, to sb.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// textInRange materializes the text covered by [start, end), clamped
// to the subtree's actual length.
func (n *Node) textInRange(start, end ByteOffset) string {
	if start >= end || start >= n.Len() {
		return ""
	}
	if end > n.Len() {
		end = n.Len()
	}

	var sb strings.Builder
	sb.Grow(int(end - start))
	n.appendRange(&sb, start, end)
	return sb.String()
}

// appendRange writes the part of n's subtree overlapping [start, end)
// to sb, walking only the children that overlap that window.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		pos := ByteOffset(0)
		for _, chunk := range n.chunks {
			chunkEnd := pos + ByteOffset(chunk.Len())
			switch {
			case chunkEnd <= start:
			case pos >= end:
				return
			default:
				lo := 0
				if start > pos {
					lo = int(start - pos)
				}
				hi := chunk.Len()
				if end < chunkEnd {
					hi = int(end - pos)
				}
				sb.WriteString(chunk.String()[lo:hi])
			}
			pos = chunkEnd
		}
		return
	}

	pos := ByteOffset(0)
	for i, child := range n.children {
		childEnd := pos + n.childSummaries[i].Bytes
		switch {
		case childEnd <= start:
		case pos >= end:
			return
		default:
			lo := ByteOffset(0)
			if start > pos {
				lo = start - pos
			}
			hi := n.childSummaries[i].Bytes
			if end < childEnd {
				hi = end - pos
			}
			child.appendRange(sb, lo, hi)
		}
		pos = childEnd
	}
}

// split divides n at a byte offset into two subtrees: everything
// before offset, and everything from offset on.
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	switch {
	case offset <= 0:
		return newLeafNode(), n.clone()
	case offset >= n.Len():
		return n.clone(), newLeafNode()
	case n.IsLeaf():
		return n.splitLeaf(offset)
	default:
		return n.splitInternal(offset)
	}
}

func (n *Node) splitLeaf(offset ByteOffset) (*Node, *Node) {
	var left, right []Chunk
	pos := ByteOffset(0)

	for _, chunk := range n.chunks {
		chunkLen := ByteOffset(chunk.Len())
		switch {
		case pos+chunkLen <= offset:
			left = append(left, chunk)
		case pos >= offset:
			right = append(right, chunk)
		default:
			lhs, rhs := chunk.Split(int(offset - pos))
			if !lhs.IsEmpty() {
				left = append(left, lhs)
			}
			if !rhs.IsEmpty() {
				right = append(right, rhs)
			}
		}
		pos += chunkLen
	}

	return newLeafNodeWithChunks(left), newLeafNodeWithChunks(right)
}

func (n *Node) splitInternal(offset ByteOffset) (*Node, *Node) {
	var left, right []*Node
	pos := ByteOffset(0)

	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		switch {
		case pos+childLen <= offset:
			left = append(left, child)
		case pos >= offset:
			right = append(right, child)
		default:
			lhs, rhs := child.split(offset - pos)
			if lhs.Len() > 0 {
				left = append(left, lhs)
			}
			if rhs.Len() > 0 {
				right = append(right, rhs)
			}
		}
		pos += childLen
	}

	return rebuildFromChildren(left), rebuildFromChildren(right)
}

// rebuildFromChildren assembles a (possibly multi-level) balanced tree
// over children, splitting into parent layers whenever there are more
// than MaxChildren of them.
func rebuildFromChildren(children []*Node) *Node {
	switch {
	case len(children) == 0:
		return newLeafNode()
	case len(children) == 1:
		return children[0]
	case len(children) <= MaxChildren:
		return newInternalNode(children)
	}

	var parents []*Node
	for i := 0; i < len(children); i += MaxChildren {
		end := i + MaxChildren
		if end > len(children) {
			end = len(children)
		}
		parents = append(parents, newInternalNode(children[i:end]))
	}
	return rebuildFromChildren(parents)
}

// concat joins left and right into one subtree, preserving order.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	if left.IsLeaf() && right.IsLeaf() {
		return concatLeaves(left, right)
	}

	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}
	return mergeSiblings(left, right)
}

func concatLeaves(left, right *Node) *Node {
	total := len(left.chunks) + len(right.chunks)
	if total <= MaxChunksPerLeaf {
		chunks := make([]Chunk, 0, total)
		chunks = append(chunks, left.chunks...)
		chunks = append(chunks, right.chunks...)
		return newLeafNodeWithChunks(chunks)
	}
	return newInternalNode([]*Node{left.clone(), right.clone()})
}

// mergeSiblings combines two nodes already known to share a height.
func mergeSiblings(left, right *Node) *Node {
	if left.IsLeaf() {
		return concatLeaves(left, right)
	}

	combined := make([]*Node, 0, len(left.children)+len(right.children))
	combined = append(combined, left.children...)
	combined = append(combined, right.children...)

	if len(combined) <= MaxChildren {
		return newInternalNode(combined)
	}
	return rebuildFromChildren(combined)
}

// findChildByOffset locates the child subtree containing offset,
// returning its index and the offset relative to that child's start.
// Leaves have no children and report (-1, 0).
func (n *Node) findChildByOffset(offset ByteOffset) (int, ByteOffset) {
	if n.IsLeaf() {
		return -1, 0
	}

	pos := ByteOffset(0)
	for i, summary := range n.childSummaries {
		if pos+summary.Bytes > offset {
			return i, offset - pos
		}
		pos += summary.Bytes
	}

	last := len(n.children) - 1
	return last, offset - (n.summary.Bytes - n.childSummaries[last].Bytes)
}

// findChildByLine locates the child subtree containing line, returning
// its index and the line number relative to that child's first line.
func (n *Node) findChildByLine(line uint32) (int, uint32) {
	if n.IsLeaf() {
		return -1, 0
	}

	pos := uint32(0)
	for i, summary := range n.childSummaries {
		if pos+summary.Lines >= line {
			return i, line - pos
		}
		pos += summary.Lines
	}

	last := len(n.children) - 1
	lastStart := n.summary.Lines - n.childSummaries[last].Lines
	return last, line - lastStart
}
