package rope

import "sync"

// NodePool recycles Node allocations via sync.Pool for callers that
// get and return nodes explicitly. The rope's own operations (Insert,
// Delete, Replace, Builder) allocate nodes directly and do not draw
// from any pool.
type NodePool struct {
	leaves    sync.Pool
	internals sync.Pool
}

// DefaultPool is the package-wide node pool; callers needing isolated
// pooling (e.g. concurrent benchmarks) can construct their own.
var DefaultPool = NewNodePool()

// NewNodePool returns an empty pool.
func NewNodePool() *NodePool {
	return &NodePool{
		leaves: sync.Pool{
			New: func() interface{} {
				return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
			},
		},
		internals: sync.Pool{
			New: func() interface{} {
				return &Node{
					height:         1,
					children:       make([]*Node, 0, MaxChildren),
					childSummaries: make([]TextSummary, 0, MaxChildren),
				}
			},
		},
	}
}

// GetLeaf returns a zeroed leaf node from the pool.
func (p *NodePool) GetLeaf() *Node {
	n := p.leaves.Get().(*Node)
	n.height = 0
	n.summary = TextSummary{}
	n.chunks = n.chunks[:0]
	n.children = nil
	n.childSummaries = nil
	return n
}

// GetInternal returns a zeroed internal node at the given height.
func (p *NodePool) GetInternal(height uint8) *Node {
	n := p.internals.Get().(*Node)
	n.height = height
	n.summary = TextSummary{}
	n.chunks = nil
	n.children = n.children[:0]
	n.childSummaries = n.childSummaries[:0]
	return n
}

// PutLeaf returns a leaf node to the pool. n must not be used again.
func (p *NodePool) PutLeaf(n *Node) {
	if n == nil || !n.IsLeaf() {
		return
	}
	for i := range n.chunks {
		n.chunks[i] = Chunk{}
	}
	n.chunks = n.chunks[:0]
	p.leaves.Put(n)
}

// PutInternal returns an internal node to the pool. n must not be used
// again.
func (p *NodePool) PutInternal(n *Node) {
	if n == nil || n.IsLeaf() {
		return
	}
	for i := range n.children {
		n.children[i] = nil
	}
	n.children = n.children[:0]
	n.childSummaries = n.childSummaries[:0]
	p.internals.Put(n)
}

// Put returns n to whichever pool matches its kind.
func (p *NodePool) Put(n *Node) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		p.PutLeaf(n)
	} else {
		p.PutInternal(n)
	}
}

// ChunkSlicePool recycles []Chunk backing arrays used while rebuilding
// leaves.
var ChunkSlicePool = sync.Pool{
	New: func() interface{} {
		s := make([]Chunk, 0, MaxChunksPerLeaf*2)
		return &s
	},
}

// GetChunkSlice returns an empty, pooled []Chunk.
func GetChunkSlice() *[]Chunk {
	s := ChunkSlicePool.Get().(*[]Chunk)
	*s = (*s)[:0]
	return s
}

// PutChunkSlice returns s to the pool.
func PutChunkSlice(s *[]Chunk) {
	if s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = Chunk{}
	}
	*s = (*s)[:0]
	ChunkSlicePool.Put(s)
}

// NodeSlicePool recycles []*Node backing arrays used while rebuilding
// internal nodes.
var NodeSlicePool = sync.Pool{
	New: func() interface{} {
		s := make([]*Node, 0, MaxChildren*2)
		return &s
	},
}

// GetNodeSlice returns an empty, pooled []*Node.
func GetNodeSlice() *[]*Node {
	s := NodeSlicePool.Get().(*[]*Node)
	*s = (*s)[:0]
	return s
}

// PutNodeSlice returns s to the pool.
func PutNodeSlice(s *[]*Node) {
	if s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = nil
	}
	*s = (*s)[:0]
	NodeSlicePool.Put(s)
}

// StringBuilderPool recycles byte-buffer wrappers for scratch text
// assembly.
var StringBuilderPool = sync.Pool{
	New: func() interface{} { return new(stringBuilderWrapper) },
}

// stringBuilderWrapper is a poolable stand-in for strings.Builder,
// which isn't itself safe to reuse across unrelated call sites.
type stringBuilderWrapper struct {
	buf []byte
}

// GetStringBuilder returns a pooled builder with at least capacity
// bytes of backing storage.
func GetStringBuilder(capacity int) *stringBuilderWrapper {
	w := StringBuilderPool.Get().(*stringBuilderWrapper)
	if cap(w.buf) < capacity {
		w.buf = make([]byte, 0, capacity)
	} else {
		w.buf = w.buf[:0]
	}
	return w
}

// PutStringBuilder returns w to the pool, discarding it instead if its
// buffer has grown unreasonably large.
func PutStringBuilder(w *stringBuilderWrapper) {
	if w == nil {
		return
	}
	if cap(w.buf) <= 64*1024 {
		w.buf = w.buf[:0]
		StringBuilderPool.Put(w)
	}
}

func (w *stringBuilderWrapper) Write(p []byte) { w.buf = append(w.buf, p...) }

func (w *stringBuilderWrapper) WriteString(s string) { w.buf = append(w.buf, s...) }

func (w *stringBuilderWrapper) String() string { return string(w.buf) }

func (w *stringBuilderWrapper) Len() int { return len(w.buf) }

func (w *stringBuilderWrapper) Reset() { w.buf = w.buf[:0] }
