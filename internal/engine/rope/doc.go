// Package rope implements an immutable text rope: a B+-tree variant
// where leaves hold bounded text chunks and internal nodes aggregate
// per-subtree metrics (byte count, line count, longest line, ...), so
// length/line/offset queries never need to touch leaf text.
//
// # Highlights
//
//   - O(log n) insert, delete, slice, and offset/line conversions
//   - every mutator returns a new Rope; the receiver is untouched
//   - structural sharing: unedited subtrees are reused by the new rope
//   - a package-level node pool (NodePool, DefaultPool) for callers
//     that recycle nodes; the rope's own operations do not draw from it
//   - per-chunk newline indexes for O(1)-ish line lookups
//
// # Basic usage
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")             // "hello, world"
//	r = r.Delete(0, 7)                // "world"
//	r = r.Replace(0, 5, "universe")   // "universe"
//	text := r.String()
//	slice := r.Slice(0, 4)            // "univ"
//
// Because every operation returns a new value, the original survives:
//
//	original := rope.FromString("hello")
//	modified := original.Insert(5, " world")
//	original.String() // "hello"
//	modified.String() // "hello world"
//
// # Lines
//
//	r := rope.FromString("line 1\nline 2\nline 3")
//	r.LineCount()           // 3
//	r.LineText(1)           // "line 2"
//	r.LineStartOffset(1)    // 7
//	r.LineEndOffset(1)      // 13
//
// # Offset/point conversion
//
//	r := rope.FromString("hello\nworld")
//	r.OffsetToPoint(6)                      // Point{Line: 1, Column: 0}
//	r.PointToOffset(rope.Point{Line: 1})     // 6
//
// # Cursors
//
//	cursor := rope.NewCursor(r)
//	for cursor.Next() {
//	    ch, _ := cursor.Rune()
//	    fmt.Printf("%c", ch)
//	}
//	cursor.SeekOffset(5)
//	cursor.SeekLine(0)
//
// # Building incrementally
//
// Builder amortizes repeated appends better than chaining Insert
// calls:
//
//	var b rope.Builder
//	b.WriteString("hello ")
//	b.WriteString("world")
//	r := b.Build()
//
// # Iterators
//
// Lines, Chunks, Runes, Bytes, and ReverseRunes all walk the tree
// directly rather than materializing the whole text first.
//
// # Complexity, for a rope of n bytes and l lines
//
//	FromString, String        O(n)
//	Insert, Delete, Replace    O(log n)
//	Slice                      O(log n + k)
//	OffsetToPoint              O(log n)
//	PointToOffset              O(log l)
//	Len, LineCount             O(1)
//
// # Concurrency
//
// Ropes are safe for concurrent readers because they're immutable;
// concurrent writers need external synchronization.
//
// # Boundary queries
//
// PrevCodepointOffset/NextCodepointOffset step across UTF-8 lead
// bytes. PrevGraphemeOffset/NextGraphemeOffset step across Unicode
// grapheme cluster boundaries (github.com/rivo/uniseg), so a
// combining mark or flag emoji moves as a single unit:
//
//	r := rope.FromString("áb") // "a" + combining acute + "b"
//	off, _ := r.NextGraphemeOffset(0) // 3, not 1
package rope
