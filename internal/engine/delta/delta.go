// Package delta implements the edit-description value used by the
// revision engine: a function from one rope of length n to a new rope,
// expressed as an ordered list of operations against a base length.
//
// The representation here is an ordered, non-overlapping list of
// replace-spans (Op) rather than a raw copy/insert instruction stream;
// the two are isomorphic (the gaps between consecutive Ops are the
// implicit copies) but a replace-span list is far easier to invert and
// to transform through another delta on the same base, both of which
// the revision engine needs. Instructions exposes the copy/insert decomposition
// for callers that want that form directly.
package delta

import "github.com/dshills/vellum/internal/engine/rope"

// ByteOffset is an alias for rope.ByteOffset for convenience.
type ByteOffset = rope.ByteOffset

// Op is a single replace-span: the half-open range [Start, End) of the
// base is replaced by NewText. OldText holds the text it replaced; it
// is required for Invert but not for Apply, so callers that only need
// to apply a delta may leave it empty.
type Op struct {
	Start, End ByteOffset
	OldText    string
	NewText    string
}

// Len returns the length of the base range this op replaces.
func (o Op) Len() ByteOffset { return o.End - o.Start }

// IsInsert reports whether this op is a pure insertion (empty base range).
func (o Op) IsInsert() bool { return o.Start == o.End && o.NewText != "" }

// IsDelete reports whether this op is a pure deletion (no replacement text).
func (o Op) IsDelete() bool { return o.Start != o.End && o.NewText == "" }

// Delta describes an edit against a base of length BaseLen as an
// ordered, non-overlapping list of replace-spans.
type Delta struct {
	BaseLen ByteOffset
	Ops     []Op
}

// Identity returns the no-op delta over a base of the given length.
func Identity(baseLen ByteOffset) Delta {
	return Delta{BaseLen: baseLen}
}

// IsIdentity reports whether the delta changes nothing.
func (d Delta) IsIdentity() bool {
	return len(d.Ops) == 0
}

// SimpleEdit builds a delta that replaces base[start:end) with newText.
// oldText is the text being replaced; pass it whenever the caller has
// it (it always does here, since the Editor reads the range from its
// mirror rope before staging the edit) so the delta remains invertible.
func SimpleEdit(start, end ByteOffset, oldText, newText string, baseLen ByteOffset) Delta {
	if start == end && newText == "" {
		return Identity(baseLen)
	}
	return Delta{
		BaseLen: baseLen,
		Ops:     []Op{{Start: start, End: end, OldText: oldText, NewText: newText}},
	}
}

// NewLen returns the length of the rope this delta produces when
// applied to a base of length BaseLen.
func (d Delta) NewLen() ByteOffset {
	n := d.BaseLen
	for _, op := range d.Ops {
		n += ByteOffset(len(op.NewText)) - op.Len()
	}
	return n
}

// Apply applies the delta to base, returning the resulting rope. base
// must have length BaseLen.
func (d Delta) Apply(base rope.Rope) rope.Rope {
	if d.IsIdentity() {
		return base
	}

	var b rope.Builder
	pos := ByteOffset(0)
	for _, op := range d.Ops {
		if op.Start > pos {
			b.WriteString(base.Slice(pos, op.Start))
		}
		if op.NewText != "" {
			b.WriteString(op.NewText)
		}
		pos = op.End
	}
	if pos < d.BaseLen {
		b.WriteString(base.Slice(pos, d.BaseLen))
	}
	return b.Build()
}

// Invert returns the delta that undoes d, i.e. a delta from d's output
// back to d's base. Every op must carry OldText; an op whose base range
// is non-empty but whose OldText is "" inverts without restoring that
// range's text, so Invert should only be called on deltas whose ops
// were built with SimpleEdit or otherwise carry OldText.
func (d Delta) Invert() Delta {
	ops := make([]Op, 0, len(d.Ops))
	basePos := ByteOffset(0)
	newPos := ByteOffset(0)

	for _, op := range d.Ops {
		gap := op.Start - basePos
		newPos += gap

		newLen := ByteOffset(len(op.NewText))
		ops = append(ops, Op{
			Start:   newPos,
			End:     newPos + newLen,
			OldText: op.NewText,
			NewText: op.OldText,
		})

		newPos += newLen
		basePos = op.End
	}

	newBaseLen := newPos + (d.BaseLen - basePos)
	return Delta{BaseLen: newBaseLen, Ops: ops}
}

// Instr is one step of the copy/insert instruction stream
// (`iter_chunks`-style): a copy (IsCopy) covers the unmodified base
// range [CopyFrom, CopyTo), an insert carries literal text.
type Instr struct {
	IsCopy   bool
	CopyFrom ByteOffset // valid when IsCopy
	CopyTo   ByteOffset // valid when IsCopy
	Insert   string     // valid when !IsCopy
}

// Instructions decomposes the delta into the copy/insert instruction
// stream: every base byte is either covered by a copy Instr (identity)
// or skipped by an op's range; every inserted/replacement byte is in an
// insert Instr.
func (d Delta) Instructions() []Instr {
	var out []Instr
	pos := ByteOffset(0)
	for _, op := range d.Ops {
		if op.Start > pos {
			out = append(out, Instr{IsCopy: true, CopyFrom: pos, CopyTo: op.Start})
		}
		if op.NewText != "" {
			out = append(out, Instr{Insert: op.NewText})
		}
		pos = op.End
	}
	if pos < d.BaseLen {
		out = append(out, Instr{IsCopy: true, CopyFrom: pos, CopyTo: d.BaseLen})
	}
	return out
}

// TransformOffset maps offset (a position in the delta's base) to the
// corresponding position in the delta's output. sticky controls the
// behavior when offset sits exactly at a pure insertion point: sticky
// keeps the position before the inserted text, non-sticky moves it to
// the far side. This generalizes the single-edit cursor transform used
// throughout this codebase's selection bookkeeping to an ordered list
// of edits.
func (d Delta) TransformOffset(offset ByteOffset, sticky bool) ByteOffset {
	adjust := ByteOffset(0)
	for _, op := range d.Ops {
		if op.End <= offset {
			adjust += ByteOffset(len(op.NewText)) - op.Len()
			continue
		}
		if op.Start > offset {
			break
		}
		// op spans or touches offset.
		if op.Start == op.End && op.Start == offset {
			if sticky {
				return offset + adjust
			}
			return offset + adjust + ByteOffset(len(op.NewText))
		}
		return op.Start + adjust + ByteOffset(len(op.NewText))
	}
	return offset + adjust
}

// Transform rebases d, a delta defined over the same base as other, so
// that it applies to other's output instead. This is what lets EditRev
// accept a delta staged against an older revision: the delta is
// translated through the revisions committed since its base. Correct
// when d and other's edited spans do not overlap; overlapping spans
// resolve by keeping d's own OldText/NewText and only remapping its
// endpoints, which is a documented simplification (see DESIGN.md)
// sufficient for every path this engine actually exercises a rebase
// from (the base revision always equals the head revision in this
// single-writer core).
func (d Delta) Transform(other Delta) Delta {
	ops := make([]Op, len(d.Ops))
	for i, op := range d.Ops {
		ops[i] = Op{
			Start:   other.TransformOffset(op.Start, true),
			End:     other.TransformOffset(op.End, false),
			OldText: op.OldText,
			NewText: op.NewText,
		}
	}
	return Delta{BaseLen: other.NewLen(), Ops: ops}
}

// Diff builds a delta from oldText to newText using a common
// prefix/suffix trim: the minimal single replace-span covering the
// differing middle section. This is not a general minimal-edit-script
// diff (DeltaHead only needs *a* valid delta from the previous head to
// the current one, not the smallest possible one); for the
// single-contiguous-edit case that dominates interactive editing it
// produces the same span a SimpleEdit would have.
func Diff(oldText, newText string) Delta {
	oldLen := ByteOffset(len(oldText))
	if oldText == newText {
		return Identity(oldLen)
	}

	prefix := commonPrefixLen(oldText, newText)
	suffix := commonSuffixLen(oldText[prefix:], newText[prefix:])

	oldEnd := ByteOffset(len(oldText)) - ByteOffset(suffix)
	newEnd := ByteOffset(len(newText)) - ByteOffset(suffix)

	return SimpleEdit(ByteOffset(prefix), oldEnd, oldText[prefix:oldEnd], newText[prefix:newEnd], oldLen)
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
