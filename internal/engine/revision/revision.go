// Package revision implements the revision-tracked document engine:
// a linear history of committed deltas tagged with priority and
// undo-group, a mutable set of masked-off ("undone") groups, and a
// cached head derived from the enabled subsequence of history.
//
// This favors a non-contiguous undo model over a linear command-pattern
// undo stack, grounded on the same sentinel-error and
// mutex-guarded-struct conventions used throughout this module.
package revision

import (
	"fmt"
	"sync"

	"github.com/dshills/vellum/internal/engine/delta"
	"github.com/dshills/vellum/internal/engine/rope"
)

// RevID identifies a revision. It is monotonically increasing; 0 means
// "the empty initial state, before any revision".
type RevID uint64

// UndoGroup names a cluster of revisions toggled together.
type UndoGroup uint64

// DefaultPriority is the priority used by every edit in this
// single-writer core.
const DefaultPriority = 0x10000

// Revision is an immutable entry in the engine's history.
type Revision struct {
	RevID     RevID
	Priority  uint32
	UndoGroup UndoGroup
	Delta     delta.Delta // delta from the previous head to this revision's head
}

// Engine maintains history, the undone-group set, and a cached head.
type Engine struct {
	mu sync.RWMutex

	history   []Revision
	nextRevID RevID

	undone map[UndoGroup]struct{}

	head      rope.Rope
	headRevID RevID

	prevHead  rope.Rope   // exposed head before the last mutation, for DeltaHead
	lastDelta delta.Delta // delta from prevHead to head
}

// New creates an engine whose head is initial and whose history is
// empty; the initial content is not itself a revision.
func New(initial rope.Rope) *Engine {
	return &Engine{
		head:      initial,
		headRevID: 0,
		undone:    make(map[UndoGroup]struct{}),
		prevHead:  initial,
		lastDelta: delta.Identity(initial.Len()),
	}
}

// GetHead returns the current head rope.
func (e *Engine) GetHead() rope.Rope {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.head
}

// GetHeadRevID returns the id of the most recent revision included in
// head.
func (e *Engine) GetHeadRevID() RevID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.headRevID
}

// DeltaHead returns the delta that takes the previously exposed head
// to the current one.
func (e *Engine) DeltaHead() delta.Delta {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastDelta
}

// EditRev appends a new revision built from d, staged against
// baseRevID. If baseRevID equals the current head's revision id the
// delta applies directly; otherwise it is rebased through the
// revisions committed since baseRevID. Returns the new head's RevID.
//
// d must be expressed against the content at baseRevID. Malformed
// deltas (offsets beyond the base length) are a programmer error and
// panic.
func (e *Engine) EditRev(priority uint32, group UndoGroup, baseRevID RevID, d delta.Delta) RevID {
	e.mu.Lock()
	defer e.mu.Unlock()

	if baseRevID != e.headRevID {
		d = e.rebase(baseRevID, d)
	}

	if d.BaseLen != e.head.Len() {
		panic(fmt.Sprintf("revision: delta base length %d does not match head length %d", d.BaseLen, e.head.Len()))
	}

	e.nextRevID++
	rev := Revision{RevID: e.nextRevID, Priority: priority, UndoGroup: group, Delta: d}
	e.history = append(e.history, rev)

	e.prevHead = e.head
	e.head = d.Apply(e.head)
	e.headRevID = rev.RevID
	e.lastDelta = d

	return rev.RevID
}

// rebase translates d (defined against the content as of baseRevID)
// through every revision committed since baseRevID, so it applies to
// the current head instead. baseRevID == 0 means "the empty initial
// rope".
func (e *Engine) rebase(baseRevID RevID, d delta.Delta) delta.Delta {
	startIdx := 0
	if baseRevID != 0 {
		for i, rev := range e.history {
			if rev.RevID == baseRevID {
				startIdx = i + 1
				break
			}
		}
	}
	for _, rev := range e.history[startIdx:] {
		d = d.Transform(rev.Delta)
	}
	return d
}

// Undo replaces the engine's set of undone (masked-off) groups with
// groups and recomputes head. Recomputation equals applying enabled
// revisions from the empty base: the editor above this engine only
// ever grows or shrinks the set of undone groups by a contiguous
// suffix of commit order (every edit immediately following an undo
// resets its edit-type classifier to Other, which always discards the
// redo tail before the next commit), so a revision's delta is always
// defined relative to the sequential replay of exactly the revisions
// enabled at its own commit time, so no transform is needed to skip a
// masked revision here, only to replay the enabled prefix in order.
// See DESIGN.md for the argument in full.
func (e *Engine) Undo(groups map[UndoGroup]struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.undone = cloneSet(groups)
	e.recompute()
}

// Undone returns a copy of the current undone-group set.
func (e *Engine) Undone() map[UndoGroup]struct{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneSet(e.undone)
}

func (e *Engine) recompute() {
	h := rope.New()
	var lastEnabled RevID

	for _, rev := range e.history {
		if _, masked := e.undone[rev.UndoGroup]; masked {
			continue
		}
		h = rev.Delta.Apply(h)
		lastEnabled = rev.RevID
	}

	e.prevHead = e.head
	e.lastDelta = delta.Diff(e.head.String(), h.String())
	e.head = h
	e.headRevID = lastEnabled
}

// GC permanently discards revisions whose undo-group is in groups.
// Those groups can never be re-enabled afterward. GC never removes a
// group that is still reachable from the current undone set unless
// that group is explicitly named in groups; callers (the Editor) are
// responsible for only GC'ing groups they have already evicted from
// their own live-group bookkeeping.
func (e *Engine) GC(groups map[UndoGroup]struct{}) {
	if len(groups) == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	filtered := e.history[:0:0]
	for _, rev := range e.history {
		if _, dead := groups[rev.UndoGroup]; dead {
			continue
		}
		filtered = append(filtered, rev)
	}
	e.history = filtered

	for g := range groups {
		delete(e.undone, g)
	}
}

// History returns a copy of the current revision history, for testing
// and diagnostics.
func (e *Engine) History() []Revision {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Revision, len(e.history))
	copy(out, e.history)
	return out
}

func cloneSet(s map[UndoGroup]struct{}) map[UndoGroup]struct{} {
	out := make(map[UndoGroup]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
