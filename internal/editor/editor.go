// Package editor implements the stateful per-tab coordinator: it
// receives semantic editing commands, updates selection, stages a
// single pending delta, decides undo-group coalescing, drives the
// revision engine, and asks the View to render.
//
// Grounded on the functional-option construction style used elsewhere
// in this module, paired with the non-contiguous undo-group model of
// internal/engine/revision (DESIGN.md describes the undo-group model).
package editor

import (
	"fmt"
	"os"

	"github.com/dshills/vellum/internal/engine/delta"
	"github.com/dshills/vellum/internal/engine/revision"
	"github.com/dshills/vellum/internal/engine/rope"
	"github.com/dshills/vellum/internal/view"
)

// MaxUndos bounds the number of live undo groups.
const MaxUndos = 20

// ByteOffset aliases rope.ByteOffset for convenience.
type ByteOffset = rope.ByteOffset

// Option configures an Editor at construction time.
type Option func(*Editor)

// WithContent seeds the editor with initial text instead of an empty
// document.
func WithContent(text string) Option {
	return func(e *Editor) {
		e.text = rope.FromString(text)
		e.engine = revision.New(e.text)
	}
}

// WithTabWidth sets the display width of a tab character for the View.
func WithTabWidth(width int) Option {
	return func(e *Editor) {
		e.viewOpts = append(e.viewOpts, view.WithTabWidth(width))
	}
}

// WithScrollHeight sets the View's number of visible lines.
func WithScrollHeight(lines int) Option {
	return func(e *Editor) {
		e.viewOpts = append(e.viewOpts, view.WithScrollHeight(lines))
	}
}

// WithReadOnly marks the editor read-only: a delta staged by a mutating
// command is discarded at commit, so the document never changes; the
// command returns no error.
func WithReadOnly() Option {
	return func(e *Editor) { e.readOnly = true }
}

// Editor is one tab's full editing state. Only the engine is the
// authoritative source of the document; text mirrors engine.GetHead()
// and is refreshed exclusively in updateAfterRevision.
type Editor struct {
	engine *revision.Engine
	text   rope.Rope
	view   *view.View

	viewOpts []view.Option
	readOnly bool

	// Undo-group bookkeeping.
	liveUndos   []revision.UndoGroup
	curUndo     int
	undos       map[revision.UndoGroup]struct{}
	gcUndos     map[revision.UndoGroup]struct{}
	nextGroupID revision.UndoGroup

	thisEditType EditType
	lastEditType EditType

	// col is the sticky preferred column for vertical motion,
	// updated only by a hard cursor move.
	col int

	// Single-pending-delta staging area for the in-flight DoRPC call.
	pendingDelta  *delta.Delta
	pendingCursor *ByteOffset

	dirty    bool
	scrollTo *ByteOffset
}

// New creates an Editor over an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		text:  rope.New(),
		undos: make(map[revision.UndoGroup]struct{}),
	}
	e.engine = revision.New(e.text)
	for _, opt := range opts {
		opt(e)
	}
	e.view = view.New(e.viewOpts...)
	return e
}

// Text returns the editor's current mirrored document.
func (e *Editor) Text() rope.Rope { return e.text }

// View returns the editor's View component.
func (e *Editor) View() *view.View { return e.view }

// Dirty reports whether a command has dirtied this tab since the last
// render.
func (e *Editor) Dirty() bool { return e.dirty }

// beginRPC resets per-call state at the top of every dispatch: the
// edit-type classifier starts at Other before the command runs.
func (e *Editor) beginRPC() {
	e.thisEditType = Other
	e.pendingDelta = nil
	e.pendingCursor = nil
}

// endRPC closes out every dispatch, whether or not it staged a delta:
// it records this call's edit-type classifier as the one the next
// dispatch will compare against for coalescing (so a motion with no
// edit of its own still breaks a coalescing chain), then runs the GC
// sweep for any groups this call's redo-tail truncation discarded.
func (e *Editor) endRPC() {
	e.lastEditType = e.thisEditType

	if len(e.gcUndos) > 0 {
		e.engine.GC(e.gcUndos)
		for g := range e.gcUndos {
			delete(e.undos, g)
		}
		e.gcUndos = nil
	}
}

// addDelta stages d and an optional new cursor position for this
// call's eventual commit. A second staging attempt within the same
// dispatch is dropped with a diagnostic: one user command produces
// one atomic edit.
func (e *Editor) addDelta(d delta.Delta, newCursor *ByteOffset) {
	if e.pendingDelta != nil {
		fmt.Fprintf(os.Stderr, "editor: dropping second delta staged within one command\n")
		return
	}
	e.pendingDelta = &d
	e.pendingCursor = newCursor
}

// commitDelta runs the full commit protocol for whatever delta this
// call staged, if any. No-op when nothing was staged.
func (e *Editor) commitDelta() {
	if e.readOnly {
		e.pendingDelta = nil
		e.pendingCursor = nil
		return
	}
	if e.pendingDelta == nil {
		return
	}
	d := *e.pendingDelta
	cursor := e.pendingCursor
	e.pendingDelta = nil
	e.pendingCursor = nil

	headRevID := e.engine.GetHeadRevID()
	group := e.decideUndoGroup()

	e.engine.EditRev(revision.DefaultPriority, group, headRevID, d)
	e.updateAfterRevision()

	if cursor != nil {
		e.setCursor(*cursor, true)
	}
}

// decideUndoGroup decides whether this edit coalesces into the
// previous undo group, starts a new one, discards a redo tail, or
// evicts the oldest group once MaxUndos is reached.
func (e *Editor) decideUndoGroup() revision.UndoGroup {
	if e.thisEditType == e.lastEditType &&
		e.thisEditType != Other && e.thisEditType != Select &&
		len(e.liveUndos) > 0 {
		return e.liveUndos[len(e.liveUndos)-1]
	}

	// Discard the redo tail.
	if e.curUndo < len(e.liveUndos) {
		if e.gcUndos == nil {
			e.gcUndos = make(map[revision.UndoGroup]struct{})
		}
		for _, g := range e.liveUndos[e.curUndo:] {
			e.gcUndos[g] = struct{}{}
		}
		e.liveUndos = e.liveUndos[:e.curUndo]
	}

	e.nextGroupID++
	group := e.nextGroupID

	if len(e.liveUndos) >= MaxUndos {
		if e.gcUndos == nil {
			e.gcUndos = make(map[revision.UndoGroup]struct{})
		}
		e.gcUndos[e.liveUndos[0]] = struct{}{}
		e.liveUndos = e.liveUndos[1:]
		e.curUndo--
	}

	e.liveUndos = append(e.liveUndos, group)
	e.curUndo++

	return group
}

// updateAfterRevision refreshes the mirrored text and notifies the
// View of the committed delta.
func (e *Editor) updateAfterRevision() {
	d := e.engine.DeltaHead()
	e.view.BeforeEdit(e.text, d)
	e.text = e.engine.GetHead()
	e.view.AfterEdit(e.text, d)
	e.dirty = true
}

// Undo undoes the most recent live undo-group, if any (a no-op when
// history is empty).
func (e *Editor) Undo() {
	e.beginRPC()
	defer e.endRPC()

	if e.curUndo > 0 {
		e.curUndo--
		e.undos[e.liveUndos[e.curUndo]] = struct{}{}
		e.engine.Undo(e.undos)
		e.updateAfterRevision()
		e.view.ScrollToCursor(e.text)
	}
}

// Redo re-enables the next undone group, if any.
func (e *Editor) Redo() {
	e.beginRPC()
	defer e.endRPC()

	if e.curUndo < len(e.liveUndos) {
		delete(e.undos, e.liveUndos[e.curUndo])
		e.curUndo++
		e.engine.Undo(e.undos)
		e.updateAfterRevision()
		e.view.ScrollToCursor(e.text)
	}
}

// LiveUndoCount exposes the number of live undo groups, for tests of
// the undo-bookkeeping invariants.
func (e *Editor) LiveUndoCount() int { return len(e.liveUndos) }

// CurUndo exposes cur_undo, for property tests.
func (e *Editor) CurUndo() int { return e.curUndo }

// setCursor moves the cursor to off. hard marks a deliberate jump
// (horizontal moves, line and document ends, clicks, the cursor an
// edit of this editor leaves behind) rather than a transform riding along
// with someone else's edit: only a hard move updates the sticky
// preferred column and requests a scroll-into-view.
func (e *Editor) setCursor(off ByteOffset, hard bool) {
	if e.thisEditType != Select {
		e.view.SetSelStart(off)
	}
	e.view.SetSelEnd(off)
	if hard {
		e.scrollTo = &off
		e.col = e.view.Column(e.text, off)
	}
	e.view.ScrollToCursor(e.text)
	e.dirty = true
}

// TakeRenderPayload returns the render payload for this tab if it is
// dirty, clearing the dirty flag and pending scroll request. Returns
// (payload, false) when nothing needs rendering.
func (e *Editor) TakeRenderPayload() (view.RenderPayload, bool) {
	if !e.dirty {
		return view.RenderPayload{}, false
	}
	payload := e.view.Render(e.text, e.scrollTo)
	e.dirty = false
	e.scrollTo = nil
	return payload, true
}

// RenderLines answers the render_lines RPC method directly (it always
// returns a result and never dirties the tab on its own).
func (e *Editor) RenderLines(first, last uint32) view.RenderPayload {
	return view.RenderPayload{
		FirstLine: first,
		LastLine:  last,
		Lines:     e.view.RenderLines(e.text, first, last),
	}
}

// DebugRewrap answers debug_rewrap.
func (e *Editor) DebugRewrap(width int) {
	e.view.Rewrap(e.text, width)
	e.dirty = true
}

// DebugTestFgSpans answers debug_test_fg_spans.
func (e *Editor) DebugTestFgSpans(spans []view.Range) {
	e.view.SetTestFgSpans(spans)
}
