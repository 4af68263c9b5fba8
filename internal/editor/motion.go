package editor

import (
	"github.com/dshills/vellum/internal/engine/delta"
)

// Move implements the move RPC method's supported motions.
// modifySelection widens the selection instead of collapsing it to a
// bare cursor.
func (e *Editor) Move(motion string, modifySelection bool) error {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()

	if modifySelection {
		e.thisEditType = Select
	}

	switch motion {
	case "prev_char":
		e.moveHorizontal(-1, modifySelection)
	case "next_char":
		e.moveHorizontal(1, modifySelection)
	case "prev_line":
		e.moveVertical(-1, modifySelection)
	case "next_line":
		e.moveVertical(1, modifySelection)
	case "start_of_line":
		point := e.text.OffsetToPoint(e.view.SelEnd())
		e.moveTo(e.text.LineStartOffset(point.Line), modifySelection, true)
	case "end_of_line":
		e.moveTo(e.endOfLineOffset(e.view.SelEnd()), modifySelection, true)
	case "start_of_document":
		e.moveTo(0, modifySelection, true)
	case "end_of_document":
		e.moveTo(e.text.Len(), modifySelection, true)
	default:
		return ErrUnknownMotion
	}
	return nil
}

// endOfLineOffset returns the grapheme boundary just before the start
// of the next line, clamped to the document end.
func (e *Editor) endOfLineOffset(from ByteOffset) ByteOffset {
	point := e.text.OffsetToPoint(from)
	if point.Line+1 >= e.text.LineCount() {
		return e.text.Len()
	}
	nextStart := e.text.LineStartOffset(point.Line + 1)
	if prev, ok := e.text.PrevGraphemeOffset(nextStart); ok {
		return prev
	}
	return nextStart
}

// moveHorizontal implements the horizontal-motion collapse-on-selection
// rule: with a live selection and a command that is not itself
// widening the selection, left/right collapse to sel_min/sel_max
// instead of moving by a grapheme.
func (e *Editor) moveHorizontal(dir int, modifySelection bool) {
	if !modifySelection && e.view.HasSelection() {
		if dir < 0 {
			e.moveTo(e.view.SelMin(), false, true)
		} else {
			e.moveTo(e.view.SelMax(), false, true)
		}
		return
	}

	off := e.view.SelEnd()
	var next ByteOffset
	var ok bool
	if dir < 0 {
		next, ok = e.text.PrevGraphemeOffset(off)
	} else {
		next, ok = e.text.NextGraphemeOffset(off)
	}
	if !ok {
		next = off
	}
	e.moveTo(next, modifySelection, true)
}

// pageLines returns the page-motion line count, computed once rather
// than recomputed for each caller.
func (e *Editor) pageLines() int {
	n := e.view.ScrollHeight() - 2
	if n < 1 {
		n = 1
	}
	return n
}

func (e *Editor) moveVertical(lines int, modifySelection bool) {
	off := e.view.VerticalMotion(e.text, lines, e.col)
	e.moveTo(off, modifySelection, false)
}

// moveTo implements set_cursor(off, modifySelection-aware, hard).
func (e *Editor) moveTo(off ByteOffset, modifySelection bool, hard bool) {
	if modifySelection {
		e.thisEditType = Select
	}
	e.setCursor(off, hard)
}

// ScrollPageUp implements scroll_page_up.
func (e *Editor) ScrollPageUp() {
	e.beginRPC()
	defer e.endRPC()
	e.pageMove(-e.pageLines(), false)
}

// ScrollPageDown implements scroll_page_down.
func (e *Editor) ScrollPageDown() {
	e.beginRPC()
	defer e.endRPC()
	e.pageMove(e.pageLines(), false)
}

// PageUpAndModifySelection implements page_up_and_modify_selection.
func (e *Editor) PageUpAndModifySelection() {
	e.beginRPC()
	defer e.endRPC()
	e.pageMove(-e.pageLines(), true)
}

// PageDownAndModifySelection implements page_down_and_modify_selection.
func (e *Editor) PageDownAndModifySelection() {
	e.beginRPC()
	defer e.endRPC()
	e.pageMove(e.pageLines(), true)
}

func (e *Editor) pageMove(lines int, modifySelection bool) {
	off := e.view.VerticalMotion(e.text, lines, e.col)
	e.moveTo(off, modifySelection, false)

	scrollOff := off
	e.scrollTo = &scrollOff
	e.dirty = true
}

// Scroll implements the scroll RPC method: move the viewport by
// (dx, dy) without touching the cursor. Horizontal scroll is accepted
// but has no effect since the View renders full logical lines rather
// than a fixed-width window.
func (e *Editor) Scroll(dx, dy int64) {
	_ = dx
	e.view.ScrollBy(dy)
	e.dirty = true
}

// Click implements click: set the cursor hard at the clicked
// (line, col). click_count is accepted (so malformed-params detection
// still fires upstream) but has no behavioral effect: multi-click
// word/line selection is not implemented.
func (e *Editor) Click(line, col uint32, flags uint64, count uint64) {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()
	_ = flags
	_ = count
	off := e.offsetForLineCol(line, col)
	e.moveTo(off, false, true)
}

// Drag implements drag: always modifies the selection.
func (e *Editor) Drag(line, col uint32, flags uint64) {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()
	_ = flags
	e.thisEditType = Select
	off := e.offsetForLineCol(line, col)
	e.moveTo(off, true, true)
}

func (e *Editor) offsetForLineCol(line, col uint32) ByteOffset {
	count := e.text.LineCount()
	if count == 0 {
		return 0
	}
	if line >= count {
		line = count - 1
	}
	return e.view.OffsetForColumn(e.text, line, int(col))
}

// Insert implements insert: stage chars as an insertion at the
// current selection, replacing it if non-empty.
func (e *Editor) Insert(chars string) {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()
	e.insert(chars)
}

func (e *Editor) insert(chars string) {
	if chars == "" {
		return
	}
	start, end := e.view.SelMin(), e.view.SelMax()
	old := e.text.Slice(start, end)
	e.thisEditType = InsertChars
	newCursor := start + ByteOffset(len(chars))
	e.addDelta(delta.SimpleEdit(start, end, old, chars, e.text.Len()), &newCursor)
}

// InsertNewline implements insert_newline: the same path as a literal
// "\n" insertion ("\r" from the key method is translated to this call
// rather than inserted as a literal carriage-return byte).
func (e *Editor) InsertNewline() {
	e.Insert("\n")
}

// Delete implements the delete RPC method over the same motion-string
// vocabulary as move. Only prev_char, next_char, and start_of_line have
// a defined deletion behavior; the rest (prev_line, next_line,
// start_of_document, end_of_document) are rejected so the dispatcher
// can surface them as a protocol-level "not implemented" rather than a
// silent no-op.
func (e *Editor) Delete(motion string) error {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()

	switch motion {
	case "prev_char":
		e.deleteBackward()
	case "next_char":
		e.deleteForward()
	case "start_of_line":
		e.deleteToBeginningOfLine()
	case "prev_line", "next_line", "start_of_document", "end_of_document":
		return ErrNotImplemented
	default:
		return ErrUnknownMotion
	}
	return nil
}

func (e *Editor) deleteSelection() bool {
	if !e.view.HasSelection() {
		return false
	}
	start, end := e.view.SelMin(), e.view.SelMax()
	old := e.text.Slice(start, end)
	e.thisEditType = Delete
	cursor := start
	e.addDelta(delta.SimpleEdit(start, end, old, "", e.text.Len()), &cursor)
	return true
}

func (e *Editor) deleteBackward() {
	if e.deleteSelection() {
		return
	}
	end := e.view.SelEnd()
	start, ok := e.text.PrevCodepointOffset(end)
	if !ok {
		return
	}
	old := e.text.Slice(start, end)
	e.thisEditType = Delete
	cursor := start
	e.addDelta(delta.SimpleEdit(start, end, old, "", e.text.Len()), &cursor)
}

func (e *Editor) deleteForward() {
	if e.deleteSelection() {
		return
	}
	start := e.view.SelEnd()
	end, ok := e.text.NextGraphemeOffset(start)
	if !ok {
		return
	}
	old := e.text.Slice(start, end)
	e.thisEditType = Delete
	cursor := start
	e.addDelta(delta.SimpleEdit(start, end, old, "", e.text.Len()), &cursor)
}

func (e *Editor) deleteToBeginningOfLine() {
	end := e.view.SelEnd()
	point := e.text.OffsetToPoint(end)
	start := e.text.LineStartOffset(point.Line)
	if start == end {
		return
	}
	old := e.text.Slice(start, end)
	e.thisEditType = Delete
	cursor := start
	e.addDelta(delta.SimpleEdit(start, end, old, "", e.text.Len()), &cursor)
}

// DeleteToEndOfParagraph implements delete_to_end_of_paragraph: deletes
// from sel_max to the end-of-line offset; if sel_max is already at that
// offset, deletes the following grapheme instead.
// The removed text is written to the kill-ring.
func (e *Editor) DeleteToEndOfParagraph(kr *KillRing) {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()

	start := e.view.SelMax()
	lineEnd := e.endOfLineOffsetForKill(start)

	end := lineEnd
	if start == end {
		next, ok := e.text.NextGraphemeOffset(start)
		if !ok {
			return
		}
		end = next
	}

	old := e.text.Slice(start, end)
	if old == "" {
		return
	}
	kr.Set(old)
	e.thisEditType = Delete
	cursor := start
	e.addDelta(delta.SimpleEdit(start, end, old, "", e.text.Len()), &cursor)
}

// endOfLineOffsetForKill mirrors cursor_end_offset: the end-of-line
// offset without the grapheme-before-newline back-off that
// endOfLineOffset uses for cursor placement.
func (e *Editor) endOfLineOffsetForKill(from ByteOffset) ByteOffset {
	point := e.text.OffsetToPoint(from)
	return e.text.LineEndOffset(point.Line)
}

// Cut implements cut: stage a delete of the selection and return its
// text, or nil if the selection was empty.
func (e *Editor) Cut(kr *KillRing) *string {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()

	if !e.view.HasSelection() {
		return nil
	}
	start, end := e.view.SelMin(), e.view.SelMax()
	text := e.text.Slice(start, end)
	kr.Set(text)
	e.thisEditType = Delete
	cursor := start
	e.addDelta(delta.SimpleEdit(start, end, text, "", e.text.Len()), &cursor)
	return &text
}

// Copy implements copy: return the selected text, or nil. Never
// stages a delta.
func (e *Editor) Copy() *string {
	if !e.view.HasSelection() {
		return nil
	}
	text := e.text.Slice(e.view.SelMin(), e.view.SelMax())
	return &text
}

// Yank implements yank: insert the kill-ring's contents at the
// current selection, replacing it.
func (e *Editor) Yank(kr *KillRing) {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()
	e.insert(kr.Get())
}

// Transpose implements transpose: swap the graphemes on either side of
// sel_end. At end of document, swap the two preceding graphemes
// instead.
func (e *Editor) Transpose() {
	e.beginRPC()
	defer func() {
		e.commitDelta()
		e.endRPC()
	}()

	end := e.view.SelEnd()
	docEnd := e.text.Len()

	var start, middle ByteOffset
	if end >= docEnd {
		middle = end
		prev1, ok := e.text.PrevGraphemeOffset(middle)
		if !ok {
			return
		}
		prev2, ok := e.text.PrevGraphemeOffset(prev1)
		if !ok {
			return
		}
		start, middle, end = prev2, prev1, middle
	} else {
		next, ok := e.text.NextGraphemeOffset(end)
		if !ok {
			return
		}
		prev, ok := e.text.PrevGraphemeOffset(end)
		if !ok {
			return
		}
		start, middle, end = prev, end, next
	}

	old := e.text.Slice(start, end)
	newText := e.text.Slice(middle, end) + e.text.Slice(start, middle)
	e.thisEditType = Other
	cursor := end
	e.addDelta(delta.SimpleEdit(start, end, old, newText, e.text.Len()), &cursor)
}
