// Package view translates between document byte offsets and visual
// (line, column) coordinates, owns the selection and scroll viewport,
// and produces render payloads for the front-end.
//
// Grounded on internal/renderer/viewport's mutex-guarded Viewport
// struct and functional-option constructor, trimmed of the animation
// fields (velocity, smooth-scroll easing) that a headless core has no
// use for: there is no frame clock driving a render loop here, so
// scrolling is an instantaneous recomputation, not an animated one.
package view

import (
	"github.com/dshills/vellum/internal/engine/delta"
	"github.com/dshills/vellum/internal/engine/rope"
)

// ByteOffset aliases rope.ByteOffset for convenience.
type ByteOffset = rope.ByteOffset

// Range is an ordered [Start, End) byte range.
type Range struct {
	Start, End ByteOffset
}

// Option configures a View at construction time.
type Option func(*View)

// WithScrollHeight sets the number of visible lines.
func WithScrollHeight(lines int) Option {
	return func(v *View) {
		if lines > 0 {
			v.scrollHeight = lines
		}
	}
}

// WithTabWidth sets the display width of a tab character.
func WithTabWidth(width int) Option {
	return func(v *View) {
		if width > 0 {
			v.tabWidth = width
		}
	}
}

// WithWrapWidth sets the soft-wrap column. 0 disables wrapping.
func WithWrapWidth(width int) Option {
	return func(v *View) {
		v.wrapWidth = width
	}
}

// View holds per-tab selection and scroll state. It never owns the
// document text; every method that needs it takes the current rope as
// a parameter, so the View can be trivially reset when a file is
// reloaded (reset_contents) without recomputing anything document
// shaped.
type View struct {
	selStart ByteOffset
	selEnd   ByteOffset

	topLine      uint32
	scrollHeight int
	tabWidth     int
	wrapWidth    int

	// breaks caches soft-wrap break columns per line, keyed by line
	// number. Cleared as a whole (not recomputed) by AfterEdit, Rewrap
	// and Reset; entries are recomputed lazily on next render.
	breaks map[uint32][]int

	testFgSpans []Range
}

// New creates a View with sensible defaults (24 visible lines, 8-wide
// tabs, no wrapping).
func New(opts ...Option) *View {
	v := &View{
		scrollHeight: 24,
		tabWidth:     8,
		breaks:       make(map[uint32][]int),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SelStart returns the selection anchor offset.
func (v *View) SelStart() ByteOffset { return v.selStart }

// SelEnd returns the selection head offset.
func (v *View) SelEnd() ByteOffset { return v.selEnd }

// SelMin returns the lower bound of the selection.
func (v *View) SelMin() ByteOffset {
	if v.selStart < v.selEnd {
		return v.selStart
	}
	return v.selEnd
}

// SelMax returns the upper bound of the selection.
func (v *View) SelMax() ByteOffset {
	if v.selStart > v.selEnd {
		return v.selStart
	}
	return v.selEnd
}

// HasSelection reports whether the selection is non-empty.
func (v *View) HasSelection() bool {
	return v.selStart != v.selEnd
}

// SetSelStart sets the selection anchor directly, leaving the head
// untouched.
func (v *View) SetSelStart(off ByteOffset) { v.selStart = off }

// SetSelEnd sets the selection head directly, leaving the anchor
// untouched.
func (v *View) SetSelEnd(off ByteOffset) { v.selEnd = off }

// Reset clears selection, scroll, and wrap-cache state; used by
// reset_contents when a file load replaces the document wholesale.
func (v *View) Reset() {
	v.selStart = 0
	v.selEnd = 0
	v.topLine = 0
	v.breaks = make(map[uint32][]int)
}

// ScrollHeight returns the number of visible lines.
func (v *View) ScrollHeight() int { return v.scrollHeight }

// TopLine returns the first visible line.
func (v *View) TopLine() uint32 { return v.topLine }

// ScrollBy shifts topLine by dy lines, clamped at 0.
func (v *View) ScrollBy(dy int64) {
	top := int64(v.topLine) + dy
	if top < 0 {
		top = 0
	}
	v.topLine = uint32(top)
}

// ScrollToCursor adjusts topLine so the line containing selEnd is
// visible, mirroring EnsureLineVisible's clamp-to-viewport logic.
func (v *View) ScrollToCursor(text rope.Rope) {
	point := text.OffsetToPoint(v.selEnd)
	line := point.Line

	height := uint32(v.scrollHeight)
	if line < v.topLine {
		v.topLine = line
	} else if line >= v.topLine+height {
		v.topLine = line - height + 1
	}
}

// columnOf returns the display column of offset within its line,
// expanding tabs to tabWidth and counting every other grapheme
// cluster as one column.
func (v *View) columnOf(text rope.Rope, offset ByteOffset) int {
	point := text.OffsetToPoint(offset)
	lineStart := text.LineStartOffset(point.Line)

	col := 0
	pos := lineStart
	for pos < offset {
		next, ok := text.NextGraphemeOffset(pos)
		if !ok || next <= pos {
			break
		}
		if text.Slice(pos, next) == "\t" {
			col += v.tabWidth - (col % v.tabWidth)
		} else {
			col++
		}
		pos = next
	}
	return col
}

// OffsetForColumn walks line's graphemes, stopping at the offset whose
// column is >= col (clamped to line end). Exported for callers (the
// Editor's click/drag handlers) that need to resolve a clicked
// (line, col) to a byte offset.
func (v *View) OffsetForColumn(text rope.Rope, line uint32, col int) ByteOffset {
	return v.offsetForColumn(text, line, col)
}

// offsetForColumn walks line's graphemes, stopping at the offset whose
// column is >= col (clamped to line end).
func (v *View) offsetForColumn(text rope.Rope, line uint32, col int) ByteOffset {
	lineStart := text.LineStartOffset(line)
	lineEnd := text.LineEndOffset(line)

	pos := lineStart
	curCol := 0
	for pos < lineEnd {
		if curCol >= col {
			break
		}
		next, ok := text.NextGraphemeOffset(pos)
		if !ok || next <= pos {
			break
		}
		if text.Slice(pos, next) == "\t" {
			curCol += v.tabWidth - (curCol % v.tabWidth)
		} else {
			curCol++
		}
		pos = next
	}
	return pos
}

// VerticalMotion moves deltaLines lines from the line containing
// selEnd, landing on the grapheme boundary nearest preferredCol on the
// target line (clamped at document ends). A positive deltaLines moves
// down, negative moves up.
func (v *View) VerticalMotion(text rope.Rope, deltaLines int, preferredCol int) ByteOffset {
	point := text.OffsetToPoint(v.selEnd)
	target := int64(point.Line) + int64(deltaLines)

	lastLine := int64(text.LineCount()) - 1
	if lastLine < 0 {
		lastLine = 0
	}
	if target < 0 {
		target = 0
	}
	if target > lastLine {
		target = lastLine
	}

	return v.offsetForColumn(text, uint32(target), preferredCol)
}

// Column returns the display column of offset, for callers (the
// Editor's set_cursor) that need to update the sticky preferred
// column on a hard cursor move.
func (v *View) Column(text rope.Rope, offset ByteOffset) int {
	return v.columnOf(text, offset)
}

// BeforeEdit is called with the text as it stood before the delta is
// applied. Present for symmetry with after_edit and to match the
// contract the Editor drives both calls through; this View's wrap
// cache only needs to react after the edit lands.
func (v *View) BeforeEdit(text rope.Rope, d delta.Delta) {}

// AfterEdit updates cached state to stay consistent with a newly
// committed delta: selection offsets are re-anchored through the
// delta's transform, and the whole wrap-break cache is dropped
// (recomputed lazily by the next render).
func (v *View) AfterEdit(text rope.Rope, d delta.Delta) {
	v.selStart = d.TransformOffset(v.selStart, true)
	v.selEnd = d.TransformOffset(v.selEnd, true)
	v.breaks = make(map[uint32][]int)
}

// LineRender is the display content for a single document line.
type LineRender struct {
	Line   uint32 `json:"line"`
	Text   string `json:"text"`
	Breaks []int  `json:"breaks,omitempty"`
}

// RenderPayload is the opaque-to-the-core structure sent to the
// front-end in an update notification or as a render_lines result.
type RenderPayload struct {
	FirstLine uint32       `json:"first_line"`
	LastLine  uint32       `json:"last_line"`
	Lines     []LineRender `json:"lines"`
	CursorRow uint32       `json:"cursor_row"`
	CursorCol int          `json:"cursor_col"`
	SelStart  ByteOffset   `json:"sel_start"`
	SelEnd    ByteOffset   `json:"sel_end"`
	ScrollTo  *ByteOffset  `json:"scroll_to,omitempty"`
}

// RenderLines produces display content for the contiguous line range
// [first, last], clamped to the document's actual line count.
func (v *View) RenderLines(text rope.Rope, first, last uint32) []LineRender {
	count := text.LineCount()
	if count == 0 {
		return nil
	}
	if last >= count {
		last = count - 1
	}
	if first > last {
		return nil
	}

	out := make([]LineRender, 0, last-first+1)
	for line := first; line <= last; line++ {
		out = append(out, LineRender{
			Line:   line,
			Text:   text.LineText(line),
			Breaks: v.breaksForLine(text, line),
		})
	}
	return out
}

// Render produces a payload describing the current scroll window plus
// cursor and, when scrollTo is non-nil, a scroll request the
// front-end should honor (a hard cursor move).
func (v *View) Render(text rope.Rope, scrollTo *ByteOffset) RenderPayload {
	first := v.topLine
	last := first + uint32(v.scrollHeight) - 1

	point := text.OffsetToPoint(v.selEnd)

	return RenderPayload{
		FirstLine: first,
		LastLine:  last,
		Lines:     v.RenderLines(text, first, last),
		CursorRow: point.Line,
		CursorCol: v.columnOf(text, v.selEnd),
		SelStart:  v.selStart,
		SelEnd:    v.selEnd,
		ScrollTo:  scrollTo,
	}
}

// Rewrap sets the wrap width and drops every cached break position;
// breaks are recomputed lazily, per line, by the next render. A width
// of 0 disables wrapping.
func (v *View) Rewrap(text rope.Rope, width int) {
	v.wrapWidth = width
	v.breaks = make(map[uint32][]int)
}

func (v *View) breaksForLine(text rope.Rope, line uint32) []int {
	if v.wrapWidth <= 0 {
		return nil
	}
	if cached, ok := v.breaks[line]; ok {
		return cached
	}

	lineText := text.LineText(line)
	var result []int
	col := 0
	for i := range lineText {
		if col > 0 && col%v.wrapWidth == 0 {
			result = append(result, i)
		}
		col++
	}
	v.breaks[line] = result
	return result
}

// SetTestFgSpans records spans for a debug foreground-highlight aid
// exercised by debug_test_fg_spans; it has no effect on editing
// semantics.
func (v *View) SetTestFgSpans(spans []Range) {
	v.testFgSpans = spans
}

// TestFgSpans returns the spans last set by SetTestFgSpans.
func (v *View) TestFgSpans() []Range {
	return v.testFgSpans
}
