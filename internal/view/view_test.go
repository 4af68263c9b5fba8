package view

import (
	"testing"

	"github.com/dshills/vellum/internal/engine/delta"
	"github.com/dshills/vellum/internal/engine/rope"
)

func TestSelMinMaxOrdersRegardlessOfDirection(t *testing.T) {
	v := New()
	v.SetSelStart(10)
	v.SetSelEnd(3)
	if got := v.SelMin(); got != 3 {
		t.Fatalf("SelMin() = %d, want 3", got)
	}
	if got := v.SelMax(); got != 10 {
		t.Fatalf("SelMax() = %d, want 10", got)
	}
	if !v.HasSelection() {
		t.Fatalf("HasSelection() = false, want true")
	}
}

func TestResetClearsSelectionAndScroll(t *testing.T) {
	v := New()
	v.SetSelStart(5)
	v.SetSelEnd(9)
	v.ScrollBy(20)
	v.Reset()

	if v.HasSelection() {
		t.Fatalf("HasSelection() = true after Reset")
	}
	if got := v.TopLine(); got != 0 {
		t.Fatalf("TopLine() = %d after Reset, want 0", got)
	}
}

func TestScrollByClampsAtZero(t *testing.T) {
	v := New()
	v.ScrollBy(-5)
	if got := v.TopLine(); got != 0 {
		t.Fatalf("TopLine() = %d, want 0 (clamped)", got)
	}
	v.ScrollBy(3)
	if got := v.TopLine(); got != 3 {
		t.Fatalf("TopLine() = %d, want 3", got)
	}
}

func TestColumnRoundTripsThroughOffsetForColumn(t *testing.T) {
	v := New()
	text := rope.FromString("hello world\nsecond line\n")

	for _, col := range []int{0, 3, 11} {
		off := v.OffsetForColumn(text, 0, col)
		got := v.Column(text, off)
		if got != col {
			t.Errorf("Column(OffsetForColumn(0, %d)) = %d, want %d", col, got, col)
		}
	}
}

func TestOffsetForColumnClampsAtLineEnd(t *testing.T) {
	v := New()
	text := rope.FromString("hi\nbye\n")
	off := v.OffsetForColumn(text, 0, 1000)
	if got := v.Column(text, off); got != 2 {
		t.Fatalf("Column() = %d, want 2 (clamped to line length)", got)
	}
}

func TestVerticalMotionPreservesColumn(t *testing.T) {
	v := New()
	text := rope.FromString("hello\nhi\nworld\n")

	// Moving from line 0 down two lines lands on line 2 ("world", 5
	// chars): wide enough that the preferred column of 4 survives
	// without clamping.
	off := v.VerticalMotion(text, 2, 4)
	got := v.Column(text, off)
	if got != 4 {
		t.Fatalf("Column() after two-line vertical motion = %d, want 4", got)
	}
}

func TestVerticalMotionClampsAtDocumentBounds(t *testing.T) {
	v := New()
	text := rope.FromString("a\nb\nc\n")

	off := v.VerticalMotion(text, -100, 0)
	if off != text.LineStartOffset(0) {
		t.Fatalf("VerticalMotion up past start = %d, want line 0 start", off)
	}

	off = v.VerticalMotion(text, 100, 0)
	lastLine := text.LineCount() - 1
	if off < text.LineStartOffset(lastLine) {
		t.Fatalf("VerticalMotion down past end = %d, want within the last line", off)
	}
}

func TestRenderLinesClampsToDocumentLineCount(t *testing.T) {
	v := New()
	text := rope.FromString("one\ntwo\nthree\n")

	lines := v.RenderLines(text, 0, 100)
	if got := len(lines); got != int(text.LineCount()) {
		t.Fatalf("RenderLines returned %d lines, want %d", got, text.LineCount())
	}
}

func TestAfterEditTransformsSelection(t *testing.T) {
	v := New()
	text := rope.FromString("hello world")
	v.SetSelStart(6)
	v.SetSelEnd(6)

	d := delta.SimpleEdit(0, 0, "", "XXX", text.Len())
	v.AfterEdit(text, d)

	if got := v.SelEnd(); got != 9 {
		t.Fatalf("SelEnd() after edit = %d, want 9", got)
	}
}

func TestRewrapInvalidatesBreakCache(t *testing.T) {
	v := New()
	text := rope.FromString("abcdefghij\n")
	v.Rewrap(text, 4)

	lines := v.RenderLines(text, 0, 0)
	if len(lines) != 1 {
		t.Fatalf("RenderLines returned %d lines, want 1", len(lines))
	}
	if len(lines[0].Breaks) == 0 {
		t.Fatalf("expected wrap breaks at width 4 for a 10-char line")
	}

	v.Rewrap(text, 0)
	lines = v.RenderLines(text, 0, 0)
	if len(lines[0].Breaks) != 0 {
		t.Fatalf("expected no breaks once wrapping is disabled")
	}
}
