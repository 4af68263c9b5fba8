package rope

import "unicode/utf8"

// ByteOffset is an absolute byte position within a rope.
type ByteOffset uint64

// Point is a 0-indexed line/column position.
type Point struct {
	Line   uint32
	Column uint32
}

// TextSummary is the monoid every node's metrics are built from:
// Add combines two adjacent spans' summaries into the summary of their
// concatenation, so a subtree's summary is always derivable from its
// children without rescanning text.
type TextSummary struct {
	Bytes        ByteOffset
	UTF16Units   uint64
	Lines        uint32
	LongestLine  uint32
	FirstLineLen uint32
	LastLineLen  uint32
	Flags        TextFlags
}

// TextFlags are cheap fast-path hints computed alongside the summary.
type TextFlags uint8

const (
	FlagASCII TextFlags = 1 << iota
	FlagHasNewlines
	FlagHasTabs
)

// Add returns the summary of s followed by other. The tricky part is
// line-length bookkeeping: other's first line continues s's last line
// only when other itself has no newline yet, and the identity-element
// short-circuits let Add double as the monoid's zero-preserving merge.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	out := TextSummary{
		Bytes:      s.Bytes + other.Bytes,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Lines:      s.Lines + other.Lines,
		Flags:      s.Flags & other.Flags,
	}

	if other.Lines > 0 {
		out.LongestLine = max(s.LongestLine, other.LongestLine)
		out.FirstLineLen = s.FirstLineLen
		out.LastLineLen = other.LastLineLen
	} else {
		joinedLine := s.LastLineLen + other.LastLineLen
		out.LongestLine = max(s.LongestLine, joinedLine)
		if s.Lines == 0 {
			out.FirstLineLen = joinedLine
		} else {
			out.FirstLineLen = s.FirstLineLen
		}
		out.LastLineLen = joinedLine
	}

	if s.Flags&FlagHasNewlines != 0 || other.Flags&FlagHasNewlines != 0 {
		out.Flags |= FlagHasNewlines
	}
	if s.Flags&FlagHasTabs != 0 || other.Flags&FlagHasTabs != 0 {
		out.Flags |= FlagHasTabs
	}

	return out
}

// Zero is the summary monoid's identity element.
func (TextSummary) Zero() TextSummary {
	return TextSummary{Flags: FlagASCII}
}

// IsZero reports whether s is the identity summary (an empty span).
func (s TextSummary) IsZero() bool { return s.Bytes == 0 }

// ComputeSummary scans s once, producing its TextSummary from scratch.
// Only chunk construction calls this; everything above chunk level
// derives summaries via Add instead of rescanning.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	sum := TextSummary{Bytes: ByteOffset(len(s)), Flags: FlagASCII}

	var curLineLen uint32
	for _, r := range s {
		if r <= 0xFFFF {
			sum.UTF16Units++
		} else {
			sum.UTF16Units += 2
		}

		if r > 127 {
			sum.Flags &^= FlagASCII
		}

		if r != '\n' {
			curLineLen += uint32(utf8.RuneLen(r))
			if r == '\t' {
				sum.Flags |= FlagHasTabs
			}
			continue
		}

		sum.Lines++
		if curLineLen > sum.LongestLine {
			sum.LongestLine = curLineLen
		}
		if sum.Lines == 1 {
			sum.FirstLineLen = curLineLen
		}
		sum.Flags |= FlagHasNewlines
		curLineLen = 0
	}

	sum.LastLineLen = curLineLen
	if sum.Lines == 0 {
		sum.FirstLineLen = curLineLen
		sum.LongestLine = curLineLen
	} else if curLineLen > sum.LongestLine {
		sum.LongestLine = curLineLen
	}

	return sum
}

// CountLines counts newline bytes in s.
func CountLines(s string) uint32 {
	var n uint32
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

// FindNthNewline returns the byte offset of s's n-th newline (1-indexed),
// or -1 if s has fewer than n of them.
func FindNthNewline(s string, n uint32) int {
	if n == 0 {
		return -1
	}
	var seen uint32
	for i, c := range s {
		if c != '\n' {
			continue
		}
		seen++
		if seen == n {
			return i
		}
	}
	return -1
}

// OffsetToLineColumn converts a byte offset within s to a line/column
// point by scanning every byte up to offset; callers on a large rope
// should prefer the tree-level OffsetToPoint instead.
func OffsetToLineColumn(s string, offset int) Point {
	if offset <= 0 {
		return Point{}
	}
	if offset >= len(s) {
		offset = len(s)
	}

	var line uint32
	lastNewline := -1
	for i, c := range s[:offset] {
		if c == '\n' {
			line++
			lastNewline = i
		}
	}

	return Point{Line: line, Column: uint32(offset - lastNewline - 1)}
}
