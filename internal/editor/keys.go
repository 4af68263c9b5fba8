package editor

// Private-use-area code points assigned to non-printable keys
// delivered through the key RPC method. Named after their
// NSEvent-derived origin.
const (
	keyUp        = rune(0xF700)
	keyDown      = rune(0xF701)
	keyLeft      = rune(0xF702)
	keyRight     = rune(0xF703)
	keyPageUp    = rune(0xF72C)
	keyPageDown  = rune(0xF72D)
	keyDebugWrap = rune(0xF704)
	keyDebugFg   = rune(0xF705)
)

const modifySelectionFlag = uint64(2)

// Key implements the key RPC method: chars is either a single special
// code point or literal text to insert. flags bit 1 (value 2) means
// "modify_selection".
func (e *Editor) Key(chars string, flags uint64) error {
	modify := flags&modifySelectionFlag != 0

	if chars == "\r" {
		e.InsertNewline()
		return nil
	}
	if chars == "\x7f" {
		return e.Delete("prev_char")
	}

	runes := []rune(chars)
	if len(runes) == 1 {
		switch runes[0] {
		case keyUp:
			return e.Move("prev_line", modify)
		case keyDown:
			return e.Move("next_line", modify)
		case keyLeft:
			return e.Move("prev_char", modify)
		case keyRight:
			return e.Move("next_char", modify)
		case keyPageUp:
			if modify {
				e.PageUpAndModifySelection()
			} else {
				e.ScrollPageUp()
			}
			return nil
		case keyPageDown:
			if modify {
				e.PageDownAndModifySelection()
			} else {
				e.ScrollPageDown()
			}
			return nil
		case keyDebugWrap:
			e.DebugRewrap(0)
			return nil
		case keyDebugFg:
			e.DebugTestFgSpans(nil)
			return nil
		}
	}

	e.Insert(chars)
	return nil
}
