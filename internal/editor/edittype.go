package editor

// EditType classifies the most recent command solely to decide
// undo-group coalescing. It is reset to Other at the start of every
// dispatch; "streaming" handlers (Insert, Delete) set it before
// committing, and motions that widen selection set Select.
type EditType uint8

const (
	// Other is the default: never coalesces with a neighboring edit.
	Other EditType = iota
	// Select marks a selection-widening motion; never coalesces.
	Select
	// InsertChars marks a character-insertion edit; coalesces with a
	// preceding InsertChars edit into one undo group.
	InsertChars
	// Delete marks a deletion edit; coalesces with a preceding Delete
	// edit into one undo group.
	Delete
)

func (t EditType) String() string {
	switch t {
	case Select:
		return "select"
	case InsertChars:
		return "insert_chars"
	case Delete:
		return "delete"
	default:
		return "other"
	}
}
