package editor

import (
	"fmt"
	"os"

	"github.com/dshills/vellum/internal/engine/revision"
	"github.com/dshills/vellum/internal/engine/rope"
)

// Open implements open(path): reads the entire file and replaces the
// document wholesale via resetContents, discarding undo history. A
// read failure is logged and leaves state unchanged.
func (e *Editor) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "editor: open %q: %v\n", path, err)
		return err
	}
	e.resetContents(rope.FromString(string(data)))
	return nil
}

// resetContents replaces the engine with a fresh one over content,
// bypassing edit_rev entirely: no revision is appended, so no undo
// history survives a file load.
func (e *Editor) resetContents(content rope.Rope) {
	e.text = content
	e.engine = revision.New(content)
	e.liveUndos = nil
	e.curUndo = 0
	e.undos = make(map[revision.UndoGroup]struct{})
	e.gcUndos = nil
	e.nextGroupID = 0
	e.thisEditType = Other
	e.lastEditType = Other
	e.col = 0
	e.view.Reset()
	e.dirty = true
}

// Save implements save(path): streams the rope's chunks to the file.
// A per-chunk write failure aborts the save, leaving a possibly
// partial file on disk.
func (e *Editor) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "editor: save %q: %v\n", path, err)
		return err
	}
	defer f.Close()

	chunks := e.text.Chunks()
	for chunks.Next() {
		if _, err := f.WriteString(chunks.Chunk().String()); err != nil {
			fmt.Fprintf(os.Stderr, "editor: save %q: %v\n", path, err)
			return err
		}
	}
	return nil
}
