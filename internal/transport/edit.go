package transport

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/vellum/internal/dispatcher"
	"github.com/dshills/vellum/internal/editor"
	"github.com/dshills/vellum/internal/view"
)

// dispatchEdit implements the edit-method table, translating decoded
// JSON params into calls on e's typed methods. hasResult reports
// whether a response value exists (render_lines, cut, copy); every
// other method returns (nil, false, err).
func dispatchEdit(e *editor.Editor, tabs *dispatcher.Tabs, method string, params gjson.Result) (result any, hasResult bool, err error) {
	switch method {
	case "render_lines":
		first := params.Get("first_line").Uint()
		last := params.Get("last_line").Uint()
		return e.RenderLines(uint32(first), uint32(last)), true, nil

	case "key":
		chars := params.Get("chars").String()
		flags := params.Get("flags").Uint()
		return nil, false, e.Key(chars, flags)

	case "insert":
		e.Insert(params.Get("chars").String())
		return nil, false, nil

	case "insert_newline":
		e.InsertNewline()
		return nil, false, nil

	case "delete":
		return nil, false, e.Delete(params.Get("motion").String())

	case "delete_to_end_of_paragraph":
		e.DeleteToEndOfParagraph(tabs.KillRing())
		return nil, false, nil

	case "move":
		motion := params.Get("motion").String()
		modify := params.Get("modify_selection").Bool()
		return nil, false, e.Move(motion, modify)

	case "scroll_page_up":
		e.ScrollPageUp()
		return nil, false, nil

	case "scroll_page_down":
		e.ScrollPageDown()
		return nil, false, nil

	case "page_up_and_modify_selection":
		e.PageUpAndModifySelection()
		return nil, false, nil

	case "page_down_and_modify_selection":
		e.PageDownAndModifySelection()
		return nil, false, nil

	case "open":
		return nil, false, e.Open(params.Get("filename").String())

	case "save":
		return nil, false, e.Save(params.Get("filename").String())

	case "scroll":
		arr := params.Array()
		if len(arr) != 2 {
			return nil, false, fmt.Errorf("scroll: expected [dx, dy]")
		}
		e.Scroll(arr[0].Int(), arr[1].Int())
		return nil, false, nil

	case "yank":
		e.Yank(tabs.KillRing())
		return nil, false, nil

	case "transpose":
		e.Transpose()
		return nil, false, nil

	case "undo":
		e.Undo()
		return nil, false, nil

	case "redo":
		e.Redo()
		return nil, false, nil

	case "click":
		arr := params.Array()
		if len(arr) != 4 {
			return nil, false, fmt.Errorf("click: expected [line, col, flags, count]")
		}
		e.Click(uint32(arr[0].Uint()), uint32(arr[1].Uint()), arr[2].Uint(), arr[3].Uint())
		return nil, false, nil

	case "drag":
		arr := params.Array()
		if len(arr) != 3 {
			return nil, false, fmt.Errorf("drag: expected [line, col, flags]")
		}
		e.Drag(uint32(arr[0].Uint()), uint32(arr[1].Uint()), arr[2].Uint())
		return nil, false, nil

	case "cut":
		return refOrNil(e.Cut(tabs.KillRing())), true, nil

	case "copy":
		return refOrNil(e.Copy()), true, nil

	case "debug_rewrap":
		e.DebugRewrap(int(params.Get("width").Int()))
		return nil, false, nil

	case "debug_test_fg_spans":
		e.DebugTestFgSpans([]view.Range{})
		return nil, false, nil

	default:
		return nil, false, fmt.Errorf("unknown edit method %q", method)
	}
}

// refOrNil converts a possibly-nil *string to an any suitable for
// setResult: a present string, or an explicit nil so the response
// encodes a JSON null rather than being silently omitted.
func refOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
