// Package transport implements the stdio line-delimited JSON-RPC
// surface: one request per input line, one response-or-notification
// per output line. Decoding uses github.com/tidwall/gjson for
// zero-allocation field extraction (the params shape varies per
// method, so there is no single fixed Go struct to unmarshal into);
// encoding uses github.com/tidwall/sjson to assemble the reply
// envelope around a marshaled payload.
package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/vellum/internal/diag"
	"github.com/dshills/vellum/internal/dispatcher"
	"github.com/dshills/vellum/internal/view"
)

// Server reads requests from in and writes responses/notifications to
// out, one per line, forwarding edit commands to tabs.
type Server struct {
	tabs *dispatcher.Tabs
	in   *bufio.Scanner
	out  *bufio.Writer
}

// New creates a Server wired to in/out and a fresh tab registry.
func New(in io.Reader, out io.Writer, opts ...dispatcher.Option) *Server {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Server{
		tabs: dispatcher.NewTabs(opts...),
		in:   scanner,
		out:  bufio.NewWriter(out),
	}
}

// Run services requests until the input stream is exhausted or
// returns an error. Each request is fully processed, single-threaded,
// one at a time, before the next is read.
func (s *Server) Run() error {
	for s.in.Scan() {
		line := s.in.Bytes()
		if len(line) == 0 {
			continue
		}
		s.handleLine(line)
	}
	if err := s.in.Err(); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) handleLine(line []byte) {
	if !gjson.ValidBytes(line) {
		diag.Warnf("transport: malformed request (invalid JSON): %s", line)
		return
	}

	req := gjson.ParseBytes(line)
	method := req.Get("method")
	if !method.Exists() || method.Type != gjson.String {
		diag.Warnf("transport: malformed request (missing method): %s", line)
		return
	}

	idResult := req.Get("id")
	hasID := idResult.Exists()

	result, ok, err := s.dispatchTab(method.String(), req.Get("params"))
	if err != nil {
		diag.Warnf("transport: %s: %v", method.String(), err)
		return
	}
	if ok && hasID {
		s.writeResponse(idResult.Raw, result)
	}

	s.flushNotifications()
}

// dispatchTab handles the three top-level tab methods. ok reports
// whether a response should be written (false means silently drop the
// request, the same handling as any other protocol error).
func (s *Server) dispatchTab(method string, params gjson.Result) (result any, ok bool, err error) {
	switch method {
	case "new_tab":
		return s.tabs.NewTab(), true, nil

	case "delete_tab":
		tab := params.Get("tab")
		if tab.Type != gjson.String {
			return nil, false, fmt.Errorf("delete_tab: missing tab")
		}
		s.tabs.DeleteTab(tab.String())
		return nil, false, nil

	case "edit":
		tab := params.Get("tab")
		editMethod := params.Get("method")
		if tab.Type != gjson.String || editMethod.Type != gjson.String {
			return nil, false, fmt.Errorf("edit: missing tab or method")
		}
		e, found := s.tabs.Editor(tab.String())
		if !found {
			return nil, false, nil
		}
		res, hasRes, err := dispatchEdit(e, s.tabs, editMethod.String(), params.Get("params"))
		if err != nil {
			return nil, false, err
		}
		return res, hasRes, nil

	default:
		return nil, false, fmt.Errorf("unknown method %q", method)
	}
}

// flushNotifications emits an update(tab, render_payload) notification
// for every tab a command left dirty.
func (s *Server) flushNotifications() {
	for _, name := range s.tabs.Names() {
		e, ok := s.tabs.Editor(name)
		if !ok {
			continue
		}
		payload, dirty := e.TakeRenderPayload()
		if !dirty {
			continue
		}
		s.writeNotification(name, payload)
	}
}

func (s *Server) writeResponse(rawID string, result any) {
	body := fmt.Sprintf(`{"id":%s}`, rawID)
	body = setResult(body, result)
	s.writeLine(body)
}

func (s *Server) writeNotification(tab string, payload view.RenderPayload) {
	body, err := sjson.Set(`{"method":"update"}`, "params.tab", tab)
	if err != nil {
		diag.Warnf("transport: building notification: %v", err)
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		diag.Warnf("transport: marshaling render payload: %v", err)
		return
	}
	body, err = sjson.SetRaw(body, "params.render", string(raw))
	if err != nil {
		diag.Warnf("transport: building notification: %v", err)
		return
	}
	s.writeLine(body)
}

// setResult splices result into body's "result" field, encoding
// strings/nil/bool directly and structs via JSON marshaling.
func setResult(body string, result any) string {
	if result == nil {
		out, err := sjson.SetRaw(body, "result", "null")
		if err != nil {
			return body
		}
		return out
	}
	switch v := result.(type) {
	case string:
		out, err := sjson.Set(body, "result", v)
		if err != nil {
			return body
		}
		return out
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return body
		}
		out, err := sjson.SetRaw(body, "result", string(raw))
		if err != nil {
			return body
		}
		return out
	}
}

func (s *Server) writeLine(body string) {
	fmt.Fprintln(s.out, body)
	s.out.Flush()
}
