package transport

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/vellum/internal/editor"
)

// runLines feeds each line to a fresh Server and returns every line it
// wrote back, in order.
func runLines(t *testing.T, lines ...string) []string {
	t.Helper()

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	s := New(in, &out)

	if err := s.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := strings.TrimRight(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestServer_NewTabReturnsAnID(t *testing.T) {
	got := runLines(t, `{"id":1,"method":"new_tab"}`)
	if len(got) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(got), got)
	}

	res := gjson.Get(got[0], "result")
	if res.String() != "0" {
		t.Errorf("result = %q, want %q", res.String(), "0")
	}
}

func TestServer_MalformedRequestsAreDroppedSilently(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"id":1}`,              // missing method
		`{"id":1,"method":123}`, // method not a string
	}

	for _, line := range cases {
		if got := runLines(t, line); len(got) != 0 {
			t.Errorf("line %q: got %d response lines, want 0: %v", line, len(got), got)
		}
	}
}

func TestServer_UnknownMethodProducesNoResponse(t *testing.T) {
	got := runLines(t, `{"id":1,"method":"does_not_exist"}`)
	if len(got) != 0 {
		t.Errorf("got %d lines, want 0: %v", len(got), got)
	}
}

func TestServer_RequestWithoutIDGetsNoResponse(t *testing.T) {
	got := runLines(t, `{"method":"new_tab"}`)
	if len(got) != 0 {
		t.Errorf("a request with no id should produce no response, got %v", got)
	}
}

func TestServer_DeleteTabIsSilent(t *testing.T) {
	got := runLines(t,
		`{"id":1,"method":"new_tab"}`,
		`{"id":2,"method":"delete_tab","params":{"tab":"0"}}`,
	)
	if len(got) != 1 {
		t.Fatalf("got %d lines, want 1 (only new_tab replies): %v", len(got), got)
	}
}

func TestServer_EditOnUnknownTabIsSilent(t *testing.T) {
	got := runLines(t, `{"id":1,"method":"edit","params":{"tab":"99","method":"insert","params":{"chars":"x"}}}`)
	if len(got) != 0 {
		t.Errorf("edit on a tab that does not exist should produce no reply, got %v", got)
	}
}

// TestServer_NotificationFollowsEveryDirtyingRequest is a regression test for a
// flush that used to be skipped whenever the dispatched method had no
// result value: insert never returns a result, but it always dirties
// its tab, so the insert line itself must carry an update notification
// (not just the eventual render_lines response).
func TestServer_NotificationFollowsEveryDirtyingRequest(t *testing.T) {
	got := runLines(t,
		`{"id":1,"method":"new_tab"}`,
		`{"id":2,"method":"edit","params":{"tab":"0","method":"insert","params":{"chars":"hi"}}}`,
	)

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2 (new_tab response + update notification): %v", len(got), got)
	}

	notif := gjson.Parse(got[1])
	if notif.Get("method").String() != "update" {
		t.Fatalf("second line method = %q, want %q: %s", notif.Get("method").String(), "update", got[1])
	}
	if notif.Get("params.tab").String() != "0" {
		t.Errorf("notification tab = %q, want %q", notif.Get("params.tab").String(), "0")
	}
	if !notif.Get("params.render").Exists() {
		t.Error("notification is missing a render payload")
	}
}

// TestServer_OnlyDirtyTabsGetANotification opens two tabs and edits one:
// flushNotifications walks the whole registry, but only the dirty tab
// gets an update notification.
func TestServer_OnlyDirtyTabsGetANotification(t *testing.T) {
	lines := []string{
		`{"id":1,"method":"new_tab"}`,
		`{"id":2,"method":"new_tab"}`,
		`{"id":3,"method":"edit","params":{"tab":"0","method":"insert","params":{"chars":"a"}}}`,
	}
	got := runLines(t, lines...)

	// new_tab, new_tab, then the insert's own response (none, insert has
	// no result) plus one notification per dirty tab. Tab "0" is dirty
	// from the insert; tab "1" was never touched and stays clean.
	var updates int
	for _, line := range got {
		if gjson.Get(line, "method").String() == "update" {
			updates++
		}
	}
	if updates != 1 {
		t.Errorf("got %d update notifications, want 1 (only the touched tab)", updates)
	}
}

func TestServer_CutReturnsAResult(t *testing.T) {
	got := runLines(t,
		`{"id":1,"method":"new_tab"}`,
		`{"id":2,"method":"edit","params":{"tab":"0","method":"insert","params":{"chars":"hello"}}}`,
		`{"id":3,"method":"edit","params":{"tab":"0","method":"move","params":{"motion":"start_of_line","modify_selection":true}}}`,
		`{"id":4,"method":"edit","params":{"tab":"0","method":"cut"}}`,
	)

	var cutResponse string
	for _, line := range got {
		if gjson.Get(line, "id").String() == "4" {
			cutResponse = line
		}
	}
	if cutResponse == "" {
		t.Fatalf("no response for request id 4 in: %v", got)
	}
	if !gjson.Get(cutResponse, "result").Exists() {
		t.Errorf("cut response is missing a result field: %s", cutResponse)
	}
}

func TestSetResult_EncodesEachKind(t *testing.T) {
	cases := []struct {
		name   string
		result any
		want   string
	}{
		{"nil", nil, "null"},
		{"string", "hello", `"hello"`},
		{"struct", struct {
			N int `json:"n"`
		}{N: 3}, `{"n":3}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := setResult(`{"id":1}`, tc.result)
			got := gjson.Get(body, "result").Raw
			if got != tc.want {
				t.Errorf("result = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestServer_SequentialTabIDsAreStable(t *testing.T) {
	got := runLines(t,
		`{"id":1,"method":"new_tab"}`,
		`{"id":2,"method":"new_tab"}`,
		`{"id":3,"method":"new_tab"}`,
	)
	if len(got) != 3 {
		t.Fatalf("got %d lines, want 3", len(got))
	}
	for i, line := range got {
		want := strconv.Itoa(i)
		if res := gjson.Get(line, "result").String(); res != want {
			t.Errorf("line %d: result = %q, want %q", i, res, want)
		}
	}
}

// TestServer_OptionsAreForwardedToEveryTab confirms a dispatcher.Option
// passed to New reaches every tab NewTab allocates: a read-only editor
// must silently drop an insert rather than dirty the tab.
func TestServer_OptionsAreForwardedToEveryTab(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"id":1,"method":"new_tab"}`,
		`{"id":2,"method":"edit","params":{"tab":"0","method":"insert","params":{"chars":"hi"}}}`,
	}, "\n") + "\n")
	var out bytes.Buffer

	s := New(in, &out, editor.WithReadOnly())
	if err := s.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := strings.TrimRight(out.String(), "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}

	for _, line := range lines {
		if gjson.Get(line, "method").String() == "update" {
			t.Errorf("read-only tab should never dirty, got a notification: %s", line)
		}
	}
}
