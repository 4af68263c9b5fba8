// Package dispatcher implements the tab registry: allocating and
// dropping per-tab Editors, and owning the kill-ring shared across
// every tab under a single mutex.
package dispatcher

import (
	"strconv"
	"sync"

	"github.com/dshills/vellum/internal/editor"
)

// Option configures every Editor a Tabs registry creates.
type Option = editor.Option

// Tabs is the tab-name → Editor registry plus the shared kill-ring.
type Tabs struct {
	mu       sync.Mutex
	editors  map[string]*editor.Editor
	order    []string
	next     int
	killRing *editor.KillRing
	opts     []editor.Option
}

// NewTabs creates an empty registry. opts configure every Editor
// created by NewTab (scroll height, tab width, and so on).
func NewTabs(opts ...editor.Option) *Tabs {
	return &Tabs{
		editors:  make(map[string]*editor.Editor),
		killRing: editor.NewKillRing(),
		opts:     opts,
	}
}

// NewTab allocates a fresh tab name (an incrementing integer as a
// string) and an empty Editor, returning the name.
func (t *Tabs) NewTab() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := strconv.Itoa(t.next)
	t.next++
	t.editors[name] = editor.New(t.opts...)
	t.order = append(t.order, name)
	return name
}

// DeleteTab drops the named tab's Editor. A name not currently open is
// a silent no-op.
func (t *Tabs) DeleteTab(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.editors[name]; !ok {
		return
	}
	delete(t.editors, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Editor returns the named tab's Editor, or false if no such tab is
// open.
func (t *Tabs) Editor(name string) (*editor.Editor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.editors[name]
	return e, ok
}

// KillRing returns the process-wide clipboard shared by every tab.
func (t *Tabs) KillRing() *editor.KillRing {
	return t.killRing
}

// Names returns every currently open tab name, in creation order.
func (t *Tabs) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
