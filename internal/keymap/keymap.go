// Package keymap turns terminal keys into app actions. It owns the
// multi-key sequence buffer (gg), the reserved global bindings, and the
// per-context dispatch tables. Text editing inside the search and palette
// inputs never reaches this package; the shell feeds those keys straight
// to the input widget.
package keymap

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flowdeck/internal/app"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

// SequenceTimeout is how long a sequence prefix stays armed before it is
// discarded without producing an action.
const SequenceTimeout = 500 * time.Millisecond

// Context selects the dispatch table. Browse covers both collections and
// detail panes; overlays get their own, smaller tables.
type Context int

const (
	ContextBrowse Context = iota
	ContextConfirm
	ContextListOverlay
	ContextHelp
)

// Bindings is the slice of state the dispatcher needs: which kind's
// operation keys are live and whether tab keys make sense.
type Bindings struct {
	Registry *kinds.Registry
	Kind     nav.Kind
	// Detail enables the tab-cycling keys.
	Detail bool
}

// reserved are the global keys no kind operation may shadow. A registry
// entry claiming one of these simply never fires.
var reserved = map[string]bool{
	"q": true, "ctrl+c": true, "?": true, ":": true, "/": true,
	"j": true, "k": true, "g": true, "G": true, "h": true, "l": true,
	"n": true, "r": true, "y": true,
	"enter": true, "esc": true, "tab": true, "shift+tab": true,
	"up": true, "down": true, "left": true, "right": true,
}

// Normalize renders a key message in the single form the tables use.
func Normalize(msg tea.KeyMsg) string { return msg.String() }

// Machine buffers sequence prefixes between keys. The zero value is idle.
type Machine struct {
	pending  string
	deadline time.Time
}

// Buffering reports whether a sequence prefix is armed.
func (m *Machine) Buffering() bool { return m.pending != "" }

// Deadline is when the armed prefix expires; meaningful only while
// Buffering.
func (m *Machine) Deadline() time.Time { return m.deadline }

// Expire drops a prefix whose deadline has passed. It returns true when
// something was dropped; the expired prefix produces no action.
func (m *Machine) Expire(now time.Time) bool {
	if m.pending != "" && now.After(m.deadline) {
		m.pending = ""
		return true
	}
	return false
}

// Feed maps one key to its actions. A failed sequence prefix does not
// swallow the key that broke it: the key is dispatched as if the prefix
// had never been armed.
func (m *Machine) Feed(key string, now time.Time, ctx Context, b Bindings) []app.Action {
	m.Expire(now)

	if m.pending != "" {
		prefix := m.pending
		m.pending = ""
		if act, ok := sequences[prefix+key]; ok {
			return []app.Action{act}
		}
		// Fall through: dispatch key on its own.
	}

	// The one binding no mode may reinterpret.
	if key == "ctrl+c" {
		return []app.Action{app.Quit{}}
	}

	switch ctx {
	case ContextConfirm:
		return confirmKey(key)
	case ContextHelp:
		return helpKey(key)
	case ContextListOverlay:
		return listOverlayKey(key)
	}
	return m.browseKey(key, now, b)
}

// sequences maps completed multi-key chords to actions.
var sequences = map[string]app.Action{
	"gg": app.SelectFirst{},
}

func (m *Machine) browseKey(key string, now time.Time, b Bindings) []app.Action {
	switch key {
	case "q":
		return []app.Action{app.Quit{}}
	case "?":
		return []app.Action{app.OpenHelp{}}
	case ":":
		return []app.Action{app.OpenPalette{}}
	case "/":
		return []app.Action{app.OpenSearch{}}
	case "j", "down":
		return []app.Action{app.MoveSelection{Delta: 1}}
	case "k", "up":
		return []app.Action{app.MoveSelection{Delta: -1}}
	case "ctrl+d":
		return []app.Action{app.MoveSelection{Delta: 10}}
	case "ctrl+u":
		return []app.Action{app.MoveSelection{Delta: -10}}
	case "g":
		m.pending = "g"
		m.deadline = now.Add(SequenceTimeout)
		return nil
	case "G":
		return []app.Action{app.SelectLast{}}
	case "enter", "l", "right":
		return []app.Action{app.ActivateSelection{}}
	case "esc", "h", "left", "backspace":
		return []app.Action{app.GoBack{}}
	case "tab":
		if b.Detail {
			return []app.Action{app.CycleTab{Delta: 1}}
		}
		return nil
	case "shift+tab":
		if b.Detail {
			return []app.Action{app.CycleTab{Delta: -1}}
		}
		return nil
	case "r":
		return []app.Action{app.Refresh{}}
	case "n":
		return []app.Action{app.OpenNamespaces{}}
	case "y":
		return []app.Action{app.YankLocation{}}
	}

	if b.Detail && len(key) == 1 && key[0] >= '1' && key[0] <= '0'+byte(nav.TabCount) {
		return []app.Action{app.SetTab{Tab: nav.Tab(key[0] - '1')}}
	}

	// Undeclared control chords are dead keys.
	if isCtrl(key) {
		return nil
	}

	// Kind operation keys come last so they can never shadow a global.
	if b.Registry != nil && len(key) == 1 && !reserved[key] {
		if sp, ok := b.Registry.OperationByKey(b.Kind, rune(key[0])); ok {
			return []app.Action{app.InvokeOperation{Op: sp.ID}}
		}
	}
	return nil
}

func confirmKey(key string) []app.Action {
	switch key {
	case "y", "enter":
		return []app.Action{app.ConfirmAccept{}}
	case "n", "esc", "q":
		return []app.Action{app.ConfirmCancel{}}
	}
	return nil
}

func helpKey(key string) []app.Action {
	switch key {
	case "q":
		return []app.Action{app.Quit{}}
	case "esc", "?", "enter":
		return []app.Action{app.CloseOverlay{}}
	}
	return nil
}

func listOverlayKey(key string) []app.Action {
	switch key {
	case "q":
		return []app.Action{app.Quit{}}
	case "j", "down":
		return []app.Action{app.MoveSelection{Delta: 1}}
	case "k", "up":
		return []app.Action{app.MoveSelection{Delta: -1}}
	case "g":
		return []app.Action{app.SelectFirst{}}
	case "G":
		return []app.Action{app.SelectLast{}}
	case "enter":
		return []app.Action{app.ActivateSelection{}}
	case "esc":
		return []app.Action{app.CloseOverlay{}}
	}
	return nil
}

func isCtrl(key string) bool {
	return len(key) > 5 && key[:5] == "ctrl+"
}
