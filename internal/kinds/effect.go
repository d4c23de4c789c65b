package kinds

import (
	"time"

	"flowdeck/internal/nav"
)

// Effect is an asynchronous side effect described as data. The reducer
// emits effects, the worker (or the shell, for timers and clipboard)
// executes them. Load and operation effects complete as exactly one
// action, success or failure; persistence effects complete silently.
type Effect interface{ effect() }

// LoadCollection fetches one page of a kind's listing. Append marks a
// pagination continuation (results extend the current items instead of
// replacing them).
type LoadCollection struct {
	Seq       uint64
	Kind      nav.Kind
	Namespace string
	Query     string
	PageSize  int
	PageToken []byte
	Append    bool
}

// LoadDetail fetches one part of a resource's detail view.
type LoadDetail struct {
	Seq       uint64
	Kind      nav.Kind
	Namespace string
	Target    Target
	Part      DetailPart
	// TaskQueue names the queue to describe for PartTaskQueue loads.
	TaskQueue string
	// PageToken continues a paged part (history) from where it left off.
	PageToken []byte
}

type LoadNamespaces struct {
	Seq uint64
}

// CountCollection asks for the total matching the collection's filter,
// shown alongside the paged listing.
type CountCollection struct {
	Seq       uint64
	Kind      nav.Kind
	Namespace string
	Query     string
}

// RunOperation invokes a remote operation against a target. Args carries
// operation-specific extras: the pause direction ("pause"/"unpause") or a
// signal name and optional payload.
type RunOperation struct {
	Kind      nav.Kind
	Op        OpID
	Namespace string
	Target    Target
	Args      []string
}

type TimerReason int

const (
	// TimerToast auto-dismisses the error/info toast.
	TimerToast TimerReason = iota
)

// SetTimer asks the shell for a wake-up after Delay; it completes as a
// TimerFired action echoing Seq and Reason.
type SetTimer struct {
	Seq    uint64
	Delay  time.Duration
	Reason TimerReason
}

// CopyText puts text on the system clipboard.
type CopyText struct {
	Text string
}

// RecordVisit persists a canonical deep link in the recent-locations
// store. Failures are logged, never surfaced.
type RecordVisit struct {
	URI string
}

// SavePreset persists a named list filter for the kind.
type SavePreset struct {
	Name  string
	Kind  nav.Kind
	Query string
}

// LoadPreset looks a saved filter up by name; it completes as a
// PresetLoaded action whether or not the name exists.
type LoadPreset struct {
	Name string
}

// QuitApp terminates the program after the current update cycle.
type QuitApp struct{}

func (LoadCollection) effect()  {}
func (LoadDetail) effect()      {}
func (LoadNamespaces) effect()  {}
func (CountCollection) effect() {}
func (RunOperation) effect()    {}
func (SetTimer) effect()        {}
func (CopyText) effect()        {}
func (RecordVisit) effect()     {}
func (SavePreset) effect()      {}
func (LoadPreset) effect()      {}
func (QuitApp) effect()         {}
