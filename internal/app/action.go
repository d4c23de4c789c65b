package app

import (
	"flowdeck/internal/domain"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

// Action is everything that can happen to the state: key-driven intents,
// palette commands, and the completions the worker feeds back. The set is
// closed; the reducer ignores anything inapplicable in the current state.
type Action interface{ action() }

// Navigation.

type Navigate struct{ To nav.Location }

// OpenLink navigates to a raw deep link; parse failures become a toast.
type OpenLink struct{ URI string }

// GoCollection jumps to a kind's collection in the current namespace.
type GoCollection struct {
	Kind  nav.Kind
	Query string
}

type GoBack struct{}

type SelectNamespace struct{ Name string }

// Cursor and tabs.

type MoveSelection struct{ Delta int }

type SelectFirst struct{}

type SelectLast struct{}

// ActivateSelection opens the detail of the row under the cursor.
type ActivateSelection struct{}

type CycleTab struct{ Delta int }

type SetTab struct{ Tab nav.Tab }

// Operations.

// InvokeOperation requests an operation. A nil Target means the current
// selection; Args carries palette extras (signal name and payload).
type InvokeOperation struct {
	Op     kinds.OpID
	Target *kinds.Target
	Args   []string
}

type ConfirmAccept struct{}

type ConfirmCancel struct{}

// Overlays and text input.

type OpenHelp struct{}

type OpenPalette struct{}

type OpenSearch struct{}

type OpenNamespaces struct{}

type CloseOverlay struct{}

type SubmitSearch struct{ Query string }

type SubmitCommand struct{ Text string }

// Presets.

type SavePresetNamed struct{ Name string }

type ApplyPreset struct{ Name string }

// PresetLoaded is the completion of a kinds.LoadPreset effect.
type PresetLoaded struct {
	Name  string
	Kind  nav.Kind
	Query string
	Found bool
}

// Data plane. Every load effect completes as exactly one DataLoaded or
// DataLoadFailed echoing the effect's sequence number.

type DataLoaded struct {
	Seq     uint64
	Payload Payload
}

type DataLoadFailed struct {
	Seq uint64
	Err error
}

// Payload is the closed set of load results.
type Payload interface{ payload() }

type WorkflowsPage struct {
	Page   domain.WorkflowPage
	Append bool
}

type WorkflowCount struct{ Count int64 }

type SchedulesPage struct{ Page domain.SchedulePage }

type WorkflowDetailData struct {
	Target kinds.Target
	Detail domain.WorkflowDetail
}

type WorkflowHistoryData struct {
	Target kinds.Target
	Page   domain.HistoryPage
	Append bool
}

type TaskQueueData struct{ Info domain.TaskQueueInfo }

type ScheduleDetailData struct {
	ID   string
	Item domain.Schedule
}

type NamespacesData struct{ Items []domain.Namespace }

func (WorkflowsPage) payload()       {}
func (WorkflowCount) payload()       {}
func (SchedulesPage) payload()       {}
func (WorkflowDetailData) payload()  {}
func (WorkflowHistoryData) payload() {}
func (TaskQueueData) payload()       {}
func (ScheduleDetailData) payload()  {}
func (NamespacesData) payload()      {}

// Operation completions.

type OperationDone struct {
	Kind   nav.Kind
	Op     kinds.OpID
	Target kinds.Target
}

type OperationFailed struct {
	Kind   nav.Kind
	Op     kinds.OpID
	Target kinds.Target
	Args   []string
	Err    error
}

// Clock.

type PollTick struct{}

// TimerFired echoes a SetTimer effect.
type TimerFired struct {
	Seq    uint64
	Reason kinds.TimerReason
}

// Misc.

type Refresh struct{}

type YankLocation struct{}

type Quit struct{}

func (Navigate) action()          {}
func (OpenLink) action()          {}
func (GoCollection) action()      {}
func (GoBack) action()            {}
func (SelectNamespace) action()   {}
func (MoveSelection) action()     {}
func (SelectFirst) action()       {}
func (SelectLast) action()        {}
func (ActivateSelection) action() {}
func (CycleTab) action()          {}
func (SetTab) action()            {}
func (InvokeOperation) action()   {}
func (ConfirmAccept) action()     {}
func (ConfirmCancel) action()     {}
func (OpenHelp) action()          {}
func (OpenPalette) action()       {}
func (OpenSearch) action()        {}
func (OpenNamespaces) action()    {}
func (CloseOverlay) action()      {}
func (SubmitSearch) action()      {}
func (SubmitCommand) action()     {}
func (SavePresetNamed) action()   {}
func (ApplyPreset) action()       {}
func (PresetLoaded) action()      {}
func (DataLoaded) action()        {}
func (DataLoadFailed) action()    {}
func (OperationDone) action()     {}
func (OperationFailed) action()   {}
func (PollTick) action()          {}
func (TimerFired) action()        {}
func (Refresh) action()           {}
func (YankLocation) action()      {}
func (Quit) action()              {}
