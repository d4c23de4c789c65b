// Package app is the dashboard's state core: one State value, a closed set
// of Actions, and a pure reducer mapping (State, Action) to (State, effects).
// All IO is described by effects and executed elsewhere; completions come
// back in as actions. Nothing in this package touches the network, the
// clock, or the terminal.
package app

import (
	"flowdeck/internal/domain"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

// Overlay names the modal surface drawn over the main pane. Exactly one
// can be open; keys route to it first.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayConfirm
	OverlaySearch
	OverlayPalette
	OverlayNamespaces
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// Toast is the transient status-line notice. A zero Text means hidden;
// Seq pairs the toast with its auto-dismiss timer so a late timer cannot
// clear a newer toast.
type Toast struct {
	Text  string
	Level ToastLevel
	Seq   uint64
}

// ConfirmState is the pending dangerous operation shown in the confirm
// modal. Err carries the failure message when the modal re-opens after a
// confirmed attempt bounced.
type ConfirmState struct {
	Kind   nav.Kind
	Op     kinds.OpID
	Target kinds.Target
	Label  string
	Args   []string
	Err    string
}

// WorkflowList is the workflows collection slot: one page-extended listing
// plus selection and the sequence number of the outstanding load, if any.
type WorkflowList struct {
	Items    []domain.WorkflowSummary
	Selected int
	// Loaded reports that at least one page has arrived for the current
	// namespace/filter; Fetching that a request is outstanding.
	Loaded   bool
	Fetching bool
	NextPage []byte
	// Total is the server-side count for the active filter, -1 until known.
	Total    int64
	Seq      uint64
	CountSeq uint64
}

type ScheduleList struct {
	Items    []domain.Schedule
	Selected int
	Loaded   bool
	Fetching bool
	Seq      uint64
}

// WorkflowDetailSlot holds the described execution plus the two lazily
// loaded panes (history, task queue). Each part tracks its own sequence
// so a stale completion for one pane cannot clobber another.
type WorkflowDetailSlot struct {
	Target   kinds.Target
	Detail   domain.WorkflowDetail
	Loaded   bool
	Fetching bool
	Seq      uint64

	// PendingSelected is the cursor inside the pending-activities pane.
	PendingSelected int

	History         []domain.HistoryEvent
	HistoryToken    []byte
	HistoryLoaded   bool
	HistoryFetching bool
	HistorySeq      uint64

	Queue         domain.TaskQueueInfo
	QueueLoaded   bool
	QueueFetching bool
	QueueSeq      uint64
}

type ScheduleDetailSlot struct {
	ID       string
	Item     domain.Schedule
	Loaded   bool
	Fetching bool
	Seq      uint64
}

type NamespaceSlot struct {
	Items    []domain.Namespace
	Selected int
	Loaded   bool
	Fetching bool
	Seq      uint64
}

// State is the whole dashboard model. It is a value: the reducer copies,
// mutates the copy, and returns it.
type State struct {
	Loc  nav.Location
	Back []nav.Location

	Workflows   WorkflowList
	Schedules   ScheduleList
	WFDetail    WorkflowDetailSlot
	SchedDetail ScheduleDetailSlot
	Namespaces  NamespaceSlot

	Overlay Overlay
	Confirm ConfirmState
	Toast   Toast

	// Connected flips true on the first successful load and false again
	// on a retryable failure; the status bar and the poll gate read it.
	Connected    bool
	ErrorCount   int
	LastError    string
	RetryableErr bool

	Quitting bool

	// seq is the monotonic source for effect sequence numbers. Every
	// issued load records its seq in the owning slot; completions that
	// echo an older seq are dropped.
	seq uint64
}

// NewState starts at the workflows collection of the given namespace.
func NewState(namespace string) State {
	return State{
		Loc:       nav.WorkflowsCollection(namespace, ""),
		Workflows: WorkflowList{Total: -1},
	}
}

func (s *State) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// LeafKind is the kind of the innermost path segment.
func (s State) LeafKind() nav.Kind { return s.Loc.Leaf().Kind }

// SelectedTarget resolves the row the cursor is on (or the detail being
// viewed) into an operation target.
func (s State) SelectedTarget() (kinds.Target, bool) {
	leaf := s.Loc.Leaf()
	if leaf.ID != "" {
		switch leaf.Kind {
		case nav.KindWorkflows:
			return kinds.Target{ID: leaf.ID, RunID: s.Loc.RunID}, true
		case nav.KindSchedules:
			return kinds.Target{ID: leaf.ID}, true
		}
		return kinds.Target{}, false
	}
	switch leaf.Kind {
	case nav.KindWorkflows:
		if s.Workflows.Selected < len(s.Workflows.Items) {
			w := s.Workflows.Items[s.Workflows.Selected]
			return kinds.Target{ID: w.WorkflowID, RunID: w.RunID}, true
		}
	case nav.KindSchedules:
		if s.Schedules.Selected < len(s.Schedules.Items) {
			return kinds.Target{ID: s.Schedules.Items[s.Schedules.Selected].ScheduleID}, true
		}
	}
	return kinds.Target{}, false
}

// kinds.View implementation. The state itself is the read surface row
// builders and applicability guards consume.

var _ kinds.View = State{}

func (s State) WorkflowItems() []domain.WorkflowSummary { return s.Workflows.Items }

func (s State) WorkflowsLoading() bool { return s.Workflows.Fetching && !s.Workflows.Loaded }

func (s State) WorkflowByID(id string) (domain.WorkflowSummary, bool) {
	for _, w := range s.Workflows.Items {
		if w.WorkflowID == id {
			return w, true
		}
	}
	// Deep-linked details are not in the listing; consult the detail slot.
	if s.WFDetail.Loaded && s.WFDetail.Target.ID == id {
		return s.WFDetail.Detail.Summary, true
	}
	return domain.WorkflowSummary{}, false
}

func (s State) ScheduleItems() []domain.Schedule { return s.Schedules.Items }

func (s State) SchedulesLoading() bool { return s.Schedules.Fetching && !s.Schedules.Loaded }

func (s State) ScheduleByID(id string) (domain.Schedule, bool) {
	for _, sc := range s.Schedules.Items {
		if sc.ScheduleID == id {
			return sc, true
		}
	}
	if s.SchedDetail.Loaded && s.SchedDetail.ID == id {
		return s.SchedDetail.Item, true
	}
	return domain.Schedule{}, false
}
