// Package kinds is the single source of truth for what a resource type is:
// how it is listed, labeled, identified, and operated on. One immutable
// Spec per kind, registered once at startup; routing, rendering adapters,
// keybindings and remote-call dispatch all read from the same table.
package kinds

import (
	"flowdeck/internal/domain"
	"flowdeck/internal/nav"
)

// OpID names an operation within its owning kind.
type OpID string

const (
	OpCancel    OpID = "cancel"
	OpTerminate OpID = "terminate"
	OpSignal    OpID = "signal"
	OpPause     OpID = "pause"
	OpTrigger   OpID = "trigger"
	OpDelete    OpID = "delete"
)

// Target identifies the resource an operation acts on. RunID is set only
// for workflow targets, and only when a specific run is pinned.
type Target struct {
	ID    string
	RunID string
}

// View is the read-only window onto application state that row adapters,
// applicability predicates and effect resolvers consume. The state owner
// implements it; everything here must be cheap and side-effect free.
type View interface {
	WorkflowItems() []domain.WorkflowSummary
	WorkflowsLoading() bool
	WorkflowByID(id string) (domain.WorkflowSummary, bool)

	ScheduleItems() []domain.Schedule
	SchedulesLoading() bool
	ScheduleByID(id string) (domain.Schedule, bool)
}

type Column struct {
	Title string
	Width int
	// Flex marks the one column that absorbs remaining width.
	Flex bool
}

// Row is one displayable collection entry. ID (plus RunID for workflows)
// is the operation target for the row.
type Row struct {
	ID    string
	RunID string
	Cells []string
}

type CollectionSpec struct {
	Columns []Column
	Rows    func(View) []Row
	Loading func(View) bool
	// Filterable kinds accept the q list filter.
	Filterable bool
	// Pollable collections are refreshed by the poll scheduler.
	Pollable     bool
	LoadingLabel string
	EmptyLabel   string
}

// DetailPart selects which slice of a detail view a load fetches. Summary
// is loaded on entry; the others load lazily when their tab first opens.
type DetailPart int

const (
	PartSummary DetailPart = iota
	PartHistory
	PartTaskQueue
)

type DetailSpec struct {
	Tabs []nav.Tab
	// LazyParts maps a tab to the extra load it needs beyond the summary.
	LazyParts map[nav.Tab]DetailPart
}

type OperationSpec struct {
	ID      OpID
	Label   string
	Key     rune
	Confirm bool
	// Applicable gates the operation for a concrete target; nil means
	// always applicable.
	Applicable func(View, Target) bool
	// Effects resolves the invocation into concrete effects. The namespace
	// is the one active at invocation time.
	Effects func(ns string, t Target, v View) []Effect
}

// Spec describes one resource kind. Collection and Detail are optional
// individually but not jointly: a kind that can neither be listed nor
// shown is rejected at registration.
type Spec struct {
	Kind       nav.Kind
	Label      string
	Collection *CollectionSpec
	Detail     *DetailSpec
	Operations []OperationSpec
}
