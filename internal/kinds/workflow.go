package kinds

import (
	"time"

	"flowdeck/internal/domain"
	"flowdeck/internal/nav"
)

const timeLayout = "2006-01-02 15:04:05"

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// WorkflowSpec describes the workflow-execution kind: the richest one,
// with a filterable polled collection, a five-tab detail view, and the
// cancel/terminate operations.
func WorkflowSpec() Spec {
	return Spec{
		Kind:  nav.KindWorkflows,
		Label: "Workflows",
		Collection: &CollectionSpec{
			Columns: []Column{
				{Title: "STATUS", Width: 12},
				{Title: "WORKFLOW ID", Width: 28, Flex: true},
				{Title: "TYPE", Width: 24},
				{Title: "TASK QUEUE", Width: 16},
				{Title: "STARTED", Width: 19},
				{Title: "CLOSED", Width: 19},
			},
			Rows:         workflowRows,
			Loading:      func(v View) bool { return v.WorkflowsLoading() },
			Filterable:   true,
			Pollable:     true,
			LoadingLabel: "Loading workflows...",
			EmptyLabel:   "No workflows match",
		},
		Detail: &DetailSpec{
			Tabs: []nav.Tab{nav.TabSummary, nav.TabIO, nav.TabHistory, nav.TabPending, nav.TabTaskQueue},
			LazyParts: map[nav.Tab]DetailPart{
				nav.TabHistory:   PartHistory,
				nav.TabTaskQueue: PartTaskQueue,
			},
		},
		Operations: []OperationSpec{
			{
				ID:         OpCancel,
				Label:      "Cancel",
				Key:        'c',
				Confirm:    true,
				Applicable: workflowRunning,
				Effects:    workflowOpEffects(OpCancel),
			},
			{
				ID:         OpTerminate,
				Label:      "Terminate",
				Key:        't',
				Confirm:    true,
				Applicable: workflowRunning,
				Effects:    workflowOpEffects(OpTerminate),
			},
			{
				// Palette-only (no key): ":signal <name> [payload]".
				ID:         OpSignal,
				Label:      "Signal",
				Applicable: workflowRunning,
				Effects:    workflowOpEffects(OpSignal),
			},
		},
	}
}

func workflowRows(v View) []Row {
	items := v.WorkflowItems()
	rows := make([]Row, 0, len(items))
	for _, w := range items {
		rows = append(rows, Row{
			ID:    w.WorkflowID,
			RunID: w.RunID,
			Cells: []string{
				w.Status.Glyph() + " " + w.Status.String(),
				w.WorkflowID,
				w.Type,
				w.TaskQueue,
				fmtTime(w.StartTime),
				fmtTime(w.CloseTime),
			},
		})
	}
	return rows
}

func workflowRunning(v View, t Target) bool {
	if w, ok := v.WorkflowByID(t.ID); ok {
		return w.Status == domain.StatusRunning
	}
	// Not in the current listing (deep-linked detail): offer the operation
	// and let the server rule on it.
	return true
}

func workflowOpEffects(op OpID) func(string, Target, View) []Effect {
	return func(ns string, t Target, _ View) []Effect {
		return []Effect{RunOperation{Kind: nav.KindWorkflows, Op: op, Namespace: ns, Target: t}}
	}
}
