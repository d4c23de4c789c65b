package kinds

import (
	"strconv"
	"strings"

	"flowdeck/internal/nav"
)

// ScheduleSpec describes the schedule kind: filterable collection, a
// single-pane detail, and the pause/trigger/delete operations.
func ScheduleSpec() Spec {
	return Spec{
		Kind:  nav.KindSchedules,
		Label: "Schedules",
		Collection: &CollectionSpec{
			Columns: []Column{
				{Title: "SCHEDULE ID", Width: 28, Flex: true},
				{Title: "WORKFLOW TYPE", Width: 24},
				{Title: "STATE", Width: 8},
				{Title: "SPEC", Width: 24},
				{Title: "NEXT RUN", Width: 19},
				{Title: "ACTIONS", Width: 7},
			},
			Rows:         scheduleRows,
			Loading:      func(v View) bool { return v.SchedulesLoading() },
			Filterable:   true,
			Pollable:     true,
			LoadingLabel: "Loading schedules...",
			EmptyLabel:   "No schedules match",
		},
		Detail: &DetailSpec{},
		Operations: []OperationSpec{
			{
				ID:      OpPause,
				Label:   "Pause/Resume",
				Key:     'p',
				Confirm: false,
				Effects: schedulePauseEffects,
			},
			{
				ID:      OpTrigger,
				Label:   "Trigger",
				Key:     'T',
				Confirm: true,
				Effects: scheduleOpEffects(OpTrigger),
			},
			{
				ID:      OpDelete,
				Label:   "Delete",
				Key:     'd',
				Confirm: true,
				Effects: scheduleOpEffects(OpDelete),
			},
		},
	}
}

func scheduleRows(v View) []Row {
	items := v.ScheduleItems()
	rows := make([]Row, 0, len(items))
	for _, s := range items {
		rows = append(rows, Row{
			ID: s.ScheduleID,
			Cells: []string{
				s.ScheduleID,
				s.WorkflowType,
				s.StateLabel(),
				s.Spec,
				fmtTime(s.NextRunTime),
				strconv.Itoa(s.RecentActions),
			},
		})
	}
	return rows
}

// schedulePauseEffects flips direction based on the schedule's current
// state: a paused schedule resumes, an active one pauses. When the target
// is not in view the safe default is to pause.
func schedulePauseEffects(ns string, t Target, v View) []Effect {
	direction := "pause"
	if s, ok := v.ScheduleByID(t.ID); ok && s.Paused {
		direction = "unpause"
	}
	return []Effect{RunOperation{
		Kind:      nav.KindSchedules,
		Op:        OpPause,
		Namespace: ns,
		Target:    t,
		Args:      []string{direction},
	}}
}

func scheduleOpEffects(op OpID) func(string, Target, View) []Effect {
	return func(ns string, t Target, _ View) []Effect {
		return []Effect{RunOperation{Kind: nav.KindSchedules, Op: op, Namespace: ns, Target: t}}
	}
}

// ScheduledByFilter builds the visibility filter for a schedule's child
// workflow listing. The extra user filter, when present, conjoins with the
// schedule clause; both sides keep their own parentheses so operator
// precedence inside q cannot leak.
func ScheduledByFilter(scheduleID, q string) string {
	base := "TemporalScheduledById = '" + escapeSingleQuotes(scheduleID) + "'"
	if q == "" {
		return base
	}
	return "(" + base + ") AND (" + q + ")"
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
