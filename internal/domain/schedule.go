package domain

import "time"

type Schedule struct {
	ScheduleID   string
	WorkflowType string
	TaskQueue    string
	Paused       bool
	// Spec is the human-readable description of the schedule's calendar or
	// interval specification, e.g. "every 1h" or "0 9 * * MON".
	Spec          string
	NextRunTime   time.Time
	LastRunTime   time.Time
	RecentActions int
	// Notes carries the operator-set note attached to the schedule state;
	// pause/unpause operations overwrite it on the server side.
	Notes string
}

func (s Schedule) StateLabel() string {
	if s.Paused {
		return "Paused"
	}
	return "Active"
}

type SchedulePage struct {
	Items         []Schedule
	NextPageToken []byte
}
