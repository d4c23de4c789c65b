// Package domain holds the remote-resource snapshots the dashboard renders:
// workflow executions, schedules, namespaces and their satellite records.
// Values are produced by the client layer and treated as immutable upstream.
package domain

import "time"

type WorkflowStatus int

const (
	StatusUnspecified WorkflowStatus = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCanceled
	StatusTerminated
	StatusContinuedAsNew
	StatusTimedOut
)

func (s WorkflowStatus) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case StatusCanceled:
		return "Canceled"
	case StatusTerminated:
		return "Terminated"
	case StatusContinuedAsNew:
		return "ContinuedAsNew"
	case StatusTimedOut:
		return "TimedOut"
	default:
		return "Unspecified"
	}
}

// Glyph is the single-cell status marker used in list rows.
func (s WorkflowStatus) Glyph() string {
	switch s {
	case StatusRunning:
		return "●"
	case StatusCompleted:
		return "✓"
	case StatusFailed:
		return "✗"
	case StatusCanceled:
		return "⊘"
	case StatusTerminated:
		return "⊗"
	case StatusContinuedAsNew:
		return "↻"
	case StatusTimedOut:
		return "⏱"
	default:
		return "·"
	}
}

// Closed reports whether the execution reached a terminal state.
func (s WorkflowStatus) Closed() bool {
	return s != StatusRunning && s != StatusUnspecified
}

type WorkflowSummary struct {
	WorkflowID string
	RunID      string
	Type       string
	TaskQueue  string
	Status     WorkflowStatus
	StartTime  time.Time
	// CloseTime is zero while the execution is still running.
	CloseTime     time.Time
	HistoryLength int64
}

type FailureInfo struct {
	Message    string
	Type       string
	StackTrace string
}

type PendingActivityState int

const (
	ActivityStateUnspecified PendingActivityState = iota
	ActivityStateScheduled
	ActivityStateStarted
	ActivityStateCancelRequested
)

func (s PendingActivityState) String() string {
	switch s {
	case ActivityStateScheduled:
		return "Scheduled"
	case ActivityStateStarted:
		return "Started"
	case ActivityStateCancelRequested:
		return "CancelRequested"
	default:
		return "Unspecified"
	}
}

type PendingActivity struct {
	ActivityID         string
	ActivityType       string
	State              PendingActivityState
	Attempt            int32
	MaximumAttempts    int32
	ScheduledTime      time.Time
	LastStartedTime    time.Time
	LastFailure        string
	LastWorkerIdentity string
}

type WorkflowDetail struct {
	Summary WorkflowSummary
	// Input and Output hold the decoded payloads rendered as JSON text;
	// empty when the execution carries none (or is still running, for Output).
	Input             string
	Output            string
	Failure           *FailureInfo
	Memo              map[string]string
	SearchAttributes  map[string]string
	PendingActivities []PendingActivity
	ParentWorkflowID  string
}

type HistoryEvent struct {
	ID      int64
	Type    string
	Time    time.Time
	Details string
}

// WorkflowPage is one visibility-list page. An empty NextPageToken means
// the listing is exhausted.
type WorkflowPage struct {
	Items         []WorkflowSummary
	NextPageToken []byte
}

type HistoryPage struct {
	Events        []HistoryEvent
	NextPageToken []byte
}
