// Package client is the wire boundary to the orchestration service. The
// Client interface is the capability set the rest of the program depends
// on; the Temporal implementation lives alongside it, and tests substitute
// fakes. All calls are namespace-explicit — the dashboard hops namespaces
// at runtime.
package client

import (
	"context"

	"flowdeck/internal/domain"
)

// ListRequest is one page worth of a visibility listing. Query is passed
// verbatim to the server's visibility filter language.
type ListRequest struct {
	Namespace string
	Query     string
	PageSize  int
	PageToken []byte
}

type Client interface {
	ListWorkflows(ctx context.Context, req ListRequest) (domain.WorkflowPage, error)
	CountWorkflows(ctx context.Context, namespace, query string) (int64, error)
	DescribeWorkflow(ctx context.Context, namespace, workflowID, runID string) (domain.WorkflowDetail, error)
	WorkflowHistory(ctx context.Context, namespace, workflowID, runID string, pageSize int, pageToken []byte) (domain.HistoryPage, error)
	CancelWorkflow(ctx context.Context, namespace, workflowID, runID string) error
	TerminateWorkflow(ctx context.Context, namespace, workflowID, runID, reason string) error
	SignalWorkflow(ctx context.Context, namespace, workflowID, runID, name, payload string) error

	ListSchedules(ctx context.Context, req ListRequest) (domain.SchedulePage, error)
	DescribeSchedule(ctx context.Context, namespace, scheduleID string) (domain.Schedule, error)
	PauseSchedule(ctx context.Context, namespace, scheduleID string, pause bool, note string) error
	TriggerSchedule(ctx context.Context, namespace, scheduleID string) error
	DeleteSchedule(ctx context.Context, namespace, scheduleID string) error

	DescribeTaskQueue(ctx context.Context, namespace, taskQueue string) (domain.TaskQueueInfo, error)
	ListNamespaces(ctx context.Context) ([]domain.Namespace, error)

	Close()
}
