package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/workflowservice/v1"
	sdkclient "go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"

	"flowdeck/internal/domain"
)

// Options configures the Temporal connection. TLS is enabled when a cert
// pair or an API key is present (cloud endpoints require it).
type Options struct {
	Address     string
	APIKey      string
	TLSCertPath string
	TLSKeyPath  string
	Logger      sdklog.Logger
}

// Temporal implements Client on the Temporal Go SDK. The SDK binds each
// connection to one namespace, so connections are dialed lazily and cached
// per namespace behind one mutex.
type Temporal struct {
	opts Options

	mu    sync.Mutex
	conns map[string]sdkclient.Client
}

var _ Client = (*Temporal)(nil)

func NewTemporal(opts Options) *Temporal {
	return &Temporal{opts: opts, conns: make(map[string]sdkclient.Client)}
}

func (t *Temporal) conn(namespace string) (sdkclient.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.conns[namespace]; ok {
		return c, nil
	}

	sdkOpts := sdkclient.Options{
		HostPort:  t.opts.Address,
		Namespace: namespace,
		Logger:    t.opts.Logger,
	}
	if t.opts.APIKey != "" {
		sdkOpts.Credentials = sdkclient.NewAPIKeyStaticCredentials(t.opts.APIKey)
	}
	tlsCfg, err := t.tlsConfig()
	if err != nil {
		return nil, wrap("connect", err)
	}
	if tlsCfg != nil {
		sdkOpts.ConnectionOptions = sdkclient.ConnectionOptions{TLS: tlsCfg}
	}

	c, err := sdkclient.NewLazyClient(sdkOpts)
	if err != nil {
		return nil, wrap("connect", err)
	}
	t.conns[namespace] = c
	return c, nil
}

func (t *Temporal) tlsConfig() (*tls.Config, error) {
	if t.opts.TLSCertPath != "" || t.opts.TLSKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(t.opts.TLSCertPath, t.opts.TLSKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load tls keypair: %w", err)
		}
		return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
	}
	if t.opts.APIKey != "" {
		return &tls.Config{}, nil
	}
	return nil, nil
}

func (t *Temporal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ns, c := range t.conns {
		c.Close()
		delete(t.conns, ns)
	}
}

func (t *Temporal) ListWorkflows(ctx context.Context, req ListRequest) (domain.WorkflowPage, error) {
	c, err := t.conn(req.Namespace)
	if err != nil {
		return domain.WorkflowPage{}, err
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	resp, err := c.ListWorkflow(ctx, &workflowservice.ListWorkflowExecutionsRequest{
		Namespace:     req.Namespace,
		Query:         req.Query,
		PageSize:      int32(pageSize),
		NextPageToken: req.PageToken,
	})
	if err != nil {
		return domain.WorkflowPage{}, wrap("list workflows", err)
	}

	page := domain.WorkflowPage{NextPageToken: resp.NextPageToken}
	for _, exec := range resp.Executions {
		s := domain.WorkflowSummary{
			WorkflowID:    exec.Execution.WorkflowId,
			RunID:         exec.Execution.RunId,
			Status:        statusFromProto(exec.Status),
			TaskQueue:     exec.TaskQueue,
			HistoryLength: exec.HistoryLength,
		}
		if exec.Type != nil {
			s.Type = exec.Type.Name
		}
		if exec.StartTime != nil {
			s.StartTime = exec.StartTime.AsTime()
		}
		if exec.CloseTime != nil {
			s.CloseTime = exec.CloseTime.AsTime()
		}
		page.Items = append(page.Items, s)
	}
	return page, nil
}

func (t *Temporal) CountWorkflows(ctx context.Context, namespace, query string) (int64, error) {
	c, err := t.conn(namespace)
	if err != nil {
		return 0, err
	}
	resp, err := c.CountWorkflow(ctx, &workflowservice.CountWorkflowExecutionsRequest{
		Namespace: namespace,
		Query:     query,
	})
	if err != nil {
		return 0, wrap("count workflows", err)
	}
	return resp.Count, nil
}

func (t *Temporal) DescribeWorkflow(ctx context.Context, namespace, workflowID, runID string) (domain.WorkflowDetail, error) {
	c, err := t.conn(namespace)
	if err != nil {
		return domain.WorkflowDetail{}, err
	}
	resp, err := c.DescribeWorkflowExecution(ctx, workflowID, runID)
	if err != nil {
		return domain.WorkflowDetail{}, wrap("describe workflow", err)
	}

	info := resp.WorkflowExecutionInfo
	detail := domain.WorkflowDetail{
		Summary: domain.WorkflowSummary{
			WorkflowID:    info.Execution.WorkflowId,
			RunID:         info.Execution.RunId,
			Status:        statusFromProto(info.Status),
			TaskQueue:     info.TaskQueue,
			HistoryLength: info.HistoryLength,
		},
	}
	if info.Type != nil {
		detail.Summary.Type = info.Type.Name
	}
	if info.StartTime != nil {
		detail.Summary.StartTime = info.StartTime.AsTime()
	}
	if info.CloseTime != nil {
		detail.Summary.CloseTime = info.CloseTime.AsTime()
	}
	if info.ParentExecution != nil {
		detail.ParentWorkflowID = info.ParentExecution.WorkflowId
	}
	detail.Memo = payloadMap(info.Memo.GetFields())
	detail.SearchAttributes = payloadMap(info.SearchAttributes.GetIndexedFields())
	for _, pa := range resp.PendingActivities {
		detail.PendingActivities = append(detail.PendingActivities, pendingActivityFromProto(pa))
	}

	// Input comes from the first history event, output (or failure) from
	// the close event; both are cheap single-event reads.
	detail.Input = t.workflowInput(ctx, c, workflowID, runID)
	if detail.Summary.Status.Closed() {
		detail.Output, detail.Failure = t.workflowOutcome(ctx, c, workflowID, runID)
	}
	return detail, nil
}

func (t *Temporal) workflowInput(ctx context.Context, c sdkclient.Client, workflowID, runID string) string {
	iter := c.GetWorkflowHistory(ctx, workflowID, runID, false, enumspb.HISTORY_EVENT_FILTER_TYPE_ALL_EVENT)
	if !iter.HasNext() {
		return ""
	}
	event, err := iter.Next()
	if err != nil {
		return ""
	}
	attrs := event.GetWorkflowExecutionStartedEventAttributes()
	if attrs == nil {
		return ""
	}
	return payloadsToText(attrs.Input)
}

func (t *Temporal) workflowOutcome(ctx context.Context, c sdkclient.Client, workflowID, runID string) (string, *domain.FailureInfo) {
	iter := c.GetWorkflowHistory(ctx, workflowID, runID, false, enumspb.HISTORY_EVENT_FILTER_TYPE_CLOSE_EVENT)
	if !iter.HasNext() {
		return "", nil
	}
	event, err := iter.Next()
	if err != nil {
		return "", nil
	}
	if attrs := event.GetWorkflowExecutionCompletedEventAttributes(); attrs != nil {
		return payloadsToText(attrs.Result), nil
	}
	if attrs := event.GetWorkflowExecutionFailedEventAttributes(); attrs != nil {
		return "", failureFromProto(attrs.Failure)
	}
	if attrs := event.GetWorkflowExecutionTimedOutEventAttributes(); attrs != nil {
		return "", &domain.FailureInfo{Message: "workflow timed out", Type: "Timeout"}
	}
	if attrs := event.GetWorkflowExecutionTerminatedEventAttributes(); attrs != nil {
		return "", &domain.FailureInfo{Message: attrs.Reason, Type: "Terminated"}
	}
	if attrs := event.GetWorkflowExecutionCanceledEventAttributes(); attrs != nil {
		return payloadsToText(attrs.Details), nil
	}
	return "", nil
}

func (t *Temporal) WorkflowHistory(ctx context.Context, namespace, workflowID, runID string, pageSize int, pageToken []byte) (domain.HistoryPage, error) {
	c, err := t.conn(namespace)
	if err != nil {
		return domain.HistoryPage{}, err
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	resp, err := c.WorkflowService().GetWorkflowExecutionHistory(ctx, &workflowservice.GetWorkflowExecutionHistoryRequest{
		Namespace:       namespace,
		Execution:       &commonpb.WorkflowExecution{WorkflowId: workflowID, RunId: runID},
		MaximumPageSize: int32(pageSize),
		NextPageToken:   pageToken,
	})
	if err != nil {
		return domain.HistoryPage{}, wrap("load history", err)
	}

	page := domain.HistoryPage{NextPageToken: resp.NextPageToken}
	for _, e := range resp.History.GetEvents() {
		he := domain.HistoryEvent{
			ID:      e.EventId,
			Type:    formatEnum(e.EventType.String(), "EVENT_TYPE_"),
			Details: eventDetails(e),
		}
		if e.EventTime != nil {
			he.Time = e.EventTime.AsTime()
		}
		page.Events = append(page.Events, he)
	}
	return page, nil
}

func (t *Temporal) CancelWorkflow(ctx context.Context, namespace, workflowID, runID string) error {
	c, err := t.conn(namespace)
	if err != nil {
		return err
	}
	return wrap("cancel workflow", c.CancelWorkflow(ctx, workflowID, runID))
}

func (t *Temporal) TerminateWorkflow(ctx context.Context, namespace, workflowID, runID, reason string) error {
	c, err := t.conn(namespace)
	if err != nil {
		return err
	}
	return wrap("terminate workflow", c.TerminateWorkflow(ctx, workflowID, runID, reason))
}

func (t *Temporal) SignalWorkflow(ctx context.Context, namespace, workflowID, runID, name, payload string) error {
	c, err := t.conn(namespace)
	if err != nil {
		return err
	}
	// Raw JSON passes through as-is; anything else is sent as a string.
	var arg interface{}
	if payload != "" {
		arg = jsonOrString(payload)
	}
	return wrap("signal workflow", c.SignalWorkflow(ctx, workflowID, runID, name, arg))
}

func (t *Temporal) DescribeTaskQueue(ctx context.Context, namespace, taskQueue string) (domain.TaskQueueInfo, error) {
	c, err := t.conn(namespace)
	if err != nil {
		return domain.TaskQueueInfo{}, err
	}
	resp, err := c.DescribeTaskQueue(ctx, taskQueue, enumspb.TASK_QUEUE_TYPE_WORKFLOW)
	if err != nil {
		return domain.TaskQueueInfo{}, wrap("describe task queue", err)
	}
	info := domain.TaskQueueInfo{Name: taskQueue}
	for _, p := range resp.Pollers {
		poller := domain.Poller{Identity: p.Identity, RatePerSecond: p.RatePerSecond}
		if p.LastAccessTime != nil {
			poller.LastAccessTime = p.LastAccessTime.AsTime()
		}
		info.Pollers = append(info.Pollers, poller)
	}
	return info, nil
}

func (t *Temporal) ListNamespaces(ctx context.Context) ([]domain.Namespace, error) {
	// Namespace listing is cluster-level; any connection serves.
	c, err := t.conn("default")
	if err != nil {
		return nil, err
	}
	resp, err := c.WorkflowService().ListNamespaces(ctx, &workflowservice.ListNamespacesRequest{PageSize: 100})
	if err != nil {
		return nil, wrap("list namespaces", err)
	}
	var out []domain.Namespace
	for _, n := range resp.Namespaces {
		info := n.GetNamespaceInfo()
		if info == nil {
			continue
		}
		ns := domain.Namespace{
			Name:        info.Name,
			State:       formatEnum(info.State.String(), "NAMESPACE_STATE_"),
			Description: info.Description,
			OwnerEmail:  info.OwnerEmail,
		}
		if cfg := n.GetConfig(); cfg != nil && cfg.WorkflowExecutionRetentionTtl != nil {
			ns.Retention = cfg.WorkflowExecutionRetentionTtl.AsDuration()
		}
		out = append(out, ns)
	}
	return out, nil
}
