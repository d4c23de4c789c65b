package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	failurepb "go.temporal.io/api/failure/v1"
	historypb "go.temporal.io/api/history/v1"
	workflowpb "go.temporal.io/api/workflow/v1"
	sdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"flowdeck/internal/domain"
)

func statusFromProto(s enumspb.WorkflowExecutionStatus) domain.WorkflowStatus {
	switch s {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:
		return domain.StatusRunning
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		return domain.StatusCompleted
	case enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:
		return domain.StatusFailed
	case enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return domain.StatusCanceled
	case enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return domain.StatusTerminated
	case enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		return domain.StatusContinuedAsNew
	case enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return domain.StatusTimedOut
	default:
		return domain.StatusUnspecified
	}
}

func pendingStateFromProto(s enumspb.PendingActivityState) domain.PendingActivityState {
	switch s {
	case enumspb.PENDING_ACTIVITY_STATE_SCHEDULED:
		return domain.ActivityStateScheduled
	case enumspb.PENDING_ACTIVITY_STATE_STARTED:
		return domain.ActivityStateStarted
	case enumspb.PENDING_ACTIVITY_STATE_CANCEL_REQUESTED:
		return domain.ActivityStateCancelRequested
	default:
		return domain.ActivityStateUnspecified
	}
}

func pendingActivityFromProto(pa *workflowpb.PendingActivityInfo) domain.PendingActivity {
	out := domain.PendingActivity{
		ActivityID:         pa.GetActivityId(),
		ActivityType:       pa.GetActivityType().GetName(),
		State:              pendingStateFromProto(pa.GetState()),
		Attempt:            pa.GetAttempt(),
		MaximumAttempts:    pa.GetMaximumAttempts(),
		LastWorkerIdentity: pa.GetLastWorkerIdentity(),
	}
	if t := pa.GetScheduledTime(); t != nil {
		out.ScheduledTime = t.AsTime()
	}
	if t := pa.GetLastStartedTime(); t != nil {
		out.LastStartedTime = t.AsTime()
	}
	if f := pa.GetLastFailure(); f != nil {
		out.LastFailure = f.GetMessage()
	}
	return out
}

func failureFromProto(f *failurepb.Failure) *domain.FailureInfo {
	if f == nil {
		return nil
	}
	info := &domain.FailureInfo{
		Message:    f.GetMessage(),
		StackTrace: f.GetStackTrace(),
	}
	if app := f.GetApplicationFailureInfo(); app != nil {
		info.Type = app.GetType()
	}
	return info
}

// payloadsToText decodes payloads with the default data converter and joins
// them one per line; multi-argument workflows show one argument per line.
func payloadsToText(p *commonpb.Payloads) string {
	if p == nil || len(p.Payloads) == 0 {
		return ""
	}
	return strings.Join(converter.GetDefaultDataConverter().ToStrings(p), "\n")
}

func payloadMap(fields map[string]*commonpb.Payload) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	dc := converter.GetDefaultDataConverter()
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = dc.ToString(v)
	}
	return out
}

// jsonOrString keeps valid JSON untouched so the server stores it as-is;
// everything else is sent as a JSON string.
func jsonOrString(s string) interface{} {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return s
}

// formatEnum turns SCREAMING_SNAKE proto enum names into compact CamelCase:
// EVENT_TYPE_ACTIVITY_TASK_SCHEDULED -> ActivityTaskScheduled.
func formatEnum(s, prefix string) string {
	s = strings.TrimPrefix(s, prefix)
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}

// compactDuration trims the zero units Duration.String tacks on,
// so an hourly interval reads "1h" rather than "1h0m0s".
func compactDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

func describeScheduleSpec(spec *sdkclient.ScheduleSpec) string {
	if spec == nil {
		return "—"
	}
	var parts []string
	for _, iv := range spec.Intervals {
		parts = append(parts, "every "+compactDuration(iv.Every))
	}
	parts = append(parts, spec.CronExpressions...)
	if n := len(spec.Calendars); n > 0 {
		parts = append(parts, fmt.Sprintf("%d calendar spec(s)", n))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

func eventDetails(e *historypb.HistoryEvent) string {
	switch {
	case e.GetWorkflowExecutionStartedEventAttributes() != nil:
		return e.GetWorkflowExecutionStartedEventAttributes().GetWorkflowType().GetName()
	case e.GetWorkflowTaskScheduledEventAttributes() != nil:
		return e.GetWorkflowTaskScheduledEventAttributes().GetTaskQueue().GetName()
	case e.GetActivityTaskScheduledEventAttributes() != nil:
		return e.GetActivityTaskScheduledEventAttributes().GetActivityType().GetName()
	case e.GetActivityTaskStartedEventAttributes() != nil:
		if a := e.GetActivityTaskStartedEventAttributes().GetAttempt(); a > 1 {
			return fmt.Sprintf("attempt %d", a)
		}
		return ""
	case e.GetActivityTaskFailedEventAttributes() != nil:
		return e.GetActivityTaskFailedEventAttributes().GetFailure().GetMessage()
	case e.GetTimerStartedEventAttributes() != nil:
		if t := e.GetTimerStartedEventAttributes().GetStartToFireTimeout(); t != nil {
			return "fires after " + compactDuration(t.AsDuration())
		}
		return ""
	case e.GetWorkflowExecutionSignaledEventAttributes() != nil:
		return "signal " + e.GetWorkflowExecutionSignaledEventAttributes().GetSignalName()
	case e.GetMarkerRecordedEventAttributes() != nil:
		return e.GetMarkerRecordedEventAttributes().GetMarkerName()
	case e.GetStartChildWorkflowExecutionInitiatedEventAttributes() != nil:
		return e.GetStartChildWorkflowExecutionInitiatedEventAttributes().GetWorkflowType().GetName()
	case e.GetWorkflowExecutionFailedEventAttributes() != nil:
		return e.GetWorkflowExecutionFailedEventAttributes().GetFailure().GetMessage()
	case e.GetWorkflowExecutionTerminatedEventAttributes() != nil:
		return e.GetWorkflowExecutionTerminatedEventAttributes().GetReason()
	case e.GetWorkflowExecutionContinuedAsNewEventAttributes() != nil:
		return e.GetWorkflowExecutionContinuedAsNewEventAttributes().GetWorkflowType().GetName()
	default:
		return ""
	}
}
