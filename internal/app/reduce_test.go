package app

import (
	"errors"
	"reflect"
	"testing"

	"flowdeck/internal/domain"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

func newReducer(t *testing.T) *Reducer {
	t.Helper()
	reg, err := kinds.NewRegistry(kinds.BuiltinSpecs()...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return &Reducer{Registry: reg, PageSize: 50}
}

func wfSummary(id string, st domain.WorkflowStatus) domain.WorkflowSummary {
	return domain.WorkflowSummary{WorkflowID: id, RunID: "run-" + id, Type: "Demo", Status: st}
}

// loadedWorkflows drives the reducer through a real load cycle so every
// slot seq is one the reducer issued itself.
func loadedWorkflows(t *testing.T, r *Reducer, items ...domain.WorkflowSummary) State {
	t.Helper()
	s := NewState("default")
	s, fx := r.Reduce(s, Refresh{})
	lc := oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: lc.Seq, Payload: WorkflowsPage{Page: domain.WorkflowPage{Items: items}}})
	return s
}

func loadedSchedules(t *testing.T, r *Reducer, items ...domain.Schedule) State {
	t.Helper()
	s := NewState("default")
	s, fx := r.Reduce(s, GoCollection{Kind: nav.KindSchedules})
	lc := oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: lc.Seq, Payload: SchedulesPage{Page: domain.SchedulePage{Items: items}}})
	return s
}

func loadCollections(fx []kinds.Effect) []kinds.LoadCollection {
	var out []kinds.LoadCollection
	for _, e := range fx {
		if lc, ok := e.(kinds.LoadCollection); ok {
			out = append(out, lc)
		}
	}
	return out
}

func oneLoadCollection(t *testing.T, fx []kinds.Effect) kinds.LoadCollection {
	t.Helper()
	lcs := loadCollections(fx)
	if len(lcs) != 1 {
		t.Fatalf("want one LoadCollection, got %d in %#v", len(lcs), fx)
	}
	return lcs[0]
}

func loadDetails(fx []kinds.Effect) []kinds.LoadDetail {
	var out []kinds.LoadDetail
	for _, e := range fx {
		if ld, ok := e.(kinds.LoadDetail); ok {
			out = append(out, ld)
		}
	}
	return out
}

func oneLoadDetail(t *testing.T, fx []kinds.Effect) kinds.LoadDetail {
	t.Helper()
	lds := loadDetails(fx)
	if len(lds) != 1 {
		t.Fatalf("want one LoadDetail, got %d in %#v", len(lds), fx)
	}
	return lds[0]
}

func runOperations(fx []kinds.Effect) []kinds.RunOperation {
	var out []kinds.RunOperation
	for _, e := range fx {
		if ro, ok := e.(kinds.RunOperation); ok {
			out = append(out, ro)
		}
	}
	return out
}

// flakyErr mimics a retryable client failure.
type flakyErr struct{ msg string }

func (e flakyErr) Error() string   { return e.msg }
func (e flakyErr) Retryable() bool { return true }

func TestRefreshIssuesWorkflowLoad(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Refresh{})
	lc := oneLoadCollection(t, fx)
	if lc.Kind != nav.KindWorkflows || lc.Namespace != "default" || lc.PageSize != 50 {
		t.Fatalf("unexpected load: %#v", lc)
	}
	if !s.Workflows.Fetching || s.Workflows.Seq != lc.Seq {
		t.Fatalf("slot not armed: %+v", s.Workflows)
	}
	counts := 0
	for _, e := range fx {
		if _, ok := e.(kinds.CountCollection); ok {
			counts++
		}
	}
	if counts != 1 {
		t.Fatalf("want one CountCollection, got %d", counts)
	}
}

func TestAtMostOneLoadInFlightPerSlot(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Refresh{})
	if len(loadCollections(fx)) != 1 {
		t.Fatalf("first refresh should load")
	}
	_, fx = r.Reduce(s, Refresh{})
	if len(fx) != 0 {
		t.Fatalf("second refresh while fetching should be silent, got %#v", fx)
	}
	_, fx = r.Reduce(s, PollTick{})
	if len(fx) != 0 {
		t.Fatalf("poll tick while fetching should be silent, got %#v", fx)
	}
}

func TestStaleDetailCompletionDropped(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fxA := r.Reduce(s, Navigate{To: nav.WorkflowDetail("default", "wf-a", "", nav.TabSummary)})
	ldA := oneLoadDetail(t, fxA)

	s, fxB := r.Reduce(s, Navigate{To: nav.WorkflowDetail("default", "wf-b", "", nav.TabSummary)})
	ldB := oneLoadDetail(t, fxB)

	// The first workflow's describe answers after the user moved on.
	s, _ = r.Reduce(s, DataLoaded{Seq: ldA.Seq, Payload: WorkflowDetailData{
		Target: kinds.Target{ID: "wf-a"},
		Detail: domain.WorkflowDetail{Summary: wfSummary("wf-a", domain.StatusRunning)},
	}})
	if s.WFDetail.Loaded {
		t.Fatalf("stale completion must not land: %+v", s.WFDetail)
	}
	if s.WFDetail.Target.ID != "wf-b" {
		t.Fatalf("slot target clobbered: %+v", s.WFDetail.Target)
	}

	s, _ = r.Reduce(s, DataLoaded{Seq: ldB.Seq, Payload: WorkflowDetailData{
		Target: kinds.Target{ID: "wf-b"},
		Detail: domain.WorkflowDetail{Summary: wfSummary("wf-b", domain.StatusRunning)},
	}})
	if !s.WFDetail.Loaded || s.WFDetail.Detail.Summary.WorkflowID != "wf-b" {
		t.Fatalf("current completion should land: %+v", s.WFDetail)
	}
}

func TestNavigateToWorkflowDetailClearsScheduleDetail(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Navigate{To: nav.ScheduleDetail("default", "payroll")})
	ld := oneLoadDetail(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: ld.Seq, Payload: ScheduleDetailData{ID: "payroll", Item: domain.Schedule{ScheduleID: "payroll"}}})
	if !s.SchedDetail.Loaded {
		t.Fatalf("schedule detail should be loaded")
	}

	s, _ = r.Reduce(s, Navigate{To: nav.WorkflowDetail("default", "wf-1", "", nav.TabSummary)})
	if s.SchedDetail.Loaded || s.SchedDetail.ID != "" {
		t.Fatalf("schedule detail should be cleared, got %+v", s.SchedDetail)
	}
}

func TestDataLoadedResetsErrorState(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))

	s, fx := r.Reduce(s, Refresh{})
	lc := oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoadFailed{Seq: lc.Seq, Err: flakyErr{"dial tcp: refused"}})
	if s.ErrorCount != 1 || s.Connected || !s.RetryableErr {
		t.Fatalf("failure bookkeeping wrong: count=%d connected=%v retryable=%v", s.ErrorCount, s.Connected, s.RetryableErr)
	}

	s, fx = r.Reduce(s, PollTick{})
	lc = oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: lc.Seq, Payload: WorkflowsPage{Page: domain.WorkflowPage{Items: []domain.WorkflowSummary{wfSummary("wf-1", domain.StatusRunning)}}}})
	if s.ErrorCount != 0 || !s.Connected || s.LastError != "" {
		t.Fatalf("success should reset error state: count=%d connected=%v lastErr=%q", s.ErrorCount, s.Connected, s.LastError)
	}
}

func TestDataLoadFailedKeepsStaleRows(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r,
		wfSummary("wf-1", domain.StatusRunning),
		wfSummary("wf-2", domain.StatusCompleted),
	)

	s, fx := r.Reduce(s, Refresh{})
	lc := oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoadFailed{Seq: lc.Seq, Err: flakyErr{"connection reset"}})

	if len(s.Workflows.Items) != 2 {
		t.Fatalf("stale rows must survive a failed refresh, got %d", len(s.Workflows.Items))
	}
	if s.Workflows.Fetching {
		t.Fatalf("failed load should clear the fetching flag")
	}
	if s.LastError == "" {
		t.Fatalf("failure should surface in LastError")
	}
}

func TestReduceIgnoresInapplicableActions(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))

	inapplicable := []Action{
		ConfirmAccept{},
		ConfirmCancel{},
		CycleTab{Delta: 1},
		SetTab{Tab: nav.TabHistory},
		GoBack{},
		TimerFired{Seq: 9999, Reason: kinds.TimerToast},
		DataLoaded{Seq: 9999, Payload: WorkflowsPage{}},
		DataLoadFailed{Seq: 9999, Err: errors.New("late")},
	}
	for _, act := range inapplicable {
		got, fx := r.Reduce(s, act)
		if len(fx) != 0 {
			t.Fatalf("%T should produce no effects, got %#v", act, fx)
		}
		if !reflect.DeepEqual(s, got) {
			t.Fatalf("%T should leave the state untouched", act)
		}
	}
}

func TestConfirmGateAndReopenOnFailure(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))

	s, fx := r.Reduce(s, InvokeOperation{Op: kinds.OpCancel})
	if len(runOperations(fx)) != 0 {
		t.Fatalf("confirm-gated op must not run before approval")
	}
	if s.Overlay != OverlayConfirm || s.Confirm.Op != kinds.OpCancel || s.Confirm.Target.ID != "wf-1" {
		t.Fatalf("confirm modal not armed: %+v", s.Confirm)
	}

	s, fx = r.Reduce(s, ConfirmAccept{})
	ros := runOperations(fx)
	if len(ros) != 1 || ros[0].Op != kinds.OpCancel || ros[0].Target.ID != "wf-1" {
		t.Fatalf("accept should resolve the operation, got %#v", fx)
	}
	if s.Overlay != OverlayNone {
		t.Fatalf("modal should close on accept")
	}

	// The server bounces the confirmed attempt: the modal comes back
	// with the failure attached.
	s, _ = r.Reduce(s, OperationFailed{
		Kind: nav.KindWorkflows, Op: kinds.OpCancel,
		Target: kinds.Target{ID: "wf-1", RunID: "run-wf-1"},
		Err:    errors.New("workflow already completed"),
	})
	if s.Overlay != OverlayConfirm {
		t.Fatalf("failed confirm op should reopen the modal")
	}
	if s.Confirm.Err != "workflow already completed" {
		t.Fatalf("modal should carry the failure, got %q", s.Confirm.Err)
	}

	s, fx = r.Reduce(s, ConfirmCancel{})
	if s.Overlay != OverlayNone || len(fx) != 0 {
		t.Fatalf("cancel should close quietly")
	}
}

func TestPauseToggleSkipsConfirm(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedSchedules(t, r, domain.Schedule{ScheduleID: "payroll", Paused: true})

	s, fx := r.Reduce(s, InvokeOperation{Op: kinds.OpPause})
	if s.Overlay != OverlayNone {
		t.Fatalf("pause toggle must not confirm")
	}
	ros := runOperations(fx)
	if len(ros) != 1 || len(ros[0].Args) != 1 || ros[0].Args[0] != "unpause" {
		t.Fatalf("paused schedule should unpause, got %#v", ros)
	}
}

func TestOperationNotApplicableToasts(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-done", domain.StatusCompleted))

	s, fx := r.Reduce(s, InvokeOperation{Op: kinds.OpCancel})
	if len(runOperations(fx)) != 0 || s.Overlay != OverlayNone {
		t.Fatalf("closed workflow must not offer cancel")
	}
	if s.Toast.Text == "" {
		t.Fatalf("inapplicable op should explain itself")
	}
}

func TestLoadMoreNearEndOfPage(t *testing.T) {
	t.Parallel()
	r := newReducer(t)

	items := make([]domain.WorkflowSummary, 50)
	for i := range items {
		items[i] = wfSummary(string(rune('a'+i%26))+"-wf", domain.StatusRunning)
		items[i].WorkflowID = items[i].WorkflowID + string(rune('0'+i/26))
	}
	s := NewState("default")
	s, fx := r.Reduce(s, Refresh{})
	lc := oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: lc.Seq, Payload: WorkflowsPage{
		Page: domain.WorkflowPage{Items: items, NextPageToken: []byte("tok-2")},
	}})

	s, fx = r.Reduce(s, MoveSelection{Delta: 44})
	if len(loadCollections(fx)) != 0 {
		t.Fatalf("cursor at 44 of 50 is not near the end yet")
	}

	s, fx = r.Reduce(s, MoveSelection{Delta: 1})
	lc = oneLoadCollection(t, fx)
	if !lc.Append || string(lc.PageToken) != "tok-2" {
		t.Fatalf("expected append load with token, got %#v", lc)
	}

	_, fx = r.Reduce(s, MoveSelection{Delta: 1})
	if len(loadCollections(fx)) != 0 {
		t.Fatalf("no second page request while one is in flight")
	}

	s, _ = r.Reduce(s, DataLoaded{Seq: lc.Seq, Payload: WorkflowsPage{
		Page:   domain.WorkflowPage{Items: []domain.WorkflowSummary{wfSummary("tail", domain.StatusRunning)}},
		Append: true,
	}})
	if len(s.Workflows.Items) != 51 || len(s.Workflows.NextPage) != 0 {
		t.Fatalf("append should extend items and clear the token: n=%d", len(s.Workflows.Items))
	}
}

func TestPollTickGating(t *testing.T) {
	t.Parallel()
	r := newReducer(t)

	// Nothing loaded yet: the tick stays quiet.
	s := NewState("default")
	if _, fx := r.Reduce(s, PollTick{}); len(fx) != 0 {
		t.Fatalf("tick before first load should be silent, got %#v", fx)
	}

	// Healthy collection refreshes.
	s = loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))
	if _, fx := r.Reduce(s, PollTick{}); len(loadCollections(fx)) != 1 {
		t.Fatalf("healthy tick should refresh the collection")
	}

	// A non-retryable failure halts polling until the user acts.
	s, fx := r.Reduce(s, Refresh{})
	lc := oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoadFailed{Seq: lc.Seq, Err: errors.New("invalid query")})
	if _, fx := r.Reduce(s, PollTick{}); len(fx) != 0 {
		t.Fatalf("non-retryable failure should stop the poll, got %#v", fx)
	}

	// A retryable failure keeps the (backed-off) retries coming.
	s, fx = r.Reduce(s, Refresh{})
	lc = oneLoadCollection(t, fx)
	s, _ = r.Reduce(s, DataLoadFailed{Seq: lc.Seq, Err: flakyErr{"unavailable"}})
	if _, fx := r.Reduce(s, PollTick{}); len(loadCollections(fx)) != 1 {
		t.Fatalf("retryable failure should keep polling")
	}
}

func TestPollTickSkipsClosedWorkflowDetail(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Navigate{To: nav.WorkflowDetail("default", "wf-done", "", nav.TabSummary)})
	ld := oneLoadDetail(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: ld.Seq, Payload: WorkflowDetailData{
		Target: kinds.Target{ID: "wf-done"},
		Detail: domain.WorkflowDetail{Summary: wfSummary("wf-done", domain.StatusCompleted)},
	}})

	if _, fx := r.Reduce(s, PollTick{}); len(fx) != 0 {
		t.Fatalf("closed workflow detail should not poll, got %#v", fx)
	}
}

func TestScheduleChildListInjectsFilter(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Navigate{To: nav.ScheduleWorkflows("default", "payroll-weekly", "ExecutionStatus='Running'")})
	lc := oneLoadCollection(t, fx)
	want := "(TemporalScheduledById = 'payroll-weekly') AND (ExecutionStatus='Running')"
	if lc.Query != want {
		t.Fatalf("child list query = %q, want %q", lc.Query, want)
	}
	if lc.Kind != nav.KindWorkflows {
		t.Fatalf("child list should load workflows, got %s", lc.Kind)
	}
}

func TestNamespaceSwitchDropsResourceData(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))
	prevLoc := s.Loc

	s, fx := r.Reduce(s, SelectNamespace{Name: "payments"})
	if s.Loc.Namespace != "payments" {
		t.Fatalf("namespace not switched: %+v", s.Loc)
	}
	if len(s.Workflows.Items) != 0 || s.Workflows.Loaded {
		t.Fatalf("old namespace rows must not leak: %+v", s.Workflows)
	}
	lc := oneLoadCollection(t, fx)
	if lc.Namespace != "payments" {
		t.Fatalf("load should target the new namespace, got %q", lc.Namespace)
	}
	if len(s.Back) == 0 || !s.Back[len(s.Back)-1].Equal(prevLoc) {
		t.Fatalf("previous location should be on the back stack")
	}
}

func TestSubmitSearchNavigates(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))

	s, fx := r.Reduce(s, SubmitSearch{Query: "ExecutionStatus='Failed'"})
	if s.Loc.Query != "ExecutionStatus='Failed'" {
		t.Fatalf("query not applied: %+v", s.Loc)
	}
	lc := oneLoadCollection(t, fx)
	if lc.Query != "ExecutionStatus='Failed'" {
		t.Fatalf("load should carry the filter, got %q", lc.Query)
	}

	// Submitting the same filter again changes nothing.
	if _, fx := r.Reduce(s, SubmitSearch{Query: "ExecutionStatus='Failed'"}); len(fx) != 0 {
		t.Fatalf("same filter should be a no-op, got %#v", fx)
	}
}

func TestHistoryTabChainsPages(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Navigate{To: nav.WorkflowDetail("default", "wf-1", "", nav.TabSummary)})
	ld := oneLoadDetail(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: ld.Seq, Payload: WorkflowDetailData{
		Target: kinds.Target{ID: "wf-1"},
		Detail: domain.WorkflowDetail{Summary: wfSummary("wf-1", domain.StatusRunning)},
	}})

	s, fx = r.Reduce(s, SetTab{Tab: nav.TabHistory})
	hist := oneLoadDetail(t, fx)
	if hist.Part != kinds.PartHistory {
		t.Fatalf("history tab should load history, got %#v", hist)
	}

	// First page arrives with a continuation token: the next page is
	// requested immediately.
	s, fx = r.Reduce(s, DataLoaded{Seq: hist.Seq, Payload: WorkflowHistoryData{
		Target: kinds.Target{ID: "wf-1"},
		Page: domain.HistoryPage{
			Events:        []domain.HistoryEvent{{ID: 1, Type: "WorkflowExecutionStarted"}},
			NextPageToken: []byte("page-2"),
		},
	}})
	next := oneLoadDetail(t, fx)
	if next.Part != kinds.PartHistory || string(next.PageToken) != "page-2" {
		t.Fatalf("expected chained history load, got %#v", next)
	}
	if s.WFDetail.HistoryLoaded {
		t.Fatalf("history is not complete yet")
	}

	s, fx = r.Reduce(s, DataLoaded{Seq: next.Seq, Payload: WorkflowHistoryData{
		Target: kinds.Target{ID: "wf-1"},
		Page:   domain.HistoryPage{Events: []domain.HistoryEvent{{ID: 2, Type: "WorkflowTaskScheduled"}}},
		Append: true,
	}})
	if len(fx) != 0 {
		t.Fatalf("final page should end the chain, got %#v", fx)
	}
	if !s.WFDetail.HistoryLoaded || len(s.WFDetail.History) != 2 {
		t.Fatalf("history should be complete with both pages: %+v", s.WFDetail)
	}
}

func TestDeleteScheduleFallsBackToCollection(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Navigate{To: nav.ScheduleDetail("default", "payroll")})
	ld := oneLoadDetail(t, fx)
	s, _ = r.Reduce(s, DataLoaded{Seq: ld.Seq, Payload: ScheduleDetailData{ID: "payroll", Item: domain.Schedule{ScheduleID: "payroll"}}})

	s, _ = r.Reduce(s, OperationDone{Kind: nav.KindSchedules, Op: kinds.OpDelete, Target: kinds.Target{ID: "payroll"}})
	leaf := s.Loc.Leaf()
	if leaf.Kind != nav.KindSchedules || leaf.ID != "" {
		t.Fatalf("deleting the viewed schedule should land on the collection, got %+v", s.Loc)
	}
}

func TestYankCopiesCanonicalLink(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))

	_, fx := r.Reduce(s, YankLocation{})
	var copied string
	for _, e := range fx {
		if c, ok := e.(kinds.CopyText); ok {
			copied = c.Text
		}
	}
	if copied != "temporal://tui/namespaces/default/workflows" {
		t.Fatalf("yanked %q", copied)
	}
}

func TestOpenLinkRejectsMalformed(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := loadedWorkflows(t, r, wfSummary("wf-1", domain.StatusRunning))
	before := s.Loc

	s, _ = r.Reduce(s, OpenLink{URI: "temporal://tui/namespaces/default/pods"})
	if !s.Loc.Equal(before) {
		t.Fatalf("bad link must not navigate")
	}
	if s.Toast.Text == "" || s.Toast.Level != ToastError {
		t.Fatalf("bad link should toast an error, got %+v", s.Toast)
	}
}

func TestActivatePendingActivityOpensActivityPane(t *testing.T) {
	t.Parallel()
	r := newReducer(t)
	s := NewState("default")

	s, fx := r.Reduce(s, Navigate{To: nav.WorkflowDetail("default", "wf-1", "", nav.TabSummary)})
	ld := oneLoadDetail(t, fx)
	detail := domain.WorkflowDetail{
		Summary: wfSummary("wf-1", domain.StatusRunning),
		PendingActivities: []domain.PendingActivity{
			{ActivityID: "act-7", ActivityType: "ChargeCard", Attempt: 3},
		},
	}
	s, _ = r.Reduce(s, DataLoaded{Seq: ld.Seq, Payload: WorkflowDetailData{Target: kinds.Target{ID: "wf-1"}, Detail: detail}})

	s, _ = r.Reduce(s, SetTab{Tab: nav.TabPending})
	s, _ = r.Reduce(s, ActivateSelection{})

	leaf := s.Loc.Leaf()
	if leaf.Kind != nav.KindActivities || leaf.ID != "act-7" {
		t.Fatalf("expected activity pane, got %+v", s.Loc)
	}
	if nav.Format(s.Loc) != "temporal://tui/namespaces/default/workflows/wf-1/activities/act-7" {
		t.Fatalf("activity link wrong: %s", nav.Format(s.Loc))
	}
}
