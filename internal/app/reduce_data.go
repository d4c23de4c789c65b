package app

import (
	"errors"
	"fmt"

	"flowdeck/internal/domain"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

// dataLoaded folds a completed load into its slot. The sequence check is
// the staleness rule: only the most recently issued load for a slot may
// land; everything older is dropped on the floor.
func (r *Reducer) dataLoaded(s State, a DataLoaded) (State, []kinds.Effect) {
	switch p := a.Payload.(type) {
	case WorkflowsPage:
		wl := s.Workflows
		if a.Seq != wl.Seq {
			return s, nil
		}
		wl.Fetching = false
		wl.Loaded = true
		if p.Append {
			wl.Items = append(wl.Items, p.Page.Items...)
		} else {
			prev := selectedWorkflowID(wl)
			wl.Items = p.Page.Items
			wl.Selected = workflowIndex(wl.Items, prev)
		}
		wl.NextPage = p.Page.NextPageToken
		wl.Selected = clampIndex(wl.Selected, len(wl.Items))
		s.Workflows = wl
		return noteSuccess(s), nil

	case WorkflowCount:
		wl := s.Workflows
		if a.Seq != wl.CountSeq {
			return s, nil
		}
		wl.CountSeq = 0
		wl.Total = p.Count
		s.Workflows = wl
		return s, nil

	case SchedulesPage:
		sl := s.Schedules
		if a.Seq != sl.Seq {
			return s, nil
		}
		prev := selectedScheduleID(sl)
		sl.Fetching = false
		sl.Loaded = true
		sl.Items = p.Page.Items
		sl.Selected = clampIndex(scheduleIndex(sl.Items, prev), len(sl.Items))
		s.Schedules = sl
		return noteSuccess(s), nil

	case WorkflowDetailData:
		d := s.WFDetail
		if a.Seq != d.Seq || p.Target.ID != d.Target.ID {
			return s, nil
		}
		d.Fetching = false
		d.Loaded = true
		d.Detail = p.Detail
		d.PendingSelected = clampIndex(d.PendingSelected, len(p.Detail.PendingActivities))
		s.WFDetail = d
		s = noteSuccess(s)
		// The user may already be sitting on a lazily loaded tab.
		return r.loadLazyPane(s)

	case WorkflowHistoryData:
		d := s.WFDetail
		if a.Seq != d.HistorySeq || p.Target.ID != d.Target.ID {
			return s, nil
		}
		d.HistoryFetching = false
		if p.Append {
			d.History = append(d.History, p.Page.Events...)
		} else {
			d.History = p.Page.Events
		}
		d.HistoryToken = p.Page.NextPageToken
		s.WFDetail = d
		s = noteSuccess(s)
		// Chain the next page until the history is complete or too long
		// to keep pulling.
		if len(d.HistoryToken) > 0 && len(d.History) < historyMaxEvents {
			seq := s.nextSeq()
			d = s.WFDetail
			d.HistoryFetching = true
			d.HistorySeq = seq
			s.WFDetail = d
			return s, []kinds.Effect{kinds.LoadDetail{
				Seq: seq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace,
				Target: d.Target, Part: kinds.PartHistory, PageToken: d.HistoryToken,
			}}
		}
		d = s.WFDetail
		d.HistoryLoaded = true
		s.WFDetail = d
		return s, nil

	case TaskQueueData:
		d := s.WFDetail
		if a.Seq != d.QueueSeq {
			return s, nil
		}
		d.QueueFetching = false
		d.QueueLoaded = true
		d.Queue = p.Info
		s.WFDetail = d
		return noteSuccess(s), nil

	case ScheduleDetailData:
		d := s.SchedDetail
		if a.Seq != d.Seq || p.ID != d.ID {
			return s, nil
		}
		d.Fetching = false
		d.Loaded = true
		d.Item = p.Item
		s.SchedDetail = d
		return noteSuccess(s), nil

	case NamespacesData:
		n := s.Namespaces
		if a.Seq != n.Seq {
			return s, nil
		}
		n.Fetching = false
		n.Loaded = true
		n.Items = p.Items
		for i, item := range n.Items {
			if item.Name == s.Loc.Namespace {
				n.Selected = i
			}
		}
		n.Selected = clampIndex(n.Selected, len(n.Items))
		s.Namespaces = n
		return noteSuccess(s), nil
	}
	return s, nil
}

// dataLoadFailed clears the owning slot's fetching flag but keeps the
// stale data on screen. Count failures are ignored outright: the total
// is garnish, and the paired list load reports the real problem.
func (r *Reducer) dataLoadFailed(s State, a DataLoadFailed) (State, []kinds.Effect) {
	matched := false
	switch {
	case a.Seq == s.Workflows.Seq && s.Workflows.Fetching:
		wl := s.Workflows
		wl.Fetching = false
		s.Workflows = wl
		matched = true
	case a.Seq == s.Workflows.CountSeq:
		wl := s.Workflows
		wl.CountSeq = 0
		s.Workflows = wl
		return s, nil
	case a.Seq == s.Schedules.Seq && s.Schedules.Fetching:
		sl := s.Schedules
		sl.Fetching = false
		s.Schedules = sl
		matched = true
	case a.Seq == s.WFDetail.Seq && s.WFDetail.Fetching:
		d := s.WFDetail
		d.Fetching = false
		s.WFDetail = d
		matched = true
	case a.Seq == s.WFDetail.HistorySeq && s.WFDetail.HistoryFetching:
		d := s.WFDetail
		d.HistoryFetching = false
		s.WFDetail = d
		matched = true
	case a.Seq == s.WFDetail.QueueSeq && s.WFDetail.QueueFetching:
		d := s.WFDetail
		d.QueueFetching = false
		s.WFDetail = d
		matched = true
	case a.Seq == s.SchedDetail.Seq && s.SchedDetail.Fetching:
		d := s.SchedDetail
		d.Fetching = false
		s.SchedDetail = d
		matched = true
	case a.Seq == s.Namespaces.Seq && s.Namespaces.Fetching:
		n := s.Namespaces
		n.Fetching = false
		s.Namespaces = n
		matched = true
	}
	if !matched {
		// Stale failure: a newer load owns the slot now.
		return s, nil
	}

	s.ErrorCount++
	s.LastError = a.Err.Error()
	if isRetryable(a.Err) {
		s.RetryableErr = true
		s.Connected = false
	} else {
		s.RetryableErr = false
	}
	return s, nil
}

func (r *Reducer) operationDone(s State, a OperationDone) (State, []kinds.Effect) {
	label := string(a.Op)
	if sp, ok := r.Registry.Operation(a.Kind, a.Op); ok {
		label = sp.Label
	}
	s, fx := r.showToast(s, ToastSuccess, fmt.Sprintf("%s %s: done", label, a.Target.ID))

	// A deleted schedule has no detail to re-describe; fall back to the
	// collection instead.
	if a.Op == kinds.OpDelete && a.Kind == nav.KindSchedules {
		leaf := s.Loc.Leaf()
		if leaf.Kind == nav.KindSchedules && leaf.ID == a.Target.ID {
			var navFx []kinds.Effect
			s, navFx = r.navigate(s, nav.SchedulesCollection(s.Loc.Namespace, ""), false)
			return s, append(fx, navFx...)
		}
	}

	// Refresh whatever the operation touched if it is on screen.
	var more []kinds.Effect
	s, more = r.ensureLoaded(s)
	return s, append(fx, more...)
}

// operationFailed re-opens the confirm modal with the failure attached
// when the operation was confirm-gated; one-shot operations just toast.
func (r *Reducer) operationFailed(s State, a OperationFailed) (State, []kinds.Effect) {
	sp, ok := r.Registry.Operation(a.Kind, a.Op)
	if ok && sp.Confirm {
		s.Overlay = OverlayConfirm
		s.Confirm = ConfirmState{
			Kind: a.Kind, Op: a.Op, Target: a.Target,
			Label: sp.Label, Args: a.Args, Err: a.Err.Error(),
		}
		return s, nil
	}
	label := string(a.Op)
	if ok {
		label = sp.Label
	}
	return r.showToast(s, ToastError, fmt.Sprintf("%s %s: %v", label, a.Target.ID, a.Err))
}

// pollTick refreshes the current leaf when it is worth refreshing: the
// kind polls, the connection is healthy or worth retrying, and no load
// for the slot is already in flight (ensureLoaded enforces that last).
func (r *Reducer) pollTick(s State) (State, []kinds.Effect) {
	if s.Quitting {
		return s, nil
	}
	if !s.Connected && !s.RetryableErr {
		// Nothing has loaded yet; the initial load is on its way.
		return s, nil
	}
	if s.LastError != "" && !s.RetryableErr {
		// Auth and validation failures do not fix themselves; wait for
		// the user instead of hammering the server.
		return s, nil
	}
	if !r.wantsPoll(s) {
		return s, nil
	}
	return r.ensureLoaded(s)
}

func (r *Reducer) wantsPoll(s State) bool {
	leaf := s.Loc.Leaf()
	if leaf.ID == "" {
		spec, ok := r.Registry.Get(leaf.Kind)
		return ok && spec.Collection != nil && spec.Collection.Pollable
	}
	switch leaf.Kind {
	case nav.KindWorkflows, nav.KindActivities:
		d := s.WFDetail
		if !d.Loaded {
			return true
		}
		return d.Detail.Summary.Status == domain.StatusRunning || len(d.Detail.PendingActivities) > 0
	case nav.KindSchedules:
		return true
	}
	return false
}

// refresh is the manual reload: unconditional, and it also re-pulls the
// lazily loaded pane the user is looking at.
func (r *Reducer) refresh(s State) (State, []kinds.Effect) {
	if isWorkflowDetailLeaf(s.Loc) {
		d := s.WFDetail
		switch s.Loc.ActiveTab {
		case nav.TabHistory:
			d.HistoryLoaded = false
			d.HistoryToken = nil
		case nav.TabTaskQueue:
			d.QueueLoaded = false
		}
		s.WFDetail = d
	}
	return r.ensureLoaded(s)
}

func noteSuccess(s State) State {
	s.Connected = true
	s.ErrorCount = 0
	s.LastError = ""
	s.RetryableErr = false
	return s
}

// isRetryable probes the error chain for the client taxonomy without
// importing the client package.
func isRetryable(err error) bool {
	var re interface{ Retryable() bool }
	return errors.As(err, &re) && re.Retryable()
}

func selectedWorkflowID(wl WorkflowList) string {
	if wl.Selected < len(wl.Items) {
		return wl.Items[wl.Selected].WorkflowID
	}
	return ""
}

// workflowIndex keeps the cursor on the same execution across a replace
// load when it is still listed; otherwise the caller clamps.
func workflowIndex(items []domain.WorkflowSummary, id string) int {
	for i, w := range items {
		if w.WorkflowID == id {
			return i
		}
	}
	return 0
}

func selectedScheduleID(sl ScheduleList) string {
	if sl.Selected < len(sl.Items) {
		return sl.Items[sl.Selected].ScheduleID
	}
	return ""
}

func scheduleIndex(items []domain.Schedule, id string) int {
	for i, sc := range items {
		if sc.ScheduleID == id {
			return i
		}
	}
	return 0
}
