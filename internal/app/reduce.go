package app

import (
	"fmt"
	"time"

	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

const (
	// loadMoreThreshold triggers the next page when the cursor comes
	// within this many rows of the end of a paged listing.
	loadMoreThreshold = 5
	toastTTL          = 4 * time.Second
	// historyMaxEvents caps the auto-chained history pages; beyond this
	// the pane shows a truncation notice instead of fetching forever.
	historyMaxEvents = 1000
	maxBackStack     = 50
)

// Reducer carries the immutable configuration Reduce folds into effects.
// Reduce itself is pure: same state and action, same result.
type Reducer struct {
	Registry *kinds.Registry
	PageSize int
}

func (r *Reducer) Reduce(s State, a Action) (State, []kinds.Effect) {
	switch a := a.(type) {
	case Navigate:
		return r.navigate(s, a.To, true)

	case OpenLink:
		loc, err := nav.Parse(a.URI)
		if err != nil {
			return r.showToast(s, ToastError, "bad link: "+err.Error())
		}
		if loc.Namespace == "" {
			loc = loc.WithNamespace(s.Loc.Namespace)
		}
		return r.navigate(s, loc, true)

	case GoCollection:
		return r.navigate(s, collectionLoc(a.Kind, s.Loc.Namespace, a.Query), true)

	case GoBack:
		if len(s.Back) == 0 {
			return s, nil
		}
		to := s.Back[len(s.Back)-1]
		s.Back = s.Back[:len(s.Back)-1]
		return r.navigate(s, to, false)

	case SelectNamespace:
		s.Overlay = OverlayNone
		if a.Name == "" || a.Name == s.Loc.Namespace {
			return s, nil
		}
		return r.navigate(s, s.Loc.WithNamespace(a.Name), true)

	case MoveSelection:
		return r.moveSelection(s, a.Delta)

	case SelectFirst:
		return r.jumpSelection(s, false)

	case SelectLast:
		return r.jumpSelection(s, true)

	case ActivateSelection:
		return r.activate(s)

	case CycleTab:
		return r.cycleTab(s, a.Delta)

	case SetTab:
		return r.setTab(s, a.Tab)

	case InvokeOperation:
		return r.invoke(s, a)

	case ConfirmAccept:
		if s.Overlay != OverlayConfirm {
			return s, nil
		}
		c := s.Confirm
		s.Overlay = OverlayNone
		s.Confirm = ConfirmState{}
		return r.runOperation(s, c.Kind, c.Op, c.Target, c.Args)

	case ConfirmCancel:
		if s.Overlay != OverlayConfirm {
			return s, nil
		}
		s.Overlay = OverlayNone
		s.Confirm = ConfirmState{}
		return s, nil

	case OpenHelp:
		if s.Overlay == OverlayHelp {
			s.Overlay = OverlayNone
		} else {
			s.Overlay = OverlayHelp
		}
		return s, nil

	case OpenPalette:
		s.Overlay = OverlayPalette
		return s, nil

	case OpenSearch:
		if spec, ok := r.Registry.Get(s.LeafKind()); ok &&
			s.Loc.Leaf().ID == "" && spec.Collection != nil && spec.Collection.Filterable {
			s.Overlay = OverlaySearch
			return s, nil
		}
		return r.showToast(s, ToastInfo, "this view has no filter")

	case OpenNamespaces:
		return r.openNamespaces(s)

	case CloseOverlay:
		s.Overlay = OverlayNone
		s.Confirm = ConfirmState{}
		return s, nil

	case SubmitSearch:
		return r.submitSearch(s, a.Query)

	case SubmitCommand:
		s.Overlay = OverlayNone
		act, err := ParseCommand(a.Text)
		if err != nil {
			return r.showToast(s, ToastError, err.Error())
		}
		return r.Reduce(s, act)

	case SavePresetNamed:
		leaf := s.Loc.Leaf()
		if leaf.ID != "" || s.Loc.Query == "" {
			return r.showToast(s, ToastInfo, "no active filter to save")
		}
		s, fx := r.showToast(s, ToastSuccess, "preset "+quoteName(a.Name)+" saved")
		fx = append(fx, kinds.SavePreset{Name: a.Name, Kind: leaf.Kind, Query: s.Loc.Query})
		return s, fx

	case ApplyPreset:
		return s, []kinds.Effect{kinds.LoadPreset{Name: a.Name}}

	case PresetLoaded:
		if !a.Found {
			return r.showToast(s, ToastError, "no preset named "+quoteName(a.Name))
		}
		return r.navigate(s, collectionLoc(a.Kind, s.Loc.Namespace, a.Query), true)

	case DataLoaded:
		return r.dataLoaded(s, a)

	case DataLoadFailed:
		return r.dataLoadFailed(s, a)

	case OperationDone:
		return r.operationDone(s, a)

	case OperationFailed:
		return r.operationFailed(s, a)

	case PollTick:
		return r.pollTick(s)

	case TimerFired:
		if a.Reason == kinds.TimerToast && s.Toast.Seq == a.Seq {
			s.Toast = Toast{}
		}
		return s, nil

	case Refresh:
		return r.refresh(s)

	case YankLocation:
		uri := nav.Format(s.Loc)
		s, fx := r.showToast(s, ToastInfo, "copied "+uri)
		fx = append(fx, kinds.CopyText{Text: uri})
		return s, fx

	case Quit:
		s.Quitting = true
		return s, []kinds.Effect{kinds.QuitApp{}}
	}
	return s, nil
}

// navigate moves to a canonical location, pushing the previous one onto
// the back stack, and issues whatever loads the new leaf needs. Crossing
// a namespace boundary drops all cached resource data first.
func (r *Reducer) navigate(s State, to nav.Location, push bool) (State, []kinds.Effect) {
	same := to.Equal(s.Loc)
	if push && !same {
		s.Back = append(s.Back, s.Loc)
		if len(s.Back) > maxBackStack {
			s.Back = append([]nav.Location(nil), s.Back[len(s.Back)-maxBackStack:]...)
		}
	}
	if to.Namespace != s.Loc.Namespace {
		s = dropNamespaceData(s)
	}
	s.Loc = to
	s.Overlay = OverlayNone
	s.Confirm = ConfirmState{}

	s, fx := r.ensureLoaded(s)
	if !same {
		fx = append(fx, kinds.RecordVisit{URI: nav.Format(to)})
	}
	return s, fx
}

func collectionLoc(k nav.Kind, ns, query string) nav.Location {
	if k == nav.KindSchedules {
		return nav.SchedulesCollection(ns, query)
	}
	return nav.WorkflowsCollection(ns, query)
}

func dropNamespaceData(s State) State {
	s.Workflows = WorkflowList{Total: -1}
	s.Schedules = ScheduleList{}
	s.WFDetail = WorkflowDetailSlot{}
	s.SchedDetail = ScheduleDetailSlot{}
	return s
}

// effectiveQuery maps the location's filter to the visibility query sent
// upstream. A schedule's child-workflow listing injects the scheduled-by
// clause around whatever the user typed.
func effectiveQuery(loc nav.Location) string {
	segs := loc.Segments
	if len(segs) == 2 && segs[0].Kind == nav.KindSchedules &&
		segs[1].Kind == nav.KindWorkflows && segs[1].ID == "" {
		return kinds.ScheduledByFilter(segs[0].ID, loc.Query)
	}
	return loc.Query
}

// ensureLoaded issues the loads the current leaf needs. Slots already
// fetching are left alone: at most one load is outstanding per slot.
func (r *Reducer) ensureLoaded(s State) (State, []kinds.Effect) {
	leaf := s.Loc.Leaf()
	switch leaf.Kind {
	case nav.KindWorkflows:
		if leaf.ID == "" {
			return r.loadWorkflows(s)
		}
		return r.loadWorkflowDetail(s, kinds.Target{ID: leaf.ID, RunID: s.Loc.RunID})
	case nav.KindActivities:
		// An activity pane is carved out of the parent workflow's describe.
		if segs := s.Loc.Segments; len(segs) == 2 && segs[0].Kind == nav.KindWorkflows {
			return r.loadWorkflowDetail(s, kinds.Target{ID: segs[0].ID, RunID: s.Loc.RunID})
		}
	case nav.KindSchedules:
		if leaf.ID == "" {
			return r.loadSchedules(s)
		}
		return r.loadScheduleDetail(s, leaf.ID)
	}
	return s, nil
}

func (r *Reducer) loadWorkflows(s State) (State, []kinds.Effect) {
	wl := s.Workflows
	if wl.Fetching {
		return s, nil
	}
	seq := s.nextSeq()
	cseq := s.nextSeq()
	wl.Fetching = true
	wl.Seq = seq
	wl.CountSeq = cseq
	s.Workflows = wl

	q := effectiveQuery(s.Loc)
	return s, []kinds.Effect{
		kinds.LoadCollection{Seq: seq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace, Query: q, PageSize: r.PageSize},
		kinds.CountCollection{Seq: cseq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace, Query: q},
	}
}

func (r *Reducer) loadSchedules(s State) (State, []kinds.Effect) {
	sl := s.Schedules
	if sl.Fetching {
		return s, nil
	}
	seq := s.nextSeq()
	sl.Fetching = true
	sl.Seq = seq
	s.Schedules = sl
	return s, []kinds.Effect{
		kinds.LoadCollection{Seq: seq, Kind: nav.KindSchedules, Namespace: s.Loc.Namespace, Query: s.Loc.Query, PageSize: r.PageSize},
	}
}

func (r *Reducer) loadWorkflowDetail(s State, target kinds.Target) (State, []kinds.Effect) {
	d := s.WFDetail
	if d.Target != target {
		d = WorkflowDetailSlot{Target: target}
	}
	// Viewing a workflow means any schedule detail on screen is gone.
	s.SchedDetail = ScheduleDetailSlot{}
	if d.Fetching {
		s.WFDetail = d
		return s, nil
	}
	seq := s.nextSeq()
	d.Fetching = true
	d.Seq = seq
	s.WFDetail = d

	fx := []kinds.Effect{kinds.LoadDetail{
		Seq: seq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace,
		Target: target, Part: kinds.PartSummary,
	}}
	var lazy []kinds.Effect
	s, lazy = r.loadLazyPane(s)
	return s, append(fx, lazy...)
}

func (r *Reducer) loadScheduleDetail(s State, id string) (State, []kinds.Effect) {
	d := s.SchedDetail
	if d.ID != id {
		d = ScheduleDetailSlot{ID: id}
	}
	s.WFDetail = WorkflowDetailSlot{}
	if d.Fetching {
		s.SchedDetail = d
		return s, nil
	}
	seq := s.nextSeq()
	d.Fetching = true
	d.Seq = seq
	s.SchedDetail = d
	return s, []kinds.Effect{kinds.LoadDetail{
		Seq: seq, Kind: nav.KindSchedules, Namespace: s.Loc.Namespace,
		Target: kinds.Target{ID: id}, Part: kinds.PartSummary,
	}}
}

// loadLazyPane fetches the part backing the active detail tab, if that
// tab is lazily loaded and its data is neither present nor on the way.
// It needs the summary first: the task-queue pane cannot be described
// until the workflow's queue name is known.
func (r *Reducer) loadLazyPane(s State) (State, []kinds.Effect) {
	if !isWorkflowDetailLeaf(s.Loc) || !s.WFDetail.Loaded {
		return s, nil
	}
	spec, ok := r.Registry.Get(nav.KindWorkflows)
	if !ok || spec.Detail == nil {
		return s, nil
	}
	part, lazy := spec.Detail.LazyParts[s.Loc.ActiveTab]
	if !lazy {
		return s, nil
	}
	d := s.WFDetail
	switch part {
	case kinds.PartHistory:
		if d.HistoryLoaded || d.HistoryFetching {
			return s, nil
		}
		seq := s.nextSeq()
		d.HistoryFetching = true
		d.HistorySeq = seq
		s.WFDetail = d
		return s, []kinds.Effect{kinds.LoadDetail{
			Seq: seq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace,
			Target: d.Target, Part: kinds.PartHistory, PageToken: d.HistoryToken,
		}}
	case kinds.PartTaskQueue:
		if d.QueueLoaded || d.QueueFetching || d.Detail.Summary.TaskQueue == "" {
			return s, nil
		}
		seq := s.nextSeq()
		d.QueueFetching = true
		d.QueueSeq = seq
		s.WFDetail = d
		return s, []kinds.Effect{kinds.LoadDetail{
			Seq: seq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace,
			Target: d.Target, Part: kinds.PartTaskQueue, TaskQueue: d.Detail.Summary.TaskQueue,
		}}
	}
	return s, nil
}

func isWorkflowDetailLeaf(loc nav.Location) bool {
	leaf := loc.Leaf()
	return leaf.Kind == nav.KindWorkflows && leaf.ID != ""
}

func (r *Reducer) moveSelection(s State, delta int) (State, []kinds.Effect) {
	if s.Overlay == OverlayNamespaces {
		n := s.Namespaces
		n.Selected = clampIndex(n.Selected+delta, len(n.Items))
		s.Namespaces = n
		return s, nil
	}
	if s.Overlay != OverlayNone {
		return s, nil
	}
	leaf := s.Loc.Leaf()
	switch {
	case leaf.Kind == nav.KindWorkflows && leaf.ID == "":
		wl := s.Workflows
		wl.Selected = clampIndex(wl.Selected+delta, len(wl.Items))
		s.Workflows = wl
		return r.maybeLoadMore(s)
	case leaf.Kind == nav.KindSchedules && leaf.ID == "":
		sl := s.Schedules
		sl.Selected = clampIndex(sl.Selected+delta, len(sl.Items))
		s.Schedules = sl
		return s, nil
	case isWorkflowDetailLeaf(s.Loc) && s.Loc.ActiveTab == nav.TabPending:
		d := s.WFDetail
		d.PendingSelected = clampIndex(d.PendingSelected+delta, len(d.Detail.PendingActivities))
		s.WFDetail = d
		return s, nil
	}
	return s, nil
}

func (r *Reducer) jumpSelection(s State, last bool) (State, []kinds.Effect) {
	pos := func(n int) int {
		if last {
			return n - 1
		}
		return 0
	}
	if s.Overlay == OverlayNamespaces {
		n := s.Namespaces
		n.Selected = clampIndex(pos(len(n.Items)), len(n.Items))
		s.Namespaces = n
		return s, nil
	}
	if s.Overlay != OverlayNone {
		return s, nil
	}
	leaf := s.Loc.Leaf()
	switch {
	case leaf.Kind == nav.KindWorkflows && leaf.ID == "":
		wl := s.Workflows
		wl.Selected = clampIndex(pos(len(wl.Items)), len(wl.Items))
		s.Workflows = wl
		if last {
			return r.maybeLoadMore(s)
		}
		return s, nil
	case leaf.Kind == nav.KindSchedules && leaf.ID == "":
		sl := s.Schedules
		sl.Selected = clampIndex(pos(len(sl.Items)), len(sl.Items))
		s.Schedules = sl
		return s, nil
	}
	return s, nil
}

// maybeLoadMore appends the next page once the cursor closes in on the
// end of a partially listed collection.
func (r *Reducer) maybeLoadMore(s State) (State, []kinds.Effect) {
	wl := s.Workflows
	if wl.Fetching || len(wl.NextPage) == 0 {
		return s, nil
	}
	if wl.Selected < len(wl.Items)-loadMoreThreshold {
		return s, nil
	}
	seq := s.nextSeq()
	wl.Fetching = true
	wl.Seq = seq
	s.Workflows = wl
	return s, []kinds.Effect{kinds.LoadCollection{
		Seq: seq, Kind: nav.KindWorkflows, Namespace: s.Loc.Namespace,
		Query: effectiveQuery(s.Loc), PageSize: r.PageSize,
		PageToken: wl.NextPage, Append: true,
	}}
}

func (r *Reducer) activate(s State) (State, []kinds.Effect) {
	if s.Overlay == OverlayNamespaces {
		n := s.Namespaces
		if n.Selected < len(n.Items) {
			return r.Reduce(s, SelectNamespace{Name: n.Items[n.Selected].Name})
		}
		return s, nil
	}
	if s.Overlay != OverlayNone {
		return s, nil
	}
	ns := s.Loc.Namespace
	leaf := s.Loc.Leaf()
	switch {
	case leaf.Kind == nav.KindWorkflows && leaf.ID == "":
		if t, ok := s.SelectedTarget(); ok {
			return r.navigate(s, nav.WorkflowDetail(ns, t.ID, t.RunID, nav.TabSummary), true)
		}
	case leaf.Kind == nav.KindSchedules && leaf.ID == "":
		if t, ok := s.SelectedTarget(); ok {
			return r.navigate(s, nav.ScheduleDetail(ns, t.ID), true)
		}
	case leaf.Kind == nav.KindSchedules:
		// Enter on a schedule opens the runs it has started.
		return r.navigate(s, nav.ScheduleWorkflows(ns, leaf.ID, ""), true)
	case isWorkflowDetailLeaf(s.Loc) && s.Loc.ActiveTab == nav.TabPending:
		d := s.WFDetail
		if d.Loaded && d.PendingSelected < len(d.Detail.PendingActivities) {
			act := d.Detail.PendingActivities[d.PendingSelected]
			return r.navigate(s, nav.WorkflowActivity(ns, leaf.ID, act.ActivityID), true)
		}
	}
	return s, nil
}

func (r *Reducer) cycleTab(s State, delta int) (State, []kinds.Effect) {
	if s.Overlay != OverlayNone || !isWorkflowDetailLeaf(s.Loc) {
		return s, nil
	}
	spec, ok := r.Registry.Get(nav.KindWorkflows)
	if !ok || spec.Detail == nil || len(spec.Detail.Tabs) == 0 {
		return s, nil
	}
	tabs := spec.Detail.Tabs
	idx := 0
	for i, t := range tabs {
		if t == s.Loc.ActiveTab {
			idx = i
			break
		}
	}
	idx = (idx + delta%len(tabs) + len(tabs)) % len(tabs)
	return r.setTab(s, tabs[idx])
}

// setTab switches the detail pane in place: no history push, no visit
// record, just the lazy load the new tab may need.
func (r *Reducer) setTab(s State, tab nav.Tab) (State, []kinds.Effect) {
	if !isWorkflowDetailLeaf(s.Loc) || s.Loc.ActiveTab == tab {
		return s, nil
	}
	s.Loc.ActiveTab = tab
	return r.loadLazyPane(s)
}

func (r *Reducer) invoke(s State, a InvokeOperation) (State, []kinds.Effect) {
	kind := s.LeafKind()
	if kind == nav.KindActivities {
		return r.showToast(s, ToastInfo, "no operations here")
	}
	target := kinds.Target{}
	if a.Target != nil {
		target = *a.Target
	} else if t, ok := s.SelectedTarget(); ok {
		target = t
	} else {
		return r.showToast(s, ToastInfo, "nothing selected")
	}

	sp, ok := r.Registry.Operation(kind, a.Op)
	if !ok {
		// Keys are built from the registry, so this is a wiring bug.
		return r.showToast(s, ToastError, fmt.Sprintf("internal: operation %q not registered for %s", a.Op, kind))
	}
	if sp.Applicable != nil && !sp.Applicable(s, target) {
		return r.showToast(s, ToastInfo, sp.Label+" does not apply to "+target.ID)
	}
	if sp.Confirm {
		s.Overlay = OverlayConfirm
		s.Confirm = ConfirmState{Kind: kind, Op: a.Op, Target: target, Label: sp.Label, Args: a.Args}
		return s, nil
	}
	return r.runOperation(s, kind, a.Op, target, a.Args)
}

// runOperation resolves an operation into effects, appending any
// palette-supplied args to the RunOperation it produces.
func (r *Reducer) runOperation(s State, kind nav.Kind, op kinds.OpID, target kinds.Target, args []string) (State, []kinds.Effect) {
	fx, err := r.Registry.ResolveEffects(kind, op, s.Loc.Namespace, target, s)
	if err != nil {
		return r.showToast(s, ToastError, "internal: "+err.Error())
	}
	if len(args) > 0 {
		for i, e := range fx {
			if ro, ok := e.(kinds.RunOperation); ok {
				ro.Args = append(ro.Args, args...)
				fx[i] = ro
			}
		}
	}
	return s, fx
}

func (r *Reducer) openNamespaces(s State) (State, []kinds.Effect) {
	s.Overlay = OverlayNamespaces
	n := s.Namespaces
	if n.Loaded {
		for i, item := range n.Items {
			if item.Name == s.Loc.Namespace {
				n.Selected = i
			}
		}
		s.Namespaces = n
		return s, nil
	}
	if n.Fetching {
		return s, nil
	}
	seq := s.nextSeq()
	n.Fetching = true
	n.Seq = seq
	s.Namespaces = n
	return s, []kinds.Effect{kinds.LoadNamespaces{Seq: seq}}
}

func (r *Reducer) submitSearch(s State, query string) (State, []kinds.Effect) {
	s.Overlay = OverlayNone
	leaf := s.Loc.Leaf()
	if leaf.ID != "" {
		return s, nil
	}
	to := s.Loc
	to.Query = query
	if to.Equal(s.Loc) {
		return s, nil
	}
	return r.navigate(s, to, true)
}

func (r *Reducer) showToast(s State, level ToastLevel, text string) (State, []kinds.Effect) {
	seq := s.nextSeq()
	s.Toast = Toast{Text: text, Level: level, Seq: seq}
	return s, []kinds.Effect{kinds.SetTimer{Seq: seq, Delay: toastTTL, Reason: kinds.TimerToast}}
}

func quoteName(name string) string { return "\"" + name + "\"" }

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
