// Package nav defines the Location value — the canonical answer to "where
// is the UI right now" — and the deep-link URI codec for it. A Location is
// immutable: navigation replaces it wholesale, never patches it in place.
package nav

// Kind is the route-level resource kind token. The set is closed; the kind
// registry attaches behavior to these, nav only knows their spelling.
type Kind string

const (
	KindWorkflows  Kind = "workflows"
	KindSchedules  Kind = "schedules"
	KindActivities Kind = "activities"
)

// Tab selects a pane inside the workflow detail view.
type Tab int

const (
	TabSummary Tab = iota
	TabIO
	TabHistory
	TabPending
	TabTaskQueue
)

const TabCount = 5

// Token is the canonical query-parameter value for the tab.
func (t Tab) Token() string {
	switch t {
	case TabIO:
		return "io"
	case TabHistory:
		return "history"
	case TabPending:
		return "pending"
	case TabTaskQueue:
		return "task-queue"
	default:
		return "summary"
	}
}

func (t Tab) Title() string {
	switch t {
	case TabIO:
		return "Input/Output"
	case TabHistory:
		return "History"
	case TabPending:
		return "Pending Activities"
	case TabTaskQueue:
		return "Task Queue"
	default:
		return "Summary"
	}
}

// ParseTab resolves a tab token or one of its accepted aliases.
func ParseTab(s string) (Tab, bool) {
	switch s {
	case "summary":
		return TabSummary, true
	case "io", "input-output":
		return TabIO, true
	case "history":
		return TabHistory, true
	case "pending", "pending-activities":
		return TabPending, true
	case "task-queue", "taskqueue":
		return TabTaskQueue, true
	default:
		return TabSummary, false
	}
}

// Segment is one step of the route path: a kind plus, for detail routes,
// the resource identifier. Identifier syntax is opaque here; the owning
// kind spec gives it meaning.
type Segment struct {
	Kind Kind
	ID   string
}

// Location is the parsed, canonical address of a screen. Segments always
// has at least one entry; only the leaf segment determines what is
// rendered. Namespace is never empty.
type Location struct {
	Namespace string
	Segments  []Segment

	// Query is the verbatim list filter (the q parameter); meaningful only
	// when the leaf is a collection.
	Query string
	// RunID disambiguates a workflow identity when the path id alone is
	// ambiguous; meaningful only on workflow-rooted detail routes.
	RunID string
	// ActiveTab selects the workflow detail pane.
	ActiveTab Tab

	// Extra preserves unrecognized query parameters across parse/format so
	// links minted by newer builds survive a round-trip through this one.
	Extra map[string]string
}

// Leaf returns the segment that determines rendering.
func (l Location) Leaf() Segment {
	if len(l.Segments) == 0 {
		return Segment{}
	}
	return l.Segments[len(l.Segments)-1]
}

// IsDetail reports whether the leaf addresses a single resource rather
// than a collection.
func (l Location) IsDetail() bool {
	return l.Leaf().ID != ""
}

func (l Location) Equal(o Location) bool {
	if l.Namespace != o.Namespace || l.Query != o.Query || l.RunID != o.RunID || l.ActiveTab != o.ActiveTab {
		return false
	}
	if len(l.Segments) != len(o.Segments) {
		return false
	}
	for i := range l.Segments {
		if l.Segments[i] != o.Segments[i] {
			return false
		}
	}
	if len(l.Extra) != len(o.Extra) {
		return false
	}
	for k, v := range l.Extra {
		if ov, ok := o.Extra[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// WithNamespace rebases the location onto another namespace, dropping
// resource identity and filters (they are namespace-scoped).
func (l Location) WithNamespace(ns string) Location {
	root := KindWorkflows
	if len(l.Segments) > 0 {
		root = l.Segments[0].Kind
	}
	return Location{Namespace: ns, Segments: []Segment{{Kind: root}}}
}

// Constructors for every canonical route shape. Building through these
// keeps impossible shapes unrepresentable in calling code.

func WorkflowsCollection(ns, query string) Location {
	return Location{Namespace: ns, Segments: []Segment{{Kind: KindWorkflows}}, Query: query}
}

func WorkflowDetail(ns, workflowID, runID string, tab Tab) Location {
	return Location{
		Namespace: ns,
		Segments:  []Segment{{Kind: KindWorkflows, ID: workflowID}},
		RunID:     runID,
		ActiveTab: tab,
	}
}

func WorkflowActivity(ns, workflowID, activityID string) Location {
	return Location{
		Namespace: ns,
		Segments: []Segment{
			{Kind: KindWorkflows, ID: workflowID},
			{Kind: KindActivities, ID: activityID},
		},
	}
}

func SchedulesCollection(ns, query string) Location {
	return Location{Namespace: ns, Segments: []Segment{{Kind: KindSchedules}}, Query: query}
}

func ScheduleDetail(ns, scheduleID string) Location {
	return Location{Namespace: ns, Segments: []Segment{{Kind: KindSchedules, ID: scheduleID}}}
}

func ScheduleWorkflows(ns, scheduleID, query string) Location {
	return Location{
		Namespace: ns,
		Segments: []Segment{
			{Kind: KindSchedules, ID: scheduleID},
			{Kind: KindWorkflows},
		},
		Query: query,
	}
}

// Crumb is one breadcrumb entry; activating it navigates to Loc.
type Crumb struct {
	Label string
	Loc   Location
}

// Labeler supplies the display label for a kind and whether the kind has a
// listable collection of its own (detail-only kinds have none and get no
// collection crumb).
type Labeler func(Kind) (label string, listable bool)

// Breadcrumbs derives the root→leaf trail for the location. The namespace
// crumb targets the workflow collection, mirroring the start screen.
func (l Location) Breadcrumbs(labelFor Labeler) []Crumb {
	crumbs := []Crumb{{Label: l.Namespace, Loc: WorkflowsCollection(l.Namespace, "")}}
	if len(l.Segments) == 0 {
		return crumbs
	}

	root := l.Segments[0]
	rootLabel, _ := labelFor(root.Kind)
	crumbs = append(crumbs, Crumb{
		Label: rootLabel,
		Loc:   Location{Namespace: l.Namespace, Segments: []Segment{{Kind: root.Kind}}},
	})
	if root.ID != "" {
		crumbs = append(crumbs, Crumb{
			Label: root.ID,
			Loc:   Location{Namespace: l.Namespace, Segments: []Segment{root}},
		})
	}
	if len(l.Segments) == 1 {
		return crumbs
	}

	child := l.Segments[1]
	childLabel, listable := labelFor(child.Kind)
	if listable {
		crumbs = append(crumbs, Crumb{
			Label: childLabel,
			Loc:   Location{Namespace: l.Namespace, Segments: []Segment{root, {Kind: child.Kind}}, Query: l.Query},
		})
	} else if child.Kind == KindActivities {
		// Detail-only child: the kind-level crumb points back at the parent
		// detail's pending pane instead of a collection that does not exist.
		crumbs = append(crumbs, Crumb{
			Label: childLabel,
			Loc:   WorkflowDetail(l.Namespace, root.ID, l.RunID, TabPending),
		})
	}
	if child.ID != "" {
		crumbs = append(crumbs, Crumb{
			Label: child.ID,
			Loc:   l,
		})
	}
	return crumbs
}
