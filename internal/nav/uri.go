package nav

import (
	"sort"
	"strings"
)

// Deep links address every screen with one grammar:
//
//	temporal://tui/namespaces/{namespace}/{kind}[/{id}[/{child-kind}[/{child-id}]]][?q=&run_id=&tab=]
//
// Parse accepts segment aliases (wf, sch, ...) and a few equivalent path
// shapes; Format always emits the one canonical spelling. Nothing ever
// formats by echoing input text, so two aliases of the same Location can
// never produce different canonical strings.

const (
	Scheme        = "temporal"
	schemePrefix  = Scheme + "://"
	authority     = "tui"
	namespacesSeg = "namespaces"
)

type ErrorCode int

const (
	ErrScheme ErrorCode = iota
	ErrAuthority
	ErrMissingNamespace
	ErrUnknownKind
	ErrInvalidPath
	ErrMalformedQuery
	ErrUnsupportedRoute
)

func (c ErrorCode) String() string {
	switch c {
	case ErrScheme:
		return "invalid scheme"
	case ErrAuthority:
		return "invalid authority"
	case ErrMissingNamespace:
		return "missing namespace"
	case ErrUnknownKind:
		return "unknown resource kind"
	case ErrInvalidPath:
		return "invalid path"
	case ErrMalformedQuery:
		return "malformed query"
	case ErrUnsupportedRoute:
		return "unsupported route"
	default:
		return "invalid link"
	}
}

// ParseError reports why a deep link was rejected. It belongs to the
// routing class of the app's error taxonomy: never retried, surfaced
// synchronously to whoever asked for the navigation.
type ParseError struct {
	Code   ErrorCode
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Detail
}

func parseErr(code ErrorCode, detail string) error {
	return &ParseError{Code: code, Detail: detail}
}

func kindForSegment(s string) (Kind, bool) {
	switch s {
	case "workflows", "workflow", "wf":
		return KindWorkflows, true
	case "schedules", "schedule", "sched", "sch":
		return KindSchedules, true
	case "activities", "activity", "act":
		return KindActivities, true
	default:
		return "", false
	}
}

// Parse decodes a deep link into a Location. Aliased forms normalize:
// shorthand kind segments, a trailing slash, `workflows/{id}/activities`
// (→ detail, pending pane) and `schedules/{sid}/workflows/{wid}` (→ the
// root workflow detail; only the leaf determines rendering).
func Parse(uri string) (Location, error) {
	rest, ok := strings.CutPrefix(uri, schemePrefix)
	if !ok {
		return Location{}, parseErr(ErrScheme, "expected "+schemePrefix)
	}
	pathPart, queryPart, _ := strings.Cut(rest, "?")

	tokens := strings.Split(pathPart, "/")
	if n := len(tokens); n > 1 && tokens[n-1] == "" {
		tokens = tokens[:n-1] // tolerate one trailing slash
	}
	if len(tokens) == 0 || tokens[0] != authority {
		return Location{}, parseErr(ErrAuthority, "expected "+schemePrefix+authority+"/...")
	}
	if len(tokens) < 2 || tokens[1] != namespacesSeg {
		return Location{}, parseErr(ErrInvalidPath, "expected /"+namespacesSeg+"/ after authority")
	}
	if len(tokens) < 3 {
		return Location{}, parseErr(ErrMissingNamespace, "")
	}
	ns, ok := unescape(tokens[2])
	if !ok {
		return Location{}, parseErr(ErrInvalidPath, "bad escape in namespace")
	}
	if ns == "" {
		return Location{}, parseErr(ErrMissingNamespace, "")
	}

	route := tokens[3:]
	if len(route) == 0 {
		return Location{}, parseErr(ErrUnsupportedRoute, "missing resource segment")
	}
	decoded := make([]string, len(route))
	for i, t := range route {
		if t == "" {
			return Location{}, parseErr(ErrInvalidPath, "empty path segment")
		}
		d, ok := unescape(t)
		if !ok {
			return Location{}, parseErr(ErrInvalidPath, "bad escape in path segment")
		}
		decoded[i] = d
	}

	loc, err := routeShape(ns, decoded)
	if err != nil {
		return Location{}, err
	}
	if err := applyQuery(&loc, queryPart); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// routeShape resolves the path tokens after the namespace into one of the
// supported route shapes.
func routeShape(ns string, route []string) (Location, error) {
	rootKind, ok := kindForSegment(route[0])
	if !ok {
		return Location{}, parseErr(ErrUnknownKind, quoted(route[0]))
	}

	switch rootKind {
	case KindWorkflows:
		switch len(route) {
		case 1:
			return WorkflowsCollection(ns, ""), nil
		case 2:
			return WorkflowDetail(ns, route[1], "", TabSummary), nil
		case 3, 4:
			childKind, ok := kindForSegment(route[2])
			if !ok {
				return Location{}, parseErr(ErrUnknownKind, quoted(route[2]))
			}
			if childKind != KindActivities {
				return Location{}, parseErr(ErrUnsupportedRoute, "workflows have no "+string(childKind)+" child route")
			}
			if len(route) == 3 {
				// Collection form of a detail-only kind: land on the parent's
				// pending pane.
				return WorkflowDetail(ns, route[1], "", TabPending), nil
			}
			return WorkflowActivity(ns, route[1], route[3]), nil
		}
	case KindSchedules:
		switch len(route) {
		case 1:
			return SchedulesCollection(ns, ""), nil
		case 2:
			return ScheduleDetail(ns, route[1]), nil
		case 3, 4:
			childKind, ok := kindForSegment(route[2])
			if !ok {
				return Location{}, parseErr(ErrUnknownKind, quoted(route[2]))
			}
			if childKind != KindWorkflows {
				return Location{}, parseErr(ErrUnsupportedRoute, "schedules have no "+string(childKind)+" child route")
			}
			if len(route) == 3 {
				return ScheduleWorkflows(ns, route[1], ""), nil
			}
			// A workflow reached through a schedule is the same workflow:
			// normalize to the root detail shape.
			return WorkflowDetail(ns, route[3], "", TabSummary), nil
		}
	case KindActivities:
		return Location{}, parseErr(ErrUnsupportedRoute, "activities are addressed under a workflow")
	}
	return Location{}, parseErr(ErrUnsupportedRoute, "too many path segments")
}

func applyQuery(loc *Location, raw string) error {
	if raw == "" {
		return nil
	}
	leaf := loc.Leaf()
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rk, rv, _ := strings.Cut(pair, "=")
		if rk == "" {
			return parseErr(ErrMalformedQuery, "empty parameter name")
		}
		k, ok := unescape(rk)
		if !ok {
			return parseErr(ErrMalformedQuery, "bad escape in parameter name")
		}
		v, ok := unescape(rv)
		if !ok {
			return parseErr(ErrMalformedQuery, "bad escape in "+quoted(k))
		}
		switch k {
		case "q":
			// Filters only apply to collection leaves.
			if leaf.ID == "" {
				loc.Query = v
			}
		case "run_id":
			if loc.Segments[0].Kind == KindWorkflows && loc.IsDetail() {
				loc.RunID = v
			}
		case "tab":
			if len(loc.Segments) == 1 && leaf.Kind == KindWorkflows && leaf.ID != "" {
				tab, ok := ParseTab(v)
				if !ok {
					return parseErr(ErrMalformedQuery, "unknown tab "+quoted(v))
				}
				loc.ActiveTab = tab
			}
		default:
			if loc.Extra == nil {
				loc.Extra = map[string]string{}
			}
			loc.Extra[k] = v
		}
	}
	return nil
}

// Format emits the canonical deep link for a Location. It is the only
// formatter in the program: identical field values always yield
// byte-identical strings, query keys in lexicographic order.
func Format(loc Location) string {
	var b strings.Builder
	b.WriteString(schemePrefix)
	b.WriteString(authority)
	b.WriteByte('/')
	b.WriteString(namespacesSeg)
	b.WriteByte('/')
	b.WriteString(escape(loc.Namespace))
	for _, seg := range loc.Segments {
		b.WriteByte('/')
		b.WriteString(string(seg.Kind))
		if seg.ID != "" {
			b.WriteByte('/')
			b.WriteString(escape(seg.ID))
		}
	}

	pairs := queryPairs(loc)
	if len(pairs) == 0 {
		return b.String()
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
	for i, p := range pairs {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(escape(p[0]))
		b.WriteByte('=')
		b.WriteString(escape(p[1]))
	}
	return b.String()
}

// queryPairs collects only the parameters relevant to the leaf shape, so
// canonical links never carry dead parameters.
func queryPairs(loc Location) [][2]string {
	var pairs [][2]string
	leaf := loc.Leaf()
	if leaf.ID == "" && loc.Query != "" {
		pairs = append(pairs, [2]string{"q", loc.Query})
	}
	if len(loc.Segments) > 0 && loc.Segments[0].Kind == KindWorkflows && loc.IsDetail() && loc.RunID != "" {
		pairs = append(pairs, [2]string{"run_id", loc.RunID})
	}
	if len(loc.Segments) == 1 && leaf.Kind == KindWorkflows && leaf.ID != "" && loc.ActiveTab != TabSummary {
		pairs = append(pairs, [2]string{"tab", loc.ActiveTab.Token()})
	}
	for k, v := range loc.Extra {
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs
}

const upperhex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func escape(s string) string {
	hexCount := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			hexCount++
		}
	}
	if hexCount == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*hexCount)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0F])
		}
	}
	return b.String()
}

func unescape(s string) (string, bool) {
	if !strings.Contains(s, "%") {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", false
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", false
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), true
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func quoted(s string) string {
	return `"` + s + `"`
}
