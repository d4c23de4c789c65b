package app

import (
	"reflect"
	"testing"

	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Action
	}{
		{"workflows", GoCollection{Kind: nav.KindWorkflows}},
		{"wf ExecutionStatus='Running'", GoCollection{Kind: nav.KindWorkflows, Query: "ExecutionStatus='Running'"}},
		{"sch", GoCollection{Kind: nav.KindSchedules}},
		{"schedules WorkflowType='Payroll'", GoCollection{Kind: nav.KindSchedules, Query: "WorkflowType='Payroll'"}},
		{"open temporal://tui/namespaces/default/workflows", OpenLink{URI: "temporal://tui/namespaces/default/workflows"}},
		{"ns", OpenNamespaces{}},
		{"ns payments", SelectNamespace{Name: "payments"}},
		{"namespace payments extra", SelectNamespace{Name: "payments"}},
		{"signal approve", InvokeOperation{Op: kinds.OpSignal, Args: []string{"approve"}}},
		{`signal approve {"ok":true}`, InvokeOperation{Op: kinds.OpSignal, Args: []string{"approve", `{"ok":true}`}}},
		{"preset save failures", SavePresetNamed{Name: "failures"}},
		{"preset apply failures", ApplyPreset{Name: "failures"}},
		{"preset failures", ApplyPreset{Name: "failures"}},
		{"refresh", Refresh{}},
		{"yank", YankLocation{}},
		{"help", OpenHelp{}},
		{"quit", Quit{}},
		{"  wf   spaced  ", GoCollection{Kind: nav.KindWorkflows, Query: "spaced"}},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ParseCommand(%q)=%#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestParseCommandErrors(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"   ",
		"open",
		"signal",
		"preset",
		"preset save",
		"teleport somewhere",
	}
	for _, in := range bad {
		if _, err := ParseCommand(in); err == nil {
			t.Fatalf("ParseCommand(%q) should fail", in)
		}
	}
}

func TestCompleteCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"w", []string{"workflows"}},
		{"pre", []string{"preset apply", "preset save"}},
		{"q", []string{"quit"}},
		{"zz", nil},
		{"workflows", nil},
	}
	for _, tt := range tests {
		if got := CompleteCommand(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("CompleteCommand(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}
