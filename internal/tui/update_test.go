package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flowdeck/internal/app"
	"flowdeck/internal/domain"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

type stubRunner struct {
	mu        sync.Mutex
	submitted []kinds.Effect
	actions   chan app.Action
}

func newStubRunner() *stubRunner {
	return &stubRunner{actions: make(chan app.Action, 8)}
}

func (s *stubRunner) Submit(e kinds.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, e)
}

func (s *stubRunner) Actions() <-chan app.Action { return s.actions }

func (s *stubRunner) effects() []kinds.Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]kinds.Effect(nil), s.submitted...)
}

func newTestModel(t *testing.T) (model, *stubRunner) {
	t.Helper()
	reg, err := kinds.NewRegistry(kinds.BuiltinSpecs()...)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	stub := newStubRunner()
	m := newModel(Config{
		Registry:  reg,
		Pool:      stub,
		Namespace: "default",
		Address:   "localhost:7233",
		PageSize:  50,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m.width = 120
	m.height = 32
	return m, stub
}

func seedWorkflows(m *model, n int) {
	items := make([]domain.WorkflowSummary, n)
	for i := range items {
		items[i] = domain.WorkflowSummary{
			WorkflowID: fmt.Sprintf("wf-%d", i),
			RunID:      fmt.Sprintf("run-%d", i),
			Type:       "OrderWorkflow",
			TaskQueue:  "orders",
			Status:     domain.StatusRunning,
		}
	}
	m.state.Workflows = app.WorkflowList{Items: items, Loaded: true, Total: int64(n)}
	m.state.Connected = true
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func pressKey(t *testing.T, m model, msg tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	mAny, cmd := m.Update(msg)
	mm, ok := mAny.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", mAny)
	}
	return mm, cmd
}

// collectMsgs executes a command tree and gathers the produced messages.
// Only safe for commands known not to contain timers.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestQuitKeyStopsProgram(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	mm, cmd := pressKey(t, m, keyRune('q'))
	if !mm.state.Quitting {
		t.Fatalf("expected quitting state after q")
	}
	quit := false
	for _, msg := range collectMsgs(t, cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			quit = true
		}
	}
	if !quit {
		t.Fatalf("expected a quit message in the command batch")
	}
}

func TestSequenceSelectsFirstRow(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 6)
	m.state.Workflows.Selected = 4

	mm, cmd := pressKey(t, m, keyRune('g'))
	if !mm.machine.Buffering() {
		t.Fatalf("expected an armed sequence prefix after first g")
	}
	if cmd == nil {
		t.Fatalf("expected an expiry tick to be scheduled while buffering")
	}
	if mm.state.Workflows.Selected != 4 {
		t.Fatalf("first g must not move the cursor; got %d", mm.state.Workflows.Selected)
	}

	mm, _ = pressKey(t, mm, keyRune('g'))
	if mm.machine.Buffering() {
		t.Fatalf("sequence should be consumed after gg")
	}
	if mm.state.Workflows.Selected != 0 {
		t.Fatalf("gg should select the first row; got %d", mm.state.Workflows.Selected)
	}
}

func TestFailedSequencePassesKeyThrough(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 6)
	m.state.Workflows.Selected = 2

	mm, _ := pressKey(t, m, keyRune('g'))
	mm, _ = pressKey(t, mm, keyRune('j'))
	if mm.state.Workflows.Selected != 3 {
		t.Fatalf("j after a failed g prefix must still move down; got %d", mm.state.Workflows.Selected)
	}
	if mm.machine.Buffering() {
		t.Fatalf("prefix should be cleared after the failed sequence")
	}
}

func TestSearchOverlayCapturesTyping(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 3)
	m.state.Workflows.Selected = 1

	mm, _ := pressKey(t, m, keyRune('/'))
	if mm.state.Overlay != app.OverlaySearch {
		t.Fatalf("expected the search overlay to open")
	}

	// A plain letter edits the filter; the j/k bindings must not fire.
	mm, _ = pressKey(t, mm, keyRune('j'))
	if mm.state.Workflows.Selected != 1 {
		t.Fatalf("typing into the filter moved the cursor")
	}
	if got := mm.searchInput.Value(); got != "j" {
		t.Fatalf("expected filter text %q, got %q", "j", got)
	}

	mm, _ = pressKey(t, mm, tea.KeyMsg{Type: tea.KeyEnter})
	if mm.state.Overlay != app.OverlayNone {
		t.Fatalf("enter should close the search overlay")
	}
	if mm.state.Loc.Query != "j" {
		t.Fatalf("expected the submitted filter on the location, got %q", mm.state.Loc.Query)
	}
}

func TestSearchEscapeKeepsOldFilter(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 3)
	m.state.Loc = nav.WorkflowsCollection("default", "ExecutionStatus='Running'")

	mm, _ := pressKey(t, m, keyRune('/'))
	if got := mm.searchInput.Value(); got != "ExecutionStatus='Running'" {
		t.Fatalf("search input should be seeded with the active filter, got %q", got)
	}
	mm, _ = pressKey(t, mm, tea.KeyMsg{Type: tea.KeyEsc})
	if mm.state.Overlay != app.OverlayNone {
		t.Fatalf("esc should close the overlay")
	}
	if mm.state.Loc.Query != "ExecutionStatus='Running'" {
		t.Fatalf("esc must not change the filter, got %q", mm.state.Loc.Query)
	}
}

func TestPaletteRunsCommand(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 1)

	mm, _ := pressKey(t, m, keyRune(':'))
	if mm.state.Overlay != app.OverlayPalette {
		t.Fatalf("expected the palette to open")
	}
	for _, r := range "schedules" {
		mm, _ = pressKey(t, mm, keyRune(r))
	}
	mm, _ = pressKey(t, mm, tea.KeyMsg{Type: tea.KeyEnter})
	if mm.state.Overlay != app.OverlayNone {
		t.Fatalf("enter should close the palette")
	}
	if mm.state.LeafKind() != nav.KindSchedules {
		t.Fatalf("expected navigation to schedules, at %v", mm.state.Loc)
	}
}

func TestPaletteTabCompletes(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	mm, _ := pressKey(t, m, keyRune(':'))
	for _, r := range "sig" {
		mm, _ = pressKey(t, mm, keyRune(r))
	}
	mm, _ = pressKey(t, mm, tea.KeyMsg{Type: tea.KeyTab})
	if got := mm.paletteInput.Value(); got != "signal " {
		t.Fatalf("tab should complete to %q, got %q", "signal ", got)
	}
}

func TestConfirmFlowSubmitsOperation(t *testing.T) {
	t.Parallel()
	m, stub := newTestModel(t)
	seedWorkflows(&m, 2)
	m.state.Workflows.Selected = 1

	mm, _ := pressKey(t, m, keyRune('c'))
	if mm.state.Overlay != app.OverlayConfirm {
		t.Fatalf("cancel should ask for confirmation")
	}
	if mm.state.Confirm.Op != kinds.OpCancel || mm.state.Confirm.Target.ID != "wf-1" {
		t.Fatalf("unexpected pending confirmation: %+v", mm.state.Confirm)
	}

	mm, cmd := pressKey(t, mm, keyRune('y'))
	if mm.state.Overlay != app.OverlayNone {
		t.Fatalf("confirmation should close the modal")
	}
	collectMsgs(t, cmd)

	fx := stub.effects()
	if len(fx) != 1 {
		t.Fatalf("expected one submitted effect, got %d", len(fx))
	}
	ro, ok := fx[0].(kinds.RunOperation)
	if !ok {
		t.Fatalf("expected a RunOperation, got %T", fx[0])
	}
	if ro.Op != kinds.OpCancel || ro.Target.ID != "wf-1" || ro.Target.RunID != "run-1" {
		t.Fatalf("unexpected operation: %+v", ro)
	}
}

func TestConfirmDeclineSubmitsNothing(t *testing.T) {
	t.Parallel()
	m, stub := newTestModel(t)
	seedWorkflows(&m, 1)

	mm, _ := pressKey(t, m, keyRune('t'))
	if mm.state.Overlay != app.OverlayConfirm {
		t.Fatalf("terminate should ask for confirmation")
	}
	mm, cmd := pressKey(t, mm, keyRune('n'))
	if mm.state.Overlay != app.OverlayNone {
		t.Fatalf("n should dismiss the confirmation")
	}
	collectMsgs(t, cmd)
	if fx := stub.effects(); len(fx) != 0 {
		t.Fatalf("declined confirmation must not submit anything, got %v", fx)
	}
}

func TestOperationFailureReopensConfirm(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 1)

	mAny, _ := m.Update(actionMsg{act: app.OperationFailed{
		Kind:   nav.KindWorkflows,
		Op:     kinds.OpTerminate,
		Target: kinds.Target{ID: "wf-0", RunID: "run-0"},
		Err:    errors.New("permission denied"),
	}})
	mm := mAny.(model)
	if mm.state.Overlay != app.OverlayConfirm {
		t.Fatalf("a failed confirm-gated operation should reopen the modal")
	}
	if mm.state.Confirm.Err != "permission denied" {
		t.Fatalf("the failure should be attached, got %q", mm.state.Confirm.Err)
	}
}

func TestRefreshSubmitsLoads(t *testing.T) {
	t.Parallel()
	m, stub := newTestModel(t)
	seedWorkflows(&m, 1)

	_, cmd := pressKey(t, m, keyRune('r'))
	collectMsgs(t, cmd)

	var sawList, sawCount bool
	for _, e := range stub.effects() {
		switch e.(type) {
		case kinds.LoadCollection:
			sawList = true
		case kinds.CountCollection:
			sawCount = true
		}
	}
	if !sawList || !sawCount {
		t.Fatalf("refresh should submit list and count loads, got %v", stub.effects())
	}
}

func TestPollTickAlwaysRearms(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	_, cmd := m.Update(pollTickMsg{})
	if cmd == nil {
		t.Fatalf("a poll round must arm the next timer")
	}
}

func TestPollDelayBacksOffWithFailures(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	if d := m.nextPollDelay(); d != 3*time.Second {
		t.Fatalf("healthy delay = %v, want 3s", d)
	}
	m.state.ErrorCount = 1
	if d := m.nextPollDelay(); d != 6*time.Second {
		t.Fatalf("delay after one failure = %v, want 6s", d)
	}
	m.state.ErrorCount = 2
	if d := m.nextPollDelay(); d != 12*time.Second {
		t.Fatalf("delay after two failures = %v, want 12s", d)
	}
	m.state.ErrorCount = 0
	if d := m.nextPollDelay(); d != 3*time.Second {
		t.Fatalf("delay after recovery = %v, want 3s", d)
	}
}

func TestWorkerActionLandsInState(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	mAny, cmd := m.Update(actionMsg{act: app.DataLoaded{
		Seq: 0,
		Payload: app.WorkflowsPage{Page: domain.WorkflowPage{
			Items: []domain.WorkflowSummary{{WorkflowID: "wf-a", Status: domain.StatusRunning}},
		}},
	}})
	mm := mAny.(model)
	if len(mm.state.Workflows.Items) != 1 {
		t.Fatalf("expected the page to land in state")
	}
	if cmd == nil {
		t.Fatalf("the action pump must keep listening")
	}
}

func TestToastTimerClearsOnlyItsOwnToast(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	m.state.Toast = app.Toast{Text: "copied", Seq: 7}

	mAny, _ := m.Update(timerMsg{seq: 6, reason: kinds.TimerToast})
	mm := mAny.(model)
	if mm.state.Toast.Text != "copied" {
		t.Fatalf("a stale timer must not clear a newer toast")
	}

	mAny, _ = mm.Update(timerMsg{seq: 7, reason: kinds.TimerToast})
	mm = mAny.(model)
	if mm.state.Toast.Text != "" {
		t.Fatalf("the paired timer should clear the toast")
	}
}

func TestNamespaceOverlayKeys(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)
	seedWorkflows(&m, 1)
	m.state.Namespaces = app.NamespaceSlot{
		Items:  []domain.Namespace{{Name: "default"}, {Name: "payments"}},
		Loaded: true,
	}

	mm, _ := pressKey(t, m, keyRune('n'))
	if mm.state.Overlay != app.OverlayNamespaces {
		t.Fatalf("n should open the namespace picker")
	}
	mm, _ = pressKey(t, mm, keyRune('j'))
	mm, _ = pressKey(t, mm, tea.KeyMsg{Type: tea.KeyEnter})
	if mm.state.Overlay != app.OverlayNone {
		t.Fatalf("selection should close the picker")
	}
	if mm.state.Loc.Namespace != "payments" {
		t.Fatalf("expected namespace switch, got %q", mm.state.Loc.Namespace)
	}
}

func TestWindowSizeIsRecorded(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t)

	mAny, _ := m.Update(tea.WindowSizeMsg{Width: 101, Height: 41})
	mm := mAny.(model)
	if mm.width != 101 || mm.height != 41 {
		t.Fatalf("window size not recorded: %dx%d", mm.width, mm.height)
	}
}
