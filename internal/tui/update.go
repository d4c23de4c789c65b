package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flowdeck/internal/app"
	"flowdeck/internal/keymap"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		if !m.seenWindowSize {
			m.seenWindowSize = true
		}
		return m, nil

	case actionMsg:
		mm, cmd := m.dispatch(msg.act)
		if mm.state.Quitting {
			return mm, tea.Batch(cmd, tea.Quit)
		}
		return mm, tea.Batch(cmd, mm.listenActions())

	case actionsClosedMsg:
		// Pool shut down; nothing left to pump.
		return m, nil

	case pollTickMsg:
		if m.state.Quitting {
			return m, nil
		}
		mm, cmd := m.dispatch(app.PollTick{})
		// Always a fresh timer: the interval is recomputed from the failure
		// count every round, never resumed.
		return mm, tea.Batch(cmd, mm.armPoll())

	case timerMsg:
		return m.dispatch(app.TimerFired{Seq: msg.seq, Reason: msg.reason})

	case seqExpireMsg:
		// An expired prefix produces no action; a prefix armed later keeps
		// its own, later deadline and survives this tick.
		m.machine.Expire(time.Now())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry overlays swallow everything except their control keys, so
	// typed letters edit the input instead of triggering bindings.
	switch m.state.Overlay {
	case app.OverlaySearch:
		return m.handleSearchKey(msg)
	case app.OverlayPalette:
		return m.handlePaletteKey(msg)
	}

	key := keymap.Normalize(msg)
	acts := m.machine.Feed(key, time.Now(), m.keyContext(), m.bindings())

	prev := m.state.Overlay
	mm, cmd := m.dispatch(acts...)
	mm.syncInputs(prev)

	if mm.machine.Buffering() {
		return mm, tea.Batch(cmd, sequenceExpiryTick())
	}
	return mm, cmd
}

// sequenceExpiryTick fires just after the prefix deadline so the armed
// sequence is cleared even when no further key arrives.
func sequenceExpiryTick() tea.Cmd {
	return tea.Tick(keymap.SequenceTimeout+10*time.Millisecond, func(time.Time) tea.Msg {
		return seqExpireMsg{}
	})
}

func (m model) keyContext() keymap.Context {
	switch m.state.Overlay {
	case app.OverlayConfirm:
		return keymap.ContextConfirm
	case app.OverlayHelp:
		return keymap.ContextHelp
	case app.OverlayNamespaces:
		return keymap.ContextListOverlay
	default:
		return keymap.ContextBrowse
	}
}

func (m model) bindings() keymap.Bindings {
	return keymap.Bindings{
		Registry: m.registry,
		Kind:     m.state.LeafKind(),
		Detail:   m.state.Loc.IsDetail(),
	}
}

// syncInputs focuses and seeds the text inputs when their overlay opens,
// and blurs them when it closes.
func (m *model) syncInputs(prev app.Overlay) {
	now := m.state.Overlay
	if prev == now {
		return
	}
	switch now {
	case app.OverlaySearch:
		m.searchInput.SetValue(m.state.Loc.Query)
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
	case app.OverlayPalette:
		m.paletteInput.SetValue("")
		m.paletteInput.Focus()
	}
	if prev == app.OverlaySearch && now != app.OverlaySearch {
		m.searchInput.Blur()
	}
	if prev == app.OverlayPalette && now != app.OverlayPalette {
		m.paletteInput.Blur()
	}
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.dispatch(app.Quit{})
	case "esc", "ctrl+g":
		prev := m.state.Overlay
		mm, cmd := m.dispatch(app.CloseOverlay{})
		mm.syncInputs(prev)
		return mm, cmd
	case "enter":
		q := strings.TrimSpace(m.searchInput.Value())
		prev := m.state.Overlay
		mm, cmd := m.dispatch(app.SubmitSearch{Query: q})
		mm.syncInputs(prev)
		return mm, cmd
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.dispatch(app.Quit{})
	case "esc", "ctrl+g":
		prev := m.state.Overlay
		mm, cmd := m.dispatch(app.CloseOverlay{})
		mm.syncInputs(prev)
		return mm, cmd
	case "tab":
		if cands := app.CompleteCommand(m.paletteInput.Value()); len(cands) > 0 {
			m.paletteInput.SetValue(cands[0] + " ")
			m.paletteInput.CursorEnd()
		}
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.paletteInput.Value())
		prev := m.state.Overlay
		if text == "" {
			mm, cmd := m.dispatch(app.CloseOverlay{})
			mm.syncInputs(prev)
			return mm, cmd
		}
		mm, cmd := m.dispatch(app.SubmitCommand{Text: text})
		mm.syncInputs(prev)
		return mm, cmd
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

func (m *model) resizeInputs() {
	w := m.width - 12
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	m.searchInput.Width = w
	m.paletteInput.Width = w
}
