package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flowdeck/internal/app"
	"flowdeck/internal/keymap"
	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
	"flowdeck/internal/poller"
)

// EffectRunner is the slice of the worker pool the shell needs: somewhere
// to push effects, and a channel the completions come back on.
type EffectRunner interface {
	Submit(e kinds.Effect)
	Actions() <-chan app.Action
}

type model struct {
	state    app.State
	reducer  *app.Reducer
	registry *kinds.Registry
	pool     EffectRunner
	poll     poller.Config
	machine  keymap.Machine

	width  int
	height int

	// We treat the very first WindowSizeMsg as initial sizing rather than a
	// user-driven resize.
	seenWindowSize bool

	searchInput  textinput.Model
	paletteInput textinput.Model

	address string
	startAt *nav.Location
	log     *slog.Logger
}

// actionMsg carries one action from the worker's completion channel.
type actionMsg struct{ act app.Action }

// actionsClosedMsg means the pool shut down; the pump stops.
type actionsClosedMsg struct{}

// pollTickMsg drives the auto-refresh cadence. Each tick arms the next
// one fresh, so a changed backoff interval applies on the very next round.
type pollTickMsg struct{}

// timerMsg echoes a SetTimer effect back into the reducer.
type timerMsg struct {
	seq    uint64
	reason kinds.TimerReason
}

// seqExpireMsg fires after the key-sequence timeout so an abandoned prefix
// is dropped without waiting for the next keypress.
type seqExpireMsg struct{}

func newModel(cfg Config) model {
	search := textinput.New()
	search.Placeholder = "visibility filter"
	search.CharLimit = 500
	search.Width = 60
	search.Prompt = "/ "

	palette := textinput.New()
	palette.Placeholder = "command"
	palette.CharLimit = 500
	palette.Width = 60
	palette.Prompt = ": "

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	return model{
		state:        app.NewState(cfg.Namespace),
		reducer:      &app.Reducer{Registry: cfg.Registry, PageSize: cfg.PageSize},
		registry:     cfg.Registry,
		pool:         cfg.Pool,
		poll:         cfg.Poll,
		searchInput:  search,
		paletteInput: palette,
		address:      cfg.Address,
		startAt:      cfg.StartAt,
		log:          log,
	}
}

func (m model) Init() tea.Cmd {
	// Kick off the first load of the starting screen. A deep-link start
	// goes through Navigate so it lands in the back stack and the visit
	// history like any other jump.
	first := func() tea.Msg { return actionMsg{act: app.Refresh{}} }
	if m.startAt != nil {
		to := *m.startAt
		first = func() tea.Msg { return actionMsg{act: app.Navigate{To: to}} }
	}
	return tea.Batch(m.listenActions(), m.armPoll(), first)
}

// listenActions blocks on the worker's completion channel and converts the
// next action into a message. The handler re-issues it, forming the pump.
func (m model) listenActions() tea.Cmd {
	ch := m.pool.Actions()
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return actionsClosedMsg{}
		}
		return actionMsg{act: a}
	}
}

// armPoll schedules the next refresh round using the current failure count.
func (m model) armPoll() tea.Cmd {
	return tea.Tick(m.nextPollDelay(), func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m model) nextPollDelay() time.Duration {
	return poller.Interval(m.poll, m.state.ErrorCount)
}

// dispatch folds actions through the reducer and converts the resulting
// effects into commands.
func (m model) dispatch(acts ...app.Action) (model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, a := range acts {
		var fx []kinds.Effect
		m.state, fx = m.reducer.Reduce(m.state, a)
		for _, e := range fx {
			if c := m.effectCmd(e); c != nil {
				cmds = append(cmds, c)
			}
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// effectCmd routes one effect. Timers, clipboard and quit are handled here;
// everything else goes to the worker pool. Submitting inside a command keeps
// Update non-blocking even if the pool's queue is momentarily full.
func (m model) effectCmd(e kinds.Effect) tea.Cmd {
	switch e := e.(type) {
	case kinds.SetTimer:
		seq, reason := e.Seq, e.Reason
		return tea.Tick(e.Delay, func(time.Time) tea.Msg { return timerMsg{seq: seq, reason: reason} })
	case kinds.CopyText:
		text := e.Text
		log := m.log
		return func() tea.Msg {
			// The toast already reads "copied"; a missing clipboard tool only
			// shows up in the log.
			if err := copyToClipboard(text); err != nil {
				log.Warn("clipboard copy failed", "err", err)
			}
			return nil
		}
	case kinds.QuitApp:
		return tea.Quit
	default:
		pool := m.pool
		return func() tea.Msg {
			pool.Submit(e)
			return nil
		}
	}
}
