package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"flowdeck/internal/app"
	"flowdeck/internal/nav"
)

// renderStatusBar draws the bottom line: connection state on the left, the
// transient toast in the middle, refresh cadence and context hints on the
// right. The toast wins the middle; everything else yields.
func (m model) renderStatusBar(width int) string {
	left := m.connectionSegment()
	right := m.hintSegment()

	middle := ""
	if m.state.Toast.Text != "" {
		middle = m.toastSegment()
	}

	lw := xansi.StringWidth(left)
	rw := xansi.StringWidth(right)
	mw := xansi.StringWidth(middle)

	space := width - lw - rw
	if space < 0 {
		return truncateToWidth(left, width)
	}
	if mw > space {
		middle = truncateToWidth(middle, space)
		mw = xansi.StringWidth(middle)
	}
	leftPad := (space - mw) / 2
	rightPad := space - mw - leftPad
	return left + strings.Repeat(" ", leftPad) + middle + strings.Repeat(" ", rightPad) + right
}

func (m model) connectionSegment() string {
	s := m.state
	switch {
	case s.Quitting:
		return styleMuted().Render(" quitting…")
	case s.Connected:
		return lipgloss.NewStyle().Foreground(colorOK).Render(" ● " + m.address)
	case s.RetryableErr:
		msg := fmt.Sprintf(" ◌ reconnecting (%d failed)", s.ErrorCount)
		return lipgloss.NewStyle().Foreground(colorWarn).Render(msg)
	case s.LastError != "":
		return lipgloss.NewStyle().Foreground(colorErr).Render(truncateToWidth(" ✗ "+s.LastError, 60))
	default:
		return styleMuted().Render(" ○ connecting…")
	}
}

func (m model) toastSegment() string {
	t := m.state.Toast
	switch t.Level {
	case app.ToastError:
		return lipgloss.NewStyle().Foreground(colorErr).Bold(true).Render(t.Text)
	case app.ToastSuccess:
		return lipgloss.NewStyle().Foreground(colorOK).Render(t.Text)
	default:
		return lipgloss.NewStyle().Foreground(colorSurfaceFg).Render(t.Text)
	}
}

func (m model) hintSegment() string {
	leaf := m.state.Loc.Leaf()
	hint := "?: help"
	if leaf.Kind == nav.KindWorkflows && leaf.ID != "" {
		if spec, ok := m.registry.Get(nav.KindWorkflows); ok && spec.Detail != nil {
			hint = tabHint(spec.Detail.Tabs) + "  " + hint
		}
	}
	refresh := fmt.Sprintf("↻ %s", m.nextPollDelay())
	return styleMuted().Render(refresh + "  " + hint + " ")
}
