package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"flowdeck/internal/domain"
	"flowdeck/internal/nav"
)

const detailTimeLayout = "2006-01-02 15:04:05"

func fmtDetailTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.UTC().Format(detailTimeLayout)
}

func statusStyle(s domain.WorkflowStatus) lipgloss.Style {
	switch s {
	case domain.StatusRunning:
		return lipgloss.NewStyle().Foreground(colorAccent)
	case domain.StatusCompleted:
		return lipgloss.NewStyle().Foreground(colorOK)
	case domain.StatusFailed, domain.StatusTerminated, domain.StatusTimedOut:
		return lipgloss.NewStyle().Foreground(colorErr)
	case domain.StatusCanceled:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return styleMuted()
	}
}

// fieldRows renders label/value pairs with aligned labels, the detail
// panes' common shape.
func fieldRows(width int, pairs [][2]string) string {
	labelW := 0
	for _, p := range pairs {
		if len(p[0]) > labelW {
			labelW = len(p[0])
		}
	}
	labelStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := " " + labelStyle.Render(padCell(p[0], labelW)) + "  " + p[1]
		b.WriteString(truncateToWidth(line, width))
	}
	return b.String()
}

func (m model) renderWorkflowDetail(width, height int) string {
	d := m.state.WFDetail
	spec, _ := m.registry.Get(nav.KindWorkflows)

	tabBar := m.renderTabBar(spec.Detail.Tabs, m.state.Loc.ActiveTab, width)
	paneH := height - 2
	if paneH < 1 {
		paneH = 1
	}

	if !d.Loaded {
		return tabBar + "\n\n" + styleMuted().Render(" Loading workflow...")
	}

	var pane string
	switch m.state.Loc.ActiveTab {
	case nav.TabIO:
		pane = m.renderIOPane(width, paneH)
	case nav.TabHistory:
		pane = m.renderHistoryPane(width, paneH)
	case nav.TabPending:
		pane = m.renderPendingPane(width, paneH)
	case nav.TabTaskQueue:
		pane = m.renderTaskQueuePane(width, paneH)
	default:
		pane = m.renderSummaryPane(width, paneH)
	}
	return tabBar + "\n\n" + normalizePane(pane, width, paneH)
}

func (m model) renderTabBar(tabs []nav.Tab, active nav.Tab, width int) string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg).Padding(0, 1)
	idleStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Padding(0, 1)

	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if t == active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, idleStyle.Render(label))
		}
	}
	return truncateToWidth(" "+strings.Join(parts, " "), width)
}

func (m model) renderSummaryPane(width, height int) string {
	d := m.state.WFDetail
	s := d.Detail.Summary

	pairs := [][2]string{
		{"Workflow ID", s.WorkflowID},
		{"Run ID", s.RunID},
		{"Type", s.Type},
		{"Status", statusStyle(s.Status).Render(s.Status.Glyph() + " " + s.Status.String())},
		{"Task Queue", s.TaskQueue},
		{"Started", fmtDetailTime(s.StartTime)},
		{"Closed", fmtDetailTime(s.CloseTime)},
		{"History Length", fmt.Sprintf("%d", s.HistoryLength)},
	}
	if d.Detail.ParentWorkflowID != "" {
		pairs = append(pairs, [2]string{"Parent", d.Detail.ParentWorkflowID})
	}

	out := fieldRows(width, pairs)

	if f := d.Detail.Failure; f != nil {
		out += "\n\n " + lipgloss.NewStyle().Bold(true).Foreground(colorErr).Render("Failure")
		out += "\n" + fieldRows(width, [][2]string{
			{"Type", f.Type},
			{"Message", f.Message},
		})
	}
	if len(d.Detail.Memo) > 0 {
		out += "\n\n " + lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg).Render("Memo")
		out += "\n" + fieldRows(width, sortedPairs(d.Detail.Memo))
	}
	if len(d.Detail.SearchAttributes) > 0 {
		out += "\n\n " + lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg).Render("Search Attributes")
		out += "\n" + fieldRows(width, sortedPairs(d.Detail.SearchAttributes))
	}
	return out
}

func sortedPairs(kv map[string]string) [][2]string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, kv[k]})
	}
	return pairs
}

func (m model) renderIOPane(width, height int) string {
	d := m.state.WFDetail.Detail
	head := lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg)

	var b strings.Builder
	b.WriteString(" " + head.Render("Input"))
	b.WriteByte('\n')
	if d.Input == "" {
		b.WriteString(styleMuted().Render(" (no input)"))
	} else {
		b.WriteString(renderJSONBlock(d.Input, width-2))
	}
	b.WriteString("\n\n " + head.Render("Output"))
	b.WriteByte('\n')
	switch {
	case d.Failure != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(colorErr).Render(" " + truncateToWidth(d.Failure.Message, width-2)))
	case d.Output == "":
		b.WriteString(styleMuted().Render(" (no output yet)"))
	default:
		b.WriteString(renderJSONBlock(d.Output, width-2))
	}
	return b.String()
}

func (m model) renderHistoryPane(width, height int) string {
	d := m.state.WFDetail
	if !d.HistoryLoaded && !d.HistoryFetching && len(d.History) == 0 {
		return styleMuted().Render(" Loading history...")
	}

	var b strings.Builder
	// Latest events are the interesting ones; keep the tail in view.
	events := d.History
	start := 0
	avail := height - 1
	if avail > 0 && len(events) > avail {
		start = len(events) - avail
	}
	for i := start; i < len(events); i++ {
		e := events[i]
		if i > start {
			b.WriteByte('\n')
		}
		line := fmt.Sprintf(" %5d  %-19s  %s", e.ID, fmtDetailTime(e.Time), e.Type)
		if e.Details != "" {
			line += styleMuted().Render("  " + e.Details)
		}
		b.WriteString(truncateToWidth(line, width))
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	switch {
	case d.HistoryFetching:
		b.WriteString(styleMuted().Render(" fetching more events…"))
	case len(d.HistoryToken) > 0:
		b.WriteString(styleMuted().Render(fmt.Sprintf(" showing first %d events (history truncated)", len(events))))
	default:
		b.WriteString(styleMuted().Render(fmt.Sprintf(" %d events", len(events))))
	}
	return b.String()
}

func (m model) renderPendingPane(width, height int) string {
	d := m.state.WFDetail
	acts := d.Detail.PendingActivities
	if len(acts) == 0 {
		return styleMuted().Render(" No pending activities")
	}

	selectedStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
	var b strings.Builder
	for i, a := range acts {
		if i > 0 {
			b.WriteByte('\n')
		}
		attempt := fmt.Sprintf("%d", a.Attempt)
		if a.MaximumAttempts > 0 {
			attempt = fmt.Sprintf("%d/%d", a.Attempt, a.MaximumAttempts)
		}
		line := fmt.Sprintf(" %-20s %-24s %-16s attempt %s", a.ActivityID, a.ActivityType, a.State.String(), attempt)
		if a.LastFailure != "" {
			line += "  " + a.LastFailure
		}
		line = padCell(line, width-1)
		if i == d.PendingSelected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
	}
	b.WriteString("\n\n" + styleMuted().Render(" enter: open activity"))
	return b.String()
}

func (m model) renderTaskQueuePane(width, height int) string {
	d := m.state.WFDetail
	if !d.QueueLoaded {
		return styleMuted().Render(" Loading task queue...")
	}
	q := d.Queue

	var b strings.Builder
	b.WriteString(fieldRows(width, [][2]string{{"Task Queue", q.Name}}))
	b.WriteString("\n\n " + lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg).Render("Pollers"))
	b.WriteByte('\n')
	if len(q.Pollers) == 0 {
		b.WriteString(styleMuted().Render(" none — no worker is polling this queue"))
		return b.String()
	}
	for i, p := range q.Pollers {
		if i > 0 {
			b.WriteByte('\n')
		}
		line := fmt.Sprintf(" %-40s last seen %s  %.1f/s", p.Identity, fmtDetailTime(p.LastAccessTime), p.RatePerSecond)
		b.WriteString(truncateToWidth(line, width))
	}
	return b.String()
}

func (m model) renderScheduleDetail(width, height int) string {
	d := m.state.SchedDetail
	if !d.Loaded {
		return styleMuted().Render(" Loading schedule...")
	}
	s := d.Item

	stateStr := lipgloss.NewStyle().Foreground(colorOK).Render("Active")
	if s.Paused {
		stateStr = lipgloss.NewStyle().Foreground(colorWarn).Render("Paused")
	}
	pairs := [][2]string{
		{"Schedule ID", s.ScheduleID},
		{"State", stateStr},
		{"Workflow Type", s.WorkflowType},
		{"Task Queue", s.TaskQueue},
		{"Spec", s.Spec},
		{"Next Run", fmtDetailTime(s.NextRunTime)},
		{"Last Run", fmtDetailTime(s.LastRunTime)},
		{"Recent Actions", fmt.Sprintf("%d", s.RecentActions)},
	}
	out := fieldRows(width, pairs)

	if s.Notes != "" {
		out += "\n\n " + lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg).Render("Notes")
		out += "\n" + renderMarkdown(s.Notes, width-2)
	}
	out += "\n\n" + styleMuted().Render(" enter: runs started by this schedule")
	return out
}

// renderActivityDetail shows one pending activity, carved out of the
// parent workflow's describe.
func (m model) renderActivityDetail(width, height int) string {
	leaf := m.state.Loc.Leaf()
	d := m.state.WFDetail
	if !d.Loaded {
		return styleMuted().Render(" Loading workflow...")
	}
	for _, a := range d.Detail.PendingActivities {
		if a.ActivityID != leaf.ID {
			continue
		}
		pairs := [][2]string{
			{"Activity ID", a.ActivityID},
			{"Type", a.ActivityType},
			{"State", a.State.String()},
			{"Attempt", fmt.Sprintf("%d", a.Attempt)},
			{"Max Attempts", fmt.Sprintf("%d", a.MaximumAttempts)},
			{"Scheduled", fmtDetailTime(a.ScheduledTime)},
			{"Last Started", fmtDetailTime(a.LastStartedTime)},
			{"Worker", a.LastWorkerIdentity},
		}
		out := fieldRows(width, pairs)
		if a.LastFailure != "" {
			out += "\n\n " + lipgloss.NewStyle().Bold(true).Foreground(colorErr).Render("Last Failure")
			out += "\n " + truncateToWidth(a.LastFailure, width-2)
		}
		return out
	}
	// The activity may have completed between describes.
	return styleMuted().Render(" Activity " + leaf.ID + " is no longer pending")
}
