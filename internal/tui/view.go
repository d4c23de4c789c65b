package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flowdeck/internal/app"
	"flowdeck/internal/nav"
)

func (m model) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	header := m.renderHeader(w)
	status := m.renderStatusBar(w)

	contentH := h - strings.Count(header, "\n") - 1 - 1
	if contentH < 1 {
		contentH = 1
	}

	var content string
	if m.state.Overlay == app.OverlayNone {
		content = m.renderMain(w, contentH)
	} else {
		// Modals replace the content area rather than compositing over it:
		// nesting styled panes produces background artifacts on some
		// terminals.
		content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Center, m.renderOverlay(w))
	}

	return header + "\n" + normalizePane(content, w, contentH) + "\n" + status
}

// renderHeader draws the breadcrumb trail, the leaf's deep link essence.
func (m model) renderHeader(width int) string {
	crumbs := m.state.Loc.Breadcrumbs(m.registry.Labeler())
	sep := styleMuted().Render(" › ")

	parts := make([]string, 0, len(crumbs))
	for i, c := range crumbs {
		if i == len(crumbs)-1 {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(c.Label))
			continue
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(c.Label))
	}
	line := " " + strings.Join(parts, sep)
	if m.state.Loc.Query != "" && !m.state.Loc.IsDetail() {
		line += styleMuted().Render("  q=" + m.state.Loc.Query)
	}
	return truncateToWidth(line, width)
}

func (m model) renderMain(width, height int) string {
	leaf := m.state.Loc.Leaf()
	switch {
	case leaf.Kind == nav.KindActivities && leaf.ID != "":
		return m.renderActivityDetail(width, height)
	case leaf.Kind == nav.KindWorkflows && leaf.ID != "":
		return m.renderWorkflowDetail(width, height)
	case leaf.Kind == nav.KindSchedules && leaf.ID != "":
		return m.renderScheduleDetail(width, height)
	default:
		return m.renderCollection(width, height)
	}
}

func (m model) renderOverlay(width int) string {
	switch m.state.Overlay {
	case app.OverlayHelp:
		return m.renderHelp(width)
	case app.OverlayConfirm:
		return m.renderConfirm(width)
	case app.OverlaySearch:
		return m.renderSearch(width)
	case app.OverlayPalette:
		return m.renderPalette(width)
	case app.OverlayNamespaces:
		return m.renderNamespaces(width)
	}
	return ""
}
