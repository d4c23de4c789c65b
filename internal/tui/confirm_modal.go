package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderConfirm draws the dangerous-operation gate. When a confirmed
// attempt already bounced, the failure rides along so the user decides
// with the error in front of them.
func (m model) renderConfirm(width int) string {
	c := m.state.Confirm

	// Avoid borders here: some terminals show background artifacts when
	// nesting bordered components inside a modal with a background color.
	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	bodyW := modalBodyWidth(width)

	lines := []string{
		truncateToWidth(c.Label+" "+c.Target.ID+"?", bodyW),
	}
	if c.Target.RunID != "" {
		lines = append(lines, styleMuted().Render(truncateToWidth("run "+c.Target.RunID, bodyW)))
	}
	if c.Err != "" {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(colorErr).Render(truncateToWidth("last attempt failed: "+c.Err, bodyW)))
	}
	lines = append(lines, "",
		btn.Render("Confirm"),
		"",
		styleMuted().Width(bodyW).Render("y/enter: confirm   n/esc: cancel"),
	)

	return renderModalBox(width, c.Label, strings.Join(lines, "\n"))
}
