package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flowdeck/internal/app"
	"flowdeck/internal/nav"
)

func modalBodyWidth(width int) int {
	w := width - 8
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

func renderModalBox(width int, title, body string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Width(bodyW + 4).
		Padding(0, 1).
		Render(title)
	box := lipgloss.NewStyle().
		Foreground(colorModalSurfaceFg).
		Background(colorModalSurfaceBg).
		Width(bodyW + 4).
		Padding(1, 2).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, box)
}

func (m model) renderHelp(width int) string {
	section := lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent)

	row := func(key, desc string) string {
		return " " + keyStyle.Render(padCell(key, 12)) + desc
	}

	var b strings.Builder
	b.WriteString(section.Render("Navigate"))
	b.WriteByte('\n')
	b.WriteString(strings.Join([]string{
		row("j / k", "move down / up"),
		row("gg / G", "first / last row"),
		row("ctrl+d/u", "jump 10 rows"),
		row("enter / l", "open selection"),
		row("esc / h", "go back"),
		row("tab, 1-5", "switch detail tab"),
		row("n", "namespaces"),
	}, "\n"))

	b.WriteString("\n\n")
	b.WriteString(section.Render("Act"))
	b.WriteByte('\n')
	b.WriteString(strings.Join([]string{
		row("/", "filter this list"),
		row(":", "command palette"),
		row("r", "refresh now"),
		row("y", "copy deep link"),
	}, "\n"))

	if ops := m.kindOperationRows(row); len(ops) > 0 {
		spec, _ := m.registry.Get(m.state.LeafKind())
		b.WriteString("\n\n")
		b.WriteString(section.Render(spec.Label))
		b.WriteByte('\n')
		b.WriteString(strings.Join(ops, "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(section.Render("Leave"))
	b.WriteByte('\n')
	b.WriteString(strings.Join([]string{
		row("q / ctrl+c", "quit"),
		row("?", "toggle this help"),
	}, "\n"))

	return renderModalBox(width, "Help", b.String())
}

// kindOperationRows lists the current kind's operations: keyed ones with
// their key, palette-only ones with their command.
func (m model) kindOperationRows(row func(key, desc string) string) []string {
	spec, ok := m.registry.Get(m.state.LeafKind())
	if !ok {
		return nil
	}
	var out []string
	for _, op := range spec.Operations {
		desc := op.Label
		if op.Confirm {
			desc += " (confirms)"
		}
		if op.Key != 0 {
			out = append(out, row(string(op.Key), desc))
		} else {
			out = append(out, row(":"+string(op.ID), desc))
		}
	}
	return out
}

func (m model) renderNamespaces(width int) string {
	n := m.state.Namespaces
	bodyW := modalBodyWidth(width)

	var b strings.Builder
	switch {
	case !n.Loaded && n.Fetching:
		b.WriteString(styleMuted().Render("Loading namespaces..."))
	case len(n.Items) == 0:
		b.WriteString(styleMuted().Render("No namespaces visible"))
	default:
		selectedStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte('\n')
			}
			marker := "  "
			if item.Name == m.state.Loc.Namespace {
				marker = "* "
			}
			line := marker + padCell(item.Name, 28) + styleMuted().Render(item.State)
			if item.Retention > 0 {
				line += styleMuted().Render(fmt.Sprintf("  keeps %s", item.Retention))
			}
			line = padCell(line, bodyW)
			if i == n.Selected {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
		}
	}
	b.WriteString("\n\n" + styleMuted().Render("enter: switch   esc: cancel"))
	return renderModalBox(width, "Namespaces", b.String())
}

func (m model) renderSearch(width int) string {
	bodyW := modalBodyWidth(width)
	body := strings.Join([]string{
		renderInputLine(bodyW, m.searchInput.View()),
		"",
		styleMuted().Width(bodyW).Render("Visibility filter, e.g. ExecutionStatus='Running'"),
		styleMuted().Width(bodyW).Render("enter: apply   esc: cancel"),
	}, "\n")

	spec, ok := m.registry.Get(m.state.LeafKind())
	title := "Filter"
	if ok {
		title = "Filter " + spec.Label
	}
	return renderModalBox(width, title, body)
}

func (m model) renderPalette(width int) string {
	bodyW := modalBodyWidth(width)

	lines := []string{renderInputLine(bodyW, m.paletteInput.View())}
	if cands := app.CompleteCommand(m.paletteInput.Value()); len(cands) > 0 {
		lines = append(lines, "", styleMuted().Width(bodyW).Render(strings.Join(cands, "   ")))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("tab: complete   enter: run   esc: cancel"))
	return renderModalBox(width, "Command", strings.Join(lines, "\n"))
}

// tabHint is the short list used in the workflow-detail status bar.
func tabHint(tabs []nav.Tab) string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		parts = append(parts, fmt.Sprintf("%d:%s", i+1, t.Token()))
	}
	return strings.Join(parts, " ")
}
