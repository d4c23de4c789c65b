package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
)

const columnGap = 2

// renderCollection draws the active kind's listing as a fixed-grid table:
// header, rows with the cursor row highlighted, and a footer line with
// counts and paging state.
func (m model) renderCollection(width, height int) string {
	spec, ok := m.registry.Get(m.state.LeafKind())
	if !ok || spec.Collection == nil {
		return styleMuted().Render(" nothing to list here")
	}
	col := spec.Collection

	rows := col.Rows(m.state)
	widths := layoutColumns(col.Columns, width-1)

	headerCells := make([]string, len(col.Columns))
	for i, c := range col.Columns {
		headerCells[i] = padCell(c.Title, widths[i])
	}
	gap := strings.Repeat(" ", columnGap)
	header := lipgloss.NewStyle().Bold(true).Foreground(colorChromeMutedFg).
		Render(" " + strings.Join(headerCells, gap))

	bodyH := height - 2 // header + footer
	if bodyH < 1 {
		bodyH = 1
	}

	sel := m.selectionIndex()
	offset := 0
	if sel >= bodyH {
		offset = sel - bodyH + 1
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')

	switch {
	case col.Loading(m.state) && len(rows) == 0:
		b.WriteString(styleMuted().Render(" " + col.LoadingLabel))
	case len(rows) == 0:
		b.WriteString(styleMuted().Render(" " + col.EmptyLabel))
	default:
		selectedStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)
		for i := offset; i < len(rows) && i < offset+bodyH; i++ {
			cells := make([]string, len(widths))
			for j := range widths {
				cell := ""
				if j < len(rows[i].Cells) {
					cell = rows[i].Cells[j]
				}
				cells[j] = padCell(cell, widths[j])
			}
			line := " " + strings.Join(cells, gap)
			if i == sel {
				line = selectedStyle.Render(line)
			}
			if i > offset {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
	}

	body := normalizePane(b.String(), width, height-1)
	return body + "\n" + m.renderCollectionFooter(width, len(rows))
}

// selectionIndex is the cursor position in whichever slot backs the
// current collection leaf.
func (m model) selectionIndex() int {
	switch m.state.LeafKind() {
	case nav.KindSchedules:
		return m.state.Schedules.Selected
	default:
		return m.state.Workflows.Selected
	}
}

func (m model) renderCollectionFooter(width, shown int) string {
	var parts []string
	switch m.state.LeafKind() {
	case nav.KindWorkflows:
		wl := m.state.Workflows
		if wl.Total >= 0 {
			parts = append(parts, fmt.Sprintf("%d of %d", shown, wl.Total))
		} else {
			parts = append(parts, fmt.Sprintf("%d loaded", shown))
		}
		if len(wl.NextPage) > 0 {
			parts = append(parts, "more available")
		}
		if wl.Fetching {
			parts = append(parts, "fetching…")
		}
	case nav.KindSchedules:
		parts = append(parts, fmt.Sprintf("%d loaded", shown))
		if m.state.Schedules.Fetching {
			parts = append(parts, "fetching…")
		}
	}
	line := " " + strings.Join(parts, "  ·  ")
	return truncateToWidth(styleMuted().Render(line), width)
}

// layoutColumns resolves column widths for the available space: fixed
// widths as declared, with the flex column absorbing the remainder.
func layoutColumns(cols []kinds.Column, width int) []int {
	widths := make([]int, len(cols))
	fixed := 0
	flexIdx := -1
	for i, c := range cols {
		widths[i] = c.Width
		if c.Flex && flexIdx < 0 {
			flexIdx = i
			continue
		}
		fixed += c.Width
	}
	if flexIdx >= 0 {
		rest := width - fixed - columnGap*(len(cols)-1)
		if rest < cols[flexIdx].Width {
			rest = cols[flexIdx].Width
		}
		widths[flexIdx] = rest
	}
	return widths
}
