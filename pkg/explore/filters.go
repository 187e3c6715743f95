package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// filterPane is the left-side facet list. With only two facets (rule name
// and source) a collapsible category tree is unnecessary; each facet gets a
// fixed header row followed by its values, flattened into one scrollable
// list.
type filterPane struct {
	facets  *facetState
	cursor  int // flat index across both facets' values
	rows    []filterRow
	width   int
	height  int
	offset  int
	focused bool
}

// filterRow is either a facet header (not selectable) or one of its values.
type filterRow struct {
	isHeader bool
	label    string
	facetID  facetID
	valueIdx int
}

func newFilterPane(facets *facetState) filterPane {
	fp := filterPane{facets: facets}
	fp.rebuildRows()
	return fp
}

func (fp *filterPane) rebuildRows() {
	fp.rows = nil
	for _, def := range facetDefs {
		values := fp.facets.Values[def.ID]
		if len(values) == 0 {
			continue
		}
		fp.rows = append(fp.rows, filterRow{isHeader: true, label: def.Label, facetID: def.ID})
		for i := range values {
			fp.rows = append(fp.rows, filterRow{facetID: def.ID, valueIdx: i})
		}
	}
}

func (fp filterPane) Update(msg tea.Msg) (filterPane, tea.Cmd) {
	if !fp.focused {
		return fp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			fp.moveCursor(-1)
		case keyMatches(msg, defaultKeys.Down):
			fp.moveCursor(1)
		case keyMatches(msg, defaultKeys.Home):
			fp.cursor = fp.firstSelectable()
			fp.offset = 0
		case keyMatches(msg, defaultKeys.End):
			fp.cursor = fp.lastSelectable()
			fp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageDown):
			fp.moveCursor(fp.visibleRows())
		case keyMatches(msg, defaultKeys.PageUp):
			fp.moveCursor(-fp.visibleRows())
		case keyMatches(msg, defaultKeys.ToggleFilter):
			fp.toggleCurrent()
		case keyMatches(msg, defaultKeys.ResetFilter):
			fp.facets.resetAll()
		}
	}

	return fp, nil
}

// moveCursor steps the cursor by delta rows, skipping over header rows.
func (fp *filterPane) moveCursor(delta int) {
	if len(fp.rows) == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	next := fp.cursor
	for n := delta; n != 0; {
		candidate := next + step
		if candidate < 0 || candidate >= len(fp.rows) {
			break
		}
		next = candidate
		if !fp.rows[next].isHeader {
			if step > 0 {
				n--
			} else {
				n++
			}
		}
	}
	if fp.rows[next].isHeader {
		return
	}
	fp.cursor = next
	fp.ensureVisible()
}

func (fp filterPane) firstSelectable() int {
	for i, r := range fp.rows {
		if !r.isHeader {
			return i
		}
	}
	return 0
}

func (fp filterPane) lastSelectable() int {
	for i := len(fp.rows) - 1; i >= 0; i-- {
		if !fp.rows[i].isHeader {
			return i
		}
	}
	return 0
}

func (fp *filterPane) toggleCurrent() {
	if fp.cursor < 0 || fp.cursor >= len(fp.rows) {
		return
	}
	row := fp.rows[fp.cursor]
	if row.isHeader {
		return
	}
	values := fp.facets.Values[row.facetID]
	if row.valueIdx < len(values) {
		values[row.valueIdx].Selected = !values[row.valueIdx].Selected
	}
}

func (fp filterPane) View() string {
	if fp.width <= 0 || fp.height <= 0 {
		return ""
	}

	var b strings.Builder
	visibleEnd := min(fp.offset+fp.visibleRows(), len(fp.rows))

	for i := fp.offset; i < visibleEnd; i++ {
		row := fp.rows[i]
		isCurrent := i == fp.cursor

		var line string
		if row.isHeader {
			line = facetLabelStyle.Render(" " + row.label)
		} else {
			values := fp.facets.Values[row.facetID]
			var marker string
			count := 0
			label := ""
			if row.valueIdx < len(values) {
				v := values[row.valueIdx]
				label = v.Value
				count = v.Count
				if v.Selected {
					marker = "+"
				} else {
					marker = " "
				}
			}
			label = truncateString(label, fp.width-12)
			countStr := facetCountStyle.Render(fmt.Sprintf("(%d)", count))
			if marker == "+" {
				line = fmt.Sprintf("   %s %s %s", facetSelectedStyle.Render(marker), facetSelectedStyle.Render(label), countStr)
			} else {
				line = fmt.Sprintf("   %s %s %s", marker, label, countStr)
			}
		}

		if isCurrent && fp.focused {
			line = selectedRowStyle.Width(fp.width - 2).Render(stripAnsi(line))
		}

		line = padRight(line, fp.width-2)
		b.WriteString(line)
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	for i := visibleEnd - fp.offset; i < fp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", fp.width-2))
		if i < fp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(" Filters ")

	borderStyle := inactiveBorderStyle
	if fp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(fp.width - 2).
		Height(fp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (fp filterPane) visibleRows() int {
	return max(1, fp.height-4)
}

func (fp *filterPane) ensureVisible() {
	if fp.cursor < fp.offset {
		fp.offset = fp.cursor
	}
	if fp.cursor >= fp.offset+fp.visibleRows() {
		fp.offset = fp.cursor - fp.visibleRows() + 1
	}
}

func (fp *filterPane) setSize(w, h int) {
	fp.width = w
	fp.height = h
}

// Helper functions shared across panes.

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}

// stripAnsi removes ANSI escape sequences for re-styling.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
