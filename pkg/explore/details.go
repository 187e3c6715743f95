package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// detailsPane shows the full record for the selected finding.
type detailsPane struct {
	finding *findingRow
	width   int
	height  int
	offset  int
	focused bool
}

func newDetailsPane() detailsPane {
	return detailsPane{}
}

func (dp *detailsPane) setFinding(f *findingRow) {
	dp.finding = f
	dp.offset = 0
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if dp.offset > 0 {
				dp.offset--
			}
		case keyMatches(msg, defaultKeys.Down):
			dp.offset++
		case keyMatches(msg, defaultKeys.Home):
			dp.offset = 0
		case keyMatches(msg, defaultKeys.PageDown):
			dp.offset += dp.visibleRows()
		case keyMatches(msg, defaultKeys.PageUp):
			dp.offset = max(0, dp.offset-dp.visibleRows())
		}
	}

	return dp, nil
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4

	var lines []string

	if dp.finding == nil {
		lines = append(lines, "  No finding selected")
	} else {
		f := dp.finding

		lines = append(lines, fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render("Rule:"),
			fieldValueStyle.Render(fmt.Sprintf("%s (%s)", f.RuleName, f.RuleID))))

		lines = append(lines, fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render("Source:"),
			fieldValueStyle.Render(f.Source)))

		lines = append(lines, fmt.Sprintf("  %s %d:%d - %d:%d (bytes %d-%d)",
			fieldLabelStyle.Render("Location:"),
			f.Location.Source.Start.Line, f.Location.Source.Start.Column,
			f.Location.Source.End.Line, f.Location.Source.End.Column,
			f.Location.Offset.Start, f.Location.Offset.End))

		lines = append(lines, fmt.Sprintf("  %s %s",
			fieldLabelStyle.Render("StructuralID:"),
			fieldValueStyle.Render(f.StructuralID)))

		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("  %s", headerRowStyle.Render("Snippet")))
		lines = append(lines, "  "+strings.Repeat("─", min(40, contentWidth-4)))
		lines = append(lines, renderSnippet(f, contentWidth)...)
	}

	if dp.offset >= len(lines) {
		dp.offset = max(0, len(lines)-1)
	}
	visibleLines := lines
	if dp.offset < len(visibleLines) {
		visibleLines = visibleLines[dp.offset:]
	}
	if len(visibleLines) > dp.visibleRows() {
		visibleLines = visibleLines[:dp.visibleRows()]
	}

	var b strings.Builder
	for i, line := range visibleLines {
		b.WriteString(padRight(truncateString(line, contentWidth), contentWidth))
		if i < len(visibleLines)-1 {
			b.WriteString("\n")
		}
	}
	for i := len(visibleLines); i < dp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < dp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(" Details ")

	borderStyle := inactiveBorderStyle
	if dp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(dp.width - 2).
		Height(dp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func renderSnippet(f *findingRow, maxWidth int) []string {
	var lines []string

	snippetWidth := maxWidth - 6
	before := strings.TrimRight(string(f.Snippet.Before), "\n\r")
	matching := string(f.Snippet.Matching)
	after := strings.TrimLeft(string(f.Snippet.After), "\n\r")

	for _, line := range strings.Split(before, "\n") {
		if line != "" {
			lines = append(lines, "    "+snippetContextStyle.Render(truncateString(line, snippetWidth)))
		}
	}
	for _, line := range strings.Split(matching, "\n") {
		lines = append(lines, "    "+snippetMatchStyle.Render(truncateString(line, snippetWidth)))
	}
	for _, line := range strings.Split(after, "\n") {
		if line != "" {
			lines = append(lines, "    "+snippetContextStyle.Render(truncateString(line, snippetWidth)))
		}
	}

	return lines
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
