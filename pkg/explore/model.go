package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFilters focusedPane = iota
	paneFindings
	paneDetails
)

// overlay tracks which modal overlay is active.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySource
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data     *exploreData
	filters  filterPane
	findings findingsPane
	details  detailsPane

	focus         focusedPane
	activeOverlay overlay
	showFilters   bool

	helpContent string
	helpOffset  int

	sourceContent string
	sourceOffset  int

	width  int
	height int
	err    error
}

// New creates a new Model by loading data from the given findings store.
func New(storePath string) (Model, error) {
	data, err := loadData(storePath)
	if err != nil {
		return Model{}, err
	}

	facets := buildFacets(data.findings)

	m := Model{
		data:        data,
		filters:     newFilterPane(facets),
		findings:    newFindingsPane(data.findings),
		details:     newDetailsPane(),
		focus:       paneFindings,
		showFilters: true,
	}

	m.findings.focused = true

	if f := m.findings.selectedFinding(); f != nil {
		m.details.setFinding(f)
	}

	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("multifast explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.activeOverlay != overlayNone {
			return m.updateOverlay(msg)
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayHelp
			m.helpOffset = 0
			m.helpContent = renderHelp()
			return m, nil
		case keyMatches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFilters):
			m.setFocus(paneFilters)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFindings):
			m.setFocus(paneFindings)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		}

		if m.focus == paneFindings || m.focus == paneDetails {
			if keyMatches(msg, defaultKeys.OpenSource) {
				cmd := m.openSource()
				return m, cmd
			}
		}

		switch m.focus {
		case paneFilters:
			var cmd tea.Cmd
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
			return m, cmd
		case paneFindings:
			prevCursor := m.findings.cursor
			var cmd tea.Cmd
			m.findings, cmd = m.findings.Update(msg)
			if m.findings.cursor != prevCursor {
				if f := m.findings.selectedFinding(); f != nil {
					m.details.setFinding(f)
				}
			}
			return m, cmd
		case paneDetails:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeOverlay {
	case overlayHelp:
		switch {
		case keyMatches(msg, defaultKeys.Quit),
			keyMatches(msg, defaultKeys.ForceQuit),
			keyMatches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayNone
		case keyMatches(msg, defaultKeys.Down):
			m.helpOffset++
		case keyMatches(msg, defaultKeys.Up):
			if m.helpOffset > 0 {
				m.helpOffset--
			}
		case keyMatches(msg, defaultKeys.PageDown):
			m.helpOffset += m.height / 2
		case keyMatches(msg, defaultKeys.PageUp):
			m.helpOffset = max(0, m.helpOffset-m.height/2)
		}
	case overlaySource:
		switch {
		case keyMatches(msg, defaultKeys.Quit),
			keyMatches(msg, defaultKeys.ForceQuit),
			keyMatches(msg, defaultKeys.OpenSource):
			m.activeOverlay = overlayNone
		case keyMatches(msg, defaultKeys.Down):
			m.sourceOffset++
		case keyMatches(msg, defaultKeys.Up):
			if m.sourceOffset > 0 {
				m.sourceOffset--
			}
		case keyMatches(msg, defaultKeys.PageDown):
			m.sourceOffset += m.height / 2
		case keyMatches(msg, defaultKeys.PageUp):
			m.sourceOffset = max(0, m.sourceOffset-m.height/2)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.activeOverlay != overlayNone {
		return m.renderOverlay()
	}

	statusBar := m.renderStatusBar()

	contentHeight := m.height - 2

	var mainContent string
	if m.showFilters {
		filtersWidth := min(m.width*30/100, 50)
		dataWidth := m.width - filtersWidth

		findingsHeight := contentHeight * 40 / 100
		detailsHeight := contentHeight - findingsHeight

		m.filters.setSize(filtersWidth, contentHeight)
		m.findings.setSize(dataWidth, findingsHeight)
		m.details.setSize(dataWidth, detailsHeight)

		filtersView := m.filters.View()
		findingsView := m.findings.View()
		detailsView := m.details.View()

		dataColumn := lipgloss.JoinVertical(lipgloss.Left, findingsView, detailsView)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, filtersView, dataColumn)
	} else {
		dataWidth := m.width
		findingsHeight := contentHeight * 40 / 100
		detailsHeight := contentHeight - findingsHeight

		m.findings.setSize(dataWidth, findingsHeight)
		m.details.setSize(dataWidth, detailsHeight)

		findingsView := m.findings.View()
		detailsView := m.details.View()
		mainContent = lipgloss.JoinVertical(lipgloss.Left, findingsView, detailsView)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m *Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d findings | %d filtered",
		len(m.data.findings), len(m.findings.rows)))

	right := fmt.Sprintf("%s:%s  %s:%s  %s:%s  %s:%s  %s:%s",
		helpKeyStyle.Render("j/k"), helpDescStyle.Render("nav"),
		helpKeyStyle.Render("f/d"), helpDescStyle.Render("focus"),
		helpKeyStyle.Render("s"), helpDescStyle.Render("sort"),
		helpKeyStyle.Render("o"), helpDescStyle.Render("source"),
		helpKeyStyle.Render("?"), helpDescStyle.Render("help"),
	)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	var content string
	var title string

	switch m.activeOverlay {
	case overlayHelp:
		title = " Help (q to close) "
		content = m.renderHelpContent(overlayWidth-6, overlayHeight-4)
	case overlaySource:
		title = " Source (q to close) "
		content = m.renderSourceContent(overlayWidth-6, overlayHeight-4)
	}

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(content)

	titleRendered := titleStyle.Render(title)

	overlayView := lipgloss.JoinVertical(lipgloss.Left, titleRendered, box)

	hPad := (m.width - lipgloss.Width(overlayView)) / 2
	vPad := (m.height - lipgloss.Height(overlayView)) / 2

	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(overlayView)
}

func (m *Model) renderHelpContent(width, height int) string {
	lines := strings.Split(m.helpContent, "\n")
	if m.helpOffset >= len(lines) {
		m.helpOffset = max(0, len(lines)-1)
	}
	end := min(m.helpOffset+height, len(lines))
	visible := lines[m.helpOffset:end]
	return strings.Join(visible, "\n")
}

func (m *Model) renderSourceContent(width, height int) string {
	if m.sourceContent == "" {
		return "  No source available"
	}
	lines := strings.Split(m.sourceContent, "\n")
	if m.sourceOffset >= len(lines) {
		m.sourceOffset = max(0, len(lines)-1)
	}
	end := min(m.sourceOffset+height, len(lines))
	visible := lines[m.sourceOffset:end]
	return strings.Join(visible, "\n")
}

func (m *Model) setFocus(p focusedPane) {
	m.filters.focused = p == paneFilters
	m.findings.focused = p == paneFindings
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) applyFilters() {
	if !m.filters.facets.hasActiveFilters() {
		m.findings.setFilteredRows(m.data.findings)
	} else {
		var filtered []*findingRow
		for _, f := range m.data.findings {
			if m.filters.facets.matchesFinding(f) {
				filtered = append(filtered, f)
			}
		}
		m.findings.setFilteredRows(filtered)
	}
	m.filters.facets.updateCounts(m.data.findings)

	if f := m.findings.selectedFinding(); f != nil {
		m.details.setFinding(f)
	} else {
		m.details.setFinding(nil)
	}
}

func (m *Model) finding() *findingRow {
	return m.findings.selectedFinding()
}

func (m *Model) openSource() tea.Cmd {
	f := m.finding()
	if f == nil {
		return nil
	}

	if f.Source != "" {
		if _, err := os.Stat(f.Source); err == nil {
			return m.openInPager(f.Source, f.Location.Source.Start.Line)
		}
	}

	var sb strings.Builder
	if len(f.Snippet.Before) > 0 {
		sb.Write(f.Snippet.Before)
	}
	sb.Write(f.Snippet.Matching)
	if len(f.Snippet.After) > 0 {
		sb.Write(f.Snippet.After)
	}

	m.sourceContent = sb.String()
	m.sourceOffset = 0
	m.activeOverlay = overlaySource
	return nil
}

func (m *Model) openInPager(filePath string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, filePath)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

// Close releases resources held by the model.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

// renderHelp generates help text.
func renderHelp() string {
	return `multifast explore - Interactive Findings Browser

NAVIGATION
  j/k or Up/Down    Move cursor up/down
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  F1                Focus filters pane
  f                 Focus findings pane
  d                 Focus details pane
  F7                Toggle filters pane visibility

FILTERS
  x or Space        Toggle filter value
  Ctrl+r            Reset all filters

VIEWS
  s                 Cycle sort column
  o                 Open source (pager for files, overlay for inline content)
  ?                 Toggle this help screen

QUIT
  q                 Quit
  Ctrl+c            Force quit
`
}
