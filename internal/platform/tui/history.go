package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/scatter/internal/storage"
)

// History layout constants
const (
	maxRuns        = 100 // Max runs to load
	historyChrome  = 8   // Title, borders and help
	minTableHeight = 3
)

// HistoryModel is the Bubble Tea model for browsing stored runs and the
// removals of a selected run.
type HistoryModel struct {
	store    *storage.Store
	runs     []storage.RunRecord
	removals []storage.RemovalRecord
	selected *storage.RunRecord // Non-nil while showing removals
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	err      error
	quitting bool
}

// NewHistoryModel creates a new history model and loads recent runs.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.loadRuns()
	return m
}

func (m *HistoryModel) tableHeight() int {
	return max(m.height-historyChrome, minTableHeight)
}

func styledTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// loadRuns fills the table with the most recent runs.
func (m *HistoryModel) loadRuns() {
	m.selected = nil
	m.removals = nil
	m.runs = nil
	if m.store != nil {
		m.runs, m.err = m.store.RecentRuns(maxRuns)
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			shortID(r.RunID),
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d → %d", r.InitialShapes, r.RemainingShapes),
			fmt.Sprintf("%d", r.Iterations),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table = styledTable([]table.Column{
		{Title: "Run", Width: 10},
		{Title: "Seed", Width: 20},
		{Title: "Shapes", Width: 12},
		{Title: "Iter", Width: 6},
		{Title: "Date", Width: 14},
	}, rows, m.tableHeight())
}

// loadRemovals switches the table to the removals of run.
func (m *HistoryModel) loadRemovals(run storage.RunRecord) {
	m.selected = &run
	m.removals, m.err = m.store.RunRemovals(run.RunID)

	survivorWidth := max((m.width-16)/2, 20)
	rows := make([]table.Row, len(m.removals))
	for i, rm := range m.removals {
		rows[i] = table.Row{fmt.Sprintf("%d", rm.Iteration), rm.Survivor, rm.Removed}
	}
	m.table = styledTable([]table.Column{
		{Title: "Iter", Width: 6},
		{Title: "Survivor", Width: survivorWidth},
		{Title: "Removed", Width: survivorWidth},
	}, rows, m.tableHeight())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.selected == nil {
				m.quitting = true
				return m, tea.Quit
			}
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.selected == nil && len(m.runs) > 0 {
				m.loadRemovals(m.runs[m.table.Cursor()])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "RUN HISTORY"
	if m.selected != nil {
		title = fmt.Sprintf("REMOVALS - run %s (seed %d)", shortID(m.selected.RunID), m.selected.Seed)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.tableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// tableContent renders the table or an empty message.
func (m HistoryModel) tableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.selected != nil && len(m.removals) == 0:
		return emptyStyle.Render("No shapes were removed in this run.")
	case m.selected == nil && len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.\nRun 'scatter run' or 'scatter watch' first!")
	default:
		return m.table.View()
	}
}

// Selected returns the run whose removals are shown, if any.
func (m HistoryModel) Selected() *storage.RunRecord {
	return m.selected
}

// RunHistory runs the history browser.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
