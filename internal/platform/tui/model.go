package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/scatter/internal/core"
	"github.com/vovakirdan/scatter/internal/scene"
	"github.com/vovakirdan/scatter/internal/storage"
)

// Viewer layout constants
const (
	eventLines   = 4 // Event log lines under the scene
	chromeLines  = eventLines + 2
	minSceneRows = 3
)

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model that plays a scatter run one iteration per
// tick.
type Model struct {
	settings scene.Settings
	config   core.RuntimeConfig
	store    *storage.Store
	logger   *log.Logger
	runner   *scene.Runner
	events   *scene.MemorySink
	screen   *core.Screen
	keys     ViewerKeyMap
	help     help.Model
	paused   bool
	saved    bool // Whether the summary has been saved for the current run
	err      error
	quitting bool
}

// NewModel creates a viewer for the given settings. store and logger may
// be nil.
func NewModel(settings scene.Settings, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := Model{
		settings: settings,
		config:   cfg,
		store:    store,
		logger:   logger,
		keys:     DefaultViewerKeyMap(),
		help:     help.New(),
	}
	m.screen = core.NewScreen(cfg.ScreenW, sceneRows(cfg.ScreenH))
	m.help.Width = cfg.ScreenW
	m.start(cfg.Seed)
	return m
}

func sceneRows(height int) int {
	return max(height-chromeLines, minSceneRows)
}

// start builds a fresh runner. Runner and sink are pointers, so state
// survives the value copies Bubble Tea makes of the model.
func (m *Model) start(seed int64) {
	m.events = scene.NewMemorySink()
	m.runner = scene.NewRunner(m.settings, seed, m.events, m.logger)
	m.config.Seed = m.runner.Seed()
	m.saved = false
	m.err = m.runner.Start()
	m.saveIfDone()
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, sceneRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.step()
	case key.Matches(msg, m.keys.Restart):
		m.paused = false
		m.start(time.Now().UnixNano())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// step advances the run by one iteration unless it is over.
func (m *Model) step() {
	if m.err != nil || m.runner.Done() {
		return
	}
	if _, err := m.runner.Step(); err != nil {
		m.err = err
		m.logger.Error("iteration failed", "error", err)
	}
	m.saveIfDone()
}

// saveIfDone persists the summary once per finished run.
func (m *Model) saveIfDone() {
	if m.saved || !m.runner.Done() {
		return
	}
	m.saved = true
	if m.store == nil || m.err != nil {
		return
	}
	if _, err := m.store.SaveRun(storage.RecordFromSummary(m.runner.Summary())); err != nil {
		m.logger.Warn("could not save run", "error", err)
	}
}

// Paused reports whether the tick loop is paused.
func (m Model) Paused() bool {
	return m.paused
}

// Runner returns the runner driving the current run.
func (m Model) Runner() *scene.Runner {
	return m.runner
}

// Err returns the error that stopped the current run, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if sc := m.runner.Scene(); sc != nil {
		sc.Render(m.screen)
	} else {
		m.screen.Clear()
	}
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	events := m.events.Tail(eventLines)
	for i := 0; i < eventLines; i++ {
		line := ""
		if i < len(events) {
			line = truncate(events[i], m.config.ScreenW)
		}
		b.WriteString(eventStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	shapes := 0
	if sc := m.runner.Scene(); sc != nil {
		shapes = sc.NumShapes()
	}
	status := fmt.Sprintf("seed %d  iteration %d/%d  shapes %d",
		m.runner.Seed(), m.runner.Iteration(), m.settings.MaxIterations, shapes)

	switch {
	case m.err != nil:
		return statusStyle.Render(status) + "  " + errorStyle.Render(truncate(m.err.Error(), m.config.ScreenW-len(status)-2))
	case m.runner.Done():
		return statusStyle.Render(status) + "  " + doneStyle.Render("settled")
	case m.paused:
		return statusStyle.Render(status) + "  " + helpStyle.Render("paused")
	default:
		return statusStyle.Render(status)
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// Run starts the Bubble Tea program with a viewer model.
func Run(settings scene.Settings, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(settings, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
