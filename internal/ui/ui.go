package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikueye/mikueye/internal/models"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/mikueye/mikueye/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	HistoryView
)

// Library is the slice of the tracked-set store the TUI needs.
type Library interface {
	List() ([]models.Beatmapset, error)
	Update(set models.Beatmapset) error
	SetMonitored(id string, monitored bool) error
}

// HistoryLog is the slice of the history store the TUI needs.
type HistoryLog interface {
	Insert(entry models.HistoryEntry) error
	List() ([]models.HistoryEntry, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	library  Library
	history  HistoryLog
	monitor  *tasks.Monitor
	interval time.Duration

	width  int
	height int

	setList      list.Model
	historyList  list.Model
	listReady    bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	checking     bool
	cycleResult  *tasks.CycleResult
	cycleErr     error
	lastCycle    *tasks.CycleResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library Library, history HistoryLog, monitor *tasks.Monitor, interval time.Duration) *Model {
	return &Model{
		ctx:      ctx,
		view:     LibraryView,
		library:  library,
		history:  history,
		monitor:  monitor,
		interval: interval,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init loads the library and arms the first check timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadLibrary(), m.tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.setList.SetSize(msg.Width-4, msg.Height-8)
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}

	case libraryLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.sets))
		for i, set := range msg.sets {
			items[i] = setItem{set: set}
		}
		if !m.listReady {
			m.setList = list.New(items, list.NewDefaultDelegate(), 0, 0)
			m.setList.Title = "Tracked Beatmapsets"
			m.historyList = list.New(nil, list.NewDefaultDelegate(), 0, 0)
			m.historyList.Title = "Status History"
			m.setList.SetSize(m.width-4, m.height-8)
			m.historyList.SetSize(m.width-4, m.height-8)
			m.listReady = true
		} else {
			m.setList.SetItems(items)
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = historyItem{entry: entry}
		}
		m.historyList.SetItems(items)
		m.view = HistoryView
		return m, nil

	case tickMsg:
		if m.checking {
			return m, m.tick()
		}
		return m, m.startCycle()

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case cycleDoneMsg:
		m.checking = false
		m.progressChan = nil
		if msg.err != nil {
			m.err = msg.err
			return m, m.tick()
		}
		m.err = nil
		m.lastCycle = msg.result
		if err := m.persistCycle(msg.result); err != nil {
			m.err = err
		}
		return m, tea.Batch(m.loadLibrary(), m.tick())
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if !m.listReady {
		return "Loading tracked beatmapsets..."
	}

	switch m.view {
	case HistoryView:
		return m.renderHistory()
	default:
		return m.renderLibrary()
	}
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if !m.checking {
			return m, m.startCycle()
		}
		return m, nil
	case "h":
		return m, m.loadHistory()
	case "m":
		if item, ok := m.selectedSet(); ok {
			if err := m.library.SetMonitored(item.ID, !item.Monitored); err != nil {
				m.err = err
				return m, nil
			}
			return m, m.loadLibrary()
		}
		return m, nil
	case "o":
		if item, ok := m.selectedSet(); ok {
			if err := shared.OpenBrowser(shared.BeatmapsetURL(item.ID)); err != nil {
				m.err = err
			}
		}
		return m, nil
	}

	if !m.listReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.setList, cmd = m.setList.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "h":
		m.view = LibraryView
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.listReady {
		return m, nil
	}
	var cmd tea.Cmd
	switch m.view {
	case LibraryView:
		m.setList, cmd = m.setList.Update(msg)
	case HistoryView:
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedSet() (models.Beatmapset, bool) {
	if !m.listReady {
		return models.Beatmapset{}, false
	}
	selected := m.setList.SelectedItem()
	if selected == nil {
		return models.Beatmapset{}, false
	}
	item, ok := selected.(setItem)
	return item.set, ok
}

func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		sets, err := m.library.List()
		return libraryLoadedMsg{sets: sets, err: err}
	}
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.history.List()
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) startCycle() tea.Cmd {
	m.checking = true
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		sets, err := m.library.List()
		if err != nil {
			m.cycleResult, m.cycleErr = nil, err
			close(progressChan)
			return
		}
		result, err := m.monitor.RunCycle(m.ctx, sets, progressChan)
		m.cycleResult, m.cycleErr = result, err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	return func() tea.Msg {
		if progressChan == nil {
			return cycleDoneMsg{}
		}
		update, ok := <-progressChan
		if !ok {
			return cycleDoneMsg{result: m.cycleResult, err: m.cycleErr}
		}
		return progressUpdateMsg(update)
	}
}

// persistCycle writes updated sets and new history entries back to the store.
func (m *Model) persistCycle(result *tasks.CycleResult) error {
	if result == nil {
		return nil
	}
	for _, set := range result.Sets {
		if err := m.library.Update(set); err != nil {
			return fmt.Errorf("failed to persist set %s: %w", set.ID, err)
		}
	}
	for _, event := range result.Events {
		if err := m.history.Insert(event.Entry); err != nil {
			return fmt.Errorf("failed to record transition: %w", err)
		}
	}
	return nil
}

func (m *Model) renderLibrary() string {
	status := m.statusLine()
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n\n%s\n%s", m.setList.View(), status, helpView)
}

func (m *Model) renderHistory() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}

func (m *Model) statusLine() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.checking {
		return styles.warn.Render(m.progress.Message)
	}
	if m.lastCycle != nil {
		summary := fmt.Sprintf("Last check: %d checked, %d changed", m.lastCycle.Checked, m.lastCycle.Changed)
		if m.lastCycle.Changed > 0 {
			return styles.ok.Render(summary)
		}
		return styles.help.Render(summary)
	}
	return styles.help.Render("Waiting for first check...")
}
