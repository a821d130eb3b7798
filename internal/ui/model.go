// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"gridapi/internal/client"
	"gridapi/internal/config"
	"gridapi/internal/logger"
	"gridapi/internal/managers"
	"gridapi/internal/models"
)

type model struct {
	keymap KeyMap

	currentState state
	width        int
	height       int
	ready        bool

	viewport        viewport.Model
	detailsViewport viewport.Model
	searchInput     textinput.Model
	spin            spinner.Model
	searching       bool

	studies      []models.Study
	totalStudies int
	cursor       int

	selectedStudy models.Study
	datasets      []models.Dataset
	datasetCursor int

	statusFilter models.StudyStatus // empty means no filter
	searchTerm   string

	err error

	appConfig   config.Config
	studiesMgr  *managers.StudiesManager
	datasetsMgr *managers.DatasetsManager
}

// InitialModel builds the starting model, resolving configuration and
// constructing the API client. A failure here lands the TUI directly in the
// error state instead of aborting before the screen is up.
func InitialModel() model {
	logger.InitLogger(true)

	search := textinput.New()
	search.Placeholder = "search studies..."
	search.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = statusStyle

	m := model{
		keymap:       DefaultKeyMap,
		currentState: stateLoadingStudies,
		searchInput:  search,
		spin:         spin,
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		m.currentState = stateError
		m.err = fmt.Errorf("failed to load configuration: %w", err)
		return m
	}
	m.appConfig = cfg

	conn, err := config.ResolveConnection(cfg)
	if err != nil {
		m.currentState = stateError
		m.err = fmt.Errorf("failed to resolve API connection: %w", err)
		return m
	}
	if conn.Token == "" {
		m.currentState = stateError
		m.err = fmt.Errorf("no API token configured; create a grid_token file or set GRIDAPI_TOKEN")
		return m
	}

	apiClient := client.New(conn, cfg.Timeout())
	m.studiesMgr = managers.NewStudiesManager(apiClient)
	m.datasetsMgr = managers.NewDatasetsManager(apiClient)
	return m
}

func (m model) Init() tea.Cmd {
	if m.currentState == stateError {
		return nil
	}
	return tea.Batch(m.loadStudies(), m.spin.Tick)
}

// apiTimeout builds request contexts for the async commands.
func (m *model) apiTimeout() contextTimeout {
	timeout := m.appConfig.Timeout()
	return func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), timeout)
	}
}

func (m *model) loadStudies() tea.Cmd {
	return loadStudiesCmd(m.studiesMgr, m.apiTimeout(), m.statusFilter, m.searchTerm)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case tea.KeyMsg:
		if m.searching {
			cmds = append(cmds, m.handleSearchInputKeys(msg)...)
			break
		}
		switch m.currentState {
		case stateStudyList:
			cmds = append(cmds, m.handleStudyListKeys(msg)...)
		case stateStudyDetails:
			cmds = append(cmds, m.handleStudyDetailsKeys(msg)...)
		case stateDatasetList:
			cmds = append(cmds, m.handleDatasetListKeys(msg)...)
		case stateError:
			if key.Matches(msg, m.keymap.Quit) {
				return m, tea.Quit
			}
			if key.Matches(msg, m.keymap.Back) || key.Matches(msg, m.keymap.Refresh) {
				if m.studiesMgr != nil {
					m.currentState = stateLoadingStudies
					m.err = nil
					cmds = append(cmds, m.loadStudies())
				}
			}
		default: // loading
			if key.Matches(msg, m.keymap.Quit) {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case studiesLoadedMsg:
		m.studies = msg.studies
		m.totalStudies = msg.total
		m.currentState = stateStudyList
		if m.cursor >= len(m.studies) {
			m.cursor = 0
		}
		m.syncStudyViewport()

	case datasetsLoadedMsg:
		// A stale response for a study we've already navigated away from
		// must not clobber the current view.
		if msg.studyID == m.selectedStudy.ID {
			m.datasets = msg.datasets
			m.datasetCursor = 0
			m.currentState = stateDatasetList
			m.syncDatasetViewport()
		}

	case errorMsg:
		logger.Error("TUI operation failed", "error", msg.err)
		m.err = msg.err
		m.currentState = stateError
	}

	return m, tea.Batch(cmds...)
}

// handleResize keeps the viewports sized to the terminal.
func (m *model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	bodyHeight := m.height - headerHeight - 3
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, bodyHeight)
		m.detailsViewport = viewport.New(m.width, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = bodyHeight
		m.detailsViewport.Width = m.width
		m.detailsViewport.Height = bodyHeight
	}

	switch m.currentState {
	case stateStudyList:
		m.syncStudyViewport()
	case stateDatasetList:
		m.syncDatasetViewport()
	}
}

// syncStudyViewport refreshes the list content and keeps the cursor row
// on screen after cursor moves, reloads, and resizes.
func (m *model) syncStudyViewport() {
	if !m.ready {
		return
	}
	body, _ := m.renderStudyListView()
	m.viewport.SetContent(body)
	if m.cursor == 0 {
		m.viewport.GotoTop()
		return
	}
	m.scrollCursorIntoView(&m.viewport, m.cursor+listHeaderLines)
}

func (m *model) syncDatasetViewport() {
	if !m.ready {
		return
	}
	body, _ := m.renderDatasetListView()
	m.viewport.SetContent(body)
	if m.datasetCursor == 0 {
		m.viewport.GotoTop()
		return
	}
	m.scrollCursorIntoView(&m.viewport, m.datasetCursor+listHeaderLines)
}

// scrollCursorIntoView adjusts the viewport offset so the given content
// line is visible.
func (m *model) scrollCursorIntoView(vp *viewport.Model, line int) {
	switch {
	case line < vp.YOffset:
		vp.SetYOffset(line)
	case line >= vp.YOffset+vp.Height:
		vp.SetYOffset(line - vp.Height + 1)
	}
}

func (m *model) handleStudyListKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keymap.Quit):
		cmds = append(cmds, tea.Quit)

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.studies)-1 {
			m.cursor++
		}
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.End):
		if len(m.studies) > 0 {
			m.cursor = len(m.studies) - 1
		}
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.PgUp):
		m.cursor -= m.viewport.Height
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.PgDown):
		m.cursor += m.viewport.Height
		if m.cursor > len(m.studies)-1 {
			m.cursor = len(m.studies) - 1
		}
		m.syncStudyViewport()

	case key.Matches(msg, m.keymap.Enter):
		if m.cursor < len(m.studies) {
			m.selectedStudy = m.studies[m.cursor]
			m.currentState = stateStudyDetails
			m.detailsViewport.GotoTop()
		}

	case key.Matches(msg, m.keymap.Datasets):
		if m.cursor < len(m.studies) {
			m.selectedStudy = m.studies[m.cursor]
			cmds = append(cmds, loadDatasetsCmd(m.datasetsMgr, m.apiTimeout(), m.selectedStudy.ID))
		}

	case key.Matches(msg, m.keymap.Refresh):
		m.currentState = stateLoadingStudies
		cmds = append(cmds, m.loadStudies())

	case key.Matches(msg, m.keymap.Filter):
		m.statusFilter = nextStatusFilter(m.statusFilter)
		m.cursor = 0
		m.currentState = stateLoadingStudies
		cmds = append(cmds, m.loadStudies())

	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		m.searchInput.SetValue(m.searchTerm)
		m.searchInput.Focus()
		cmds = append(cmds, textinput.Blink)
	}

	return cmds
}

func (m *model) handleStudyDetailsKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keymap.Quit):
		cmds = append(cmds, tea.Quit)
	case key.Matches(msg, m.keymap.Back):
		m.currentState = stateStudyList
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.Datasets):
		cmds = append(cmds, loadDatasetsCmd(m.datasetsMgr, m.apiTimeout(), m.selectedStudy.ID))
	default:
		var cmd tea.Cmd
		m.detailsViewport, cmd = m.detailsViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return cmds
}

func (m *model) handleDatasetListKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keymap.Quit):
		cmds = append(cmds, tea.Quit)
	case key.Matches(msg, m.keymap.Back):
		m.currentState = stateStudyList
		m.syncStudyViewport()
	case key.Matches(msg, m.keymap.Up):
		if m.datasetCursor > 0 {
			m.datasetCursor--
		}
		m.syncDatasetViewport()
	case key.Matches(msg, m.keymap.Down):
		if m.datasetCursor < len(m.datasets)-1 {
			m.datasetCursor++
		}
		m.syncDatasetViewport()
	case key.Matches(msg, m.keymap.Refresh):
		cmds = append(cmds, loadDatasetsCmd(m.datasetsMgr, m.apiTimeout(), m.selectedStudy.ID))
	}

	return cmds
}

// handleSearchInputKeys routes keys to the search textinput until the user
// confirms or cancels.
func (m *model) handleSearchInputKeys(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		m.searchTerm = m.searchInput.Value()
		m.cursor = 0
		m.currentState = stateLoadingStudies
		cmds = append(cmds, m.loadStudies())
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
	case tea.KeyCtrlC:
		cmds = append(cmds, tea.Quit)
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return cmds
}

// nextStatusFilter cycles: all -> draft -> active -> completed -> archived -> all.
func nextStatusFilter(current models.StudyStatus) models.StudyStatus {
	statuses := models.StudyStatuses()
	if current == "" {
		return statuses[0]
	}
	for i, s := range statuses {
		if s == current {
			if i == len(statuses)-1 {
				return ""
			}
			return statuses[i+1]
		}
	}
	return ""
}
