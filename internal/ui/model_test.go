// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package ui

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"gridapi/internal/models"
)

// newListModel builds a ready model showing a study list taller than the
// viewport, without touching configuration or the network.
func newListModel(count int) model {
	m := model{
		keymap:       DefaultKeyMap,
		currentState: stateStudyList,
		spin:         spinner.New(),
	}
	for i := 0; i < count; i++ {
		m.studies = append(m.studies, models.Study{
			ID:     fmt.Sprintf("st-%03d", i),
			Name:   fmt.Sprintf("study-%03d", i),
			Status: models.StudyActive,
		})
	}
	m.totalStudies = count

	// Height 14 leaves a 10-line body for the viewport.
	m.handleResize(tea.WindowSizeMsg{Width: 80, Height: 14})
	return m
}

func press(t *testing.T, m model, msg tea.KeyMsg, times int) model {
	t.Helper()
	for i := 0; i < times; i++ {
		updated, _ := m.Update(msg)
		m = updated.(model)
	}
	return m
}

func requireCursorVisible(t *testing.T, m model) {
	t.Helper()
	line := m.cursor + listHeaderLines
	require.GreaterOrEqual(t, line, m.viewport.YOffset)
	require.Less(t, line, m.viewport.YOffset+m.viewport.Height)
}

func TestStudyListScrollsWithCursor(t *testing.T) {
	t.Parallel()

	m := newListModel(50)
	require.Equal(t, 0, m.viewport.YOffset)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, 30)
	require.Equal(t, 30, m.cursor)
	require.Positive(t, m.viewport.YOffset)
	requireCursorVisible(t, m)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd}, 1)
	require.Equal(t, 49, m.cursor)
	requireCursorVisible(t, m)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyHome}, 1)
	require.Equal(t, 0, m.cursor)
	require.Equal(t, 0, m.viewport.YOffset)
}

func TestStudyListPageKeysScroll(t *testing.T) {
	t.Parallel()

	m := newListModel(50)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown}, 1)
	require.Equal(t, m.viewport.Height, m.cursor)
	require.Positive(t, m.viewport.YOffset)
	requireCursorVisible(t, m)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp}, 1)
	require.Equal(t, 0, m.cursor)
	require.Equal(t, 0, m.viewport.YOffset)
}

func TestDatasetListScrollsWithCursor(t *testing.T) {
	t.Parallel()

	m := newListModel(0)
	m.currentState = stateDatasetList
	m.selectedStudy = models.Study{ID: "st-001", Name: "demo"}
	for i := 0; i < 40; i++ {
		m.datasets = append(m.datasets, models.Dataset{
			ID:   fmt.Sprintf("ds-%03d", i),
			Name: fmt.Sprintf("dataset-%03d", i),
		})
	}
	m.syncDatasetViewport()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, 25)
	require.Equal(t, 25, m.datasetCursor)
	require.Positive(t, m.viewport.YOffset)
	line := m.datasetCursor + listHeaderLines
	require.GreaterOrEqual(t, line, m.viewport.YOffset)
	require.Less(t, line, m.viewport.YOffset+m.viewport.Height)
}

func TestLoadingViewShowsSpinner(t *testing.T) {
	t.Parallel()

	m := newListModel(0)
	m.currentState = stateLoadingStudies

	body, _ := m.renderLoadingView()
	require.Contains(t, body, "Loading studies...")

	before := m.spin.View()
	updated, cmd := m.Update(m.spin.Tick())
	m = updated.(model)
	require.NotNil(t, cmd)
	require.NotEqual(t, before, m.spin.View())
}

func TestTruncate_MultibyteNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, "étude", truncate("étude", 10))

	got := truncate(strings.Repeat("é", 40), 30)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, strings.Repeat("é", 27)+"...", got)
}
