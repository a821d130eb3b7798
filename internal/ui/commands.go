// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package ui's commands.go file contains Bubble Tea commands that perform
// asynchronous operations in the TUI. These commands wrap API calls so that
// fetching studies and datasets never blocks the UI loop.

package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"gridapi/internal/managers"
	"gridapi/internal/models"
	"gridapi/internal/query"
)

// --- Bubble Tea Commands ---
// Each command runs in its own goroutine and communicates back to the main
// UI loop by returning a message.

// loadStudiesCmd fetches one page of studies matching the current filter
// and search term.
func loadStudiesCmd(mgr *managers.StudiesManager, timeout contextTimeout, status models.StudyStatus, search string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := timeout()
		defer cancel()

		q := query.New().Limit(listPageSize).Sort("name")
		if status != "" {
			q.Filter("status", query.Eq, string(status))
		}
		if search != "" {
			q.Search(search)
		}

		page, err := mgr.List(ctx, q)
		if err != nil {
			return errorMsg{err}
		}
		return studiesLoadedMsg{studies: page.Items, total: page.Total}
	}
}

// loadDatasetsCmd fetches the datasets attached to a study.
func loadDatasetsCmd(mgr *managers.DatasetsManager, timeout contextTimeout, studyID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := timeout()
		defer cancel()

		datasets, err := mgr.List(ctx, studyID)
		if err != nil {
			return errorMsg{err}
		}
		return datasetsLoadedMsg{studyID: studyID, datasets: datasets}
	}
}

// contextTimeout produces request-scoped contexts bounded by the configured
// API timeout.
type contextTimeout func() (context.Context, context.CancelFunc)
