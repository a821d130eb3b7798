// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"gridapi/internal/models"
)

// --- View Helpers ---
// These functions generate the body and footer content for specific UI states.
// The main View() method combines these with the header and manages viewport
// heights.

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body, footer string
	switch m.currentState {
	case stateLoadingStudies:
		body, footer = m.renderLoadingView()
	case stateStudyList:
		body, footer = m.renderStudyListView()
	case stateStudyDetails:
		body, footer = m.renderStudyDetailsView()
	case stateDatasetList:
		body, footer = m.renderDatasetListView()
	case stateError:
		body, footer = m.renderErrorView()
	}

	header := titleStyle.Render("GridAPI Study Browser")

	if m.searching {
		footer = "Search: " + m.searchInput.View()
	}

	// The details view keeps its own scroll position so returning from the
	// dataset list doesn't reset the study list.
	vp := &m.viewport
	if m.currentState == stateStudyDetails {
		vp = &m.detailsViewport
	}
	vp.SetContent(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		mainContentBorderStyle.Width(m.width-2).Render(vp.View()),
		footer,
	)
}

func (m *model) renderLoadingView() (string, string) {
	body := m.spin.View() + " " + statusStyle.Render("Loading studies...")
	footer := m.renderFooter(m.keymap.Quit)
	return body, footer
}

func (m *model) renderStudyListView() (string, string) {
	b := strings.Builder{}

	filterLabel := "all"
	if m.statusFilter != "" {
		filterLabel = string(m.statusFilter)
	}
	fmt.Fprintf(&b, "Studies (%d of %d, filter: %s", len(m.studies), m.totalStudies, filterLabel)
	if m.searchTerm != "" {
		fmt.Fprintf(&b, ", search: %q", m.searchTerm)
	}
	b.WriteString(")\n\n")

	if len(m.studies) == 0 {
		b.WriteString(dimStyle.Render("No studies match."))
	}

	for i, st := range m.studies {
		cursor := "  "
		if m.cursor == i {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s %-30s%s %s",
			cursor,
			identifierStyle.Render(fmt.Sprintf("%-14s", st.ID)),
			truncate(st.Name, 30),
			renderStudyStatus(st.Status),
			sponsorStyle.Render(st.Sponsor),
		)
		b.WriteString(line + "\n")
	}

	footer := m.renderFooter(
		m.keymap.Up, m.keymap.Down, m.keymap.Enter, m.keymap.Datasets,
		m.keymap.Filter, m.keymap.Search, m.keymap.Refresh, m.keymap.Quit,
	)
	return b.String(), footer
}

func (m *model) renderStudyDetailsView() (string, string) {
	st := m.selectedStudy
	b := strings.Builder{}

	fmt.Fprintf(&b, "%s %s\n\n", identifierStyle.Render(st.ID), renderStudyStatus(st.Status))
	fmt.Fprintf(&b, "%-15s %s\n", "Name:", st.Name)
	fmt.Fprintf(&b, "%-15s %s\n", "Title:", st.Title)
	fmt.Fprintf(&b, "%-15s %s\n", "Phase:", st.Phase)
	fmt.Fprintf(&b, "%-15s %s\n", "Sponsor:", sponsorStyle.Render(st.Sponsor))
	fmt.Fprintf(&b, "%-15s %d\n", "Participants:", st.ParticipantCount)
	if !st.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "%-15s %s\n", "Created:", st.CreatedAt.Format("2006-01-02 15:04"))
	}
	if !st.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "%-15s %s\n", "Updated:", st.UpdatedAt.Format("2006-01-02 15:04"))
	}

	footer := m.renderFooter(m.keymap.Datasets, m.keymap.Back, m.keymap.Quit)
	return b.String(), footer
}

func (m *model) renderDatasetListView() (string, string) {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Datasets for %s (%s)\n\n",
		m.selectedStudy.DisplayName(), identifierStyle.Render(m.selectedStudy.ID))

	if len(m.datasets) == 0 {
		b.WriteString(dimStyle.Render("No datasets for this study."))
	}

	for i, ds := range m.datasets {
		cursor := "  "
		if m.datasetCursor == i {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s %-30s %-8s %-10s %d records",
			cursor,
			identifierStyle.Render(fmt.Sprintf("%-14s", ds.ID)),
			truncate(ds.Name, 30),
			ds.Format,
			ds.HumanSize(),
			ds.RecordCount,
		)
		b.WriteString(line + "\n")
	}

	footer := m.renderFooter(m.keymap.Up, m.keymap.Down, m.keymap.Refresh, m.keymap.Back, m.keymap.Quit)
	return b.String(), footer
}

func (m *model) renderErrorView() (string, string) {
	b := strings.Builder{}
	b.WriteString(errorStyle.Render("Error:") + "\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	if m.studiesMgr != nil {
		b.WriteString("\nPress " + footerKeyStyle.Render("r") + " to retry.\n")
	}

	footer := m.renderFooter(m.keymap.Back, m.keymap.Quit)
	return b.String(), footer
}

// renderFooter builds the "key: desc | key: desc" status bar from bindings.
func (m *model) renderFooter(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts,
			footerKeyStyle.Render(help.Key)+footerDescStyle.Render(": "+help.Desc))
	}
	return footerStyle.Render(strings.Join(parts, footerSeparatorStyle.Render(" | ")))
}

func renderStudyStatus(s models.StudyStatus) string {
	switch s {
	case models.StudyActive:
		return statusActiveStyle.Render(" [ACTIVE]")
	case models.StudyDraft:
		return statusDraftStyle.Render(" [DRAFT]")
	case models.StudyCompleted:
		return statusCompletedStyle.Render(" [COMPLETED]")
	case models.StudyArchived:
		return statusArchivedStyle.Render(" [ARCHIVED]")
	default:
		return dimStyle.Render(" [?]")
	}
}

// truncate shortens s to max characters, counting runes so multibyte
// names are never cut mid-rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
