// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errorStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	statusActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusDraftStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusCompletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statusArchivedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sponsorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
	identifierStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mainContentBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("238")) // Light grey border

	// Footer / Status Bar Styles
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")) // Default light grey text

	footerKeyStyle = lipgloss.NewStyle().
			Inherit(footerStyle).
			Foreground(lipgloss.Color("39")) // Bright blue for key

	footerDescStyle = lipgloss.NewStyle().
			Inherit(footerStyle).
			Foreground(lipgloss.Color("250")) // Light grey for description

	footerSeparatorStyle = lipgloss.NewStyle().
				Inherit(footerStyle).
				Foreground(lipgloss.Color("240")) // Dim grey for separator "|"
)
