// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package ui

// state represents the different views or modes of the TUI.
type state int

const (
	stateLoadingStudies state = iota
	stateStudyList
	stateStudyDetails
	stateDatasetList
	stateError
)

const (
	headerHeight = 1 // Height reserved for the main title header (single line, JoinVertical adds newline).
	listPageSize = 100

	// listHeaderLines is the number of content lines above the first row in
	// the study and dataset list views (title line plus a blank line).
	listHeaderLines = 2
)
