// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package ui's messages.go file defines the message types used in the Bubble Tea
// Model-View-Update architecture. These messages are sent between components
// to communicate state changes and trigger UI updates.

package ui

import "gridapi/internal/models"

// Study browser messages
type studiesLoadedMsg struct {
	studies []models.Study
	total   int
}
type datasetsLoadedMsg struct {
	studyID  string
	datasets []models.Dataset
}
type errorMsg struct{ err error }
