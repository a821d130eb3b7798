// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// This file defines the keyboard bindings for the TUI application.
// It maps keys to actions and provides descriptions for the help menu.

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation keys
	Up     key.Binding // Move cursor up
	Down   key.Binding // Move cursor down
	PgUp   key.Binding // Page up in lists
	PgDown key.Binding // Page down in lists
	Home   key.Binding // Jump to top of list
	End    key.Binding // Jump to bottom of list

	// General UI control
	Quit  key.Binding // Exit the application
	Enter key.Binding // Confirm selection
	Back  key.Binding // Go back to previous view

	// Study browser actions
	Refresh  key.Binding // Reload the study list from the API
	Filter   key.Binding // Cycle the status filter
	Search   key.Binding // Edit the free-text search
	Datasets key.Binding // Show datasets for the selected study
}

// DefaultKeyMap provides the default keybindings.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PgUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PgDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "home"),
	),
	End: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "end"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "b"),
		key.WithHelp("esc/b", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter status"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Datasets: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "datasets"),
	),
}
