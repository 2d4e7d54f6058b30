// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view watch workflow for the tracked library:
//  1. [LibraryView] : Browse tracked beatmapsets with live status badges
//  2. [HistoryView] : Review recorded status transitions
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Monitor cycles run in the background on the configured interval; progress
// updates flow through a channel from the Monitor, providing non-blocking
// status reporting while a cycle is in flight.
//
// Keyboard navigation uses vim-style bindings (j/k, r, m, o, h, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
