// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the console API:
//  1. [FarmListView] : Browse farms
//  2. [FacilityListView] : Browse a farm's facilities
//  3. [ChickenListView] : Browse a facility's birds
//  4. [MatrixView] : Toggle user/role assignments cell by cell
//  5. [WatchView] : Follow a facility's live event channel
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Live events flow through a channel from a realtime watcher, and matrix toggles
// are confirmed before the request is sent, then applied only once the server
// acknowledges them.
//
// Keyboard navigation uses vim-style bindings (h/j/k/l, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
