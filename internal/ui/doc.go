// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a small workflow over the catalog:
//  1. [MovieListView] : Browse and filter stored movies
//  2. [DetailView] : Inspect one movie
//  3. [ConfirmDeleteView] : Confirm a delete
//  4. [EnrichView] : Monitor a bulk fetch in real time
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the CatalogEngine, providing non-blocking status reporting during bulk fetches.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f/F, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
