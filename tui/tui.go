// Package tui is the terminal spreadsheet over a project's cue list.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zenibako/cuesheet/cuesheet"
)

// Run opens the sheet full-screen and blocks until the user quits. Cue lists
// received on reloads replace the store's unless it holds unsaved edits; reloads
// may be nil.
func Run(ctx context.Context, title string, store *cuesheet.Store, reloads <-chan []cuesheet.Cue) error {
	m := newSheetModel(ctx, title, store, reloads)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
