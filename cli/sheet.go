package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/storage"
)

func newSheetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sheet <project>",
		Short: "Edit the cue list as a spreadsheet",
		Long:  "Edit the cue list as a spreadsheet. With the file backend, cues saved by another cuesheet process show up in the open sheet.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			p, store, err := a.openStore(ctx, args[0])
			if err != nil {
				return err
			}

			var reloads <-chan []cuesheet.Cue
			if a.files != nil {
				reloads, err = watchCues(ctx, a.files, p.ID)
				if err != nil {
					log.Warn("Not watching for outside changes", "error", err)
				}
			}
			if err := a.openSheet(ctx, p.Icon+" "+p.Name, store, reloads); err != nil {
				return err
			}
			return finish(ctx, store)
		},
	}
}

// watchCues delivers the project's cue list each time the project file is
// rewritten. Only the newest list is kept if the reader falls behind.
func watchCues(ctx context.Context, files *storage.FileBackend, projectID string) (<-chan []cuesheet.Cue, error) {
	ch := make(chan []cuesheet.Cue, 1)
	err := files.Watch(ctx, storage.ProjectsKey, func(data []byte) {
		p, err := storage.DecodeProject(data, projectID)
		if err != nil {
			log.Warn("Ignoring unreadable project change", "project", projectID, "error", err)
			return
		}
		select {
		case <-ch:
		default:
		}
		ch <- p.Cues
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}
