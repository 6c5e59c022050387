package cli

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/cuesheet"
)

func newSceneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scene",
		Aliases: []string{"scenes"},
		Short:   "Manage scene headings",
	}
	cmd.AddCommand(newSceneListCmd(a), newSceneAddCmd(a))
	return cmd
}

func newSceneListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List scene headings with their cue counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.findProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			counts := cuesheet.PageCueCounts(p.Cues)

			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetHeader([]string{"PAGE", "TITLE", "ACT", "CUES ON PAGE", "COLOR"})
			for _, h := range p.SceneHeadings {
				act := ""
				if h.ActNumber != nil {
					act = strconv.Itoa(*h.ActNumber)
				}
				switch {
				case h.IsActStart:
					act += " start"
				case h.IsActEnd:
					act += " end"
				}
				tw.Append([]string{strconv.Itoa(h.PageNumber), h.Title, act, strconv.Itoa(counts[h.PageNumber]), h.Color})
			}
			tw.Render()
			return nil
		},
	}
}

func newSceneAddCmd(a *app) *cobra.Command {
	var (
		h   cuesheet.SceneHeading
		act int
	)
	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add a scene heading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.findProject(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("act") {
				h.ActNumber = &act
			}
			scenes, err := cuesheet.AddSceneHeading(p.SceneHeadings, h)
			if err != nil {
				return err
			}
			if err := a.repo.SaveScenes(ctx, p.ID, scenes); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Added scene %q on page %d\n", scenes[len(scenes)-1].Title, h.PageNumber)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&h.PageNumber, "page", 1, "Page the scene starts on")
	f.StringVar(&h.Title, "title", "", "Scene title")
	f.StringVar(&h.Description, "description", "", "Description")
	f.StringVar(&h.Color, "color", "", "Accent colour (default "+cuesheet.DefaultSceneColor+")")
	f.BoolVar(&h.IsActStart, "act-start", false, "The scene opens an act")
	f.BoolVar(&h.IsActEnd, "act-end", false, "The scene closes an act")
	f.IntVar(&act, "act", 0, "Act number")
	return cmd
}
