package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/qlab"
)

func newPushCmd(a *app) *cobra.Command {
	var (
		host, passcode, workspaceID string
		port                        int
		dryRun                      bool
		interval                    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "push <project>",
		Short: "Create the project's cues in QLab as memo cues",
		Long:  "Create one memo cue per cue in the QLab workspace that is in front (or --workspace), numbered \"<TYPE> <number>\" and in cue-number order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.findProject(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			q := a.cfg.QLab
			if flags.Changed("host") {
				q.Host = host
			}
			if flags.Changed("port") {
				q.Port = port
			}
			if flags.Changed("passcode") {
				q.Passcode = passcode
			}

			ws := qlab.NewWorkspace(q.Host, q.Port)
			ws.SetDryRun(dryRun)
			ws.SetWorkspaceID(workspaceID)
			ws.SetInterval(interval)
			if err := ws.Init(q.Passcode); err != nil {
				return err
			}
			result, err := ws.PushCues(ctx, p.Cues)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Pushed %d cues (%d messages)\n", result.Cues, result.Messages)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&host, "host", "", "QLab host (default from config)")
	f.IntVar(&port, "port", 0, "QLab OSC port (default from config)")
	f.StringVar(&passcode, "passcode", "", "Workspace passcode")
	f.StringVar(&workspaceID, "workspace", "", "Workspace unique ID (default: the front workspace)")
	f.BoolVar(&dryRun, "dry-run", false, "Log the OSC messages instead of sending them")
	f.DurationVar(&interval, "interval", 20*time.Millisecond, "Pause between cues")
	return cmd
}
