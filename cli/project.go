package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/storage"
	"github.com/zenibako/cuesheet/templates"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(newProjectListCmd(a), newProjectCreateCmd(a), newProjectDeleteCmd(a))
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.repo.List(cmd.Context())
			if errors.Is(err, storage.ErrCorruptRecord) {
				// Show an empty list rather than refusing to start.
				log.Error("Stored projects could not be read", "error", err)
				projects, err = nil, nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(projects)
			}
			tw := tablewriter.NewWriter(out)
			tw.SetHeader([]string{"ID", "", "NAME", "CUES", "UPDATED"})
			for _, p := range projects {
				tw.Append([]string{p.ID, p.Icon, p.Name, strconv.Itoa(len(p.Cues)), p.UpdatedAt.Local().Format(time.DateTime)})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newProjectCreateCmd(a *app) *cobra.Command {
	var name, icon string
	cmd := &cobra.Command{
		Use:   "create <script.pdf>",
		Short: "Create a project from a script PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdfName, uri, err := storage.LoadPDF(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = pdfName
			}
			if icon == "" {
				icon = templates.RandomProjectIcon()
			}
			p, err := a.repo.Create(cmd.Context(), name, icon, uri)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %s %s\n", p.Icon, p.Name, p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name (default: the PDF file name)")
	cmd.Flags().StringVar(&icon, "icon", "", "Project icon (default: a random one)")
	return cmd
}

func newProjectDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project and all of its cues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.findProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirmDestructive(yes, fmt.Sprintf("Delete project %q and its %d cues?", p.Name, len(p.Cues)))
			if err != nil {
				return err
			}
			if !ok {
				printf(cmd.OutOrStdout(), "Cancelled\n")
				return nil
			}
			if err := a.repo.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted %s\n", p.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
