package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/qlab"
)

const (
	formatCSV  = "csv"
	formatQLab = "qlab-json"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		sf     sortFlags
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Export the cue list",
		Long:  "Export the cue list as CSV (the sheet's columns, in sheet order) or as the QLab cues a push would create.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.findProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg, err := sf.config()
			if err != nil {
				return err
			}

			if format != formatCSV && format != formatQLab {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatCSV, formatQLab)
			}

			toFile := output != "" && output != "-"
			var w io.Writer = cmd.OutOrStdout()
			var f *os.File
			if toFile {
				f, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				w = f
			}

			err = writeExport(w, format, p.Name, p.Cues, cfg)
			if f != nil {
				err = closeWritten(f, output, err)
			}
			if err != nil {
				return err
			}
			if toFile {
				log.Info("Exported cues", "project", p.Name, "cues", len(p.Cues), "file", output)
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file ("+cuesheet.CSVFileName+" is the usual name); default stdout")
	cmd.Flags().StringVar(&format, "format", formatCSV, "Output format: csv or qlab-json")
	return cmd
}

func writeExport(w io.Writer, format, name string, cues []cuesheet.Cue, cfg *cuesheet.SortConfig) error {
	switch format {
	case formatCSV:
		return cuesheet.WriteCSV(w, cuesheet.SortCues(cues, cfg), cuesheet.DefaultColumns)
	case formatQLab:
		out, err := qlab.ToJSON(name, cues, true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatCSV, formatQLab)
}

// closeWritten closes a file that was just written. A failed close can mean the
// data never reached the disk, so it is reported unless err already is.
func closeWritten(c io.Closer, name string, err error) error {
	if cerr := c.Close(); err == nil && cerr != nil {
		return fmt.Errorf("failed to write %s: %w", name, cerr)
	}
	return err
}
