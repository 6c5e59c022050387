package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/templates"
)

func newCueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cue",
		Aliases: []string{"cues"},
		Short:   "Manage the cues of a project",
	}
	cmd.AddCommand(
		newCueListCmd(a),
		newCueShowCmd(a),
		newCueAddCmd(a),
		newCueSetCmd(a),
		newCueMoveCmd(a),
		newCueDeleteCmd(a),
	)
	return cmd
}

// sortFlags are shared by the commands that print cues in sheet order.
type sortFlags struct {
	key  string
	desc bool
}

func (f *sortFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.key, "sort", "", "Sort by field (type, number, page, label, time, color, ...)")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort descending")
}

func (f *sortFlags) config() (*cuesheet.SortConfig, error) {
	if f.key == "" {
		return nil, nil
	}
	key, err := cuesheet.ParseField(f.key)
	if err != nil {
		return nil, err
	}
	cfg := &cuesheet.SortConfig{Key: key}
	if f.desc {
		cfg.Direction = cuesheet.Descending
	}
	return cfg, nil
}

func renderCues(w io.Writer, cues []cuesheet.Cue, columns []cuesheet.Column) {
	tw := tablewriter.NewWriter(w)
	header := []string{"ID"}
	for _, col := range columns {
		header = append(header, strings.ToUpper(col.Label))
	}
	tw.SetHeader(header)
	for _, c := range cues {
		row := []string{c.ID}
		for _, col := range columns {
			row = append(row, cuesheet.FormatField(c, col.Key))
		}
		tw.Append(row)
	}
	tw.Render()
}

func newCueListCmd(a *app) *cobra.Command {
	var sf sortFlags
	var page int
	cmd := &cobra.Command{
		Use:   "list <project>",
		Short: "List cues in sheet order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := a.openStore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg, err := sf.config()
			if err != nil {
				return err
			}
			cues := store.Cues()
			if page > 0 {
				cues = cuesheet.CuesOnPage(cues, page)
			}
			renderCues(cmd.OutOrStdout(), cuesheet.SortCues(cues, cfg), cuesheet.DefaultColumns)
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "Only cues on this page")
	return cmd
}

func newCueShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project> <cue-id>",
		Short: "Show every field of one cue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := a.openStore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c, ok := store.Get(args[1])
			if !ok {
				return fmt.Errorf("%w: %s", cuesheet.ErrCueNotFound, args[1])
			}
			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetHeader([]string{"FIELD", "VALUE"})
			for _, f := range cuesheet.Fields {
				tw.Append([]string{string(f), cuesheet.FormatField(c, f)})
			}
			tw.Render()
			return nil
		},
	}
}

func newCueAddCmd(a *app) *cobra.Command {
	var (
		page                           int
		x, y                           float64
		cueType, color, label, cueTime string
		notes                          string
	)
	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add a cue",
		Long:  "Add a cue. Unset fields take the add-cue form defaults; --x/--y place the marker, otherwise it sits in the middle of the page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, err := a.openStore(ctx, args[0])
			if err != nil {
				return err
			}

			tmpl := templates.NewCueTemplate(store, page)
			flags := cmd.Flags()
			if flags.Changed("type") {
				t, err := cuesheet.ParseCueType(cueType)
				if err != nil {
					return err
				}
				tmpl.Type = t
			}
			if flags.Changed("color") {
				tmpl.Color = color
				if sw, ok := templates.LookupSwatch(color); ok {
					tmpl.Color = sw.Hex
				}
			}
			if flags.Changed("label") {
				tmpl.Label = label
			}
			tmpl.Time, tmpl.Notes = cueTime, notes

			draft := tmpl.Draft()
			if flags.Changed("x") {
				draft.Position.X = x
			}
			if flags.Changed("y") {
				draft.Position.Y = y
			}

			c, err := store.Add(ctx, draft)
			if err != nil {
				return err
			}
			if err := finish(ctx, store); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Added %s %d on page %d (%s)\n", c.Type, c.Number, c.Page, c.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&page, "page", 1, "Page the cue belongs to")
	f.Float64Var(&x, "x", 50, "Horizontal position, percent of page width")
	f.Float64Var(&y, "y", 50, "Vertical position, percent of page height")
	f.StringVar(&cueType, "type", string(cuesheet.CueTypeLX), "Cue type: LX, SFX, VIDEO, PROPS or OTHER")
	f.StringVar(&color, "color", "blue", "Colour: palette name or hex value")
	f.StringVar(&label, "label", "", "Label (default \"Cue <number>\")")
	f.StringVar(&cueTime, "time", "", "Time, free text")
	f.StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func newCueSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <project> <cue-id> <field> <value>",
		Short: "Edit one field of a cue, as typing into the sheet does",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, err := a.openStore(ctx, args[0])
			if err != nil {
				return err
			}
			field, err := cuesheet.ParseField(args[2])
			if err != nil {
				return err
			}

			c, ok := store.Get(args[1])
			if !ok {
				return fmt.Errorf("%w: %s", cuesheet.ErrCueNotFound, args[1])
			}
			updated, err := cuesheet.ApplyField(c, field, args[3])
			if err != nil {
				return err
			}
			if err := store.Update(ctx, updated); err != nil {
				return err
			}
			if err := finish(ctx, store); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s %s = %s\n", c.ID, field, cuesheet.FormatField(updated, field))
			return nil
		},
	}
}

// snapReferenceWidth is the page width, in pixels, the move command measures
// the snap guide against.
const snapReferenceWidth = 1000

func newCueMoveCmd(a *app) *cobra.Command {
	var (
		x, y   float64
		length float64
		noSnap bool
	)
	cmd := &cobra.Command{
		Use:   "move <project> <cue-id>",
		Short: "Move a cue marker or resize its connector line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, err := a.openStore(ctx, args[0])
			if err != nil {
				return err
			}
			c, ok := store.Get(args[1])
			if !ok {
				return fmt.Errorf("%w: %s", cuesheet.ErrCueNotFound, args[1])
			}

			flags := cmd.Flags()
			target := c.Position
			if flags.Changed("x") {
				target.X = x
			}
			if flags.Changed("y") {
				target.Y = y
			}
			snap := store.Settings().Snap()
			if noSnap {
				snap.Threshold = 0
			}
			box := cuesheet.Rect{Width: snapReferenceWidth, Height: snapReferenceWidth}
			pointer := cuesheet.Point{X: target.X / 100 * box.Width, Y: target.Y / 100 * box.Height}
			c.Position = cuesheet.DragPosition(pointer, cuesheet.Point{}, box, snap)

			if flags.Changed("length") {
				c.LineLength = &length
			}
			if err := store.Update(ctx, c); err != nil {
				return err
			}
			if err := finish(ctx, store); err != nil {
				return err
			}
			c, _ = store.Get(c.ID)
			printf(cmd.OutOrStdout(), "%s position %s line %v\n", c.ID,
				cuesheet.FormatField(c, cuesheet.FieldPosition), c.EffectiveLineLength())
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&x, "x", 0, "Horizontal position, percent of page width")
	f.Float64Var(&y, "y", 0, "Vertical position, percent of page height")
	f.Float64Var(&length, "length", cuesheet.DefaultLineLength, "Connector line length in pixels")
	f.BoolVar(&noSnap, "no-snap", false, "Do not snap to the guide line")
	return cmd
}

func newCueDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project> <cue-id>...",
		Short: "Delete cues",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, store, err := a.openStore(ctx, args[0])
			if err != nil {
				return err
			}
			ids := args[1:]
			ok, err := a.confirmDestructive(yes, fmt.Sprintf("Delete %d cue(s)?", len(ids)))
			if err != nil {
				return err
			}
			if !ok {
				printf(cmd.OutOrStdout(), "Cancelled\n")
				return nil
			}
			n, err := store.BulkDelete(ctx, ids)
			if err != nil {
				return err
			}
			if err := finish(ctx, store); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted %d cue(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
