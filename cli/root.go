// Package cli wires the cuesheet commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/config"
	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/storage"
	"github.com/zenibako/cuesheet/tui"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	dataDir    string
	backend    string
	debug      bool

	cfg    config.Config
	repo   *storage.Repository
	files  *storage.FileBackend // set for the file backend, which can be watched
	closer func() error

	confirm   func(title string) (bool, error)
	openSheet func(ctx context.Context, title string, store *cuesheet.Store, reloads <-chan []cuesheet.Cue) error
}

func newApp() *app {
	return &app{
		confirm:   confirmWithHuh,
		openSheet: tui.Run,
	}
}

// Execute runs the cuesheet command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the cuesheet command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cuesheet",
		Short:         "Annotate scripts with lighting, sound and video cues",
		Long:          "cuesheet keeps the cue list of a production next to its script PDF, exports it as CSV and pushes it to QLab.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.Path()+")")
	flags.StringVar(&a.dataDir, "data-dir", "", "Directory projects are stored in")
	flags.StringVar(&a.backend, "backend", "", "Storage backend: file or sqlite")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newProjectCmd(a),
		newCueCmd(a),
		newSceneCmd(a),
		newExportCmd(a),
		newSheetCmd(a),
		newPushCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.debug {
		log.SetLevel(log.DebugLevel)
	}
	if a.configPath == "" {
		a.configPath = config.Path()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = a.backend
	}
	a.cfg = cfg

	// config commands work without opening storage
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		return nil
	}
	return a.openBackend()
}

func (a *app) openBackend() error {
	switch a.cfg.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(filepath.Join(a.cfg.DataDir, "cuesheet.db"))
		if err != nil {
			return err
		}
		a.repo = storage.NewRepository(db)
		a.closer = db.Close
	case config.BackendFile, "":
		fb, err := storage.NewFileBackend(a.cfg.DataDir)
		if err != nil {
			return err
		}
		a.repo = storage.NewRepository(fb)
		a.files = fb
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", a.cfg.Backend, config.BackendFile, config.BackendSQLite)
	}
	log.Debug("Opened storage", "backend", a.cfg.Backend, "dir", a.cfg.DataDir)
	return nil
}

func (a *app) teardown() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

// findProject resolves a project by id, or by name when no id matches.
func (a *app) findProject(ctx context.Context, ref string) (cuesheet.Project, error) {
	p, err := a.repo.Get(ctx, ref)
	if err == nil || !errors.Is(err, storage.ErrProjectNotFound) {
		return p, err
	}
	projects, err := a.repo.List(ctx)
	if err != nil {
		return cuesheet.Project{}, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return cuesheet.Project{}, fmt.Errorf("%w: %s", storage.ErrProjectNotFound, ref)
}

// openStore loads a project's cues into a store that writes back to the repository.
func (a *app) openStore(ctx context.Context, ref string) (cuesheet.Project, *cuesheet.Store, error) {
	p, err := a.findProject(ctx, ref)
	if err != nil {
		return p, nil, err
	}
	return p, cuesheet.NewStore(p.Cues, a.cfg.Settings, a.repo.Persister(p.ID)), nil
}

// finish writes back whatever auto-save left unsaved; a one-shot command must
// not drop the change it was asked to make.
func finish(ctx context.Context, store *cuesheet.Store) error {
	if !store.Dirty() {
		return nil
	}
	return store.Flush(ctx)
}

// confirmDestructive asks before deleting, unless --yes was given or the user
// turned confirmations off.
func (a *app) confirmDestructive(yes bool, title string) (bool, error) {
	if yes || !a.cfg.Settings.ConfirmDelete {
		return true, nil
	}
	return a.confirm(title)
}

func confirmWithHuh(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return ok, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
