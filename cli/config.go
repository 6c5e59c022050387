package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zenibako/cuesheet/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}
	cmd.AddCommand(newConfigPrintCmd(a), newConfigInitCmd(a))
	return cmd
}

func newConfigPrintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "# %s\n%s", a.configPath, b)
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !overwrite {
				if _, err := os.Stat(a.configPath); err == nil {
					return fmt.Errorf("config already exists at %s (use --overwrite to replace)", a.configPath)
				}
			}
			if err := config.Save(a.configPath, a.cfg); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}
