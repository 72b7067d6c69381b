package dotacioncli

import (
	"fmt"

	"github.com/Tincho2002/dotacion-assa-2025/internal/config"
	"github.com/spf13/cobra"
)

func newInitCommand(a *app) *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  exactArgs(0, "dotacion init [--path dotacion.yaml] [--force]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultConfig().Save(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", config.DefaultPath, "destination file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
