package dotacioncli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/Tincho2002/dotacion-assa-2025/internal/webapp"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Args:  exactArgs(0, "dotacion serve [--addr :8080]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := webapp.ConfigFrom(a.cfg)
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			if err := webapp.Run(ctx, cfg, a.logger); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
