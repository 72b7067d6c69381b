// Package dotacioncli implements the dotacion command line: the web dashboard
// server plus terminal report, export and config commands.
package dotacioncli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tincho2002/dotacion-assa-2025/internal/config"
	"github.com/Tincho2002/dotacion-assa-2025/internal/logging"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrUsage marks invalid invocations; callers exit with status 2.
var ErrUsage = errors.New("usage")

type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	// now anchors tenure and age in report and export; nil means time.Now.
	now func() time.Time
}

// Execute runs the command line with args, excluding the program name.
func Execute(args []string) error {
	return ExecuteContext(context.Background(), args, os.Stdout, os.Stderr)
}

// ExecuteContext runs the command line with explicit streams.
func ExecuteContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(&app{})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// PrintUsage writes the command summary.
func PrintUsage(w io.Writer) {
	root := newRootCommand(&app{})
	root.SetOut(w)
	_ = root.Usage()
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "dotacion",
		Short:         "Headcount dashboard for the Dotacion_25 roster workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $DOTACION_CONFIG or dotacion.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	root.AddCommand(
		newServeCommand(a),
		newReportCommand(a),
		newExportCommand(a),
		newInitCommand(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// loadDataset runs the pipeline over one workbook on disk.
func (a *app) loadDataset(path string) (*roster.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := roster.Pipeline{SheetName: a.cfg.SheetName, Now: a.now, Logger: a.logger}
	return p.Run(data, filepath.Base(path))
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s", ErrUsage, usage)
		}
		return nil
	}
}

// parseFilters reads repeated dim=v1,v2 flags. dim is a slug or a column name.
func parseFilters(args []string) (roster.Selection, error) {
	sel := roster.Selection{}
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: filter %q must be dimension=value[,value]", ErrUsage, arg)
		}
		dim, ok := lookupDimension(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: unknown filter dimension %q", ErrUsage, name)
		}
		for _, v := range strings.Split(list, ",") {
			if v = strings.TrimSpace(v); v != "" {
				sel[dim] = append(sel[dim], v)
			}
		}
	}
	return sel, nil
}

func lookupDimension(name string) (roster.Dimension, bool) {
	if dim, ok := roster.DimensionBySlug(strings.ToLower(name)); ok {
		return dim, true
	}
	for _, dim := range roster.Dimensions {
		if strings.EqualFold(string(dim), name) {
			return dim, true
		}
	}
	return "", false
}
