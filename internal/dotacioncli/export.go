package dotacioncli

import (
	"fmt"
	"os"
	"strings"

	"github.com/Tincho2002/dotacion-assa-2025/internal/export"
	"github.com/Tincho2002/dotacion-assa-2025/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		view    string
		format  string
		out     string
		period  string
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write one dashboard view as CSV or XLSX",
		Args:  exactArgs(1, "dotacion export FILE --view NAME [--format csv|xlsx] [--out PATH]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			sel, err := parseFilters(filters)
			if err != nil {
				return err
			}
			ds, err := a.loadDataset(args[0])
			if err != nil {
				return err
			}
			d := report.Build(ds.Key, ds.Table, sel, period)
			v, ok := d.View(view)
			if !ok {
				return fmt.Errorf("%w: unknown view %q (available: %s)", ErrUsage, view, strings.Join(viewNames(d), ", "))
			}

			body, err := export.Encode(v.Frame, f)
			if err != nil {
				return err
			}
			if out == "" {
				out = export.Filename(v.Filename, f)
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("view exported", zap.String("view", v.Name), zap.String("path", out), zap.Int("rows", v.Frame.Len()))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", report.ViewTotalByPeriod, "view name")
	cmd.Flags().StringVar(&format, "format", string(export.CSV), "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, '-' for stdout (default: the view's file name)")
	cmd.Flags().StringVar(&period, "period", "", "detail period for per-period views")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as dimension=value[,value]; repeatable")
	return cmd
}

func viewNames(d *report.Dashboard) []string {
	names := make([]string, len(d.Views))
	for i, v := range d.Views {
		names[i] = v.Name
	}
	return names
}
