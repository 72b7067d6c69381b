package dotacioncli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/Tincho2002/dotacion-assa-2025/internal/report"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1f77b4"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	totalStyle   = cellStyle.Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d62728"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// watchDebounce collapses the burst of events an editor emits on save.
const watchDebounce = 250 * time.Millisecond

type reportOptions struct {
	period  string
	filters []string
	rawRows int
	watch   bool
}

func newReportCommand(a *app) *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Print the dashboard tables for a roster workbook",
		Args:  exactArgs(1, "dotacion report FILE [--period P] [--filter dim=v1,v2]... [--watch]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseFilters(opts.filters)
			if err != nil {
				return err
			}
			if !opts.watch {
				return a.printReport(cmd.OutOrStdout(), args[0], sel, opts)
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return a.watchReport(ctx, cmd.OutOrStdout(), args[0], sel, opts)
		},
	}
	cmd.Flags().StringVar(&opts.period, "period", "", "detail period (default: latest selected month)")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "filter as dimension=value[,value]; repeatable")
	cmd.Flags().IntVar(&opts.rawRows, "rows", 20, "rows of the filtered data table to print (0 hides it)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-render when the file changes")
	return cmd
}

func (a *app) printReport(w io.Writer, path string, sel roster.Selection, opts reportOptions) error {
	ds, err := a.loadDataset(path)
	if err != nil {
		return err
	}
	return renderDashboard(w, ds, report.Build(ds.Key, ds.Table, sel, opts.period), opts.rawRows)
}

func renderDashboard(w io.Writer, ds *roster.Dataset, d *report.Dashboard, rawRows int) error {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Dotación · %s · %d registros · detalle: %s", ds.Filename, d.Total(), d.Period)))
	if ds.Warning != nil {
		fmt.Fprintln(w, noticeStyle.Render(ds.Warning.Error()))
	}
	if d.Empty() {
		fmt.Fprintln(w, noticeStyle.Render("No hay registros para los filtros seleccionados."))
		return nil
	}
	for _, section := range report.Sections {
		if section == report.SectionData && rawRows <= 0 {
			continue
		}
		fmt.Fprintln(w, sectionStyle.Render(section.Title()))
		for _, v := range d.Section(section) {
			limit := 0
			if section == report.SectionData {
				limit = rawRows
			}
			fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(v.Title))
			fmt.Fprintln(w, renderTable(v.Frame.Records(), limit))
		}
	}
	return nil
}

// renderTable draws records, header first. limit > 0 truncates the body.
func renderTable(records [][]string, limit int) string {
	body := records[1:]
	hidden := 0
	if limit > 0 && len(body) > limit {
		hidden = len(body) - limit
		body = body[:limit]
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(records[0]...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(body) && len(body[row]) > 0 && body[row][0] == pivot.TotalLabel:
				return totalStyle
			default:
				return cellStyle
			}
		})
	out := t.String()
	if hidden > 0 {
		out += fmt.Sprintf("\n… %d filas más", hidden)
	}
	return out
}

// watchReport prints the report, then again after every change to path. Each
// change is a new upload: the previous dataset is evicted from the loader.
func (a *app) watchReport(ctx context.Context, w io.Writer, path string, sel roster.Selection, opts reportOptions) error {
	loader := roster.NewLoader(roster.Pipeline{SheetName: a.cfg.SheetName, Now: a.now, Logger: a.logger}, 1)
	loader.OnEvict(func(key string) {
		a.logger.Debug("previous snapshot evicted", zap.String("dataset", key))
	})

	render := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warn("read roster failed", zap.String("file", path), zap.Error(err))
			return
		}
		ds, err := loader.Load(data, filepath.Base(path))
		if err != nil {
			fmt.Fprintln(w, noticeStyle.Render(err.Error()))
			return
		}
		if err := renderDashboard(w, ds, report.Build(ds.Key, ds.Table, sel, opts.period), opts.rawRows); err != nil {
			a.logger.Warn("render report failed", zap.Error(err))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	render()
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", zap.Error(err))
		case <-debounce:
			debounce = nil
			a.logger.Info("roster changed", zap.String("file", path))
			render()
		}
	}
}
