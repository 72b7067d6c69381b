package webapp

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Tincho2002/dotacion-assa-2025/internal/chart"
	"github.com/Tincho2002/dotacion-assa-2025/internal/export"
	"github.com/Tincho2002/dotacion-assa-2025/internal/report"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"go.uber.org/zap"
)

// uploadField is the multipart field holding the workbook.
const uploadField = "roster_file"

// periodParam selects the detail period.
const periodParam = "detalle"

// maxDisplayRows caps the rows rendered per table; exports are never capped.
const maxDisplayRows = 500

type pageData struct {
	Error     string
	SheetName string

	Key       string
	Filename  string
	Warning   string
	Empty     bool
	Total     int
	Period    string
	Periods   []optionView
	Filters   []filterView
	Tabs      []tabView
	Strategy  roster.Derivation
	ResetPath string
}

type optionView struct {
	Value    string
	Selected bool
}

type filterView struct {
	Slug    string
	Label   string
	Options []optionView
}

type tabView struct {
	ID    string
	Title string
	Views []tableView
}

type tableView struct {
	Name      string
	Title     string
	Columns   []string
	Rows      [][]string
	Hidden    int
	CSVURL    template.URL
	XLSXURL   template.URL
	ChartURL  template.URL
	HasChart  bool
	Filename  string
	EmptyNote bool
}

func (s *Server) uploadPage(w http.ResponseWriter, r *http.Request) {
	data := pageData{SheetName: s.cfg.SheetName}
	if err := renderHTMLTemplate(w, http.StatusOK, s.uploadTmpl, data); err != nil {
		s.logger.Error("upload template render failed", zap.Error(err))
	}
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	raw, filename, err := parseUploadedFile(r, uploadField, s.cfg.MaxUploadBytes)
	if err != nil {
		s.renderUploadError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := s.loader.Load(raw, filename)
	if err != nil {
		var ingestErr *roster.IngestError
		if errors.As(err, &ingestErr) {
			s.renderUploadError(w, http.StatusUnprocessableEntity, ingestErr.Error())
			return
		}
		s.logger.Error("load roster failed", zap.Error(err))
		s.renderUploadError(w, http.StatusInternalServerError, "no se pudo procesar el archivo")
		return
	}
	http.Redirect(w, r, "/dashboard/"+ds.Key, http.StatusSeeOther)
}

func (s *Server) renderUploadError(w http.ResponseWriter, status int, message string) {
	data := pageData{SheetName: s.cfg.SheetName, Error: message}
	if err := renderHTMLTemplate(w, status, s.uploadTmpl, data); err != nil {
		s.logger.Error("upload template render failed", zap.Error(err))
	}
}

func (s *Server) dashboardPage(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loader.Get(r.PathValue("key"))
	if !ok {
		http.Error(w, "dataset not found; upload the file again", http.StatusNotFound)
		return
	}
	sel, period := readSelection(r.URL.Query())
	dash := s.views.Dashboard(ds, sel, period)

	data := pageData{
		SheetName: s.cfg.SheetName,
		Key:       ds.Key,
		Filename:  ds.Filename,
		Empty:     dash.Empty(),
		Total:     dash.Total(),
		Period:    dash.Period,
		Strategy:  ds.Derivation,
		ResetPath: "/dashboard/" + ds.Key,
	}
	if ds.Warning != nil {
		data.Warning = ds.Warning.Error()
	}
	for _, p := range dash.Periods {
		data.Periods = append(data.Periods, optionView{Value: p, Selected: p == dash.Period})
	}
	for _, dim := range roster.Dimensions {
		data.Filters = append(data.Filters, filterView{
			Slug:    dim.Slug(),
			Label:   dim.Label(),
			Options: options(roster.OrderedOptions(ds.Table, dim), sel.Values(dim)),
		})
	}

	query := dashboardQuery(sel, dash.Period)
	for _, section := range report.Sections {
		tab := tabView{ID: string(section), Title: section.Title()}
		for _, v := range dash.Section(section) {
			tab.Views = append(tab.Views, tableFor(ds.Key, v, query))
		}
		data.Tabs = append(data.Tabs, tab)
	}

	if err := renderHTMLTemplate(w, http.StatusOK, s.dashboardTmpl, data); err != nil {
		s.logger.Error("dashboard template render failed", zap.String("dataset", ds.Key), zap.Error(err))
	}
}

func (s *Server) exportFile(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loader.Get(r.PathValue("key"))
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	file := r.PathValue("file")
	ext := path.Ext(file)
	format, err := export.ParseFormat(ext)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, period := readSelection(r.URL.Query())
	view, ok := s.views.Dashboard(ds, sel, period).View(strings.TrimSuffix(file, ext))
	if !ok {
		http.Error(w, "view not found", http.StatusNotFound)
		return
	}

	body, err := export.Encode(view.Frame, format)
	if err != nil {
		s.logger.Error("export failed", zap.String("view", view.Name), zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(view.Filename, format)))
	_, _ = w.Write(body)
}

func (s *Server) chartImage(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loader.Get(r.PathValue("key"))
	if !ok {
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	}
	name, found := strings.CutSuffix(r.PathValue("file"), ".png")
	if !found {
		http.Error(w, "charts are served as .png", http.StatusBadRequest)
		return
	}
	sel, period := readSelection(r.URL.Query())
	view, ok := s.views.Dashboard(ds, sel, period).View(name)
	if !ok {
		http.Error(w, "view not found", http.StatusNotFound)
		return
	}
	series, err := view.Series()
	if err != nil {
		http.Error(w, "view has no chart", http.StatusNotFound)
		return
	}
	img, err := chart.RenderPNG(series)
	if errors.Is(err, chart.ErrNoData) {
		http.Error(w, "no data to chart", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("chart render failed", zap.String("view", view.Name), zap.Error(err))
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=60")
	_, _ = w.Write(img)
}

func parseUploadedFile(r *http.Request, fieldName string, maxBytes int64) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxBytes + (2 << 20)); err != nil {
		return nil, "", errors.New("formulario de carga inválido")
	}
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		return nil, "", errors.New("seleccione un archivo Excel")
	}
	defer file.Close()
	raw, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "", errors.New("no se pudo leer el archivo")
	}
	if int64(len(raw)) > maxBytes {
		return nil, "", fmt.Errorf("el archivo supera el máximo de %d MB", maxBytes>>20)
	}
	if len(raw) == 0 {
		return nil, "", errors.New("el archivo está vacío")
	}
	name := strings.TrimSpace(header.Filename)
	if name == "" {
		name = "dotacion.xlsx"
	}
	return raw, name, nil
}

// readSelection splits a request query into the filter selection and the
// requested detail period.
func readSelection(q url.Values) (roster.Selection, string) {
	return roster.SelectionFromQuery(q), strings.TrimSpace(q.Get(periodParam))
}

func dashboardQuery(sel roster.Selection, period string) string {
	q := sel.Query()
	if period != "" {
		q.Set(periodParam, period)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// options marks every value selected when the dimension is unconstrained.
func options(values, selected []string) []optionView {
	set := make(map[string]bool, len(selected))
	for _, v := range selected {
		set[v] = true
	}
	out := make([]optionView, len(values))
	for i, v := range values {
		out[i] = optionView{Value: v, Selected: len(selected) == 0 || set[v]}
	}
	return out
}

func tableFor(key string, v *report.View, query string) tableView {
	records := v.Frame.Records()
	tv := tableView{
		Name:      v.Name,
		Title:     v.Title,
		Columns:   records[0],
		Rows:      records[1:],
		Filename:  v.Filename,
		HasChart:  v.Chart != nil && v.Frame.Len() > 0,
		EmptyNote: v.Frame.Len() == 0,
	}
	if len(tv.Rows) > maxDisplayRows {
		tv.Hidden = len(tv.Rows) - maxDisplayRows
		tv.Rows = tv.Rows[:maxDisplayRows]
	}
	base := "/dashboard/" + key
	name := url.PathEscape(v.Name)
	tv.CSVURL = template.URL(base + "/export/" + name + ".csv" + query)
	tv.XLSXURL = template.URL(base + "/export/" + name + ".xlsx" + query)
	if tv.HasChart {
		tv.ChartURL = template.URL(base + "/chart/" + name + ".png" + query)
	}
	return tv
}
