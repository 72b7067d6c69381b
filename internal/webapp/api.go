package webapp

import (
	"net/http"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
)

type healthResponse struct {
	Status     string `json:"status"`
	Datasets   int    `json:"datasets"`
	Dashboards int    `json:"dashboards"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
}

type dimensionOptions struct {
	Dimension string   `json:"dimension"`
	Slug      string   `json:"slug"`
	Label     string   `json:"label"`
	Options   []string `json:"options"`
}

type optionsResponse struct {
	Dataset    string             `json:"dataset"`
	Filename   string             `json:"filename"`
	Rows       int                `json:"rows"`
	Warning    string             `json:"warning,omitempty"`
	Derivation map[string]string  `json:"derivation"`
	Dimensions []dimensionOptions `json:"dimensions"`
}

type viewResponse struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Period   string       `json:"period"`
	Filename string       `json:"filename"`
	Frame    *pivot.Frame `json:"frame"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	datasets, dashboards := s.loader.Stats(), s.views.Stats()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Datasets:   datasets.Len,
		Dashboards: dashboards.Len,
		Hits:       datasets.Hits,
		Misses:     datasets.Misses,
	})
}

func (s *Server) datasetOptions(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loader.Get(r.PathValue("key"))
	if !ok {
		writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	resp := optionsResponse{
		Dataset:  ds.Key,
		Filename: ds.Filename,
		Rows:     ds.Table.Len(),
		Derivation: map[string]string{
			"tenure": ds.Derivation.Tenure.String(),
			"age":    ds.Derivation.Age.String(),
			"period": ds.Derivation.Period.String(),
		},
	}
	if ds.Warning != nil {
		resp.Warning = ds.Warning.Error()
	}
	for _, dim := range roster.Dimensions {
		resp.Dimensions = append(resp.Dimensions, dimensionOptions{
			Dimension: string(dim),
			Slug:      dim.Slug(),
			Label:     dim.Label(),
			Options:   roster.OrderedOptions(ds.Table, dim),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) datasetView(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loader.Get(r.PathValue("key"))
	if !ok {
		writeError(w, http.StatusNotFound, "dataset not found")
		return
	}
	sel, period := readSelection(r.URL.Query())
	dash := s.views.Dashboard(ds, sel, period)
	view, ok := dash.View(r.PathValue("view"))
	if !ok {
		writeError(w, http.StatusNotFound, "view not found")
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		Name:     view.Name,
		Title:    view.Title,
		Period:   dash.Period,
		Filename: view.Filename,
		Frame:    view.Frame,
	})
}
