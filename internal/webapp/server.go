// Package webapp serves the headcount dashboard over HTTP: upload, filters,
// tabbed views, exports, charts and a small JSON API.
package webapp

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/Tincho2002/dotacion-assa-2025/internal/config"
	"github.com/Tincho2002/dotacion-assa-2025/internal/middleware"
	"github.com/Tincho2002/dotacion-assa-2025/internal/report"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"go.uber.org/zap"
)

//go:embed templates/upload.html templates/dashboard.html assets/app.css
var templatesFS embed.FS

// Config holds the server settings.
type Config struct {
	Addr           string
	SheetName      string
	CacheSize      int
	ViewCacheSize  int
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// Now anchors tenure and age; nil means time.Now.
	Now func() time.Time
}

// ConfigFrom maps the loaded configuration onto server settings.
func ConfigFrom(c config.Config) Config {
	return Config{
		Addr:           c.Addr,
		SheetName:      c.SheetName,
		CacheSize:      c.CacheSize,
		ViewCacheSize:  c.ViewCacheSize,
		MaxUploadBytes: c.MaxUploadBytes(),
		ReadTimeout:    c.ReadTimeout,
		WriteTimeout:   c.WriteTimeout,
	}
}

// Server holds the dataset and view caches shared by all requests.
type Server struct {
	cfg           Config
	logger        *zap.Logger
	loader        *roster.Loader
	views         *report.Cache
	uploadTmpl    *template.Template
	dashboardTmpl *template.Template
}

// New builds a server. A nil logger discards output.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SheetName == "" {
		cfg.SheetName = roster.DefaultSheetName
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 25 << 20
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		loader: roster.NewLoader(roster.Pipeline{
			SheetName: cfg.SheetName,
			Now:       cfg.Now,
			Logger:    logger,
		}, cfg.CacheSize),
		views:         report.NewCache(cfg.ViewCacheSize),
		uploadTmpl:    template.Must(template.ParseFS(templatesFS, "templates/upload.html")),
		dashboardTmpl: template.Must(template.ParseFS(templatesFS, "templates/dashboard.html")),
	}
	s.loader.OnEvict(func(key string) {
		n := s.views.Forget(key)
		logger.Debug("dataset evicted", zap.String("dataset", key), zap.Int("views", n))
	})
	return s
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.uploadPage)
	mux.HandleFunc("POST /upload", s.upload)
	mux.HandleFunc("GET /dashboard/{key}", s.dashboardPage)
	mux.HandleFunc("GET /dashboard/{key}/export/{file}", s.exportFile)
	mux.HandleFunc("GET /dashboard/{key}/chart/{file}", s.chartImage)
	mux.HandleFunc("GET /assets/app.css", s.appCSSFile)
	mux.HandleFunc("GET /api/health", s.health)
	mux.HandleFunc("GET /api/datasets/{key}/options", s.datasetOptions)
	mux.HandleFunc("GET /api/datasets/{key}/views/{view}", s.datasetView)

	csp := strings.Join([]string{
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"script-src 'self' 'unsafe-inline'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
	}, "; ")

	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.AccessLog(s.logger),
		middleware.Recover(s.logger),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: csp}),
	)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	s := New(cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) appCSSFile(w http.ResponseWriter, r *http.Request) {
	data, err := templatesFS.ReadFile("assets/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(data)
}

func renderHTMLTemplate(w http.ResponseWriter, status int, tmpl *template.Template, data pageData) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
