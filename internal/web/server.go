// Package web provides the HTTP server and handlers for the listings
// dashboard.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/logging"
	"github.com/evcraddock/listing-explorer/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options configures a Server.
type Options struct {
	// Source supplies the table for every request.
	Source listing.Source
	// SidebarImage is the path of the sidebar picture. It may be missing.
	SidebarImage string
}

// Server is the dashboard HTTP server.
type Server struct {
	source       listing.Source
	sidebarImage string
	templates    *template.Template
	mux          *http.ServeMux
	handler      http.Handler
}

// NewServer creates a dashboard server.
func NewServer(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("web: no listing source")
	}

	funcMap := template.FuncMap{
		"formatCount": report.FormatCount,
		"formatPrice": report.FormatPrice,
		"formatFloat": report.FormatFloat,
		"formatOpt":   tmplFormatOpt,
		"formatDate":  tmplFormatDate,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		source:       opts.Source,
		sidebarImage: opts.SidebarImage,
		templates:    tmpl,
		mux:          http.NewServeMux(),
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/chart/", s.handleChart)
	s.mux.HandleFunc("/api/listings", s.handleAPIListings)
	s.mux.HandleFunc("/api/summary", s.handleAPISummary)
	s.mux.HandleFunc("/sidebar/image", s.handleSidebarImage)
	s.mux.HandleFunc("/", s.handleDashboard)
	s.handler = logging.RequestLogger(s.mux)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("starting dashboard", "url", fmt.Sprintf("http://localhost:%d", port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	slog.Info("dashboard stopped")
	return nil
}

// Template helper functions

func tmplFormatOpt(f *float64) string {
	if f == nil {
		return "—"
	}
	return report.FormatFloat(*f)
}

func tmplFormatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(time.DateOnly)
}
