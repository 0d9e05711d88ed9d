package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/evcraddock/listing-explorer/internal/aggregate"
	"github.com/evcraddock/listing-explorer/internal/chart"
	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

// ErrMissingAsset is returned when the sidebar image cannot be found. It
// only affects the sidebar.
var ErrMissingAsset = errors.New("missing asset")

// Sidebar is the author panel.
type Sidebar struct {
	ImageAvailable bool
	Author         string
	Mail           string
}

type dashboardData struct {
	Page      *report.Page
	Selection *report.Selection
	Map       mapData
	Sidebar   Sidebar
	Notices   []string
}

// mapData is handed to the map script as JSON.
type mapData struct {
	Points []listing.Point       `json:"points"`
	Heat   []aggregate.HeatPoint `json:"heat"`
}

type errorData struct {
	Status  int
	Title   string
	Message string
}

// handleDashboard renders the dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	t, err := s.source.Table()
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "Data unavailable", err)
		return
	}

	page := report.Build(t)
	c, err := parseCriteria(r.URL.Query(), page.Controls.Defaults)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}
	sel, err := report.Select(t, c)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	sidebar := Sidebar{Author: report.Author, Mail: report.AuthorMail}
	if _, err := s.sidebarAsset(); err != nil {
		slog.Warn("sidebar image unavailable", "error", err)
	} else {
		sidebar.ImageAvailable = true
	}

	s.render(w, "dashboard.html", dashboardData{
		Page:      page,
		Selection: sel,
		Map:       mapData{Points: sel.Points, Heat: page.Heat},
		Sidebar:   sidebar,
		Notices:   page.Controls.Unoffered(c),
	})
}

// handleChart serves /chart/{name}.svg. Charts always cover the full
// table.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/chart/"), ".svg")
	if !ok || !chart.Known(name) {
		http.NotFound(w, r)
		return
	}

	t, err := s.source.Table()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = chart.Render(&buf, name, t)
	switch {
	case errors.Is(err, chart.ErrNoData):
		chart.Placeholder(&buf, chart.Width, chart.Height, "No listings to chart")
	case err != nil:
		slog.Error("rendering chart", "chart", name, "error", err)
		buf.Reset()
		chart.Placeholder(&buf, chart.Width, chart.Height, "Chart unavailable")
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("writing chart", "chart", name, "error", err)
	}
}

// handleSidebarImage serves the sidebar picture, or 404 when it is missing.
func (s *Server) handleSidebarImage(w http.ResponseWriter, r *http.Request) {
	path, err := s.sidebarAsset()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// sidebarAsset returns the sidebar image path if the file exists.
func (s *Server) sidebarAsset() (string, error) {
	if s.sidebarImage == "" {
		return "", fmt.Errorf("%w: no sidebar image configured", ErrMissingAsset)
	}
	info, err := os.Stat(s.sidebarImage)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingAsset, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrMissingAsset, s.sidebarImage)
	}
	return s.sidebarImage, nil
}

// parseCriteria reads filter parameters from q. Parameters that are absent
// keep their default; a present but empty neighbourhood or room_type
// matches any value.
func parseCriteria(q url.Values, defaults listing.Criteria) (listing.Criteria, error) {
	c := defaults
	floatParam := func(key string, dst *float64) error {
		if !q.Has(key) {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", listing.ErrInvalidCriteria, key)
		}
		*dst = v
		return nil
	}
	intParam := func(key string, dst *int) error {
		if !q.Has(key) {
			return nil
		}
		v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
		if err != nil {
			return fmt.Errorf("%w: %s must be a whole number", listing.ErrInvalidCriteria, key)
		}
		*dst = v
		return nil
	}

	if err := floatParam("price_min", &c.PriceMin); err != nil {
		return c, err
	}
	if err := floatParam("price_max", &c.PriceMax); err != nil {
		return c, err
	}
	if err := intParam("min_nights", &c.MaxNights); err != nil {
		return c, err
	}
	if err := intParam("min_reviews", &c.MinReviews); err != nil {
		return c, err
	}
	if q.Has("neighbourhood") {
		c.Neighbourhood = q.Get("neighbourhood")
	}
	if q.Has("room_type") {
		c.RoomType = q.Get("room_type")
	}
	return c, nil
}

// render executes a named template.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("writing page", "template", name, "error", err)
	}
}

// renderError renders the error page with the given status.
func (s *Server) renderError(w http.ResponseWriter, status int, title string, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if terr := s.templates.ExecuteTemplate(w, "error.html", errorData{
		Status:  status,
		Title:   title,
		Message: err.Error(),
	}); terr != nil {
		slog.Error("rendering error page", "error", terr)
	}
}
