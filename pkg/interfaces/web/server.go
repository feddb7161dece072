// Package web serves the two-tab dashboard page, its JSON API and SVG exports.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/pharmadash/pkg/application/dto"
	"github.com/vsinha/pharmadash/pkg/application/pipeline"
	"github.com/vsinha/pharmadash/pkg/interfaces/charts"
)

//go:embed templates/*
var templateFS embed.FS

// Dashboard produces the result sets of one render
type Dashboard interface {
	Overview(ctx context.Context) (*dto.Overview, error)
	ProductView(ctx context.Context, selected string) (*dto.ProductView, error)
	Dashboard(ctx context.Context, selected string) (*dto.Overview, *dto.ProductView, error)
}

// Server wires HTTP requests to the dashboard service. Every request runs a
// full render.
type Server struct {
	dashboard Dashboard
	templates *template.Template
	decoder   *schema.Decoder
	notes     dto.Notes
	log       logrus.FieldLogger
}

// productQuery is the only request parameter of the dashboard
type productQuery struct {
	Product string `schema:"product"`
}

// New parses the page template and builds the server
func New(dashboard Dashboard, notes dto.Notes, logger logrus.FieldLogger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Server{
		dashboard: dashboard,
		templates: tmpl,
		decoder:   decoder,
		notes:     notes,
		log:       logger,
	}, nil
}

// Handler returns the mux with every route
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.indexHandler())
	mux.Handle("/api/overview", s.overviewHandler())
	mux.Handle("/api/product", s.productHandler())
	mux.Handle("/charts/", s.chartHandler())
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	}))
	mux.Handle("/metrics", promhttp.Handler())
	return s.logRequests(mux)
}

type pageData struct {
	Title       string
	Overview    *dto.Overview
	View        *dto.ProductView
	Notes       dto.Notes
	Figures     map[string]template.JS
	ProductTab  bool
	GeneratedAt string
}

func (s *Server) indexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query, ok := s.decodeQuery(w, r)
		if !ok {
			return
		}

		overview, view, err := s.dashboard.Dashboard(r.Context(), query.Product)
		if err != nil {
			s.writeError(w, err)
			return
		}

		figures := append(charts.Overview(overview), charts.ProductView(view)...)
		data := pageData{
			Title:       "Simple Pharma Analysis",
			Overview:    overview,
			View:        view,
			Notes:       s.notes,
			Figures:     make(map[string]template.JS, len(figures)),
			ProductTab:  query.Product != "",
			GeneratedAt: overview.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		}
		for _, fig := range figures {
			encoded, err := fig.JSON()
			if err != nil {
				s.writeError(w, pipeline.Wrap(pipeline.StageBuildCharts, err))
				return
			}
			data.Figures[fig.Name] = template.JS(encoded)
		}

		// render into a buffer so a template failure never sends a partial page
		var buf bytes.Buffer
		if err := s.templates.ExecuteTemplate(&buf, "index.gohtml", data); err != nil {
			s.writeError(w, pipeline.Wrap(pipeline.StageRenderTemplate, err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buf.WriteTo(w)
	})
}

func (s *Server) overviewHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		overview, err := s.dashboard.Overview(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, overview)
	})
}

func (s *Server) productHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		query, ok := s.decodeQuery(w, r)
		if !ok {
			return
		}
		view, err := s.dashboard.ProductView(r.Context(), query.Product)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, view)
	})
}

// chartHandler serves /charts/{name}.svg
func (s *Server) chartHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		file := strings.TrimPrefix(r.URL.Path, "/charts/")
		name := strings.TrimSuffix(file, ".svg")
		if name == file || name == "" {
			http.NotFound(w, r)
			return
		}

		query, ok := s.decodeQuery(w, r)
		if !ok {
			return
		}

		overview, view, err := s.dashboard.Dashboard(r.Context(), query.Product)
		if err != nil {
			s.writeError(w, err)
			return
		}

		fig := charts.Find(append(charts.Overview(overview), charts.ProductView(view)...), name)
		if fig == nil {
			http.NotFound(w, r)
			return
		}

		var buf bytes.Buffer
		if err := charts.RenderSVG(fig, &buf); err != nil {
			s.writeError(w, pipeline.Wrap(pipeline.StageBuildCharts, err))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		buf.WriteTo(w)
	})
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (productQuery, bool) {
	var query productQuery
	if err := s.decoder.Decode(&query, r.URL.Query()); err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return query, false
	}
	return query, true
}

// writeError maps a failed render to a status. An unknown product is the
// caller's fault and everything else is reported with its stage.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var selErr *pipeline.SelectionError
	if errors.As(err, &selErr) {
		http.Error(w, selErr.Error(), http.StatusBadRequest)
		return
	}

	stage := "unknown"
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		stage = stageErr.Stage
	}
	s.log.WithField("stage", stage).WithError(err).Error("render failed")
	http.Error(w, fmt.Sprintf("dashboard failed at stage %q: %v", stage, err), http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request")
	})
}
