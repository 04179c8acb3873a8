package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aretw0/simreport"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunLister lists the runs available for browsing.
type RunLister interface {
	List(ctx context.Context) ([]string, error)
}

// ReportRenderer regenerates the report of a run.
type ReportRenderer interface {
	RenderReport(ctx context.Context, runID string) (*simreport.Result, error)
	PlotsDir() string
}

// Server serves the reports found under RunsDir.
type Server struct {
	RunsDir  string
	Runs     RunLister
	Reporter ReportRenderer
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates the HTTP handler of the report browser.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}
	if s.Gatherer == nil {
		s.Gatherer = prometheus.NewRegistry()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Get("/runs", s.ListRuns)
	r.Post("/runs/{run}/render", s.RenderRun)
	r.Get("/runs/{run}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
	})
	r.Get("/runs/{run}/*", s.ServeReport)

	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "simreport-http",
		"version": simreport.Version,
	})
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Runs.List(r.Context())
	if err != nil {
		s.Logger.Error("failed to list runs", "err", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": runs})
}

// RenderRun handles POST /runs/{run}/render.
func (s *Server) RenderRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runParam(r)
	if !ok {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	res, err := s.Reporter.RenderReport(r.Context(), runID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrMissingRunArtifact):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrMalformedRunArtifact):
			status = http.StatusUnprocessableEntity
		}
		s.Logger.Warn("render failed", "run", runID, "err", err)
		http.Error(w, fmt.Sprintf("render error: %v", err), status)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ServeReport serves files of a run's plots directory; "/" serves index.html.
func (s *Server) ServeReport(w http.ResponseWriter, r *http.Request) {
	runID, ok := runParam(r)
	if !ok {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	dir := filepath.Join(s.RunsDir, runID, s.Reporter.PlotsDir())
	prefix := "/runs/" + runID
	http.StripPrefix(prefix, http.FileServer(http.Dir(dir))).ServeHTTP(w, r)
}

func runParam(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "run")
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("encode error: %v\n", err)
	}
}
