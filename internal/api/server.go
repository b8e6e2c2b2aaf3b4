// Package api exposes the HTTP interface for the football feed service.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/dataset"
	"github.com/minhqn/footfeed/internal/metrics"
	"github.com/minhqn/footfeed/internal/orchestrate"
	"github.com/minhqn/footfeed/internal/resolve"
)

// Generic search parameters for the /search endpoint.
const (
	searchCutoff = 60
	searchLimit  = 5
)

const notFoundMessage = "not in our record"

// Server wires HTTP handlers to the orchestrator and the dataset snapshot.
type Server struct {
	router      chi.Router
	orch        *orchestrate.Orchestrator
	datasetPath string
	logger      *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(orch *orchestrate.Orchestrator, datasetPath string, logger *zap.Logger) *Server {
	s := &Server{
		orch:        orch,
		datasetPath: datasetPath,
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(corsMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/", s.banner)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/search/{term}", s.search)
	r.Get("/livescores/{club}", s.livescores)
	r.Get("/news/{club}", s.news)
	r.Get("/searchPlayer/{player}", s.searchPlayer)
	r.Get("/nextMatch/{category}/{query}", s.nextMatch)
	r.Get("/trending/{country}", s.trending)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) banner(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "footfeed", "status": "ok"})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	term := chi.URLParam(r, "term")

	matches := resolve.BestMatches(term, snap.Names(), searchCutoff, searchLimit)
	entities := make([]dataset.Entity, 0, len(matches))
	for _, match := range matches {
		if entity, ok := snap.Get(match.Name); ok {
			entities = append(entities, entity)
		}
	}
	if len(entities) == 0 {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"search_result": entities})
}

func (s *Server) livescores(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	club := chi.URLParam(r, "club")
	if _, ok := snap.Get(club); !ok {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}

	records, err := s.orch.Livescores(r.Context(), club, r.URL.Query().Get("date"))
	if err != nil {
		s.writeOrchestratorError(w, err)
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": records})
}

func (s *Server) news(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	entity, ok := snap.Get(chi.URLParam(r, "club"))
	if !ok {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}

	items, err := s.orch.News(r.Context(), entity.Link)
	if err != nil {
		s.writeOrchestratorError(w, err)
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"news": items})
}

func (s *Server) searchPlayer(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	records, err := s.orch.SearchPlayers(r.Context(), chi.URLParam(r, "player"), snap)
	if err != nil {
		s.writeOrchestratorError(w, err)
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": records})
}

func (s *Server) nextMatch(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	query := chi.URLParam(r, "query")

	results, err := s.orch.UpcomingMatchesBatch(r.Context(), query, category)
	if err != nil {
		if errors.Is(err, orchestrate.ErrBadCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeOrchestratorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": results})
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	raw, err := s.orch.Trending(r.Context(), chi.URLParam(r, "country"))
	if err != nil {
		s.writeOrchestratorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trending": raw})
}

// snapshot loads the dataset for one request. A false return means the
// response was already written.
func (s *Server) snapshot(w http.ResponseWriter) (*dataset.Snapshot, bool) {
	snap, err := dataset.Load(s.datasetPath)
	if err != nil {
		s.logger.Error("dataset load failed", zap.String("path", s.datasetPath), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "dataset unavailable")
		return nil, false
	}
	return snap, true
}

// writeOrchestratorError maps an empty aggregate to 404 and a transport
// failure to 502, keeping the two distinguishable for callers.
func (s *Server) writeOrchestratorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orchestrate.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, orchestrate.ErrFetchFailed):
		writeError(w, http.StatusBadGateway, "upstream fetch failed")
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
