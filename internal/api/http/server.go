// Package httpapi exposes the order wizard over HTTP. Transport concerns
// only: handlers decode requests, delegate to the orchestrator and map its
// outcomes onto status codes.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/application/orchestrator"
	"github.com/cleanline/cleanline/internal/domain/catalog"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	orch    *orchestrator.Orchestrator
	catalog catalog.Engine
	logger  zerolog.Logger
}

func NewServer(orch *orchestrator.Orchestrator, engine catalog.Engine, logger zerolog.Logger) *Server {
	return &Server{
		orch:    orch,
		catalog: engine,
		logger:  logger.With().Str("service", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/wizard/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Get("/{sessionId}", s.getSession)
			r.Delete("/{sessionId}", s.abandonSession)
			r.Post("/{sessionId}/transition", s.transition)
			r.Get("/{sessionId}/stages/{stage}", s.stageStatus)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", s.listCategories)
			r.Get("/categories/{categoryId}/items", s.listItems)
			r.Get("/modifiers", s.listModifiers)
		})

		r.Get("/defects", s.listDefects)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
