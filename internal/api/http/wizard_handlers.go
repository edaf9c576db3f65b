package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cleanline/cleanline/internal/application/orchestrator"
	"github.com/cleanline/cleanline/internal/application/session"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

type transitionRequest struct {
	Event   wizard.Event    `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := s.orch.StartSession()
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId":    sess.ID,
		"currentStage": sess.Stage,
		"createdAt":    sess.CreatedAt,
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid sessionId")
		return
	}
	view, err := s.orch.Status(id)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) abandonSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid sessionId")
		return
	}
	s.orch.AbandonSession(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid sessionId")
		return
	}
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.Event == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "event is required")
		return
	}

	res, err := s.orch.Transition(r.Context(), id, req.Event, req.Payload)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	if !res.Success {
		respondJSON(w, http.StatusBadRequest, res)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) stageStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "sessionId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid sessionId")
		return
	}
	stage := wizard.Stage(chi.URLParam(r, "stage"))
	detail, err := s.orch.StageStatus(id, stage)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"stage": stage, "detail": detail})
}

// respondSessionError maps store errors: unknown session is 404, a rejected
// concurrent transition is 409.
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	case errors.Is(err, session.ErrBusy):
		respondError(w, http.StatusConflict, "CONCURRENT_ACCESS", err.Error())
	case errors.Is(err, orchestrator.ErrUnknownStage):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
