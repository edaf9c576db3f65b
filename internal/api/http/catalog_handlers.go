package httpapi

import (
	"net/http"

	"github.com/cleanline/cleanline/internal/domain/wizard"
)

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ServiceCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseUUIDParam(r, "categoryId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid categoryId")
		return
	}
	items, err := s.catalog.ItemsForCategory(r.Context(), categoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) listModifiers(w http.ResponseWriter, r *http.Request) {
	categoryCode := r.URL.Query().Get("category")
	itemName := r.URL.Query().Get("item")
	if categoryCode == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "category query parameter is required")
		return
	}
	modifiers, err := s.catalog.RecommendedModifiers(r.Context(), categoryCode, itemName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"modifiers": modifiers})
}

func (s *Server) listDefects(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"defects": wizard.DefectTypes()})
}
