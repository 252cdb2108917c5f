package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/directory"
)

// handleGetSchema returns the wizard's steps and fields
func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.schema)
}

// handleListAthletes returns the filtered directory with selector options
func (s *Server) handleListAthletes(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListPublished(r.Context())
	if err != nil {
		s.log.Error("list profiles failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch athletes")
		return
	}

	cards := directory.Cards(profiles, ProfilePath)
	result := directory.Apply(cards, directory.CriteriaFromQuery(r.URL.Query()))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cards":  result.Cards,
		"count":  result.Count,
		"facets": directory.Options(cards),
	})
}

// handleGetAthlete returns a single published profile
func (s *Server) handleGetAthlete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.log.Error("get profile failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch athlete")
		return
	}
	if profile == nil || !profile.Published {
		respondError(w, http.StatusNotFound, "Athlete not found")
		return
	}

	profile.OwnerID = ""
	respondJSON(w, http.StatusOK, profile)
}
