package handlers

import (
	"errors"
	"net/http"

	"wellnest/internal/logger"
	"wellnest/internal/progression"
	"wellnest/internal/service"
	"wellnest/internal/store"
)

// ActivityHandler serves the activity and achievement catalogs and the
// user's progress through them
type ActivityHandler struct {
	catalog     *service.CatalogService
	progression *progression.Service
	log         *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(catalog *service.CatalogService, prog *progression.Service, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{catalog: catalog, progression: prog, log: log}
}

type completeActivityRequest struct {
	ActivityID int64 `json:"activityId"`
}

// ListActivities returns the activity catalog
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.catalog.ListActivities(r.Context())
	if err != nil {
		respondWithServiceError(w, h.log, "failed to list activities", err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// ListAchievements returns the achievement catalog
func (h *ActivityHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.catalog.ListAchievements(r.Context())
	if err != nil {
		respondWithServiceError(w, h.log, "failed to list achievements", err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

// Complete records an activity completion for the signed-in user
func (h *ActivityHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req completeActivityRequest
	if err := decodeJSON(w, r, &req); err != nil || req.ActivityID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidRequestBody})
		return
	}

	completion, err := h.progression.CompleteActivity(r.Context(), user.ID, req.ActivityID)
	if err != nil {
		if completion == nil && errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Message: ErrActivityNotFound})
			return
		}
		respondWithServiceError(w, h.log, "failed to complete activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, completion)
}

// ListUserActivities returns the user's completions, newest first
func (h *ActivityHandler) ListUserActivities(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	history, err := h.catalog.ListUserActivities(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to list user activities", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// ListUserAchievements returns the user's unlocks with their achievements
func (h *ActivityHandler) ListUserAchievements(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	unlocks, err := h.catalog.ListUserAchievements(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to list user achievements", err)
		return
	}
	writeJSON(w, http.StatusOK, unlocks)
}
