package handlers

import (
	"net/http"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/service"
)

// MoodHandler serves the mood journal
type MoodHandler struct {
	moodService *service.MoodService
	log         *logger.Logger
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodService *service.MoodService, log *logger.Logger) *MoodHandler {
	return &MoodHandler{moodService: moodService, log: log}
}

type moodRequest struct {
	Mood models.MoodLabel `json:"mood"`
	Note string           `json:"note"`
}

// Create logs a mood for the signed-in user
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req moodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidRequestBody})
		return
	}

	mood, err := h.moodService.Create(r.Context(), user.ID, req.Mood, req.Note)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to create mood", err)
		return
	}
	writeJSON(w, http.StatusCreated, mood)
}

// List returns every mood, newest first
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	moods, err := h.moodService.List(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to list moods", err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}

// Weekly returns the last seven days of moods, oldest first
func (h *MoodHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	moods, err := h.moodService.Weekly(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to list weekly moods", err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}
