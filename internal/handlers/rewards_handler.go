package handlers

import (
	"math"
	"net/http"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/service"
)

// RewardsHandler converts points into tokens
type RewardsHandler struct {
	rewards *service.RewardsService
	log     *logger.Logger
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(rewards *service.RewardsService, log *logger.Logger) *RewardsHandler {
	return &RewardsHandler{rewards: rewards, log: log}
}

type convertRequest struct {
	PointsSpent *float64 `json:"pointsSpent"`
}

type convertResponse struct {
	Success         bool         `json:"success"`
	User            *models.User `json:"user"`
	PointsConverted int          `json:"pointsConverted"`
	Tokens          float64      `json:"tokens"`
}

// Convert spends points from the signed-in user's balance
func (h *RewardsHandler) Convert(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req convertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidPoints})
		return
	}
	if req.PointsSpent == nil || *req.PointsSpent <= 0 || *req.PointsSpent != math.Trunc(*req.PointsSpent) || *req.PointsSpent > math.MaxInt32 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidPoints})
		return
	}

	conversion, err := h.rewards.Convert(r.Context(), user.ID, int(*req.PointsSpent))
	if err != nil {
		respondWithServiceError(w, h.log, "failed to convert points", err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Success:         true,
		User:            conversion.User,
		PointsConverted: conversion.PointsConverted,
		Tokens:          conversion.Tokens,
	})
}
