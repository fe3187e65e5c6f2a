package handlers

import (
	"net/http"
	"strings"

	"wellnest/internal/logger"
	"wellnest/internal/service"
)

// ChatHandler serves the assistant conversation
type ChatHandler struct {
	chatService *service.ChatService
	log         *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Send relays a message to the assistant and returns its reply
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidRequestBody})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrMessageRequired, Field: "message"})
		return
	}

	reply, err := h.chatService.Send(r.Context(), user.ID, req.Message)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to process chat message", err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// History returns the conversation, oldest first
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	history, err := h.chatService.History(r.Context(), user.ID)
	if err != nil {
		respondWithServiceError(w, h.log, "failed to load chat history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
