package handlers

import (
	"net/http"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/security"
	"wellnest/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	log         *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		csrf:        csrf,
		log:         log,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the signed-in user plus the CSRF token for its session
type userResponse struct {
	*models.User
	CSRFToken string `json:"csrfToken"`
}

// Register handles account creation and signs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidRequestBody})
		return
	}

	session, user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		respondWithServiceError(w, h.log, "registration failed", err)
		return
	}

	h.respondWithSession(w, r, http.StatusCreated, session, user)
}

// Login handles credential checks and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidRequestBody})
		return
	}

	session, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, h.log, "login failed", err)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, session, user)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, session *models.Session, user *models.User) {
	token, err := h.csrf.GenerateToken(session.ID)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "failed to generate csrf token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	writeJSON(w, status, userResponse{User: user, CSRFToken: token})
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := r.Context().Value(SessionContextKey).(string); ok {
		if err := h.authService.Logout(r.Context(), sessionID); err != nil {
			respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "logout failed", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CurrentUser returns the signed-in user and a fresh CSRF token
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID, _ := r.Context().Value(SessionContextKey).(string)

	token, err := h.csrf.GenerateToken(sessionID)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "failed to generate csrf token", err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user, CSRFToken: token})
}
