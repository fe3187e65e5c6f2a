package handlers

import (
	"net/http"

	"wellnest/internal/logger"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Moods      *MoodHandler
	Activities *ActivityHandler
	Chat       *ChatHandler
	Rewards    *RewardsHandler
}

// NewRouter registers the JSON API and wraps it in request logging
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mw := h.Middleware

	mux.HandleFunc("GET /healthz", Health)

	// Auth
	mux.HandleFunc("POST /api/register", mw.RateLimit(h.Auth.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(h.Auth.Login))
	mux.HandleFunc("POST /api/logout", mw.RequireAuth(mw.CSRFProtect(h.Auth.Logout)))
	mux.HandleFunc("GET /api/user", mw.RequireAuth(h.Auth.CurrentUser))

	// Moods
	mux.HandleFunc("POST /api/moods", mw.RequireAuth(mw.CSRFProtect(h.Moods.Create)))
	mux.HandleFunc("GET /api/moods", mw.RequireAuth(h.Moods.List))
	mux.HandleFunc("GET /api/moods/weekly", mw.RequireAuth(h.Moods.Weekly))

	// Activities and achievements
	mux.HandleFunc("GET /api/activities", h.Activities.ListActivities)
	mux.HandleFunc("POST /api/user-activities", mw.RequireAuth(mw.CSRFProtect(h.Activities.Complete)))
	mux.HandleFunc("GET /api/user-activities", mw.RequireAuth(h.Activities.ListUserActivities))
	mux.HandleFunc("GET /api/achievements", h.Activities.ListAchievements)
	mux.HandleFunc("GET /api/user-achievements", mw.RequireAuth(h.Activities.ListUserAchievements))

	// Chat
	mux.HandleFunc("POST /api/chat", mw.RequireAuth(mw.CSRFProtect(h.Chat.Send)))
	mux.HandleFunc("GET /api/chat/history", mw.RequireAuth(h.Chat.History))

	// Rewards
	mux.HandleFunc("POST /api/update-points", mw.RequireAuth(mw.CSRFProtect(h.Rewards.Convert)))

	return Logging(log, mux)
}

// Health reports liveness
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
