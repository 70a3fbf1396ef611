// Package handlers exposes the gateway's collections over HTTP. Handlers
// decode requests, check auth, and delegate to the gateway; no business
// logic lives here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"controlx/internal/gateway"
	"controlx/internal/repositories"
	"controlx/internal/services"
)

type Handler struct {
	gw   *gateway.Gateway
	auth *services.AuthService
	log  *zap.Logger
}

func New(gw *gateway.Gateway, auth *services.AuthService, log *zap.Logger) *Handler {
	return &Handler{gw: gw, auth: auth, log: log}
}

// RegisterRoutes mounts every endpoint on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.listEvents)
		r.Get("/stream", h.streamEvents)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/", h.createEvent)
			r.Patch("/{id}", h.updateEvent)
			r.Delete("/{id}", h.deleteEvent)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.With(h.requireAuth).Get("/", h.listUsers)
		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Post("/", h.createUser)
			r.Patch("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/stream", h.streamNotes)
		r.Get("/{date}", h.getNote)
		r.With(h.requireAuth).Put("/{date}", h.putNote)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		h.log.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusForStoreErr maps repository sentinels onto HTTP codes.
func statusForStoreErr(err error) int {
	if errors.Is(err, repositories.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
