package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"controlx/internal/gateway"
	"controlx/internal/models"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.gw.ListUsers(r.Context())
	if err != nil {
		h.log.Error("list users failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var input models.NewUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == "" || input.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email required")
		return
	}

	user, err := h.gw.CreateUser(r.Context(), input)
	if errors.Is(err, gateway.ErrPasswordRequired) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		// Do not reveal whether the email already exists.
		h.log.Error("create user failed", zap.Error(err))
		writeError(w, http.StatusConflict, "user creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.gw.UpdateUser(r.Context(), id, patch); err != nil {
		writeError(w, statusForStoreErr(err), "update failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.gw.DeleteUser(r.Context(), id); err != nil {
		writeError(w, statusForStoreErr(err), "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
