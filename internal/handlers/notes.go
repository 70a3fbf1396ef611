package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"controlx/internal/models"
)

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDateKey(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	note, err := h.gw.GetNote(r.Context(), date)
	if err != nil {
		h.log.Error("get note failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if note == nil {
		// No note yet: same shape as an empty one, created on first save.
		note = &models.Note{Date: date}
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) putNote(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !validDateKey(date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.gw.UpsertNote(r.Context(), date, req.Content); err != nil {
		h.log.Error("upsert note failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) streamNotes(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	snapshots, cancel, err := h.gw.SubscribeNotes(r.Context())
	if err != nil {
		h.log.Error("subscribe notes failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func validDateKey(date string) bool {
	_, err := time.Parse(time.DateOnly, date)
	return err == nil
}
