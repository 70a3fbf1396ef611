package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"controlx/internal/models"
)

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.gw.ListEvents(r.Context())
	if err != nil {
		h.log.Error("list events failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var ev models.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if ev.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}

	// Identity fields come from the server, never the client.
	ev.ID = ""
	ev.CreatedBy = UserID(r.Context())

	id, err := h.gw.CreateEvent(r.Context(), ev)
	if err != nil {
		h.log.Error("create event failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch models.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.gw.UpdateEvent(r.Context(), id, patch); err != nil {
		writeError(w, statusForStoreErr(err), "update failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.gw.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, statusForStoreErr(err), "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// streamEvents relays full-collection snapshots as server-sent events: the
// current state immediately, then one message per subsequent change.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	snapshots, cancel, err := h.gw.SubscribeEvents(r.Context())
	if err != nil {
		h.log.Error("subscribe events failed", zap.Error(err))
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
