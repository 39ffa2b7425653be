package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mirumoji/engine/internal/playback"
)

type PlayerHandler struct {
	mirror *playback.Mirror
}

func NewPlayerHandler(mirror *playback.Mirror) *PlayerHandler {
	return &PlayerHandler{mirror: mirror}
}

// Heartbeat records the state the player UI just reported.
func (h *PlayerHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var state playback.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.mirror.Heartbeat(state)
	w.WriteHeader(http.StatusNoContent)
}

// State returns the mirrored player state. The UI polls this to apply
// control changes issued by the clip capture protocol.
func (h *PlayerHandler) State(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.mirror.Snapshot(), http.StatusOK)
}
