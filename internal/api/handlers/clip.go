package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/clip"
	"github.com/mirumoji/engine/internal/cue"
)

type ClipHandler struct {
	saver  *clip.Saver
	client *backend.Client
}

func NewClipHandler(saver *clip.Saver, client *backend.Client) *ClipHandler {
	return &ClipHandler{saver: saver, client: client}
}

type saveClipRequest struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Sentence string  `json:"sentence"`
	Word     string  `json:"word"`
}

// Save runs the clip capture protocol for a cue range.
func (h *ClipHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Word == "" {
		jsonError(w, "missing word", http.StatusBadRequest)
		return
	}

	resp, err := h.saver.Save(r.Context(), cue.Cue{
		Start: req.Start,
		End:   req.End,
		Raw:   req.Sentence,
	}, req.Word)
	if err != nil {
		switch {
		case errors.Is(err, clip.ErrBusy):
			jsonError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, clip.ErrNoSource),
			errors.Is(err, clip.ErrInvalidDuration),
			errors.Is(err, clip.ErrStartBeyondEnd):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			status, msg := classifyBackendError(err)
			jsonError(w, msg, status)
		}
		return
	}
	jsonResponse(w, resp, http.StatusOK)
}

// List proxies the profile's saved clips from the backend.
func (h *ClipHandler) List(w http.ResponseWriter, r *http.Request) {
	clips, err := h.client.ListClips(r.Context())
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, clips, http.StatusOK)
}

// Delete removes a saved clip.
func (h *ClipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client.DeleteClip(r.Context(), id); err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnkiExport builds an Anki deck from the profile's saved clips.
func (h *ClipHandler) AnkiExport(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.AnkiExport(r.Context())
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, resp, http.StatusOK)
}
