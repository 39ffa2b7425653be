package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirumoji/engine/internal/backend"
)

// ProfileHandler proxies the profile-management surface of the remote
// backend: the custom GPT template and the profile's stored files and
// transcripts.
type ProfileHandler struct {
	client *backend.Client
}

func NewProfileHandler(client *backend.Client) *ProfileHandler {
	return &ProfileHandler{client: client}
}

// GetGptTemplate returns the profile's custom template, or null when
// none is set.
func (h *ProfileHandler) GetGptTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.client.GptTemplate(r.Context())
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, tpl, http.StatusOK)
}

// SaveGptTemplate creates or updates the profile's custom template.
func (h *ProfileHandler) SaveGptTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl backend.GptTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if tpl.SysMsg == "" || tpl.Prompt == "" {
		jsonError(w, "sysMsg and prompt are required", http.StatusBadRequest)
		return
	}

	saved, err := h.client.SaveGptTemplate(r.Context(), tpl)
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, saved, http.StatusOK)
}

// DeleteGptTemplate removes the profile's custom template.
func (h *ProfileHandler) DeleteGptTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.client.DeleteGptTemplate(r.Context()); err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFiles returns the profile's uploaded media files.
func (h *ProfileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.client.ListFiles(r.Context())
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, files, http.StatusOK)
}

// DeleteFile removes an uploaded media file.
func (h *ProfileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client.DeleteFile(r.Context(), id); err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTranscripts returns the profile's stored transcriptions.
func (h *ProfileHandler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	transcripts, err := h.client.ListTranscripts(r.Context())
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, transcripts, http.StatusOK)
}

// DeleteTranscript removes a stored transcription.
func (h *ProfileHandler) DeleteTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client.DeleteTranscript(r.Context(), id); err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
