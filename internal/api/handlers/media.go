package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/mirumoji/engine/internal/backend"
)

// maxUploadSize bounds transcription/conversion uploads (2 GiB).
const maxUploadSize = 2 << 30

type MediaHandler struct {
	client *backend.Client
}

func NewMediaHandler(client *backend.Client) *MediaHandler {
	return &MediaHandler{client: client}
}

func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "missing file upload", http.StatusBadRequest)
		return nil, nil, false
	}
	return file, header, true
}

// Transcribe forwards an uploaded audio file to the transcription
// backend and returns the generated SRT.
func (h *MediaHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.client.TranscribeFromAudio(r.Context(), header.Filename, file)
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, resp, http.StatusOK)
}

// GenerateSRT forwards an uploaded video file for subtitle generation.
func (h *MediaHandler) GenerateSRT(w http.ResponseWriter, r *http.Request) {
	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.client.GenerateSRT(r.Context(), header.Filename, file)
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, resp, http.StatusOK)
}

// Convert forwards an uploaded video for MP4 transcoding.
func (h *MediaHandler) Convert(w http.ResponseWriter, r *http.Request) {
	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.client.ConvertToMP4(r.Context(), header.Filename, file)
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, resp, http.StatusOK)
}
