package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mirumoji/engine/internal/api/middleware"
	"github.com/mirumoji/engine/internal/db"
	"github.com/mirumoji/engine/internal/db/models"
)

type HistoryHandler struct {
	db *db.Database
}

func NewHistoryHandler(db *db.Database) *HistoryHandler {
	return &HistoryHandler{db: db}
}

type savePositionRequest struct {
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

func (h *HistoryHandler) SavePosition(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := chi.URLParam(r, "*")
	var req savePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.db.SaveWatchPosition(claims.UserID, path, req.Position, req.Duration); err != nil {
		jsonError(w, "failed to save position", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// List returns the user's recently watched media, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.db.GetRecentWatchHistory(claims.UserID, 50)
	if err != nil {
		jsonError(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.WatchHistoryEntry{}
	}
	jsonResponse(w, entries, http.StatusOK)
}

func (h *HistoryHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := chi.URLParam(r, "*")
	pos, err := h.db.GetWatchPosition(claims.UserID, path)
	if err != nil {
		jsonError(w, "failed to get position", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]float64{"position": pos}, http.StatusOK)
}
