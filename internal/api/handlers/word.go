package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/enrich"
)

type WordHandler struct {
	resolver *enrich.Resolver
}

func NewWordHandler(resolver *enrich.Resolver) *WordHandler {
	return &WordHandler{resolver: resolver}
}

type resolveRequest struct {
	Sentence string      `json:"sentence"`
	Word     string      `json:"word"`
	Mode     enrich.Mode `json:"mode"`
}

// Resolve answers a token click. Mode defaults to the dictionary, the
// same tab the player UI opens first.
func (h *WordHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Word == "" {
		jsonError(w, "missing word", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = enrich.ModeDictionary
	}

	res, err := h.resolver.Resolve(r.Context(), req.Mode, req.Sentence, req.Word)
	if err != nil {
		status, msg := classifyBackendError(err)
		jsonError(w, msg, status)
		return
	}
	jsonResponse(w, res, http.StatusOK)
}

// classifyBackendError maps remote failures to user-facing messages:
// 403 permission, 404 not-found, anything else a generic upstream error.
func classifyBackendError(err error) (int, string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusForbidden:
			return http.StatusForbidden, "permission denied"
		case http.StatusNotFound:
			return http.StatusNotFound, "not found"
		default:
			return http.StatusBadGateway, "explanation service error"
		}
	}
	return http.StatusBadGateway, err.Error()
}
