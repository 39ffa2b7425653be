package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mirumoji/engine/internal/cue"
	"github.com/mirumoji/engine/internal/media"
	"github.com/mirumoji/engine/internal/playback"
	"github.com/mirumoji/engine/internal/tokenizer"
)

// SessionHandler owns the currently loaded playback session: the
// compiled cue track, the active-cue synchronizer and the clip
// recorder's media source.
type SessionHandler struct {
	pipeline  *cue.Pipeline
	sync      *playback.Sync
	mirror    *playback.Mirror
	recorder  *media.FileRecorder
	mediaPath string

	mu        sync.Mutex
	sessionID string
}

func NewSessionHandler(pipeline *cue.Pipeline, syncr *playback.Sync, mirror *playback.Mirror, recorder *media.FileRecorder, mediaPath string) *SessionHandler {
	return &SessionHandler{
		pipeline:  pipeline,
		sync:      syncr,
		mirror:    mirror,
		recorder:  recorder,
		mediaPath: mediaPath,
	}
}

type loadSessionRequest struct {
	SRT   string `json:"srt"`
	Media string `json:"media"` // relative path under the media root, optional
}

type loadSessionResponse struct {
	SessionID string      `json:"session_id"`
	CueCount  int         `json:"cue_count"`
	MediaInfo *media.Info `json:"media_info,omitempty"`
}

// LoadSubtitle compiles an SRT document into the session's cue track.
// A load that is superseded by a newer one while compiling is dropped.
func (h *SessionHandler) LoadSubtitle(w http.ResponseWriter, r *http.Request) {
	var req loadSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp := loadSessionResponse{SessionID: uuid.New().String()}

	if req.Media != "" {
		fullPath := filepath.Join(h.mediaPath, filepath.Clean("/"+req.Media))
		h.recorder.SetSource(fullPath)
		if info, err := media.Probe(fullPath); err != nil {
			log.Printf("[session] probe failed for %s: %v", req.Media, err)
		} else {
			h.mirror.SetDuration(info.Duration)
			resp.MediaInfo = info
		}
	}

	cues, committed := h.pipeline.Load(r.Context(), req.SRT)
	if !committed {
		jsonError(w, "superseded by a newer subtitle load", http.StatusConflict)
		return
	}
	h.sync.SetCues(cues)

	h.mu.Lock()
	h.sessionID = resp.SessionID
	h.mu.Unlock()

	resp.CueCount = len(cues)
	jsonResponse(w, resp, http.StatusOK)
}

type tokenView struct {
	tokenizer.Token
	Furigana string `json:"furigana,omitempty"`
}

type cueView struct {
	Start  float64     `json:"start"`
	End    float64     `json:"end"`
	Raw    string      `json:"raw"`
	Tokens []tokenView `json:"tokens"`
}

func viewCue(c cue.Cue) cueView {
	v := cueView{Start: c.Start, End: c.End, Raw: c.Raw, Tokens: make([]tokenView, 0, len(c.Tokens))}
	for _, t := range c.Tokens {
		tv := tokenView{Token: t}
		if t.NeedsFurigana() {
			tv.Furigana = t.Furigana()
		}
		v.Tokens = append(v.Tokens, tv)
	}
	return v
}

// Cues returns the compiled cue track with furigana annotations.
func (h *SessionHandler) Cues(w http.ResponseWriter, r *http.Request) {
	cues := h.pipeline.Cues()
	views := make([]cueView, 0, len(cues))
	for _, c := range cues {
		views = append(views, viewCue(c))
	}
	jsonResponse(w, views, http.StatusOK)
}

type activeResponse struct {
	Active *cueView `json:"active"`
	Index  int      `json:"index"`
}

// Active resolves the active cue for the playback time in the `t`
// query parameter.
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		jsonError(w, "invalid playback time", http.StatusBadRequest)
		return
	}

	resp := activeResponse{Index: -1}
	if c, ok := h.sync.Update(t); ok {
		v := viewCue(c)
		resp.Active = &v
		_, resp.Index, _ = h.sync.Active()
	}
	jsonResponse(w, resp, http.StatusOK)
}

// Clear drops the loaded session.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.pipeline.Clear()
	h.sync.SetCues(nil)
	h.recorder.SetSource("")

	h.mu.Lock()
	h.sessionID = ""
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}
