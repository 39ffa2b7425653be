package clip

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/cue"
	"github.com/mirumoji/engine/internal/dict"
	"github.com/mirumoji/engine/internal/enrich"
)

type fakePlayer struct {
	mu       sync.Mutex
	position float64
	paused   bool
	muted    bool
	duration float64
}

func (p *fakePlayer) Position() float64 { p.mu.Lock(); defer p.mu.Unlock(); return p.position }
func (p *fakePlayer) Seek(pos float64)  { p.mu.Lock(); defer p.mu.Unlock(); p.position = pos }
func (p *fakePlayer) Paused() bool      { p.mu.Lock(); defer p.mu.Unlock(); return p.paused }
func (p *fakePlayer) Pause()            { p.mu.Lock(); defer p.mu.Unlock(); p.paused = true }
func (p *fakePlayer) Play() error       { p.mu.Lock(); defer p.mu.Unlock(); p.paused = false; return nil }
func (p *fakePlayer) Muted() bool       { p.mu.Lock(); defer p.mu.Unlock(); return p.muted }
func (p *fakePlayer) SetMuted(m bool)   { p.mu.Lock(); defer p.mu.Unlock(); p.muted = m }
func (p *fakePlayer) Duration() float64 { p.mu.Lock(); defer p.mu.Unlock(); return p.duration }

type fakeRecorder struct {
	err      error
	notReady bool
	started chan struct{} // closed when Record begins, when non-nil
	release chan struct{} // Record blocks until closed, when non-nil

	mu          sync.Mutex
	start, end  float64
	calls       int
	playerState struct {
		position float64
		muted    bool
		paused   bool
	}
	player *fakePlayer
}

func (r *fakeRecorder) Ready() bool { return !r.notReady }

func (r *fakeRecorder) Record(ctx context.Context, start, end float64) (*Artifact, error) {
	if r.started != nil {
		close(r.started)
		r.started = nil
	}
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.start, r.end = start, end
	if r.player != nil {
		r.playerState.position = r.player.Position()
		r.playerState.muted = r.player.Muted()
		r.playerState.paused = r.player.Paused()
	}
	if r.err != nil {
		return nil, r.err
	}
	return &Artifact{Name: "clip.mp4", MIME: "video/mp4", Data: []byte("mp4")}, nil
}

type savedClip struct {
	start, end string
	breakdown  string
}

func newBackendStub(t *testing.T) (*backend.Client, *enrich.Resolver, *savedClip) {
	t.Helper()
	saved := &savedClip{}
	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/gpt_template", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/gpt/breakdown", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.Breakdown{GptExplanation: "explained"})
	})
	mux.HandleFunc("/profiles/clips/save", func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		saved.start = r.FormValue("clip_start_time")
		saved.end = r.FormValue("clip_end_time")
		saved.breakdown = r.FormValue("gpt_breakdown_response")
		json.NewEncoder(w).Encode(backend.SaveClipResponse{Success: true, ClipID: "c1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dictPath := filepath.Join(t.TempDir(), "dict.json")
	os.WriteFile(dictPath, []byte(`{"words":[]}`), 0644)

	client := backend.NewClient(srv.URL, nil)
	return client, enrich.NewResolver(dict.NewIndex(dictPath), client), saved
}

func newTestSaver(t *testing.T, player *fakePlayer, rec *fakeRecorder) (*Saver, *savedClip) {
	t.Helper()
	client, resolver, saved := newBackendStub(t)
	s := NewSaver(player, rec, resolver, client)
	s.settle = time.Millisecond
	return s, saved
}

func testCue() cue.Cue {
	return cue.Cue{Start: 2.0, End: 5.0, Raw: "猫だ"}
}

func TestSaveExtendsEnd(t *testing.T) {
	player := &fakePlayer{duration: 100}
	rec := &fakeRecorder{player: player}
	s, saved := newTestSaver(t, player, rec)

	resp, err := s.Save(context.Background(), testCue(), "猫")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !resp.Success || resp.ClipID != "c1" {
		t.Errorf("response = %+v", resp)
	}
	if rec.start != 2.0 || rec.end != 6.0 {
		t.Errorf("recorded %v-%v, want 2-6", rec.start, rec.end)
	}
	if saved.start != "2" || saved.end != "6" {
		t.Errorf("submitted %s-%s", saved.start, saved.end)
	}
	if saved.breakdown == "" {
		t.Error("breakdown payload missing")
	}
}

func TestSaveClampsToDuration(t *testing.T) {
	player := &fakePlayer{duration: 10.3}
	rec := &fakeRecorder{player: player}
	s, _ := newTestSaver(t, player, rec)

	_, err := s.Save(context.Background(), cue.Cue{Start: 8.0, End: 10.0, Raw: "文"}, "文")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.end != 10.3 {
		t.Errorf("recorded end = %v, want clamped 10.3", rec.end)
	}
}

func TestSaveUnknownDurationSkipsExtension(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		player := &fakePlayer{duration: d}
		rec := &fakeRecorder{player: player}
		s, _ := newTestSaver(t, player, rec)

		_, err := s.Save(context.Background(), testCue(), "猫")
		if err != nil {
			t.Fatalf("duration %v: Save: %v", d, err)
		}
		if rec.end != 5.0 {
			t.Errorf("duration %v: recorded end = %v, want unextended 5.0", d, rec.end)
		}
	}
}

func TestSaveRejectsInvalidRanges(t *testing.T) {
	player := &fakePlayer{duration: 100}
	s, _ := newTestSaver(t, player, &fakeRecorder{player: player})

	if _, err := s.Save(context.Background(), cue.Cue{Start: 5, End: 2}, "w"); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("inverted range: %v", err)
	}
	if _, err := s.Save(context.Background(), cue.Cue{Start: 150, End: 151}, "w"); !errors.Is(err, ErrStartBeyondEnd) {
		t.Errorf("start beyond media: %v", err)
	}
}

func TestSaveNoSource(t *testing.T) {
	client, resolver, _ := newBackendStub(t)
	s := NewSaver(nil, nil, resolver, client)
	if _, err := s.Save(context.Background(), testCue(), "猫"); !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestSaveRecorderNotReady(t *testing.T) {
	player := &fakePlayer{position: 42.0, paused: true, duration: 100}
	rec := &fakeRecorder{player: player, notReady: true}
	s, _ := newTestSaver(t, player, rec)

	if _, err := s.Save(context.Background(), testCue(), "猫"); !errors.Is(err, ErrNoSource) {
		t.Fatalf("err = %v, want ErrNoSource", err)
	}
	if rec.calls != 0 {
		t.Error("recorder ran without a source")
	}
	if player.Position() != 42.0 || !player.Paused() || player.Muted() {
		t.Error("player was touched before the source check")
	}
}

func TestSaveBusy(t *testing.T) {
	player := &fakePlayer{duration: 100}
	rec := &fakeRecorder{
		player:  player,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	started := rec.started
	s, _ := newTestSaver(t, player, rec)

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), testCue(), "猫")
		done <- err
	}()

	<-started
	if _, err := s.Save(context.Background(), testCue(), "猫"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent save = %v, want ErrBusy", err)
	}
	close(rec.release)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}

	// The slot frees up once the first save settles.
	if _, err := s.Save(context.Background(), testCue(), "猫"); err != nil {
		t.Errorf("save after release: %v", err)
	}
}

func TestCaptureDrivesAndRestoresPlayer(t *testing.T) {
	player := &fakePlayer{position: 42.0, paused: true, muted: false, duration: 100}
	rec := &fakeRecorder{player: player}
	s, _ := newTestSaver(t, player, rec)

	if _, err := s.Save(context.Background(), testCue(), "猫"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// During capture the player sat at the clip start, muted and playing.
	if rec.playerState.position != 2.0 || !rec.playerState.muted || rec.playerState.paused {
		t.Errorf("capture state = %+v", rec.playerState)
	}
	// Afterwards the original state is back.
	if player.Position() != 42.0 || !player.Paused() || player.Muted() {
		t.Errorf("restored state: pos=%v paused=%v muted=%v", player.Position(), player.Paused(), player.Muted())
	}
}

func TestRestoreOnRecorderFailure(t *testing.T) {
	player := &fakePlayer{position: 42.0, paused: false, muted: false, duration: 100}
	rec := &fakeRecorder{player: player, err: errors.New("encoder crashed")}
	s, _ := newTestSaver(t, player, rec)

	if _, err := s.Save(context.Background(), testCue(), "猫"); err == nil {
		t.Fatal("expected recorder failure")
	}
	if player.Position() != 42.0 || player.Paused() || player.Muted() {
		t.Errorf("state not restored: pos=%v paused=%v muted=%v", player.Position(), player.Paused(), player.Muted())
	}
	// The failed save releases the busy slot.
	rec.err = nil
	if _, err := s.Save(context.Background(), testCue(), "猫"); err != nil {
		t.Errorf("save after failure: %v", err)
	}
}

func TestSaveAbortsWhenExplanationFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	dictPath := filepath.Join(t.TempDir(), "dict.json")
	os.WriteFile(dictPath, []byte(`{"words":[]}`), 0644)
	client := backend.NewClient(srv.URL, nil)
	resolver := enrich.NewResolver(dict.NewIndex(dictPath), client)

	player := &fakePlayer{position: 42.0, paused: true, duration: 100}
	rec := &fakeRecorder{player: player}
	s := NewSaver(player, rec, resolver, client)
	s.settle = time.Millisecond

	if _, err := s.Save(context.Background(), testCue(), "猫"); err == nil {
		t.Fatal("expected explanation failure")
	}
	if rec.calls != 0 {
		t.Error("recorder ran despite failed enrichment")
	}
	if player.Position() != 42.0 || !player.Paused() {
		t.Error("player was touched before enrichment settled")
	}
}
