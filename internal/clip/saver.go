package clip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/mirumoji/engine/internal/backend"
	"github.com/mirumoji/engine/internal/cue"
	"github.com/mirumoji/engine/internal/enrich"
)

// Player is the control surface the capture protocol drives. Seeks and
// state changes take effect before the next protocol step runs.
type Player interface {
	Position() float64
	Seek(position float64)
	Paused() bool
	Pause()
	Play() error
	Muted() bool
	SetMuted(muted bool)
	// Duration returns the media duration in seconds. Non-finite or
	// non-positive values mean unknown (live or still-loading sources).
	Duration() float64
}

// Artifact is a captured clip file.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

// Recorder captures the rendered media between start and end seconds.
// Ready reports whether a capture source is attached; Save rejects
// before touching the player when it is not.
type Recorder interface {
	Ready() bool
	Record(ctx context.Context, start, end float64) (*Artifact, error)
}

// endExtension pads the cue so trailing audio is not cut off mid-word.
const endExtension = 1.0

// settleDelay gives the player time to land on the seek target before
// capture starts.
const settleDelay = 150 * time.Millisecond

var (
	ErrBusy            = errors.New("a clip capture is already in progress")
	ErrNoSource        = errors.New("no media source available")
	ErrInvalidDuration = errors.New("invalid clip duration")
	ErrStartBeyondEnd  = errors.New("clip start time is at or after media end")
)

// Saver runs the clip capture protocol: validate, ensure enrichment,
// capture with exclusive control of the player, restore the player on
// every exit path, then submit. At most one capture runs at a time.
type Saver struct {
	player   Player
	recorder Recorder
	enrich   *enrich.Resolver
	backend  *backend.Client

	settle time.Duration
	saving atomic.Bool
}

func NewSaver(player Player, recorder Recorder, resolver *enrich.Resolver, client *backend.Client) *Saver {
	return &Saver{
		player:   player,
		recorder: recorder,
		enrich:   resolver,
		backend:  client,
		settle:   settleDelay,
	}
}

// Save captures the cue's time range and persists it together with the
// explanation for (cue sentence, word).
func (s *Saver) Save(ctx context.Context, c cue.Cue, word string) (*backend.SaveClipResponse, error) {
	if s.player == nil || s.recorder == nil || !s.recorder.Ready() {
		return nil, ErrNoSource
	}
	if !s.saving.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.saving.Store(false)

	end := c.End + endExtension
	if c.Start >= end {
		return nil, ErrInvalidDuration
	}
	if d := s.player.Duration(); isFinite(d) && d > 0 {
		if c.Start >= d {
			return nil, ErrStartBeyondEnd
		}
		if end > d {
			log.Printf("[clip] extended end %.3fs exceeds media duration %.3fs, clamping", end, d)
			end = d
		}
	} else {
		// Unknown duration: the extension is best-effort only.
		end = c.End
	}
	if c.Start >= end {
		return nil, ErrInvalidDuration
	}

	// The explanation must exist before any playback state is touched;
	// a fetch failure aborts the save with no side effects.
	breakdown, err := s.enrich.Explain(ctx, c.Raw, word)
	if err != nil {
		return nil, fmt.Errorf("fetch explanation: %w", err)
	}

	artifact, err := s.capture(ctx, c.Start, end)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	resp, err := s.backend.SaveClip(ctx, backend.SaveClipRequest{
		Start:     c.Start,
		End:       end,
		Breakdown: payload,
		FileName:  artifact.Name,
		Data:      artifact.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("save clip: %w", err)
	}
	log.Printf("[clip] saved %.3fs-%.3fs (%d bytes)", c.Start, end, len(artifact.Data))
	return resp, nil
}

// capture seeks to start, records until end, and restores the previous
// player state no matter how recording ends.
func (s *Saver) capture(ctx context.Context, start, end float64) (*Artifact, error) {
	origPosition := s.player.Position()
	origPaused := s.player.Paused()
	origMuted := s.player.Muted()
	defer func() {
		s.player.Seek(origPosition)
		if origPaused {
			if !s.player.Paused() {
				s.player.Pause()
			}
		} else if s.player.Paused() {
			if err := s.player.Play(); err != nil {
				log.Printf("[clip] restore play failed: %v", err)
			}
		}
		s.player.SetMuted(origMuted)
	}()

	s.player.Seek(start)
	s.player.SetMuted(true)
	if err := s.player.Play(); err != nil {
		log.Printf("[clip] playback warning during capture: %v", err)
	}

	select {
	case <-time.After(s.settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	artifact, err := s.recorder.Record(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("record clip: %w", err)
	}
	if artifact == nil || len(artifact.Data) == 0 {
		return nil, errors.New("recorded clip is empty")
	}
	return artifact, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
