package playback

import (
	"sync"

	"github.com/mirumoji/engine/internal/cue"
)

// Sync resolves which cue is active for a playback time. Every update
// re-scans from the start — seeks can jump anywhere, so no cursor is
// kept — and the first interval containing t wins if cues overlap.
type Sync struct {
	mu     sync.RWMutex
	cues   []cue.Cue
	active int // index into cues, -1 when none
}

func NewSync() *Sync {
	return &Sync{active: -1}
}

// SetCues replaces the cue sequence and resets the active cue.
func (s *Sync) SetCues(cues []cue.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cues = cues
	s.active = -1
}

// Update recomputes the active cue for playback time t. It returns the
// active cue and whether one matched.
func (s *Sync) Update(t float64) (cue.Cue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = -1
	for i, c := range s.cues {
		if t >= c.Start && t <= c.End {
			s.active = i
			return c, true
		}
	}
	return cue.Cue{}, false
}

// Active returns the cue selected by the last Update, its index, and
// whether one is active.
func (s *Sync) Active() (cue.Cue, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active < 0 || s.active >= len(s.cues) {
		return cue.Cue{}, -1, false
	}
	return s.cues[s.active], s.active, true
}
