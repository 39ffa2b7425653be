package playback

import "sync"

// State is a snapshot of the remote player.
type State struct {
	Position float64 `json:"position"`
	Paused   bool    `json:"paused"`
	Muted    bool    `json:"muted"`
	Duration float64 `json:"duration"` // 0 when unknown
}

// Mirror tracks the remote player's state as reported by heartbeats and
// provides the control surface the clip protocol drives. Control calls
// mutate the mirrored state; the player applies it on its next poll.
type Mirror struct {
	mu    sync.Mutex
	state State
}

func NewMirror() *Mirror {
	return &Mirror{state: State{Paused: true}}
}

// Heartbeat records the state the player just reported.
func (m *Mirror) Heartbeat(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

// Snapshot returns the current mirrored state.
func (m *Mirror) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetDuration records the media duration when a probe resolves it
// before the first heartbeat arrives.
func (m *Mirror) SetDuration(d float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Duration = d
}

func (m *Mirror) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Position
}

func (m *Mirror) Seek(position float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Position = position
}

func (m *Mirror) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Paused
}

func (m *Mirror) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Paused = true
}

func (m *Mirror) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Paused = false
	return nil
}

func (m *Mirror) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Muted
}

func (m *Mirror) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Muted = muted
}

func (m *Mirror) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Duration
}
