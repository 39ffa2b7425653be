package playback

import (
	"testing"

	"github.com/mirumoji/engine/internal/cue"
)

func track() []cue.Cue {
	return []cue.Cue{
		{Start: 1.0, End: 3.5, Raw: "一"},
		{Start: 3.0, End: 6.0, Raw: "二"}, // overlaps the first
		{Start: 10.0, End: 12.0, Raw: "三"},
	}
}

func TestUpdateBoundsInclusive(t *testing.T) {
	s := NewSync()
	s.SetCues(track())

	for _, tt := range []struct {
		t    float64
		want string
	}{
		{1.0, "一"}, // exact start
		{3.5, "一"}, // exact end
		{2.0, "一"},
		{10.0, "三"},
		{12.0, "三"},
	} {
		c, ok := s.Update(tt.t)
		if !ok {
			t.Errorf("Update(%v): no active cue", tt.t)
			continue
		}
		if c.Raw != tt.want {
			t.Errorf("Update(%v) = %q, want %q", tt.t, c.Raw, tt.want)
		}
	}
}

func TestUpdateNoActiveCue(t *testing.T) {
	s := NewSync()
	s.SetCues(track())

	for _, at := range []float64{0.0, 0.99, 7.0, 12.01, 100} {
		if _, ok := s.Update(at); ok {
			t.Errorf("Update(%v): unexpected active cue", at)
		}
	}
	if _, idx, ok := s.Active(); ok || idx != -1 {
		t.Errorf("Active() after miss = (%d, %v)", idx, ok)
	}
}

func TestUpdateOverlapFirstWins(t *testing.T) {
	s := NewSync()
	s.SetCues(track())

	c, ok := s.Update(3.2) // inside both cue 0 and cue 1
	if !ok || c.Raw != "一" {
		t.Fatalf("Update(3.2) = (%q, %v), want first cue", c.Raw, ok)
	}
	_, idx, _ := s.Active()
	if idx != 0 {
		t.Errorf("active index = %d, want 0", idx)
	}
}

func TestSetCuesResetsActive(t *testing.T) {
	s := NewSync()
	s.SetCues(track())
	s.Update(2.0)

	s.SetCues(nil)
	if _, idx, ok := s.Active(); ok || idx != -1 {
		t.Errorf("Active() after SetCues(nil) = (%d, %v)", idx, ok)
	}
	if _, ok := s.Update(2.0); ok {
		t.Error("Update on empty track matched a cue")
	}
}
