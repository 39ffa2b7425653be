package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/mirumoji/engine/internal/clip"
)

// FileRecorder cuts clip ranges straight out of the source file with
// ffmpeg. It implements clip.Recorder for file-backed sessions, where
// re-encoding from the on-disk source beats capturing a rendered
// stream. The source follows the loaded session.
type FileRecorder struct {
	mu     sync.Mutex
	source string
}

func NewFileRecorder() *FileRecorder {
	return &FileRecorder{}
}

// SetSource points the recorder at the session's media file.
func (r *FileRecorder) SetSource(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = path
}

// Ready reports whether a source file is attached.
func (r *FileRecorder) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source != ""
}

func (r *FileRecorder) Record(ctx context.Context, start, end float64) (*clip.Artifact, error) {
	r.mu.Lock()
	source := r.source
	r.mu.Unlock()

	if source == "" {
		return nil, clip.ErrNoSource
	}
	duration := end - start
	if duration <= 0 {
		return nil, clip.ErrInvalidDuration
	}

	tmp, err := os.CreateTemp("", "clip-*.mp4")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", source,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", tmpPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg clip: %s: %w", strings.TrimSpace(string(output)), err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, err
	}
	return &clip.Artifact{Name: "clip.mp4", MIME: "video/mp4", Data: data}, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
