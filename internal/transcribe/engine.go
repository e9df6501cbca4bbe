package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Engine produces timed transcript segments for a media file.
type Engine interface {
	Transcribe(ctx context.Context, mediaPath string) ([]Segment, error)
}

// TranscriptPath returns the transcript location for a media file: the
// same path with the media extension swapped for .txt.
func TranscriptPath(mediaPath string) string {
	ext := filepath.Ext(mediaPath)
	return strings.TrimSuffix(mediaPath, ext) + ".txt"
}

// WriteTranscript renders segments one per line as "[start - end] text"
// with times in seconds to two decimals, writing atomically so a partial
// transcript never survives a crash.
func WriteTranscript(path string, segments []Segment) error {
	var b strings.Builder
	for _, segment := range segments {
		fmt.Fprintf(&b, "[%.2f - %.2f] %s\n", segment.Start, segment.End, strings.TrimSpace(segment.Text))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp transcript: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close transcript: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize transcript: %w", err)
	}
	return nil
}
