package transcribe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/services"
	"legisync/internal/testsupport"
	"legisync/internal/transcribe"
)

func TestTranscriptPathSwapsExtension(t *testing.T) {
	cases := map[string]string{
		"/tmp/APPROP-071725.mp4":           "/tmp/APPROP-071725.txt",
		"/tmp/SenateSession 25-07-17.mp4":  "/tmp/SenateSession 25-07-17.txt",
		"/tmp/clip.with.dots.mkv":          "/tmp/clip.with.dots.txt",
		"/tmp/downloads/house/HEARING.m4v": "/tmp/downloads/house/HEARING.txt",
	}
	for media, want := range cases {
		if got := transcribe.TranscriptPath(media); got != want {
			t.Errorf("TranscriptPath(%q) = %q, want %q", media, got, want)
		}
	}
}

func TestWriteTranscriptFormatsSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.txt")
	segments := []transcribe.Segment{
		{Start: 0, End: 4.5, Text: "  The committee will come to order. "},
		{Start: 4.5, End: 9.125, Text: "Roll call, please."},
	}
	if err := transcribe.WriteTranscript(path, segments); err != nil {
		t.Fatalf("WriteTranscript: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	want := "[0.00 - 4.50] The committee will come to order.\n[4.50 - 9.12] Roll call, please.\n"
	if string(data) != want {
		t.Fatalf("transcript = %q, want %q", data, want)
	}
}

func TestWhisperEngineParsesJSONOutput(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "HEARING-071725.mp4")
	testsupport.WriteFile(t, mediaPath, 1024)

	cfg := config.Default()
	cfg.Transcriber.Model = "small"
	engine := transcribe.NewWhisperEngine(&cfg, logging.NewNop())

	var gotArgs []string
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotArgs = append([]string{name}, args...)
		outputDir := args[indexOf(t, args, "--output_dir")+1]
		payload := `{"segments":[
			{"start":0,"end":3.2,"text":" Good morning."},
			{"start":3.2,"end":7.9,"text":" We have a quorum."}
		]}`
		return os.WriteFile(filepath.Join(outputDir, "HEARING-071725.json"), []byte(payload), 0o644)
	})

	segments, err := engine.Transcribe(context.Background(), mediaPath)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].End != 7.9 || strings.TrimSpace(segments[1].Text) != "We have a quorum." {
		t.Fatalf("unexpected segment %+v", segments[1])
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.HasPrefix(joined, "whisper-ctranslate2 "+mediaPath) {
		t.Fatalf("unexpected invocation %q", joined)
	}
	if !strings.Contains(joined, "--model small") || !strings.Contains(joined, "--output_format json") {
		t.Fatalf("missing flags in %q", joined)
	}

	// The scratch output directory is cleaned up.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only media file to remain, found %d entries", len(entries))
	}
}

func TestWhisperEngineWrapsToolFailure(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "HEARING.mp4")
	testsupport.WriteFile(t, mediaPath, 1024)

	cfg := config.Default()
	engine := transcribe.NewWhisperEngine(&cfg, logging.NewNop())
	engine.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("model download failed")
	})

	_, err := engine.Transcribe(context.Background(), mediaPath)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func indexOf(t *testing.T, args []string, flag string) int {
	t.Helper()
	for i, arg := range args {
		if arg == flag {
			return i
		}
	}
	t.Fatalf("flag %q not found in %v", flag, args)
	return -1
}
