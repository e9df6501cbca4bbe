package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/services"
)

// WhisperEngine transcribes media by shelling out to a whisper CLI that
// emits JSON output (whisper-ctranslate2 by default). The binary, model,
// and compute type come from configuration so operators can trade speed
// for accuracy without a rebuild.
type WhisperEngine struct {
	binary        string
	model         string
	computeType   string
	commandRunner func(ctx context.Context, name string, args ...string) error
	logger        *slog.Logger
}

// NewWhisperEngine constructs a transcription engine from configuration.
func NewWhisperEngine(cfg *config.Config, logger *slog.Logger) *WhisperEngine {
	return &WhisperEngine{
		binary:      cfg.Transcriber.Binary,
		model:       cfg.Transcriber.Model,
		computeType: cfg.Transcriber.ComputeType,
		logger:      logging.NewComponentLogger(logger, "transcribe"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *WhisperEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

type whisperOutput struct {
	Segments []Segment `json:"segments"`
}

// Transcribe runs the whisper CLI against mediaPath and parses the JSON
// segment list it writes beside its output directory.
func (e *WhisperEngine) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	outputDir, err := os.MkdirTemp(filepath.Dir(mediaPath), ".whisper-*")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcribe", "create output dir", mediaPath, err)
	}
	defer os.RemoveAll(outputDir)

	args := []string{
		mediaPath,
		"--model", e.model,
		"--compute_type", e.computeType,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	}

	start := time.Now()
	if err := e.run(ctx, e.binary, args...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "run whisper", mediaPath, err)
	}

	jsonPath := filepath.Join(outputDir, stem(mediaPath)+".json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "read whisper output", jsonPath, err)
	}
	var output whisperOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "decode whisper output", jsonPath, err)
	}

	e.logger.Info("transcription complete",
		logging.String(logging.FieldFilename, filepath.Base(mediaPath)),
		logging.Int("segments", len(output.Segments)),
		logging.Duration("elapsed", time.Since(start)),
	)
	return output.Segments, nil
}

func (e *WhisperEngine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
