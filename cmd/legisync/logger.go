package main

import (
	"log/slog"

	"legisync/internal/config"
	"legisync/internal/logging"
)

// newCLILogger builds a stdout logger for one-shot commands: the
// configured console format on a terminal, JSON when piped.
func newCLILogger(cfg *config.Config) (*slog.Logger, error) {
	format := cfg.Logging.Format
	if !stdoutIsTerminal() {
		format = "json"
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      format,
		OutputPaths: []string{"stdout"},
	})
}
