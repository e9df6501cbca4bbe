package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file-location configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
	LedgerPath string `toml:"ledger_path"`
}

// Storage contains object-store upload configuration.
type Storage struct {
	Bucket string `toml:"bucket"`
}

// House contains configuration for the House video archive listing.
type House struct {
	ListingURL     string `toml:"listing_url"`
	ArchiveBaseURL string `toml:"archive_base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Senate contains configuration for the Senate media search endpoint.
type Senate struct {
	Endpoint       string `toml:"endpoint"`
	CollectionID   string `toml:"collection_id"`
	PageSize       int    `toml:"page_size"`
	MaxPages       int    `toml:"max_pages"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Fetch contains media download configuration.
type Fetch struct {
	ProbeTimeout int `toml:"probe_timeout"`
}

// Transcriber contains configuration for the transcription engine.
type Transcriber struct {
	Binary      string `toml:"binary"`
	Model       string `toml:"model"`
	ComputeType string `toml:"compute_type"`
}

// Workflow contains sweep timing and bounds.
type Workflow struct {
	SweepInterval  int `toml:"sweep_interval"`
	PerSourceLimit int `toml:"per_source_limit"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Sweep          bool   `toml:"sweep"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for legisync.
//
// Configuration sections by subsystem:
//   - Paths: staging/log directories and the processed-item ledger file
//   - Storage: GCS upload bucket
//   - House/Senate: catalog source endpoints and bounds
//   - Fetch: media download behavior
//   - Transcriber: whisper invocation settings
//   - Workflow: sweep interval and per-source item bound
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Storage       Storage       `toml:"storage"`
	House         House         `toml:"house"`
	Senate        Senate        `toml:"senate"`
	Fetch         Fetch         `toml:"fetch"`
	Transcriber   Transcriber   `toml:"transcriber"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/legisync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("legisync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.LogDir,
		filepath.Dir(c.Paths.LedgerPath),
	}
	for _, source := range []string{"house", "senate"} {
		dirs = append(dirs, filepath.Join(c.Paths.StagingDir, source))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for stream copies.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// RunLockPath returns the path of the advisory lock guarding sweep execution.
func (c *Config) RunLockPath() string {
	return filepath.Join(c.Paths.LogDir, "legisyncd.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
