package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
)

const lockRetryDelay = 10 * time.Millisecond

// Entry records that one item completed the full pipeline. Entries are
// append-only and never expire.
type Entry struct {
	Committee     string `json:"committee"`
	RecordingDate string `json:"recording_date"`
	Filename      string `json:"filename"`
}

// State is the persisted ledger document. The canonical empty shape keeps
// both chamber keys present so the on-disk file is always well-formed.
type State struct {
	House  []Entry `json:"house"`
	Senate []Entry `json:"senate"`
}

func emptyState() State {
	return State{House: []Entry{}, Senate: []Entry{}}
}

func (s *State) entries(source catalog.Source) *[]Entry {
	if source == catalog.SourceSenate {
		return &s.Senate
	}
	return &s.House
}

// Ledger is the durable record of processed items. Every query loads the
// file fresh so concurrent workers observe the latest committed state, and
// every read-modify-write runs under both a process-wide mutex and an
// advisory flock on the ledger file, so two legisync processes on one
// machine cannot interleave load/append/save. Multi-machine coordination
// is out of scope.
type Ledger struct {
	path     string
	logger   *slog.Logger
	mu       sync.Mutex
	fileLock *flock.Flock
}

// New constructs a ledger persisting to cfg.Paths.LedgerPath.
func New(cfg *config.Config, logger *slog.Logger) *Ledger {
	return NewAtPath(cfg.Paths.LedgerPath, logger)
}

// NewAtPath constructs a ledger persisting to an explicit path.
func NewAtPath(path string, logger *slog.Logger) *Ledger {
	return &Ledger{
		path:     path,
		logger:   logging.NewComponentLogger(logger, "ledger"),
		fileLock: flock.New(path + ".lock"),
	}
}

// IsProcessed reports whether an item with this filename has already been
// fully processed for the given source.
//
// Identity is (source, filename): committees are unlikely to reuse an
// identical media filename, and matching on the filename alone keeps the
// skip check stable when committee headings or date formatting drift
// between catalog queries.
func (l *Ledger) IsProcessed(ctx context.Context, source catalog.Source, filename string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.acquireFileLock(ctx); err != nil {
		return false, err
	}
	defer l.releaseFileLock()

	state := l.loadLocked()
	for _, entry := range *state.entries(source) {
		if entry.Filename == filename {
			return true, nil
		}
	}
	return false, nil
}

// MarkProcessed appends a completed item to the ledger. Load, append, and
// save happen under one critical section so concurrent callers never lose
// each other's appends.
func (l *Ledger) MarkProcessed(ctx context.Context, source catalog.Source, committee, recordingDate, filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.acquireFileLock(ctx); err != nil {
		return err
	}
	defer l.releaseFileLock()

	state := l.loadLocked()
	entries := state.entries(source)
	*entries = append(*entries, Entry{
		Committee:     committee,
		RecordingDate: recordingDate,
		Filename:      filename,
	})
	return l.saveLocked(state)
}

// Load returns the current persisted state. A missing, empty, or corrupt
// file yields the canonical empty shape; corruption is logged as a
// warning, never an error, favoring availability over halting the sweep.
func (l *Ledger) Load(ctx context.Context) (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.acquireFileLock(ctx); err != nil {
		return emptyState(), err
	}
	defer l.releaseFileLock()
	return l.loadLocked(), nil
}

// Save persists the full state atomically (write-to-temp-then-rename), so
// a crash mid-write cannot leave a half-written file behind.
func (l *Ledger) Save(ctx context.Context, state State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.acquireFileLock(ctx); err != nil {
		return err
	}
	defer l.releaseFileLock()
	return l.saveLocked(state)
}

func (l *Ledger) loadLocked() State {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("ledger unreadable; starting from empty state",
				logging.String("path", l.path),
				logging.Error(err),
			)
		}
		return emptyState()
	}
	if len(data) == 0 {
		return emptyState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		l.logger.Warn("ledger corrupt; starting from empty state",
			logging.String("path", l.path),
			logging.Error(err),
		)
		return emptyState()
	}
	if state.House == nil {
		state.House = []Entry{}
	}
	if state.Senate == nil {
		state.Senate = []Entry{}
	}
	return state
}

func (l *Ledger) saveLocked(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (l *Ledger) acquireFileLock(ctx context.Context) error {
	ok, err := l.fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !ok {
		return errors.New("acquire ledger lock: not acquired")
	}
	return nil
}

func (l *Ledger) releaseFileLock() {
	if err := l.fileLock.Unlock(); err != nil {
		l.logger.Warn("release ledger lock failed", logging.Error(err))
	}
}
