package sweep_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/pipeline"
	"legisync/internal/sweep"
	"legisync/internal/testsupport"
)

type fakeLister struct {
	source catalog.Source
	items  []catalog.Item
	err    error
}

func (l *fakeLister) Source() catalog.Source { return l.source }

func (l *fakeLister) List(ctx context.Context) ([]catalog.Item, error) {
	return l.items, l.err
}

type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
	skip      map[string]bool
	fail      map[string]error
}

func (p *fakeProcessor) Process(ctx context.Context, item catalog.Item) pipeline.Outcome {
	p.mu.Lock()
	p.processed = append(p.processed, item.Filename)
	p.mu.Unlock()
	if p.skip[item.Filename] {
		return pipeline.Outcome{Item: item, Status: pipeline.StatusSkipped}
	}
	if err := p.fail[item.Filename]; err != nil {
		return pipeline.Outcome{Item: item, Status: pipeline.StatusFailed, Stage: pipeline.StageFetch, Err: err}
	}
	return pipeline.Outcome{Item: item, Status: pipeline.StatusCleanedUp}
}

func items(source catalog.Source, names ...string) []catalog.Item {
	out := make([]catalog.Item, 0, len(names))
	for _, name := range names {
		out = append(out, catalog.Item{Source: source, Committee: "Judiciary", RecordingDate: "2025-07-17", Filename: name})
	}
	return out
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t)
}

func TestRunProcessesEverySource(t *testing.T) {
	cfg := testConfig(t)
	processor := &fakeProcessor{}
	coordinator := sweep.NewCoordinator(cfg, logging.NewNop(), []catalog.Lister{
		&fakeLister{source: catalog.SourceHouse, items: items(catalog.SourceHouse, "H1.mp4", "H2.mp4")},
		&fakeLister{source: catalog.SourceSenate, items: items(catalog.SourceSenate, "S1.mp4")},
	}, processor, nil)

	result, err := coordinator.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.LockSkipped {
		t.Fatal("lock should be free")
	}
	if result.SweepID == "" {
		t.Fatal("sweep id missing")
	}
	processed, skipped, failed := result.Counts()
	if processed != 3 || skipped != 0 || failed != 0 {
		t.Fatalf("counts = %d/%d/%d", processed, skipped, failed)
	}
}

func TestRunSkipsWhenLockHeld(t *testing.T) {
	cfg := testConfig(t)
	holder := flock.New(cfg.RunLockPath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("seed lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	processor := &fakeProcessor{}
	coordinator := sweep.NewCoordinator(cfg, logging.NewNop(), []catalog.Lister{
		&fakeLister{source: catalog.SourceHouse, items: items(catalog.SourceHouse, "H1.mp4")},
	}, processor, nil)

	result, err := coordinator.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.LockSkipped {
		t.Fatal("expected lock-skipped result")
	}
	if len(processor.processed) != 0 {
		t.Fatalf("no items should run under a held lock, got %v", processor.processed)
	}
}

func TestRunReleasesLockOnCompletion(t *testing.T) {
	cfg := testConfig(t)
	coordinator := sweep.NewCoordinator(cfg, logging.NewNop(), []catalog.Lister{
		&fakeLister{source: catalog.SourceHouse, items: items(catalog.SourceHouse, "H1.mp4")},
	}, &fakeProcessor{}, nil)

	if _, err := coordinator.Run(context.Background(), 5); err != nil {
		t.Fatalf("Run: %v", err)
	}

	probe := flock.New(cfg.RunLockPath())
	locked, err := probe.TryLock()
	if err != nil {
		t.Fatalf("probe lock: %v", err)
	}
	if !locked {
		t.Fatal("run lock still held after sweep")
	}
	_ = probe.Unlock()
}

func TestRunLimitCountsOnlyNewItems(t *testing.T) {
	cfg := testConfig(t)
	processor := &fakeProcessor{skip: map[string]bool{"OLD1.mp4": true, "OLD2.mp4": true}}
	coordinator := sweep.NewCoordinator(cfg, logging.NewNop(), []catalog.Lister{
		&fakeLister{
			source: catalog.SourceHouse,
			items:  items(catalog.SourceHouse, "OLD1.mp4", "OLD2.mp4", "NEW1.mp4", "NEW2.mp4", "NEW3.mp4"),
		},
	}, processor, nil)

	result, err := coordinator.Run(context.Background(), 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	processed, skipped, _ := result.Counts()
	if skipped != 2 {
		t.Fatalf("skipped = %d, want 2", skipped)
	}
	if processed != 2 {
		t.Fatalf("processed = %d, want 2 (limit should not be consumed by skips)", processed)
	}
	// NEW3 stays for the next sweep.
	for _, name := range processor.processed {
		if name == "NEW3.mp4" {
			t.Fatal("limit exceeded: NEW3 was attempted")
		}
	}
}

func TestRunIsolatesListingFailures(t *testing.T) {
	cfg := testConfig(t)
	processor := &fakeProcessor{}
	coordinator := sweep.NewCoordinator(cfg, logging.NewNop(), []catalog.Lister{
		&fakeLister{source: catalog.SourceHouse, err: errors.New("archive unreachable")},
		&fakeLister{source: catalog.SourceSenate, items: items(catalog.SourceSenate, "S1.mp4")},
	}, processor, nil)

	result, err := coordinator.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Sources[0].Err == nil {
		t.Fatal("house listing error should be recorded")
	}
	processed, _, _ := result.Counts()
	if processed != 1 {
		t.Fatalf("senate should still process, counts processed = %d", processed)
	}
}

func TestRunLockPathLivesUnderLogDir(t *testing.T) {
	cfg := testConfig(t)
	if got := cfg.RunLockPath(); got != filepath.Join(cfg.Paths.LogDir, "legisyncd.lock") {
		t.Fatalf("run lock path = %q", got)
	}
}
