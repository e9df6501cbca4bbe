package testsupport

import (
	"context"
	"testing"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/ledger"
	"legisync/internal/logging"
)

// NewLedger opens the processed-item ledger for tests.
func NewLedger(t testing.TB, cfg *config.Config) *ledger.Ledger {
	t.Helper()
	return ledger.New(cfg, logging.NewNop())
}

// MarkProcessed seeds a committed entry, failing the test on error.
func MarkProcessed(t testing.TB, led *ledger.Ledger, source catalog.Source, committee, recordingDate, filename string) {
	t.Helper()
	if err := led.MarkProcessed(context.Background(), source, committee, recordingDate, filename); err != nil {
		t.Fatalf("ledger.MarkProcessed: %v", err)
	}
}
