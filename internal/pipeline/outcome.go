package pipeline

import "legisync/internal/catalog"

// Status is the terminal disposition of one item's pipeline run.
type Status string

const (
	// StatusSkipped means the ledger already recorded the item.
	StatusSkipped Status = "skipped"
	// StatusCommitted means the item was recorded in the ledger but its
	// local artifacts could not be removed.
	StatusCommitted Status = "committed"
	// StatusCleanedUp means the item completed the full pipeline.
	StatusCleanedUp Status = "cleaned-up"
	// StatusFailed means a stage before commit failed; the item stays
	// out of the ledger so a later sweep retries it.
	StatusFailed Status = "failed"
)

// Outcome reports how one item's run ended.
type Outcome struct {
	Item   catalog.Item
	Status Status
	// Stage names the stage that failed when Status is StatusFailed.
	Stage string
	Err   error
}

// Succeeded reports whether the item is durably recorded as processed.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusCommitted || o.Status == StatusCleanedUp
}
