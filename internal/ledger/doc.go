// Package ledger persists the append-only record of fully processed
// videos. The on-disk format is a single JSON document with one entry
// list per chamber; writes are atomic and guarded by an advisory file
// lock so concurrent sweeps cannot lose appends.
package ledger
