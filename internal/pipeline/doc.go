// Package pipeline drives one catalog item through download,
// transcription, upload, and ledger commit. Each item runs independently
// and idempotently: the ledger is the only durable progress marker, and
// it is written exactly once, after every artifact is safely uploaded.
package pipeline
