// Package objstore abstracts artifact uploads behind a small Store
// capability, with a Google Cloud Storage implementation as the only
// production backend.
package objstore
