package catalog

import (
	"context"
	"path"
	"strings"
)

// Source identifies the legislative chamber a catalog item belongs to.
type Source string

const (
	SourceHouse  Source = "house"
	SourceSenate Source = "senate"
)

// Sources lists all chambers in sweep order.
func Sources() []Source {
	return []Source{SourceHouse, SourceSenate}
}

func (s Source) String() string { return string(s) }

// DateUnknown is the sentinel recording date for filenames that carry no
// recognizable date pattern.
const DateUnknown = "Unknown"

// Item is one discoverable video plus its descriptive metadata. Items are
// produced fresh on every catalog query and never persisted; only their
// identity fields reach the ledger once processing completes.
type Item struct {
	Source        Source
	Committee     string
	RecordingDate string
	Filename      string

	// URL is the direct download location (House only).
	URL string
	// RemoteID is the opaque media identifier (Senate only).
	RemoteID string
	// UploadedAt is the catalog upload timestamp (Senate only); raw
	// passthrough when the source value does not parse.
	UploadedAt string
}

// RemotePath returns the object-store path for an artifact of this item.
func (i Item) RemotePath(filename string) string {
	return path.Join(i.Source.String(), i.Committee, i.RecordingDate, filename)
}

// Lister is the capability each catalog source implements.
type Lister interface {
	// Source identifies the chamber this lister serves.
	Source() Source
	// List returns the currently discoverable items. Implementations
	// return partial results rather than failing the whole listing when
	// individual pages or entries are unreadable.
	List(ctx context.Context) ([]Item, error)
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mkv": {},
	".avi": {},
	".mov": {},
	".m4v": {},
}

// HasVideoExtension reports whether name ends in a known video extension.
func HasVideoExtension(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := videoExtensions[strings.ToLower(name[idx:])]
	return ok
}

// EnsureVideoExtension appends ".mp4" when name lacks a recognized video
// extension. Senate display titles are not true filenames and usually
// arrive without one.
func EnsureVideoExtension(name string) string {
	if HasVideoExtension(name) {
		return name
	}
	return name + ".mp4"
}
