// Package fetch downloads catalog items to local staging paths. House
// archive videos come down as direct HTTP file transfers; Senate videos
// are stream-copied out of HLS manifests with ffmpeg. Both paths are
// idempotent over existing on-disk media.
package fetch
