// Package transcribe turns downloaded media into timed text transcripts
// via an external whisper CLI, and renders them in the bracketed
// "[start - end] text" artifact format uploaded alongside each video.
package transcribe
