// Package services holds cross-cutting plumbing shared by pipeline
// components: the sentinel error taxonomy with stage-tagged wrapping, and
// context annotation helpers for sweep/source/stage correlation.
package services
