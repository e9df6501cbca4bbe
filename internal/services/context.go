package services

import "context"

type contextKey string

const (
	sweepIDKey contextKey = "sweep_id"
	sourceKey  contextKey = "source"
	stageKey   contextKey = "stage"
)

// WithSweepID annotates context with the sweep correlation identifier.
func WithSweepID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sweepIDKey, id)
}

// SweepIDFromContext extracts the sweep correlation identifier if present.
func SweepIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sweepIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSource annotates context with the chamber name (house/senate).
func WithSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromContext returns the chamber name if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sourceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
