// Package scheduler runs sweeps at a fixed cadence until shut down.
package scheduler
