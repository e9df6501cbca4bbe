// Package sweep coordinates full pipeline passes over every catalog
// source. An advisory file lock keeps sweeps mutually exclusive per
// machine, and each source runs in its own worker so a slow or failing
// chamber never starves the other.
package sweep
