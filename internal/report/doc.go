// Package report aggregates the metadata log into dataset statistics: clip
// counts per (binary label, motor label) group broken down by quality, the
// global quality distribution, and a CSV export of the group table.
//
// Reports are read-only; nothing here writes to the metadata log.
package report
