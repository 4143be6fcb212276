// Package timerange models the half-open millisecond intervals used to carve a
// long recording into processing parts.
//
// It parses operator-supplied "M.S" arguments into ranges and provides the
// per-run Tracker that refuses a part overlapping one already processed for
// the same source. Nothing here is persisted; which clips exist on disk is
// recovered from filenames by the segment package.
package timerange
