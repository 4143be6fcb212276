// Package segment computes fixed-length, overlapping clip boundaries over a
// recording and allocates the numeric suffixes used to name the resulting
// clip files.
//
// Boundaries are pure arithmetic: the package never touches audio. The
// allocator reads the output directory so that a source processed across
// several runs keeps numbering where it left off instead of overwriting clips.
//
// Clip filenames follow the grammar
//
//	<prefix>_<index>.<ext>
//
// where index is a zero-padded decimal of at least three digits.
package segment
