// Package metadata persists the per-clip label log of the dataset.
//
// # Storage
//
// The log is a single UTF-8 JSON array of objects, pretty-printed with a
// two-space indent. Optional fields are omitted rather than written as null;
// records written by older tooling that carry explicit nulls, a
// "youtube_url" key, or a "youtube" source kind are accepted on load and
// rewritten in the current shape on the next write.
//
// # Writers
//
// Every mutation loads the whole array, modifies it in memory, and replaces
// the file through a temporary file and rename. The Store assumes it is the
// only writer: two processes appending to the same path would each rewrite
// the array from their own snapshot and one batch would be lost. Callers
// that may race should hold AcquireWriterLock for the duration of a run.
package metadata
