// Package session drives one source recording from clip boundaries to
// appended metadata records.
//
// An Engine runs either the whole-source path, which windows [0, total) once,
// or the ranged path, where a Driver proposes successive time ranges:
//
//	AwaitingRange -> Windowing -> Labeling -> Appended -> AwaitingRange | Done
//
// A proposed range must not overlap a range already processed in the same
// run; a rejected range is reported back to the driver and discarded. Each
// batch of clips is labeled completely before a single append, so an
// interrupted batch leaves neither records nor clip files behind.
//
// The engine depends only on the Labeler and Driver interfaces; console
// implementations live in the labeling package.
package session
