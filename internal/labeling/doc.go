// Package labeling implements the interactive console side of a session: it
// asks for the motor count of a recording, proposes time ranges for the
// ranged path, and collects a decision for every clip. Answers are validated
// and the question repeats until the input is acceptable.
//
// Clips can be auditioned with ffplay before each question. A missing or
// failing player prints a notice and labeling continues.
package labeling
