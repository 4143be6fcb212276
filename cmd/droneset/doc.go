// Package main hosts the droneset CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into labeling sessions,
// dataset statistics, source cleanup, dependency checks, and configuration
// scaffolding. Configuration resolution, the metadata writer lock, and logger
// setup live here so the internal packages stay free of process concerns.
package main
