// Package logging builds the slog loggers droneset writes through.
//
// Console output is one line per record: time, level, the short run ID, the
// component, then key=value pairs. JSON output carries the same fields. Warnings
// go through WarnWithContext so every one names its event, a hint and the
// impact on the dataset.
package logging
