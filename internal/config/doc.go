// Package config loads, normalizes, and validates droneset configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DRONESET_DATASET_DIR. The Config type centralizes the dataset locations,
// windowing parameters, external tool names, and logging knobs so the
// segmentation engine receives them as one explicit value instead of reading
// package-level state.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and windowing parameters that have already been checked.
package config
