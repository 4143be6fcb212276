// Package staging owns the work directory that holds temporary audio while a
// recording is prepared: raw downloads and 16 kHz mono conversions. It names
// those files and removes ones left behind by interrupted runs.
package staging
