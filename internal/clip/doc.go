// Package clip materializes clip boundaries into audio files: it decodes the
// source WAV into a mono waveform, cuts each boundary, peak-normalizes the
// samples, and writes 16-bit PCM clips named {prefix}_{index:03d}.wav.
//
// Clips labeled as containing no drone are moved with Relocate after
// labeling.
package clip
