// Package acquire turns a resolved source into a WAV file the clip package
// can decode. Remote recordings are downloaded with yt-dlp and converted to
// 16 kHz mono with ffmpeg; local non-WAV files are converted the same way and
// local WAV files are used in place.
//
// Every external command goes through a replaceable runner so tests never
// spawn processes.
package acquire
