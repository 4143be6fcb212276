package clip

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"droneset/internal/segment"
)

// Waveform is a decoded mono recording with samples scaled to [-1, 1].
type Waveform struct {
	SampleRate int
	Samples    []float64
}

// Load decodes a PCM WAV file. Multi-channel input is mixed down to mono by
// averaging the channels of each frame.
func Load(path string) (*Waveform, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: read PCM from %s: %v", ErrInvalidWAV, path, err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %s: %d channel(s) at %d Hz", ErrInvalidWAV, path, channels, buf.Format.SampleRate)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %s: unsupported bit depth %d", ErrInvalidWAV, path, bitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))
	offset := 0.0
	if bitDepth == 8 {
		// 8-bit PCM is unsigned.
		offset = 128
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += (float64(buf.Data[i*channels+c]) - offset) / scale
		}
		samples[i] = sum / float64(channels)
	}
	return &Waveform{SampleRate: buf.Format.SampleRate, Samples: samples}, nil
}

// TotalMS is the waveform length in whole milliseconds.
func (w *Waveform) TotalMS() int64 {
	if w == nil || w.SampleRate <= 0 {
		return 0
	}
	return int64(len(w.Samples)) * 1000 / int64(w.SampleRate)
}

// Slice returns the samples covered by b. The returned slice aliases the
// waveform.
func (w *Waveform) Slice(b segment.ClipBoundary) ([]float64, error) {
	start := w.sampleAt(b.StartMS)
	end := w.sampleAt(b.EndMS)
	if b.StartMS < 0 || end > len(w.Samples) || start >= end {
		return nil, fmt.Errorf("%w: %s of %d ms", ErrBoundaryOutOfRange, b, w.TotalMS())
	}
	return w.Samples[start:end], nil
}

func (w *Waveform) sampleAt(ms int64) int {
	return int(ms * int64(w.SampleRate) / 1000)
}
