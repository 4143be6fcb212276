package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Tone describes a synthetic 16-bit PCM fixture.
type Tone struct {
	SampleRate int
	Channels   int
	DurationMS int64
	// Amplitude is the sine peak as a fraction of full scale.
	Amplitude float64
	FreqHz    float64
}

// DefaultTone is one channel of a 440 Hz sine at 16 kHz and half scale.
func DefaultTone(durationMS int64) Tone {
	return Tone{SampleRate: 16000, Channels: 1, DurationMS: durationMS, Amplitude: 0.5, FreqHz: 440}
}

// WriteWAV writes the tone to path, creating parent directories.
func WriteWAV(t testing.TB, path string, tone Tone) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	frames := int(tone.DurationMS * int64(tone.SampleRate) / 1000)
	data := make([]int, 0, frames*tone.Channels)
	for i := 0; i < frames; i++ {
		v := tone.Amplitude * math.Sin(2*math.Pi*tone.FreqHz*float64(i)/float64(tone.SampleRate))
		sample := int(math.Round(v * 32767))
		for c := 0; c < tone.Channels; c++ {
			data = append(data, sample)
		}
	}

	enc := wav.NewEncoder(f, tone.SampleRate, 16, tone.Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: tone.Channels, SampleRate: tone.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize %s: %v", path, err)
	}
}
