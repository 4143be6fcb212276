package clip

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	outputBitDepth = 16
	wavFormatPCM   = 1
)

// WriteWAV encodes mono samples in [-1, 1] as 16-bit PCM at path. An existing
// file is never overwritten, and a partial file is removed when encoding fails.
func WriteWAV(path string, sampleRate int, samples []float64) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create clip: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close clip: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	const fullScale = 1<<(outputBitDepth-1) - 1
	data := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * fullScale))
	}

	encoder := wav.NewEncoder(file, sampleRate, outputBitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: outputBitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("encode clip: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize clip: %w", err)
	}
	return nil
}
