package clip

import "math"

// DefaultHeadroomDB is the gap left between the loudest sample and full scale.
const DefaultHeadroomDB = 0.1

// Normalize returns a copy of samples scaled so the peak sits headroomDB below
// full scale. Silence is returned unchanged.
func Normalize(samples []float64, headroomDB float64) []float64 {
	out := make([]float64, len(samples))
	copy(out, samples)

	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return out
	}
	gain := math.Pow(10, -headroomDB/20) / peak
	for i := range out {
		out[i] *= gain
	}
	return out
}
