package depth

import "math"

// Stats summarizes the valid samples of a depth buffer.
//
// A sample is valid when it is greater than zero, not NaN, and not infinite.
// When no valid samples exist, Min, Max, and Mean are all zero; an empty
// buffer is a normal outcome, not an error.
type Stats struct {
	MinMeters    float64 `json:"min_meters"`
	MaxMeters    float64 `json:"max_meters"`
	MeanMeters   float64 `json:"mean_meters"`
	ValidSamples int     `json:"valid_samples"`
	TotalSamples int     `json:"total_samples"`
}

// Statistics computes min, max, and mean over valid depth samples in a single
// read-only pass.
func Statistics(buf *PixelBuffer) (*Stats, error) {
	if buf == nil {
		return nil, ErrNoBackingStore
	}
	if buf.Format() != FormatDepthFloat32 {
		return nil, ErrFormatMismatch
	}

	stats := &Stats{TotalSamples: buf.Width() * buf.Height()}
	min := math.Inf(1)
	max := math.Inf(-1)
	sum := 0.0

	err := buf.Access(AccessReadOnly, func(data []byte) error {
		for y := 0; y < buf.Height(); y++ {
			for x := 0; x < buf.Width(); x++ {
				v := float64(buf.Float32At(data, x, y))
				if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
				sum += v
				stats.ValidSamples++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats.ValidSamples > 0 {
		stats.MinMeters = min
		stats.MaxMeters = max
		stats.MeanMeters = sum / float64(stats.ValidSamples)
	}
	return stats, nil
}
