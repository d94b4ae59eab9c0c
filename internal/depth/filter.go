package depth

import "math"

// ConfidenceLevel classifies per-pixel depth reliability as reported by the
// capture pipeline.
type ConfidenceLevel uint8

const (
	ConfidenceLow    ConfidenceLevel = 0
	ConfidenceMedium ConfidenceLevel = 1
	ConfidenceHigh   ConfidenceLevel = 2
)

// String returns the level name, or "unknown" for out-of-range ordinals.
func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// invalidDepth reports whether a sample carries no usable distance.
// Zero, negative, and NaN all mean "no data" by capture convention.
func invalidDepth(v float32) bool {
	return v <= 0 || math.IsNaN(float64(v))
}

// FilterByDistance zeroes every sample that is beyond maxDistance, NaN, or
// negative, in place. Samples already in (0, maxDistance] are untouched.
//
// The filter is best-effort: if the buffer cannot be accessed or is not a
// depth buffer, it returns without mutating anything. Callers treat a
// filtered and an unfilterable buffer the same way, so no error surfaces.
func FilterByDistance(buf *PixelBuffer, maxDistance float32) {
	if buf == nil || buf.Format() != FormatDepthFloat32 {
		return
	}
	_ = buf.Access(AccessExclusive, func(data []byte) error {
		for y := 0; y < buf.Height(); y++ {
			for x := 0; x < buf.Width(); x++ {
				v := buf.Float32At(data, x, y)
				if v > maxDistance || v < 0 || math.IsNaN(float64(v)) {
					buf.PutFloat32(data, x, y, 0)
				}
			}
		}
		return nil
	})
}

// FilterByConfidence zeroes each depth sample whose paired confidence ordinal
// is below threshold, in place. The two buffers must have identical width and
// height; each is indexed through its own stride, so they need not share one.
//
// Returns ErrFormatMismatch or ErrDimensionMismatch before touching either
// buffer when the inputs cannot be paired. Access failures keep the
// best-effort contract of FilterByDistance: the depth buffer is left
// unmodified and no error is reported.
func FilterByConfidence(depthBuf, confBuf *PixelBuffer, threshold ConfidenceLevel) error {
	if depthBuf == nil || confBuf == nil {
		return nil
	}
	if depthBuf.Format() != FormatDepthFloat32 || confBuf.Format() != FormatConfidenceUint8 {
		return ErrFormatMismatch
	}
	if depthBuf.Width() != confBuf.Width() || depthBuf.Height() != confBuf.Height() {
		return ErrDimensionMismatch
	}

	_ = depthBuf.Access(AccessExclusive, func(dd []byte) error {
		return confBuf.Access(AccessReadOnly, func(cd []byte) error {
			for y := 0; y < depthBuf.Height(); y++ {
				for x := 0; x < depthBuf.Width(); x++ {
					if ConfidenceLevel(confBuf.Uint8At(cd, x, y)) < threshold {
						depthBuf.PutFloat32(dd, x, y, 0)
					}
				}
			}
			return nil
		})
	})
	return nil
}
