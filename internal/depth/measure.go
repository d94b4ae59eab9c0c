package depth

import (
	"fmt"
	"math"
)

// SampleResult holds the depth reading at a single pixel.
type SampleResult struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	DepthMeters float64 `json:"depth_meters"`
	Valid       bool    `json:"valid"`
}

// SampleAt reads the depth sample at (x, y).
func SampleAt(buf *PixelBuffer, x, y int) (*SampleResult, error) {
	if buf == nil {
		return nil, ErrNoBackingStore
	}
	if buf.Format() != FormatDepthFloat32 {
		return nil, ErrFormatMismatch
	}
	if !buf.InBounds(x, y) {
		return nil, fmt.Errorf("point (%d,%d) outside buffer bounds %dx%d", x, y, buf.Width(), buf.Height())
	}

	result := &SampleResult{X: x, Y: y}
	err := buf.Access(AccessReadOnly, func(data []byte) error {
		v := buf.Float32At(data, x, y)
		if !invalidDepth(v) && !math.IsInf(float64(v), 0) {
			result.DepthMeters = float64(v)
			result.Valid = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MeasureResult contains pixel-space and depth-space measurements between two
// points on the same depth map.
type MeasureResult struct {
	DistancePixels   float64 `json:"distance_pixels"`
	DeltaX           int     `json:"delta_x"`
	DeltaY           int     `json:"delta_y"`
	DepthAMeters     float64 `json:"depth_a_meters"`
	DepthBMeters     float64 `json:"depth_b_meters"`
	DepthDeltaMeters float64 `json:"depth_delta_meters"`
	BothValid        bool    `json:"both_valid"`
}

// MeasurePoints measures the pixel distance between two points and the depth
// difference between their samples. DepthDeltaMeters is meaningful only when
// BothValid is true.
func MeasurePoints(buf *PixelBuffer, x1, y1, x2, y2 int) (*MeasureResult, error) {
	a, err := SampleAt(buf, x1, y1)
	if err != nil {
		return nil, err
	}
	b, err := SampleAt(buf, x2, y2)
	if err != nil {
		return nil, err
	}

	deltaX := x2 - x1
	deltaY := y2 - y1
	distance := math.Sqrt(float64(deltaX*deltaX + deltaY*deltaY))

	result := &MeasureResult{
		DistancePixels: math.Round(distance*100) / 100,
		DeltaX:         deltaX,
		DeltaY:         deltaY,
		DepthAMeters:   a.DepthMeters,
		DepthBMeters:   b.DepthMeters,
		BothValid:      a.Valid && b.Valid,
	}
	if result.BothValid {
		result.DepthDeltaMeters = math.Round(math.Abs(b.DepthMeters-a.DepthMeters)*1000) / 1000
	}
	return result, nil
}
