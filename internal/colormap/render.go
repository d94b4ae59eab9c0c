package colormap

import (
	"fmt"
	"math"

	"depth-tools-mcp/internal/depth"
)

// Confidence ordinal colors, as r, g, b bytes.
var (
	confidenceLowColor     = [3]uint8{255, 50, 50}   // red
	confidenceMediumColor  = [3]uint8{255, 200, 50}  // yellow
	confidenceHighColor    = [3]uint8{50, 255, 50}   // green
	confidenceUnknownColor = [3]uint8{128, 128, 128} // gray
)

// DepthToRGBA renders a depth buffer into a newly allocated BGRA8 buffer
// using the jet palette.
//
// Each sample is normalized as (depth-minDepth)/(maxDepth-minDepth) and
// mapped through the palette; invalid samples (zero, negative, NaN) become
// fully transparent black. Color channels are quantized by truncation;
// alpha is opacity*255 for valid samples.
//
// The returned buffer is owned by the caller. On any failure the error is
// returned with a nil buffer, never a partially rendered one.
func DepthToRGBA(buf *depth.PixelBuffer, minDepth, maxDepth, opacity float64) (*depth.PixelBuffer, error) {
	return DepthToRGBAWithPalette(buf, minDepth, maxDepth, opacity, Jet)
}

// DepthToRGBAWithPalette is DepthToRGBA with a caller-selected palette.
func DepthToRGBAWithPalette(buf *depth.PixelBuffer, minDepth, maxDepth, opacity float64, palette Palette) (*depth.PixelBuffer, error) {
	if buf == nil {
		return nil, depth.ErrNoBackingStore
	}
	if buf.Format() != depth.FormatDepthFloat32 {
		return nil, depth.ErrFormatMismatch
	}
	if maxDepth <= minDepth {
		return nil, fmt.Errorf("depth range [%v, %v] is empty", minDepth, maxDepth)
	}
	if palette == nil {
		palette = Jet
	}

	out, err := depth.NewPixelBuffer(buf.Width(), buf.Height(), depth.FormatBGRA8)
	if err != nil {
		return nil, err
	}

	alpha := uint8(opacity * 255)
	span := maxDepth - minDepth

	err = buf.Access(depth.AccessReadOnly, func(src []byte) error {
		return out.Access(depth.AccessExclusive, func(dst []byte) error {
			for y := 0; y < buf.Height(); y++ {
				for x := 0; x < buf.Width(); x++ {
					v := float64(buf.Float32At(src, x, y))
					if v <= 0 || math.IsNaN(v) {
						out.PutBGRA(dst, x, y, 0, 0, 0, 0)
						continue
					}
					r, g, b := palette((v - minDepth) / span)
					out.PutBGRA(dst, x, y, uint8(b*255), uint8(g*255), uint8(r*255), alpha)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConfidenceToRGBA renders a confidence buffer into a newly allocated BGRA8
// buffer: low → red, medium → yellow, high → green, anything out of range →
// gray. Alpha is constant at opacity*255.
func ConfidenceToRGBA(buf *depth.PixelBuffer, opacity float64) (*depth.PixelBuffer, error) {
	if buf == nil {
		return nil, depth.ErrNoBackingStore
	}
	if buf.Format() != depth.FormatConfidenceUint8 {
		return nil, depth.ErrFormatMismatch
	}

	out, err := depth.NewPixelBuffer(buf.Width(), buf.Height(), depth.FormatBGRA8)
	if err != nil {
		return nil, err
	}

	alpha := uint8(opacity * 255)

	err = buf.Access(depth.AccessReadOnly, func(src []byte) error {
		return out.Access(depth.AccessExclusive, func(dst []byte) error {
			for y := 0; y < buf.Height(); y++ {
				for x := 0; x < buf.Width(); x++ {
					var c [3]uint8
					switch depth.ConfidenceLevel(buf.Uint8At(src, x, y)) {
					case depth.ConfidenceLow:
						c = confidenceLowColor
					case depth.ConfidenceMedium:
						c = confidenceMediumColor
					case depth.ConfidenceHigh:
						c = confidenceHighColor
					default:
						c = confidenceUnknownColor
					}
					out.PutBGRA(dst, x, y, c[2], c[1], c[0], alpha)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
