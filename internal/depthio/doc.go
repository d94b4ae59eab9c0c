// Package depthio moves depth data between disk, pixel buffers, and encoded
// images.
//
// # Input Formats
//
// Depth maps load from three sources:
//   - raw little-endian float32 (meters, headerless, dimensions supplied by
//     the caller)
//   - raw little-endian uint16 "z16" (millimeters, the V4L/RealSense layout)
//   - 16-bit grayscale PNG (millimeters)
//
// Millimeter sources convert to meters on load; zero stays zero, so the
// "no data" convention survives the unit change. Confidence maps load from
// raw uint8 ordinals or 8-bit grayscale PNG.
//
// # Caching
//
// DepthCache keeps decoded buffers in memory keyed by path. Filters mutate
// cached buffers in place, so a filtered map stays filtered across tool
// calls until evicted.
//
// # Output
//
// BGRA visualization buffers export as base64-encoded PNG or WebP, with
// optional Gaussian smoothing and Lanczos scaling applied before encoding.
package depthio
