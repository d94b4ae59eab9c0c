// Package depth implements the core depth-map pixel-buffer engine.
//
// The package operates on PixelBuffer values: rectangular, row-strided,
// format-tagged grids over flat byte slices. Depth maps are single-channel
// float32 (meters), confidence maps are single-channel uint8 ordinals, and
// visualization output is 4-channel BGRA. Every operation is a synchronous,
// self-contained pass over one or two buffers; the engine keeps no state
// between calls.
//
// # Sample Validity
//
// A depth sample of zero, a negative value, or NaN means "no data" by capture
// convention. Statistics additionally excludes infinities. Filters normalize
// invalid samples to exactly 0.0 so downstream consumers only need a single
// invalidity check.
//
// # Buffer Access
//
// All reads and writes go through PixelBuffer.Access, which maps the backing
// store under a shared (AccessReadOnly) or exclusive (AccessExclusive) lock
// and guarantees release on every exit path. Indexing always uses the
// buffer's own bytesPerRow stride, which may exceed the row's pixel byte
// width due to alignment padding.
//
// # Error Handling
//
// The in-place filters (FilterByDistance, FilterByConfidence) are
// best-effort: a buffer that cannot be accessed is left untouched and no
// error surfaces. This matches the capture pipeline's expectations and is
// deliberate. Pairing violations (format or dimension mismatches between a
// depth and confidence buffer) fail fast before any mutation. Allocating
// operations (Clone, and the colormap conversions built on this package)
// return explicit errors and never a partially filled buffer.
//
// # Concurrency
//
// Operations are safe to call concurrently on different buffers. On the same
// buffer, the caller must not overlap an exclusive operation with any other;
// Clone provides an independent copy for handing a frame to a second
// consumer.
package depth
