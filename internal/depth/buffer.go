package depth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
)

// PixelFormat identifies the element layout of a PixelBuffer.
//
// The format is a closed set: depth maps are single-channel 32-bit floats
// (meters), confidence maps are single-channel 8-bit ordinals, and
// visualization output is 4-channel 8-bit in B,G,R,A byte order. Keeping the
// format as an explicit tag (rather than a bare element size) prevents a
// confidence buffer from being silently treated as depth across package
// boundaries.
type PixelFormat int

const (
	// FormatDepthFloat32 is a single-channel little-endian float32 buffer
	// holding distances in meters.
	FormatDepthFloat32 PixelFormat = iota

	// FormatConfidenceUint8 is a single-channel uint8 buffer holding
	// confidence ordinals (see ConfidenceLevel).
	FormatConfidenceUint8

	// FormatBGRA8 is a 4-channel uint8 buffer in B,G,R,A byte order,
	// used for visualization output.
	FormatBGRA8
)

// BytesPerPixel returns the element size for the format in bytes.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatDepthFloat32, FormatBGRA8:
		return 4
	default:
		return 1
	}
}

// String returns a short human-readable format name.
func (f PixelFormat) String() string {
	switch f {
	case FormatDepthFloat32:
		return "depth-float32"
	case FormatConfidenceUint8:
		return "confidence-uint8"
	case FormatBGRA8:
		return "bgra8"
	default:
		return "unknown"
	}
}

// AccessMode selects the lock taken while a buffer's backing store is mapped.
type AccessMode int

const (
	// AccessReadOnly acquires a shared lock; multiple read-only accesses
	// on the same buffer may coexist.
	AccessReadOnly AccessMode = iota

	// AccessExclusive acquires the write lock; no other access on the same
	// buffer may overlap it.
	AccessExclusive
)

// Sentinel errors for buffer access and construction.
var (
	// ErrNoBackingStore is returned when a buffer has no memory behind it
	// (nil receiver or zero-length data).
	ErrNoBackingStore = errors.New("pixel buffer has no backing store")

	// ErrDimensionMismatch is returned when two buffers that must share
	// extents (depth + confidence) do not.
	ErrDimensionMismatch = errors.New("buffer dimensions do not match")

	// ErrFormatMismatch is returned when a buffer's pixel format is not the
	// one an operation requires.
	ErrFormatMismatch = errors.New("unexpected pixel format")
)

// PixelBuffer is a rectangular, row-strided pixel grid over a flat byte slice.
//
// The buffer is caller-owned: operations in this package borrow it for the
// duration of a single call via Access and never retain a reference. The
// bytesPerRow stride may exceed width*BytesPerPixel due to alignment padding;
// all indexing goes through the stride, never through width arithmetic.
//
// A PixelBuffer is not safe for overlapping exclusive use from multiple
// goroutines; Access serializes readers against writers on a single buffer,
// but callers remain responsible for not mutating a buffer another goroutine
// is still consuming. Clone exists to hand an independent copy to a second
// consumer.
type PixelBuffer struct {
	width       int
	height      int
	bytesPerRow int
	format      PixelFormat

	mu   sync.RWMutex
	data []byte
}

// NewPixelBuffer allocates a zeroed buffer with a tight stride
// (width * BytesPerPixel).
//
// Returns an error if either extent is not positive. A partially constructed
// buffer is never returned.
func NewPixelBuffer(width, height int, format PixelFormat) (*PixelBuffer, error) {
	return NewPixelBufferWithStride(width, height, width*format.BytesPerPixel(), format)
}

// NewPixelBufferWithStride allocates a zeroed buffer with an explicit
// bytesPerRow, which must be at least width * BytesPerPixel. Padding bytes
// beyond the row's pixel data are part of the backing store and are preserved
// by Clone.
func NewPixelBufferWithStride(width, height, bytesPerRow int, format PixelFormat) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer extents %dx%d", width, height)
	}
	if min := width * format.BytesPerPixel(); bytesPerRow < min {
		return nil, fmt.Errorf("bytesPerRow %d below row byte width %d", bytesPerRow, min)
	}
	return &PixelBuffer{
		width:       width,
		height:      height,
		bytesPerRow: bytesPerRow,
		format:      format,
		data:        make([]byte, bytesPerRow*height),
	}, nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// BytesPerRow returns the row stride in bytes.
func (b *PixelBuffer) BytesPerRow() int { return b.bytesPerRow }

// Format returns the buffer's pixel format tag.
func (b *PixelBuffer) Format() PixelFormat { return b.format }

// ByteSize returns the total backing store size in bytes, including any
// per-row padding.
func (b *PixelBuffer) ByteSize() int { return len(b.data) }

// Access maps the backing store under the requested lock mode and passes it
// to fn. The lock is released on every exit path, including panics inside fn
// and early error returns.
//
// Returns ErrNoBackingStore without invoking fn if the buffer has no memory
// behind it; otherwise returns fn's error unchanged.
func (b *PixelBuffer) Access(mode AccessMode, fn func(data []byte) error) error {
	if b == nil || len(b.data) == 0 {
		return ErrNoBackingStore
	}
	if mode == AccessExclusive {
		b.mu.Lock()
		defer b.mu.Unlock()
	} else {
		b.mu.RLock()
		defer b.mu.RUnlock()
	}
	return fn(b.data)
}

// Float32At reads the float32 sample at (x, y) from a mapped data slice.
// The slice must come from Access on the same buffer; coordinates are not
// bounds-checked here.
func (b *PixelBuffer) Float32At(data []byte, x, y int) float32 {
	off := y*b.bytesPerRow + x*4
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

// PutFloat32 writes a float32 sample at (x, y) into a mapped data slice.
func (b *PixelBuffer) PutFloat32(data []byte, x, y int, v float32) {
	off := y*b.bytesPerRow + x*4
	binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
}

// Uint8At reads the uint8 sample at (x, y) from a mapped data slice.
func (b *PixelBuffer) Uint8At(data []byte, x, y int) uint8 {
	return data[y*b.bytesPerRow+x]
}

// PutUint8 writes a uint8 sample at (x, y) into a mapped data slice.
func (b *PixelBuffer) PutUint8(data []byte, x, y int, v uint8) {
	data[y*b.bytesPerRow+x] = v
}

// BGRAAt reads the 4 channel bytes at (x, y) in B,G,R,A order.
func (b *PixelBuffer) BGRAAt(data []byte, x, y int) (bl, g, r, a uint8) {
	off := y*b.bytesPerRow + x*4
	return data[off], data[off+1], data[off+2], data[off+3]
}

// PutBGRA writes the 4 channel bytes at (x, y) in B,G,R,A order.
func (b *PixelBuffer) PutBGRA(data []byte, x, y int, bl, g, r, a uint8) {
	off := y*b.bytesPerRow + x*4
	data[off] = bl
	data[off+1] = g
	data[off+2] = r
	data[off+3] = a
}

// InBounds reports whether (x, y) addresses a pixel inside the buffer.
func (b *PixelBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Clone allocates a new buffer with identical width, height, stride, and
// format, and copies min(srcByteSize, dstByteSize) bytes verbatim. Stride
// padding is copied as-is; this is a raw memory copy, not a per-pixel one.
//
// The copy gives a second consumer an independent buffer, so the original can
// keep being mutated without coordination. Returns an error if the source
// cannot be accessed; a partial buffer is never returned.
func (b *PixelBuffer) Clone() (*PixelBuffer, error) {
	if b == nil {
		return nil, ErrNoBackingStore
	}
	dst, err := NewPixelBufferWithStride(b.width, b.height, b.bytesPerRow, b.format)
	if err != nil {
		return nil, err
	}
	err = b.Access(AccessReadOnly, func(src []byte) error {
		return dst.Access(AccessExclusive, func(d []byte) error {
			n := len(src)
			if len(d) < n {
				n = len(d)
			}
			copy(d[:n], src[:n])
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
