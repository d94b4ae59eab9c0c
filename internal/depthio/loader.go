package depthio

import (
	"encoding/binary"
	"fmt"
	"image"
	_ "image/png" // Register PNG format decoder
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"depth-tools-mcp/internal/depth"
)

// DepthCache provides thread-safe caching of loaded pixel buffers to avoid
// redundant disk reads and decodes.
//
// Buffers are keyed by the exact path (or synthetic key) they were stored
// under. The in-place filters mutate cached buffers directly, so a filtered
// map stays filtered for subsequent tool calls — that is the intended
// workflow, matching how a capture pipeline would hold one live frame.
//
// DepthCache is safe for concurrent use. Cached buffers remain in memory
// until Evict or Clear; long-running processes handling many frames should
// clean up periodically.
type DepthCache struct {
	mu      sync.RWMutex
	buffers map[string]*depth.PixelBuffer
}

// NewDepthCache creates and initializes a new empty cache.
func NewDepthCache() *DepthCache {
	return &DepthCache{
		buffers: make(map[string]*depth.PixelBuffer),
	}
}

// Get returns the buffer stored under key, if any.
func (c *DepthCache) Get(key string) (*depth.PixelBuffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	buf, ok := c.buffers[key]
	return buf, ok
}

// Store registers a buffer under key, replacing any previous entry.
func (c *DepthCache) Store(key string, buf *depth.PixelBuffer) {
	c.mu.Lock()
	c.buffers[key] = buf
	c.mu.Unlock()
}

// Evict removes the entry under key. Unknown keys are a no-op.
func (c *DepthCache) Evict(key string) {
	c.mu.Lock()
	delete(c.buffers, key)
	c.mu.Unlock()
}

// Clear removes all entries, freeing the associated memory.
func (c *DepthCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*depth.PixelBuffer)
	c.mu.Unlock()
}

// Depth map source formats accepted by LoadDepthMap.
//
//   - "float32": raw little-endian float32 samples in meters, row-major,
//     no header; requires explicit width and height.
//   - "z16": raw little-endian uint16 samples in millimeters (the V4L/
//     RealSense Z16 layout); requires explicit width and height.
//   - "png16": 16-bit grayscale PNG with millimeter values.
//   - "": auto-detect from the file extension (.png → png16, .z16 → z16,
//     anything else → float32).
const (
	FormatRawFloat32 = "float32"
	FormatRawZ16     = "z16"
	FormatPNG16      = "png16"
)

// detectFormat maps a file extension to a source format name.
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG16
	case ".z16":
		return FormatRawZ16
	default:
		return FormatRawFloat32
	}
}

// LoadDepthMap loads a depth map from disk into a FormatDepthFloat32 buffer,
// using the cache when the path was loaded before.
//
// Raw formats carry no dimensions, so width and height are required for
// "float32" and "z16" sources and must match the file's sample count
// exactly. Millimeter-based sources (z16, png16) are converted to meters;
// a raw zero stays exactly zero, preserving the "no data" convention.
func LoadDepthMap(cache *DepthCache, path, format string, width, height int) (*depth.PixelBuffer, error) {
	if buf, ok := cache.Get(path); ok {
		return buf, nil
	}

	if format == "" {
		format = detectFormat(path)
	}

	var buf *depth.PixelBuffer
	var err error
	switch format {
	case FormatRawFloat32:
		buf, err = loadRawFloat32(path, width, height)
	case FormatRawZ16:
		buf, err = loadRawZ16(path, width, height)
	case FormatPNG16:
		buf, err = loadPNG16(path)
	default:
		return nil, fmt.Errorf("unknown depth format %q", format)
	}
	if err != nil {
		return nil, err
	}

	cache.Store(path, buf)
	return buf, nil
}

// LoadConfidenceMap loads a confidence map into a FormatConfidenceUint8
// buffer. Sources are raw uint8 ordinals (requires width and height) or an
// 8-bit grayscale PNG whose pixel values are the ordinals.
func LoadConfidenceMap(cache *DepthCache, path string, width, height int) (*depth.PixelBuffer, error) {
	if buf, ok := cache.Get(path); ok {
		return buf, nil
	}

	var buf *depth.PixelBuffer
	var err error
	if strings.EqualFold(filepath.Ext(path), ".png") {
		buf, err = loadConfidencePNG(path)
	} else {
		buf, err = loadRawConfidence(path, width, height)
	}
	if err != nil {
		return nil, err
	}

	cache.Store(path, buf)
	return buf, nil
}

func loadRawFloat32(path string, width, height int) (*depth.PixelBuffer, error) {
	data, err := readRaw(path, width, height, 4)
	if err != nil {
		return nil, err
	}
	buf, err := depth.NewPixelBuffer(width, height, depth.FormatDepthFloat32)
	if err != nil {
		return nil, err
	}
	err = buf.Access(depth.AccessExclusive, func(dst []byte) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				bits := binary.LittleEndian.Uint32(data[(y*width+x)*4:])
				buf.PutFloat32(dst, x, y, math.Float32frombits(bits))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func loadRawZ16(path string, width, height int) (*depth.PixelBuffer, error) {
	data, err := readRaw(path, width, height, 2)
	if err != nil {
		return nil, err
	}
	buf, err := depth.NewPixelBuffer(width, height, depth.FormatDepthFloat32)
	if err != nil {
		return nil, err
	}
	err = buf.Access(depth.AccessExclusive, func(dst []byte) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				z := binary.LittleEndian.Uint16(data[(y*width+x)*2:])
				buf.PutFloat32(dst, x, y, float32(z)/1000.0)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func loadPNG16(path string) (*depth.PixelBuffer, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	gray16, ok := img.(*image.Gray16)
	if !ok {
		return nil, fmt.Errorf("depth PNG must be 16-bit grayscale, got %T", img)
	}

	bounds := gray16.Bounds()
	buf, err := depth.NewPixelBuffer(bounds.Dx(), bounds.Dy(), depth.FormatDepthFloat32)
	if err != nil {
		return nil, err
	}
	err = buf.Access(depth.AccessExclusive, func(dst []byte) error {
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				mm := gray16.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
				buf.PutFloat32(dst, x, y, float32(mm)/1000.0)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func loadRawConfidence(path string, width, height int) (*depth.PixelBuffer, error) {
	data, err := readRaw(path, width, height, 1)
	if err != nil {
		return nil, err
	}
	buf, err := depth.NewPixelBuffer(width, height, depth.FormatConfidenceUint8)
	if err != nil {
		return nil, err
	}
	err = buf.Access(depth.AccessExclusive, func(dst []byte) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buf.PutUint8(dst, x, y, data[y*width+x])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func loadConfidencePNG(path string) (*depth.PixelBuffer, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("confidence PNG must be 8-bit grayscale, got %T", img)
	}

	bounds := gray.Bounds()
	buf, err := depth.NewPixelBuffer(bounds.Dx(), bounds.Dy(), depth.FormatConfidenceUint8)
	if err != nil {
		return nil, err
	}
	err = buf.Access(depth.AccessExclusive, func(dst []byte) error {
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				buf.PutUint8(dst, x, y, gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// readRaw reads a headerless sample file and validates its size against the
// expected sample count.
func readRaw(path string, width, height, bytesPerSample int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raw formats require explicit width and height, got %dx%d", width, height)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read depth file: %w", err)
	}
	if expected := width * height * bytesPerSample; len(data) != expected {
		return nil, fmt.Errorf("file length %d does not match %dx%d samples (%d bytes)",
			len(data), width, height, expected)
	}
	return data, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// DepthMapInfo contains metadata about a loaded depth map.
type DepthMapInfo struct {
	// Width is the map width in pixels.
	Width int `json:"width"`

	// Height is the map height in pixels.
	Height int `json:"height"`

	// PixelFormat is the buffer's format tag ("depth-float32").
	PixelFormat string `json:"pixel_format"`

	// BytesPerRow is the buffer's row stride in bytes.
	BytesPerRow int `json:"bytes_per_row"`

	// ValidSamples is the number of samples carrying a usable distance.
	ValidSamples int `json:"valid_samples"`

	// TotalSamples is width * height.
	TotalSamples int `json:"total_samples"`

	// FileSizeBytes is the size of the source file on disk, or 0 for
	// buffers that never came from a file.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadDepthMapInfo loads a depth map (through the cache) and reports its
// metadata, including the valid-sample count from a statistics pass.
func LoadDepthMapInfo(cache *DepthCache, path, format string, width, height int) (*DepthMapInfo, error) {
	buf, err := LoadDepthMap(cache, path, format, width, height)
	if err != nil {
		return nil, err
	}

	stats, err := depth.Statistics(buf)
	if err != nil {
		return nil, err
	}

	info := &DepthMapInfo{
		Width:        buf.Width(),
		Height:       buf.Height(),
		PixelFormat:  buf.Format().String(),
		BytesPerRow:  buf.BytesPerRow(),
		ValidSamples: stats.ValidSamples,
		TotalSamples: stats.TotalSamples,
	}
	if stat, err := os.Stat(path); err == nil {
		info.FileSizeBytes = stat.Size()
	}
	return info, nil
}
