package depthio

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"depth-tools-mcp/internal/depth"
)

// bgraFixture builds a BGRA buffer with a distinct color per pixel.
func bgraFixture(t *testing.T, width, height int, pixels [][4]uint8) *depth.PixelBuffer {
	t.Helper()
	buf, err := depth.NewPixelBuffer(width, height, depth.FormatBGRA8)
	if err != nil {
		t.Fatalf("buffer alloc failed: %v", err)
	}
	if err := buf.Access(depth.AccessExclusive, func(data []byte) error {
		for i, p := range pixels {
			buf.PutBGRA(data, i%width, i/width, p[0], p[1], p[2], p[3])
		}
		return nil
	}); err != nil {
		t.Fatalf("fixture fill failed: %v", err)
	}
	return buf
}

func TestBufferToImage(t *testing.T) {
	// One pixel per channel so a swizzle bug cannot cancel out.
	buf := bgraFixture(t, 2, 2, [][4]uint8{
		{255, 0, 0, 255}, // blue
		{0, 255, 0, 255}, // green
		{0, 0, 255, 255}, // red
		{0, 0, 0, 0},     // transparent
	})

	img, err := BufferToImage(buf)
	if err != nil {
		t.Fatalf("BufferToImage failed: %v", err)
	}

	tests := []struct {
		x, y       int
		r, g, b, a uint8
	}{
		{0, 0, 0, 0, 255, 255},
		{1, 0, 0, 255, 0, 255},
		{0, 1, 255, 0, 0, 255},
		{1, 1, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		c := img.NRGBAAt(tt.x, tt.y)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != tt.a {
			t.Errorf("pixel (%d,%d): got %+v, want RGBA(%d,%d,%d,%d)",
				tt.x, tt.y, c, tt.r, tt.g, tt.b, tt.a)
		}
	}
}

func TestBufferToImage_Errors(t *testing.T) {
	if _, err := BufferToImage(nil); err != depth.ErrNoBackingStore {
		t.Errorf("nil buffer: got %v, want ErrNoBackingStore", err)
	}
	depthBuf, err := depth.NewPixelBuffer(2, 2, depth.FormatDepthFloat32)
	if err != nil {
		t.Fatalf("alloc failed: %v", err)
	}
	if _, err := BufferToImage(depthBuf); err != depth.ErrFormatMismatch {
		t.Errorf("depth buffer: got %v, want ErrFormatMismatch", err)
	}
}

func TestExportBuffer_PNGRoundTrip(t *testing.T) {
	buf := bgraFixture(t, 2, 1, [][4]uint8{
		{10, 20, 30, 255},
		{40, 50, 60, 255},
	})

	result, err := ExportBuffer(buf, ExportOptions{Format: "png"})
	if err != nil {
		t.Fatalf("ExportBuffer failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %q, want image/png", result.MimeType)
	}
	if result.Width != 2 || result.Height != 1 {
		t.Errorf("extents: got %dx%d, want 2x1", result.Width, result.Height)
	}

	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("result is not valid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("result is not valid PNG: %v", err)
	}

	r, g, b, _ := decoded.At(0, 0).RGBA()
	if uint8(r>>8) != 30 || uint8(g>>8) != 20 || uint8(b>>8) != 10 {
		t.Errorf("decoded pixel: got RGB (%d,%d,%d), want (30,20,10)", r>>8, g>>8, b>>8)
	}
}

func TestExportImage_Scale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	result, err := ExportImage(img, ExportOptions{Scale: 2.0})
	if err != nil {
		t.Fatalf("ExportImage failed: %v", err)
	}
	if result.Width != 8 || result.Height != 8 {
		t.Errorf("scaled extents: got %dx%d, want 8x8", result.Width, result.Height)
	}

	if _, err := ExportImage(img, ExportOptions{Scale: 0.01}); err == nil {
		t.Error("expected error when scale collapses the image")
	}
}

func TestExportImage_WebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	result, err := ExportImage(img, ExportOptions{Format: "webp"})
	if err != nil {
		t.Fatalf("ExportImage failed: %v", err)
	}
	if result.MimeType != "image/webp" {
		t.Errorf("MimeType: got %q, want image/webp", result.MimeType)
	}
	if result.ImageBase64 == "" {
		t.Error("empty WebP payload")
	}
}

func TestExportImage_Smoothing(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))

	result, err := ExportImage(img, ExportOptions{SmoothSigma: 1.5})
	if err != nil {
		t.Fatalf("ExportImage failed: %v", err)
	}
	if result.Width != 8 || result.Height != 8 {
		t.Errorf("smoothing changed extents: got %dx%d", result.Width, result.Height)
	}
}

func TestExportImage_UnknownFormat(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if _, err := ExportImage(img, ExportOptions{Format: "tiff"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
