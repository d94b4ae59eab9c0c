package colormap

import (
	"math"
	"testing"

	"depth-tools-mcp/internal/depth"
)

func depthFixture(t *testing.T, width, height int, samples []float32) *depth.PixelBuffer {
	t.Helper()
	buf, err := depth.NewPixelBuffer(width, height, depth.FormatDepthFloat32)
	if err != nil {
		t.Fatalf("buffer alloc failed: %v", err)
	}
	if err := buf.Access(depth.AccessExclusive, func(data []byte) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buf.PutFloat32(data, x, y, samples[y*width+x])
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("fixture fill failed: %v", err)
	}
	return buf
}

func confidenceFixture(t *testing.T, width, height int, ordinals []uint8) *depth.PixelBuffer {
	t.Helper()
	buf, err := depth.NewPixelBuffer(width, height, depth.FormatConfidenceUint8)
	if err != nil {
		t.Fatalf("buffer alloc failed: %v", err)
	}
	if err := buf.Access(depth.AccessExclusive, func(data []byte) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buf.PutUint8(data, x, y, ordinals[y*width+x])
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("fixture fill failed: %v", err)
	}
	return buf
}

func bgraAt(t *testing.T, buf *depth.PixelBuffer, x, y int) (bl, g, r, a uint8) {
	t.Helper()
	if err := buf.Access(depth.AccessReadOnly, func(data []byte) error {
		bl, g, r, a = buf.BGRAAt(data, x, y)
		return nil
	}); err != nil {
		t.Fatalf("bgra read failed: %v", err)
	}
	return bl, g, r, a
}

func TestDepthToRGBA_InvalidSamplesTransparent(t *testing.T) {
	nan := float32(math.NaN())
	buf := depthFixture(t, 2, 2, []float32{2.0, 0, nan, -1})

	out, err := DepthToRGBA(buf, 0, 5, 1.0)
	if err != nil {
		t.Fatalf("DepthToRGBA failed: %v", err)
	}
	if out.Format() != depth.FormatBGRA8 {
		t.Fatalf("output format: got %v, want bgra8", out.Format())
	}
	if out.Width() != 2 || out.Height() != 2 {
		t.Fatalf("output extents: got %dx%d, want 2x2", out.Width(), out.Height())
	}

	for _, p := range []struct{ x, y int }{{1, 0}, {0, 1}, {1, 1}} {
		bl, g, r, a := bgraAt(t, out, p.x, p.y)
		if bl != 0 || g != 0 || r != 0 || a != 0 {
			t.Errorf("invalid sample at (%d,%d): got BGRA (%d,%d,%d,%d), want all zero",
				p.x, p.y, bl, g, r, a)
		}
	}

	if _, _, _, a := bgraAt(t, out, 0, 0); a != 255 {
		t.Errorf("valid sample alpha: got %d, want 255", a)
	}
}

func TestDepthToRGBA_JetMapping(t *testing.T) {
	// minDepth sample normalizes to 0 → deep blue (0, 0, 127) after
	// truncating quantization; maxDepth sample → dark red (127, 0, 0).
	buf := depthFixture(t, 2, 1, []float32{1.0, 5.0})

	out, err := DepthToRGBA(buf, 1.0, 5.0, 0.5)
	if err != nil {
		t.Fatalf("DepthToRGBA failed: %v", err)
	}

	bl, g, r, a := bgraAt(t, out, 0, 0)
	if r != 0 || g != 0 || bl != 127 {
		t.Errorf("min sample: got RGB (%d,%d,%d), want (0,0,127)", r, g, bl)
	}
	if a != 127 {
		t.Errorf("alpha: got %d, want 127 for opacity 0.5", a)
	}

	bl, g, r, _ = bgraAt(t, out, 1, 0)
	if r != 127 || g != 0 || bl != 0 {
		t.Errorf("max sample: got RGB (%d,%d,%d), want (127,0,0)", r, g, bl)
	}
}

func TestDepthToRGBA_Errors(t *testing.T) {
	buf := depthFixture(t, 2, 2, []float32{1, 2, 3, 4})

	if _, err := DepthToRGBA(buf, 5, 5, 1); err == nil {
		t.Error("expected error for empty depth range")
	}
	if _, err := DepthToRGBA(buf, 5, 2, 1); err == nil {
		t.Error("expected error for inverted depth range")
	}
	if _, err := DepthToRGBA(nil, 0, 5, 1); err == nil {
		t.Error("expected error for nil buffer")
	}

	conf := confidenceFixture(t, 2, 2, []uint8{0, 1, 2, 1})
	if _, err := DepthToRGBA(conf, 0, 5, 1); err != depth.ErrFormatMismatch {
		t.Errorf("confidence input: got %v, want ErrFormatMismatch", err)
	}
}

func TestDepthToRGBAWithPalette_Grayscale(t *testing.T) {
	buf := depthFixture(t, 2, 1, []float32{1.0, 3.0})

	out, err := DepthToRGBAWithPalette(buf, 1.0, 5.0, 1.0, Grayscale)
	if err != nil {
		t.Fatalf("DepthToRGBAWithPalette failed: %v", err)
	}

	// (3-1)/(5-1) = 0.5 → 127 on all channels.
	bl, g, r, _ := bgraAt(t, out, 1, 0)
	if bl != 127 || g != 127 || r != 127 {
		t.Errorf("got BGR (%d,%d,%d), want (127,127,127)", bl, g, r)
	}
}

func TestConfidenceToRGBA(t *testing.T) {
	tests := []struct {
		name    string
		ordinal uint8
		r, g, b uint8
	}{
		{"low is red", 0, 255, 50, 50},
		{"medium is yellow", 1, 255, 200, 50},
		{"high is green", 2, 50, 255, 50},
		{"boundary out of range is gray", 3, 128, 128, 128},
		{"far out of range is gray", 200, 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := confidenceFixture(t, 1, 1, []uint8{tt.ordinal})
			out, err := ConfidenceToRGBA(buf, 1.0)
			if err != nil {
				t.Fatalf("ConfidenceToRGBA failed: %v", err)
			}
			bl, g, r, a := bgraAt(t, out, 0, 0)
			if r != tt.r || g != tt.g || bl != tt.b {
				t.Errorf("ordinal %d: got RGB (%d,%d,%d), want (%d,%d,%d)",
					tt.ordinal, r, g, bl, tt.r, tt.g, tt.b)
			}
			if a != 255 {
				t.Errorf("alpha: got %d, want 255", a)
			}
		})
	}
}

func TestConfidenceToRGBA_OpacityAndErrors(t *testing.T) {
	buf := confidenceFixture(t, 2, 1, []uint8{0, 2})
	out, err := ConfidenceToRGBA(buf, 0.25)
	if err != nil {
		t.Fatalf("ConfidenceToRGBA failed: %v", err)
	}
	if _, _, _, a := bgraAt(t, out, 0, 0); a != 63 {
		t.Errorf("alpha: got %d, want 63 for opacity 0.25", a)
	}

	depthBuf := depthFixture(t, 1, 1, []float32{1})
	if _, err := ConfidenceToRGBA(depthBuf, 1); err != depth.ErrFormatMismatch {
		t.Errorf("depth input: got %v, want ErrFormatMismatch", err)
	}
	if _, err := ConfidenceToRGBA(nil, 1); err != depth.ErrNoBackingStore {
		t.Errorf("nil input: got %v, want ErrNoBackingStore", err)
	}
}
