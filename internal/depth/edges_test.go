package depth

import (
	"testing"
)

// flatFixture fills a buffer with a constant depth.
func flatFixture(t *testing.T, width, height int, value float32) *PixelBuffer {
	t.Helper()
	samples := make([]float32, width*height)
	for i := range samples {
		samples[i] = value
	}
	return newDepthFixture(t, width, height, samples)
}

func TestDetectEdges_FlatSurface(t *testing.T) {
	buf := flatFixture(t, 8, 8, 2.0)

	result, err := DetectEdges(buf, 0.05)
	if err != nil {
		t.Fatalf("DetectEdges failed: %v", err)
	}
	if result.EdgeCount != 0 {
		t.Errorf("EdgeCount on flat surface: got %d, want 0", result.EdgeCount)
	}
	if result.Width != 8 || result.Height != 8 {
		t.Errorf("mask extents: got %dx%d, want 8x8", result.Width, result.Height)
	}
}

func TestDetectEdges_DepthStep(t *testing.T) {
	// Left half at 1m, right half at 3m: a 2m jump down the middle.
	const w, h = 8, 6
	samples := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				samples[y*w+x] = 1.0
			} else {
				samples[y*w+x] = 3.0
			}
		}
	}
	buf := newDepthFixture(t, w, h, samples)

	result, err := DetectEdges(buf, 0.5)
	if err != nil {
		t.Fatalf("DetectEdges failed: %v", err)
	}
	if result.EdgeCount == 0 {
		t.Fatal("no edges found across a 2m depth step")
	}

	// Edges must hug the step columns, not the flat halves.
	mask := result.Mask
	for y := 1; y < h-1; y++ {
		if mask.GrayAt(1, y).Y != 0 {
			t.Errorf("edge at flat column x=1, y=%d", y)
		}
		if mask.GrayAt(w-2, y).Y == 255 && w-2 > w/2+1 {
			t.Errorf("edge at flat column x=%d, y=%d", w-2, y)
		}
	}
	foundStep := false
	for y := 1; y < h-1; y++ {
		if mask.GrayAt(w/2-1, y).Y == 255 || mask.GrayAt(w/2, y).Y == 255 {
			foundStep = true
		}
	}
	if !foundStep {
		t.Error("no edge marked along the step boundary")
	}
}

func TestDetectEdges_InvalidNeighborhoodsSkipped(t *testing.T) {
	// A lone invalid sample poisons the 3x3 neighborhoods around it; none of
	// those pixels may be marked, even though the hole looks like a huge jump.
	buf := flatFixture(t, 6, 6, 2.0)
	if err := buf.Access(AccessExclusive, func(data []byte) error {
		buf.PutFloat32(data, 3, 3, 0)
		return nil
	}); err != nil {
		t.Fatalf("poking hole failed: %v", err)
	}

	result, err := DetectEdges(buf, 0.05)
	if err != nil {
		t.Fatalf("DetectEdges failed: %v", err)
	}
	if result.EdgeCount != 0 {
		t.Errorf("EdgeCount: got %d, want 0 around an invalid hole", result.EdgeCount)
	}
}

func TestDetectEdges_Errors(t *testing.T) {
	if _, err := DetectEdges(nil, 0.1); err != ErrNoBackingStore {
		t.Errorf("nil buffer: got %v, want ErrNoBackingStore", err)
	}
	conf := newConfidenceFixture(t, 4, 4, make([]uint8, 16))
	if _, err := DetectEdges(conf, 0.1); err != ErrFormatMismatch {
		t.Errorf("confidence buffer: got %v, want ErrFormatMismatch", err)
	}
}
