package depthio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"depth-tools-mcp/internal/depth"
)

// RenderResult contains an encoded visualization image.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ExportOptions controls visualization encoding.
type ExportOptions struct {
	// Format is "png" (default) or "webp".
	Format string

	// Scale resizes the output by this factor with Lanczos resampling.
	// Values <= 0 or exactly 1 leave the size unchanged.
	Scale float64

	// SmoothSigma applies a Gaussian blur with this radius before scaling.
	// Zero disables smoothing.
	SmoothSigma float64
}

// BufferToImage converts a BGRA8 pixel buffer into an image.NRGBA.
// Alpha is straight (not premultiplied), matching the buffer contents.
func BufferToImage(buf *depth.PixelBuffer) (*image.NRGBA, error) {
	if buf == nil {
		return nil, depth.ErrNoBackingStore
	}
	if buf.Format() != depth.FormatBGRA8 {
		return nil, depth.ErrFormatMismatch
	}

	img := image.NewNRGBA(image.Rect(0, 0, buf.Width(), buf.Height()))
	err := buf.Access(depth.AccessReadOnly, func(data []byte) error {
		for y := 0; y < buf.Height(); y++ {
			for x := 0; x < buf.Width(); x++ {
				bl, g, r, a := buf.BGRAAt(data, x, y)
				off := img.PixOffset(x, y)
				img.Pix[off] = r
				img.Pix[off+1] = g
				img.Pix[off+2] = bl
				img.Pix[off+3] = a
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ExportBuffer converts a BGRA8 buffer to an image and encodes it.
func ExportBuffer(buf *depth.PixelBuffer, opts ExportOptions) (*RenderResult, error) {
	img, err := BufferToImage(buf)
	if err != nil {
		return nil, err
	}
	return ExportImage(img, opts)
}

// ExportImage encodes an image as base64 PNG or WebP, with optional Gaussian
// smoothing and Lanczos scaling applied first.
func ExportImage(img image.Image, opts ExportOptions) (*RenderResult, error) {
	if opts.SmoothSigma > 0 {
		img = blur.Gaussian(img, opts.SmoothSigma)
	}
	if opts.Scale > 0 && opts.Scale != 1.0 {
		bounds := img.Bounds()
		newWidth := int(float64(bounds.Dx()) * opts.Scale)
		newHeight := int(float64(bounds.Dy()) * opts.Scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %v collapses %dx%d to zero pixels", opts.Scale, bounds.Dx(), bounds.Dy())
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	mime := "image/png"
	switch opts.Format {
	case "", "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	case "webp":
		if err := nativewebp.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("failed to encode WebP: %w", err)
		}
		mime = "image/webp"
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}

	bounds := img.Bounds()
	return &RenderResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mime,
	}, nil
}
