package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// Encoder writes an image in one format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(w io.Writer, img image.Image) error

// Encode implements Encoder.
func (f EncoderFunc) Encode(w io.Writer, img image.Image) error {
	return f(w, img)
}

// PNGEncoder encodes lossless PNG.
type PNGEncoder struct {
	Level png.CompressionLevel
}

// Encode implements Encoder.
func (e PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.Level}
	return enc.Encode(w, img)
}

// JPEGEncoder encodes baseline JPEG. Alpha is discarded.
type JPEGEncoder struct {
	// Quality in 1-100. Out of range values are clamped.
	Quality int
}

// Encode implements Encoder.
func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	q := e.Quality
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
}

// WebPEncoder encodes lossless WebP (VP8L).
type WebPEncoder struct{}

// Encode implements Encoder.
func (WebPEncoder) Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("webp: %w", err)
	}
	return nil
}
