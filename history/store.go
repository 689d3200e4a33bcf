package history

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gogpu/sketch"
)

// Store encodes canvas pixels into snapshot payloads and back.
//
// Payloads are PNG, which round-trips straight-alpha RGBA8 exactly,
// including the color of fully transparent pixels.
type Store struct {
	enc png.Encoder
}

// NewStore creates a store using the given PNG compression level.
func NewStore(level png.CompressionLevel) *Store {
	return &Store{enc: png.Encoder{CompressionLevel: level}}
}

// Capture encodes pm into a self-contained payload.
func (s *Store) Capture(pm *sketch.Pixmap) ([]byte, error) {
	if pm == nil {
		return nil, fmt.Errorf("%w: nil pixmap", ErrCapture)
	}
	var buf bytes.Buffer
	if err := s.enc.Encode(&buf, pm.ToImage()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	return buf.Bytes(), nil
}

// Restore decodes a payload produced by Capture.
func (s *Store) Restore(data []byte) (*sketch.Pixmap, error) {
	if len(data) == 0 {
		return nil, ErrEmptySnapshot
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return sketch.FromImage(img), nil
}
