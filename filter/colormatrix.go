package filter

import (
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/parallel"
)

// ColorMatrixFilter applies a 4x5 color transformation matrix to an image.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The fifth column provides bias/offset values.
// Color values are straight-alpha in [0, 255] during transformation,
// then clamped back to valid range.
type ColorMatrixFilter struct {
	kind Kind

	// Matrix is the 4x5 transformation matrix in row-major order.
	// [0-4] = row 0 (R), [5-9] = row 1 (G), [10-14] = row 2 (B), [15-19] = row 3 (A)
	Matrix [20]float32

	pool *parallel.WorkerPool
}

// NewColorMatrixFilter creates a color matrix filter with the given matrix.
// The filter reports itself as an Identity stage; use the named
// constructors for the chain's stages.
func NewColorMatrixFilter(matrix [20]float32) *ColorMatrixFilter {
	return &ColorMatrixFilter{kind: Identity, Matrix: matrix}
}

// NewSaturationFilter creates a filter that adjusts color saturation.
// factor: 0.0 = grayscale, 1.0 = unchanged, 2.0 = oversaturated
func NewSaturationFilter(factor float32) *ColorMatrixFilter {
	// Luminance weights (Rec. 709)
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)

	// Saturation matrix blends between luminance (0) and identity (1)
	invFactor := 1 - factor

	return &ColorMatrixFilter{
		kind: Identity,
		Matrix: [20]float32{
			lumR*invFactor + factor, lumG * invFactor, lumB * invFactor, 0, 0,
			lumR * invFactor, lumG*invFactor + factor, lumB * invFactor, 0, 0,
			lumR * invFactor, lumG * invFactor, lumB*invFactor + factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// NewGrayscaleFilter creates a filter that converts to grayscale.
// Uses Rec. 709 luminance weights; alpha is preserved.
func NewGrayscaleFilter() *ColorMatrixFilter {
	f := NewSaturationFilter(0)
	f.kind = Grayscale
	return f
}

// NewInvertFilter creates a filter that inverts colors (255 - v per color
// channel). Alpha is preserved and the filter is exactly self-inverse.
func NewInvertFilter() *ColorMatrixFilter {
	return &ColorMatrixFilter{
		kind: Invert,
		Matrix: [20]float32{
			-1, 0, 0, 0, 255,
			0, -1, 0, 0, 255,
			0, 0, -1, 0, 255,
			0, 0, 0, 1, 0,
		},
	}
}

// Kind implements Stage.
func (f *ColorMatrixFilter) Kind() Kind { return f.kind }

// Apply applies the color matrix transformation to src, writing dst.
// src and dst may be the same pixmap.
func (f *ColorMatrixFilter) Apply(src, dst *sketch.Pixmap) {
	if src == nil || dst == nil {
		return
	}

	width := min(src.Width(), dst.Width())
	height := min(src.Height(), dst.Height())

	srcData := src.Data()
	dstData := dst.Data()
	srcWidth := src.Width()
	dstWidth := dst.Width()

	m := &f.Matrix

	parallel.Rows(f.pool, height, func(y0, y1 int) {
		applyMatrix(m, srcData, dstData, srcWidth, dstWidth, width, y0, y1)
	})
}

func applyMatrix(m *[20]float32, srcData, dstData []uint8, srcWidth, dstWidth, width, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			srcIdx := (y*srcWidth + x) * 4
			dstIdx := (y*dstWidth + x) * 4

			r := float32(srcData[srcIdx+0])
			g := float32(srcData[srcIdx+1])
			b := float32(srcData[srcIdx+2])
			a := float32(srcData[srcIdx+3])

			newR := m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
			newG := m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]
			newB := m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]
			newA := m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]

			dstData[dstIdx+0] = clampUint8(newR)
			dstData[dstIdx+1] = clampUint8(newG)
			dstData[dstIdx+2] = clampUint8(newB)
			dstData[dstIdx+3] = clampUint8(newA)
		}
	}
}
