package filter

import (
	"sync"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/parallel"
)

// DefaultBlurRadius is the Gaussian sigma used by a Chain unless configured
// otherwise.
const DefaultBlurRadius = 1.5

// BlurFilter applies separable Gaussian blur to an image.
// The separable algorithm processes horizontal and vertical passes
// independently, achieving O(w*h*r) complexity instead of O(w*h*r²).
// Pixels outside the image are treated as copies of the nearest edge pixel.
type BlurFilter struct {
	// Radius is the blur radius (Gaussian sigma) in pixels.
	Radius float64

	pool *parallel.WorkerPool
}

// NewBlurFilter creates a new blur filter.
func NewBlurFilter(radius float64) *BlurFilter {
	return &BlurFilter{Radius: radius}
}

// Kind implements Stage.
func (f *BlurFilter) Kind() Kind { return Blur }

// Apply blurs src into dst. src and dst may be the same pixmap.
// The operation uses a two-pass separable algorithm:
//  1. Horizontal pass: convolve each row with 1D kernel (src -> temp)
//  2. Vertical pass: convolve each column with 1D kernel (temp -> dst)
func (f *BlurFilter) Apply(src, dst *sketch.Pixmap) {
	if src == nil || dst == nil {
		return
	}

	width := min(src.Width(), dst.Width())
	height := min(src.Height(), dst.Height())
	if width == 0 || height == 0 {
		return
	}

	temp := getTempBuffer(width, height)
	defer putTempBuffer(temp)

	kernel := CachedGaussianKernel(f.Radius)

	// The vertical pass reads rows of temp outside its band, so it starts
	// only after every horizontal band has finished.
	parallel.Rows(f.pool, height, func(y0, y1 int) {
		blurHorizontal(src, temp, width, y0, y1, kernel)
	})
	parallel.Rows(f.pool, height, func(y0, y1 int) {
		blurVertical(temp, dst, width, height, y0, y1, kernel)
	})
}

// blurHorizontal applies 1D horizontal convolution to rows [y0, y1).
// Reads from src, writes to temp buffer.
func blurHorizontal(src *sketch.Pixmap, temp []float32, width, y0, y1 int, kernel []float32) {
	kernelSize := len(kernel)
	halfKernel := kernelSize / 2
	srcWidth := src.Width()
	srcData := src.Data()

	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k := 0; k < kernelSize; k++ {
				kx := x + k - halfKernel

				// Clamp to source bounds (edge extension)
				if kx < 0 {
					kx = 0
				} else if kx >= width {
					kx = width - 1
				}

				srcIdx := (y*srcWidth + kx) * 4
				weight := kernel[k]

				r += float32(srcData[srcIdx+0]) * weight
				g += float32(srcData[srcIdx+1]) * weight
				b += float32(srcData[srcIdx+2]) * weight
				a += float32(srcData[srcIdx+3]) * weight
			}

			tempIdx := (y*width + x) * 4
			temp[tempIdx+0] = r
			temp[tempIdx+1] = g
			temp[tempIdx+2] = b
			temp[tempIdx+3] = a
		}
	}
}

// blurVertical applies 1D vertical convolution to rows [y0, y1).
// Reads from temp buffer, writes to dst.
func blurVertical(temp []float32, dst *sketch.Pixmap, width, height, y0, y1 int, kernel []float32) {
	kernelSize := len(kernel)
	halfKernel := kernelSize / 2
	dstData := dst.Data()
	dstWidth := dst.Width()

	for y := y0; y < y1; y++ {
		for x := 0; x < width; x++ {
			var r, g, b, a float32

			for k := 0; k < kernelSize; k++ {
				ky := y + k - halfKernel

				if ky < 0 {
					ky = 0
				} else if ky >= height {
					ky = height - 1
				}

				tempIdx := (ky*width + x) * 4
				weight := kernel[k]

				r += temp[tempIdx+0] * weight
				g += temp[tempIdx+1] * weight
				b += temp[tempIdx+2] * weight
				a += temp[tempIdx+3] * weight
			}

			dstIdx := (y*dstWidth + x) * 4
			dstData[dstIdx+0] = clampUint8(r)
			dstData[dstIdx+1] = clampUint8(g)
			dstData[dstIdx+2] = clampUint8(b)
			dstData[dstIdx+3] = clampUint8(a)
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// Temporary buffer pool for blur operations.
var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 256*256*4)}
	},
}

// getTempBuffer retrieves a temporary buffer from the pool.
// The buffer is guaranteed to have at least width*height*4 elements.
// Every element is overwritten by the horizontal pass, so it is not cleared.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)

	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}

	return wrapper.data[:size]
}

// putTempBuffer returns a temporary buffer to the pool.
func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 { // 64MB max
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 clamps a float32 to [0, 255] and converts to uint8.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5) // Round to nearest
}
