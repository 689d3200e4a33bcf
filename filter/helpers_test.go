package filter

import "github.com/gogpu/sketch"

// Test helper functions shared across filter tests.

// createTestPixmap creates a pixmap filled with the given color.
func createTestPixmap(w, h int, color sketch.RGBA) *sketch.Pixmap {
	p := sketch.NewPixmap(w, h)
	p.Clear(color)
	return p
}

// gradientPixmap creates a non-uniform opaque pixmap.
func gradientPixmap(w, h int) *sketch.Pixmap {
	p := sketch.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.SetPixel8(x, y, uint8(x*255/max(w-1, 1)), uint8(y*255/max(h-1, 1)), uint8((x*y)%256), 255)
		}
	}
	// A hard edge so blur has something to soften.
	p.SetPixel8(w/2, h/2, 255, 255, 255, 200)
	return p
}
