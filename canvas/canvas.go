package canvas

import (
	"sync"

	"github.com/gogpu/sketch"
)

// Canvas is the live drawing surface.
type Canvas struct {
	mu    sync.RWMutex
	pm    *sketch.Pixmap
	color sketch.RGBA
	mode  sketch.Mode
	bg    sketch.RGBA
}

// Option configures a Canvas during creation.
type Option func(*Canvas)

// WithBackground fills the canvas with c. The default is transparent.
func WithBackground(c sketch.RGBA) Option {
	return func(cv *Canvas) {
		cv.bg = c
	}
}

// WithColor sets the initial drawing color. The default is black.
func WithColor(c sketch.RGBA) Option {
	return func(cv *Canvas) {
		cv.color = c
	}
}

// New creates a width x height canvas in pen mode.
func New(width, height int, opts ...Option) *Canvas {
	c := &Canvas{
		color: sketch.Black,
		mode:  sketch.ModePen,
		bg:    sketch.Transparent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pm = sketch.NewPixmap(width, height)
	c.pm.Clear(c.bg)
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.Pixmap().Width()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.Pixmap().Height()
}

// Pixmap returns the live pixel buffer.
func (c *Canvas) Pixmap() *sketch.Pixmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pm
}

// Replace makes pm the live pixel buffer. A nil pm is ignored.
func (c *Canvas) Replace(pm *sketch.Pixmap) {
	if pm == nil {
		return
	}
	c.mu.Lock()
	c.pm = pm
	c.mu.Unlock()
}

// Draw runs fn with exclusive access to the live buffer.
func (c *Canvas) Draw(fn func(pm *sketch.Pixmap)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.pm)
}

// Clear fills the canvas with its background color.
func (c *Canvas) Clear() {
	c.Draw(func(pm *sketch.Pixmap) { pm.Clear(c.bg) })
}

// Color returns the current drawing color.
func (c *Canvas) Color() sketch.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.color
}

// SetColor sets the drawing color.
func (c *Canvas) SetColor(col sketch.RGBA) {
	c.mu.Lock()
	c.color = col
	c.mu.Unlock()
}

// Mode returns the current tool mode.
func (c *Canvas) Mode() sketch.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SetMode switches the tool. Invalid modes are ignored.
func (c *Canvas) SetMode(m sketch.Mode) {
	if !m.Valid() {
		return
	}
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
	sketch.Logger().Debug("canvas: mode", "mode", m.String())
}

// Sample returns the color under p. Fully transparent pixels read as white.
// Points outside the canvas return false.
func (c *Canvas) Sample(p sketch.Point) (sketch.RGBA, bool) {
	x, y := p.Pixel()
	pm := c.Pixmap()
	if x < 0 || y < 0 || x >= pm.Width() || y >= pm.Height() {
		return sketch.RGBA{}, false
	}
	col := pm.GetPixel(x, y)
	if col.A == 0 {
		return sketch.White, true
	}
	col.A = 1
	return col, true
}
