package history

import (
	"github.com/gogpu/sketch"
)

// testCanvas is an in-memory Canvas. If block is non-nil, Replace signals
// entered and waits on block before applying.
type testCanvas struct {
	pm    *sketch.Pixmap
	color sketch.RGBA
	mode  sketch.Mode

	replaced int
	entered  chan struct{}
	block    chan struct{}
}

func newTestCanvas(w, h int) *testCanvas {
	return &testCanvas{pm: sketch.NewPixmap(w, h), color: sketch.Black}
}

func (c *testCanvas) Pixmap() *sketch.Pixmap { return c.pm }
func (c *testCanvas) Color() sketch.RGBA     { return c.color }
func (c *testCanvas) Mode() sketch.Mode      { return c.mode }

func (c *testCanvas) Replace(pm *sketch.Pixmap) {
	if c.block != nil {
		c.entered <- struct{}{}
		<-c.block
	}
	c.pm = pm
	c.replaced++
}

// paint fills the canvas with a color derived from n so every state is
// distinguishable.
func (c *testCanvas) paint(n int) {
	c.pm.Clear(sketch.RGBA8(uint8(n*40), uint8(255-n*30), uint8(n*7), 255))
	c.pm.SetPixel8(0, 0, uint8(n), 0, 0, uint8(n*10))
}
