package canvas

import "github.com/gogpu/sketch"

// Stroke describes one pen or eraser segment.
type Stroke struct {
	From, To sketch.Point
	Color    sketch.RGBA
	Width    float64
	// Erase clears pixels along the segment instead of painting Color.
	Erase bool
}

// Pen and eraser line widths.
const (
	PenWidth    = 1
	EraserWidth = 10
)

// Painter rasterizes strokes onto a pixel buffer. It is called with
// exclusive access to pm.
type Painter interface {
	Paint(pm *sketch.Pixmap, s Stroke)
}

// PainterFunc adapts a function to the Painter interface.
type PainterFunc func(pm *sketch.Pixmap, s Stroke)

// Paint implements Painter.
func (f PainterFunc) Paint(pm *sketch.Pixmap, s Stroke) { f(pm, s) }

// tool is the per-mode pointer behavior.
type tool interface {
	// down starts a gesture and reports whether it draws.
	down(c *Canvas, p sketch.Point) bool
	move(c *Canvas, from, to sketch.Point, active bool)
	up(c *Canvas, p sketch.Point)
}

type penTool struct {
	painter Painter
}

func (penTool) down(*Canvas, sketch.Point) bool { return true }

func (t penTool) move(c *Canvas, from, to sketch.Point, active bool) {
	if !active {
		return
	}
	s := Stroke{From: from, To: to, Color: c.Color(), Width: PenWidth}
	c.Draw(func(pm *sketch.Pixmap) { t.painter.Paint(pm, s) })
}

func (penTool) up(*Canvas, sketch.Point) {}

type eraserTool struct {
	painter Painter
}

func (eraserTool) down(*Canvas, sketch.Point) bool { return true }

func (t eraserTool) move(c *Canvas, from, to sketch.Point, active bool) {
	if !active {
		return
	}
	s := Stroke{From: from, To: to, Width: EraserWidth, Erase: true}
	c.Draw(func(pm *sketch.Pixmap) { t.painter.Paint(pm, s) })
}

func (eraserTool) up(*Canvas, sketch.Point) {}

// pipetteTool picks the color under the pointer while it moves and returns
// to the pen when released.
type pipetteTool struct{}

func (pipetteTool) down(*Canvas, sketch.Point) bool { return false }

func (pipetteTool) move(c *Canvas, _, to sketch.Point, _ bool) {
	if col, ok := c.Sample(to); ok {
		c.SetColor(col)
	}
}

func (pipetteTool) up(c *Canvas, _ sketch.Point) {
	c.SetMode(sketch.ModePen)
}

// shapeTool covers circle and rectangle. Shape geometry is drawn elsewhere;
// the gesture only marks the canvas as edited.
type shapeTool struct{}

func (shapeTool) down(*Canvas, sketch.Point) bool         { return true }
func (shapeTool) move(*Canvas, sketch.Point, sketch.Point, bool) {}
func (shapeTool) up(*Canvas, sketch.Point)                 {}
