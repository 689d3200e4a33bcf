package canvas

import (
	"math"

	"github.com/gogpu/sketch"
)

// sdfAntialiasWidth is the smoothstep transition width in pixels.
const sdfAntialiasWidth = 0.7

// SDFPainter rasterizes a stroke as an anti-aliased capsule: every pixel
// center within Width/2 of the segment is covered, with a smooth edge.
// Pen strokes are composited source-over; eraser strokes remove alpha in
// proportion to coverage.
type SDFPainter struct{}

// Paint implements Painter.
func (SDFPainter) Paint(pm *sketch.Pixmap, s Stroke) {
	half := math.Max(s.Width/2, 0.5)
	pad := half + sdfAntialiasWidth

	x0 := max(int(math.Floor(math.Min(s.From.X, s.To.X)-pad)), 0)
	y0 := max(int(math.Floor(math.Min(s.From.Y, s.To.Y)-pad)), 0)
	x1 := min(int(math.Ceil(math.Max(s.From.X, s.To.X)+pad)), pm.Width()-1)
	y1 := min(int(math.Ceil(math.Max(s.From.Y, s.To.Y)+pad)), pm.Height()-1)

	data := pm.Data()
	stride := pm.Width() * 4
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := segmentDistance(float64(x)+0.5, float64(y)+0.5, s.From, s.To)
			cov := smoothstepCoverage(d - half)
			if cov == 0 {
				continue
			}
			px := data[y*stride+x*4 : y*stride+x*4+4 : y*stride+x*4+4]
			if s.Erase {
				erase(px, cov)
			} else {
				sourceOver(px, s.Color, cov)
			}
		}
	}
}

// segmentDistance returns the distance from (px, py) to the segment a-b.
func segmentDistance(px, py float64, a, b sketch.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = math.Max(0, math.Min(1, ((px-a.X)*dx+(py-a.Y)*dy)/lenSq))
	}
	return math.Hypot(px-(a.X+t*dx), py-(a.Y+t*dy))
}

// smoothstepCoverage converts a signed distance to coverage in [0, 1]
// using a Hermite smoothstep.
//
// sdf < -afwidth => 1.0 (fully inside)
// sdf > +afwidth => 0.0 (fully outside)
func smoothstepCoverage(sdf float64) float64 {
	if sdf >= sdfAntialiasWidth {
		return 0
	}
	if sdf <= -sdfAntialiasWidth {
		return 1
	}
	t := (sdf + sdfAntialiasWidth) / (2 * sdfAntialiasWidth)
	return 1 - (t * t * (3 - 2*t))
}

// sourceOver composites c at coverage cov onto a straight-alpha pixel.
func sourceOver(px []uint8, c sketch.RGBA, cov float64) {
	sa := c.A * cov
	da := float64(px[3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		return
	}
	mix := func(s float64, d uint8) uint8 {
		v := (s*sa + float64(d)/255*da*(1-sa)) / oa
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	px[0] = mix(c.R, px[0])
	px[1] = mix(c.G, px[1])
	px[2] = mix(c.B, px[2])
	px[3] = uint8(math.Round(oa * 255))
}

func erase(px []uint8, cov float64) {
	px[3] = uint8(math.Round(float64(px[3]) * (1 - cov)))
}
