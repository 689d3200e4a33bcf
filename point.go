package sketch

// Point is a pointer position in canvas pixel coordinates
// (origin top-left, X right, Y down).
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Pixel returns the integer pixel containing p.
func (p Point) Pixel() (x, y int) {
	return floorInt(p.X), floorInt(p.Y)
}

func floorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
