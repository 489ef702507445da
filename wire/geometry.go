package wire

import "math"

var sqrt3 = math.Sqrt(3)

// Hexagon reports whether (x, y) lies inside a regular hexagon of side b
// centred at the origin, with two edges parallel to the x axis.
// Top and right edges are exclusive, bottom and left edges inclusive.
func Hexagon(x, y, b float64) bool {
	top := y < sqrt3*b/2
	topRight := y < sqrt3*(b-x)
	bottomRight := y >= sqrt3*(x-b)
	bottom := y >= -sqrt3*b/2
	bottomLeft := y >= -sqrt3*(x+b)
	topLeft := y < sqrt3*(x+b)
	return top && topRight && bottomRight && bottom && bottomLeft && topLeft
}

// Rectangle reports whether (x, y) lies in [0, length) × [0, base).
func Rectangle(x, y, base, length float64) bool {
	return y < base && x < length && y >= 0 && x >= 0
}

// JunctionBox reports whether pos lies inside the axis-aligned box centred at
// center with full extents (lx, ly, lz). Faces are inclusive.
func JunctionBox(pos, center [3]float64, lx, ly, lz float64) bool {
	return math.Abs(pos[0]-center[0]) <= lx/2 &&
		math.Abs(pos[1]-center[1]) <= ly/2 &&
		math.Abs(pos[2]-center[2]) <= lz/2
}
