package wire

import (
	"fmt"
	"math"
)

// Site is a lattice coordinate. Z is always 0 on the square (2D) lattice.
type Site struct {
	X, Y, Z int
}

// Add returns the site translated by d.
func (s Site) Add(d Site) Site {
	return Site{X: s.X + d.X, Y: s.Y + d.Y, Z: s.Z + d.Z}
}

// Axis returns the coordinate along axis 0 (x), 1 (y) or 2 (z).
func (s Site) Axis(axis int) int {
	switch axis {
	case 0:
		return s.X
	case 1:
		return s.Y
	default:
		return s.Z
	}
}

// Pos returns the site as a float position, the lattice constant being 1.
func (s Site) Pos() [3]float64 {
	return [3]float64{float64(s.X), float64(s.Y), float64(s.Z)}
}

func (s Site) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.X, s.Y, s.Z)
}

// unit returns the basis vector for axis scaled by sign.
func unit(axis, sign int) Site {
	var s Site
	switch axis {
	case 0:
		s.X = sign
	case 1:
		s.Y = sign
	default:
		s.Z = sign
	}
	return s
}

// Lattice is a monatomic square (Dim 2) or cubic (Dim 3) lattice with lattice
// constant 1 and nearest-neighbour coupling T.
type Lattice struct {
	Dim int
	T   float64
}

// NewLattice returns a lattice of dimension dim with coupling t.
// Panics if dim is not 2 or 3.
func NewLattice(dim int, t float64) Lattice {
	if dim != 2 && dim != 3 {
		panic(fmt.Sprintf("NewLattice: unsupported dimension %d", dim))
	}
	return Lattice{Dim: dim, T: t}
}

// Basis returns the orthonormal basis vectors.
func (l Lattice) Basis() []Site {
	basis := make([]Site, l.Dim)
	for axis := 0; axis < l.Dim; axis++ {
		basis[axis] = unit(axis, 1)
	}
	return basis
}

// Coordination is the nearest-neighbour count: 4 on the square lattice,
// 6 on the cubic lattice.
func (l Lattice) Coordination() int {
	return 2 * l.Dim
}

// Onsite returns the diagonal energy of a site. It is the same for every site.
func (l Lattice) Onsite(Site) float64 {
	return float64(l.Coordination()) * l.T
}

// Hopping returns -T and true when a and b are nearest neighbours along a
// single basis axis, and 0, false for every other pair.
func (l Lattice) Hopping(a, b Site) (float64, bool) {
	dx, dy, dz := abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z)
	if l.Dim == 2 && dz != 0 {
		return 0, false
	}
	if dx+dy+dz != 1 {
		return 0, false
	}
	return -l.T, true
}

// Neighbors returns the 2·Dim nearest neighbours of s in axis order,
// the positive direction first.
func (l Lattice) Neighbors(s Site) []Site {
	out := make([]Site, 0, l.Coordination())
	for axis := 0; axis < l.Dim; axis++ {
		out = append(out, s.Add(unit(axis, 1)), s.Add(unit(axis, -1)))
	}
	return out
}

// StepToCoupling converts a discretization step into the coupling t = step⁻².
func StepToCoupling(step float64) float64 {
	return math.Pow(step, -2)
}

// CouplingToStep is the inverse of StepToCoupling: step = t^(-1/2).
func CouplingToStep(t float64) float64 {
	return math.Pow(t, -0.5)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
