// Package ballistic provides a wire.Solver for clean wires in the ballistic
// limit. Each lead is an ideal tight-binding waveguide whose unit cell has
// Hamiltonian H0 and inter-cell hopping -t, so its bands are λ_n − 2t·cos k
// for the eigenvalues λ_n of H0. At energy E a lead carries one propagating
// mode per band with |E − λ_n| < 2t.
//
// The total transmission from the input leads to the output leads is bounded
// by the smaller of the two mode counts; the solver distributes that bound
// over lead pairs in proportion to their mode counts. Scattering inside the
// wire body is ignored.
package ballistic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/garn-sim/garn/wire"
)

// Solver counts open lead modes. Lead band edges are cached per template,
// which is why a Solver must not be shared between goroutines.
type Solver struct {
	bands map[*wire.LeadTemplate][]float64
}

// New returns a Solver with an empty band cache.
func New() *Solver {
	return &Solver{bands: make(map[*wire.LeadTemplate][]float64)}
}

// ScatteringMatrix implements wire.Solver. energy is in units of t.
func (s *Solver) ScatteringMatrix(sys *wire.System, energy float64, inLeads, outLeads []int) (wire.TransmissionMatrix, error) {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return nil, fmt.Errorf("energy must be finite, got %v", energy)
	}
	leads := sys.Leads()
	t := sys.Lattice().T
	modes := make(map[int]int, len(inLeads)+len(outLeads))
	for _, idx := range append(append([]int{}, inLeads...), outLeads...) {
		if idx < 0 || idx >= len(leads) {
			return nil, fmt.Errorf("lead index %d out of range [0, %d)", idx, len(leads))
		}
		if _, ok := modes[idx]; ok {
			continue
		}
		bands, err := s.cellBands(leads[idx].Template)
		if err != nil {
			return nil, err
		}
		modes[idx] = OpenModes(bands, energy*t, t)
	}
	return newMatrix(modes, inLeads, outLeads), nil
}

// Modes returns the number of propagating modes of lead idx at energy
// (in units of t).
func (s *Solver) Modes(sys *wire.System, idx int, energy float64) (int, error) {
	leads := sys.Leads()
	if idx < 0 || idx >= len(leads) {
		return 0, fmt.Errorf("lead index %d out of range [0, %d)", idx, len(leads))
	}
	bands, err := s.cellBands(leads[idx].Template)
	if err != nil {
		return 0, err
	}
	t := sys.Lattice().T
	return OpenModes(bands, energy*t, t), nil
}

// OpenModes counts the bands λ with |e − λ| < 2t.
func OpenModes(bands []float64, e, t float64) int {
	n := 0
	for _, l := range bands {
		if math.Abs(e-l) < 2*t {
			n++
		}
	}
	return n
}

func (s *Solver) cellBands(lt *wire.LeadTemplate) ([]float64, error) {
	if bands, ok := s.bands[lt]; ok {
		return bands, nil
	}
	bands, err := CellEigenvalues(lt)
	if err != nil {
		return nil, err
	}
	s.bands[lt] = bands
	return bands, nil
}

// CellEigenvalues diagonalizes the unit-cell Hamiltonian of a lead template:
// onsite coordination·t on the diagonal, -t between neighbouring cell sites.
func CellEigenvalues(lt *wire.LeadTemplate) ([]float64, error) {
	n := len(lt.Footprint)
	if n == 0 {
		return nil, fmt.Errorf("lead template %v has an empty unit cell", lt.Key)
	}
	h := mat.NewSymDense(n, nil)
	for i, site := range lt.Footprint {
		h.SetSym(i, i, lt.Lattice.Onsite(site))
	}
	for _, p := range lt.CellHoppings() {
		v, _ := lt.Lattice.Hopping(lt.Footprint[p[0]], lt.Footprint[p[1]])
		h.SetSym(p[0], p[1], v)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(h, false); !ok {
		return nil, fmt.Errorf("eigen decomposition of lead template %v failed", lt.Key)
	}
	return eig.Values(nil), nil
}

type matrix struct {
	modes    map[int]int
	inModes  int
	outModes int
	bound    float64
}

func newMatrix(modes map[int]int, in, out []int) *matrix {
	m := &matrix{modes: modes}
	for _, i := range in {
		m.inModes += modes[i]
	}
	for _, j := range out {
		m.outModes += modes[j]
	}
	m.bound = float64(min(m.inModes, m.outModes))
	return m
}

// Transmission implements wire.TransmissionMatrix. Unknown leads transmit 0.
func (m *matrix) Transmission(to, from int) float64 {
	if m.inModes == 0 || m.outModes == 0 {
		return 0
	}
	return m.bound * float64(m.modes[from]) / float64(m.inModes) * float64(m.modes[to]) / float64(m.outModes)
}
