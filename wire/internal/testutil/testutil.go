// Package testutil provides shared test infrastructure for the wire packages:
// deterministic solver stubs, an in-memory sample sink and float helpers.
package testutil

import (
	"errors"
	"math"
	"testing"

	"github.com/garn-sim/garn/wire"
)

// PairMatrix returns Value(to, from) for every lead pair.
type PairMatrix func(to, from int) float64

// Transmission implements wire.TransmissionMatrix.
func (m PairMatrix) Transmission(to, from int) float64 { return m(to, from) }

// LinearSolver is a deterministic stub: the transmission from lead i to lead j
// at energy e is Slope·e + 0.01·(i+1)·(j+1). It records every energy it sees.
type LinearSolver struct {
	Slope    float64
	Energies []float64
	Calls    int
}

// ScatteringMatrix implements wire.Solver.
func (s *LinearSolver) ScatteringMatrix(_ *wire.System, energy float64, _, _ []int) (wire.TransmissionMatrix, error) {
	s.Calls++
	s.Energies = append(s.Energies, energy)
	slope := s.Slope
	return PairMatrix(func(to, from int) float64 {
		return slope*energy + 0.01*float64((from+1)*(to+1))
	}), nil
}

// ErrSolver is returned by FailingSolver.
var ErrSolver = errors.New("solver failure")

// FailingSolver fails on call number FailAt (1-based) and returns zero
// transmission before that.
type FailingSolver struct {
	FailAt int
	Calls  int
}

// ScatteringMatrix implements wire.Solver.
func (s *FailingSolver) ScatteringMatrix(*wire.System, float64, []int, []int) (wire.TransmissionMatrix, error) {
	s.Calls++
	if s.Calls >= s.FailAt {
		return nil, ErrSolver
	}
	return PairMatrix(func(int, int) float64 { return 0 }), nil
}

// MemorySink is an in-memory wire.SampleSink.
type MemorySink struct {
	Begins  int
	Samples []wire.Sample
}

// Begin implements wire.SampleSink.
func (m *MemorySink) Begin(wire.Configuration) error {
	m.Begins++
	m.Samples = nil
	return nil
}

// Append implements wire.SampleSink.
func (m *MemorySink) Append(_ wire.Configuration, s wire.Sample) error {
	m.Samples = append(m.Samples, s)
	return nil
}

// Hexagonal3D returns the reference 3D configuration: base 3, length 30,
// lead length 5, step 1, with the given lead flags.
func Hexagonal3D(t *testing.T, id string, leads wire.LeadFlags) wire.Configuration {
	t.Helper()
	cfg, err := wire.NewConfiguration(wire.Parameters{
		Identifier: id, Variant: wire.Hexagonal, StepLength: 1,
		Base: 3, WireLength: 30, LeadLength: 5, Leads: leads,
	})
	if err != nil {
		t.Fatalf("building 3D configuration: %v", err)
	}
	return cfg
}

// Rectangular2D returns the reference 2D configuration with all four side
// leads enabled.
func Rectangular2D(t *testing.T, id string) wire.Configuration {
	t.Helper()
	cfg, err := wire.NewConfiguration(wire.Parameters{
		Identifier: id, Variant: wire.Rectangular, StepLength: 1,
		Base: 3, WireLength: 30, LeadLength: 5, Leads: wire.Rectangular.DefaultLeads(),
	})
	if err != nil {
		t.Fatalf("building 2D configuration: %v", err)
	}
	return cfg
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
