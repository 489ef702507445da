package ballistic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garn-sim/garn/wire"
	"github.com/garn-sim/garn/wire/internal/testutil"
)

func build(t *testing.T, cfg wire.Configuration) *wire.System {
	t.Helper()
	sys, err := wire.Build(cfg)
	require.NoError(t, err)
	return sys
}

func TestCellEigenvalues_ChainMatchesAnalyticBands(t *testing.T) {
	// GIVEN a 2D lead whose unit cell is a 5-site chain
	sys := build(t, testutil.Rectangular2D(t, "chain"))
	lt := sys.Leads()[0].Template

	// WHEN the cell Hamiltonian is diagonalized
	got, err := CellEigenvalues(lt)

	// THEN the eigenvalues are 4t - 2t·cos(kπ/6), k = 1..5, ascending
	require.NoError(t, err)
	require.Len(t, got, 5)
	for k := 1; k <= 5; k++ {
		want := 4 - 2*math.Cos(float64(k)*math.Pi/6)
		assert.InDelta(t, want, got[k-1], 1e-9, "band %d", k)
	}
}

func TestCellEigenvalues_CountEqualsFootprint(t *testing.T) {
	sys := build(t, testutil.Hexagonal3D(t, "cells", wire.Hexagonal.DefaultLeads()))
	for _, lead := range sys.Leads() {
		got, err := CellEigenvalues(lead.Template)
		require.NoError(t, err)
		assert.Len(t, got, len(lead.Template.Footprint), "lead %s", lead.Slot)
	}
}

func TestOpenModes(t *testing.T) {
	bands := []float64{1, 3, 5}
	tests := []struct {
		e    float64
		want int
	}{
		{-1, 0},
		{-0.5, 1},
		{2, 2},
		{3, 1},
		{4, 2},
		{7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OpenModes(bands, tt.e, 1), "e=%v", tt.e)
	}
}

func TestModes_2DLeadOpensFirstBandAboveThreshold(t *testing.T) {
	sys := build(t, testutil.Rectangular2D(t, "threshold"))
	s := New()

	// Lowest band bottom is 4 - 2cos(π/6) - 2 ≈ 0.268
	below, err := s.Modes(sys, 0, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 0, below)

	above, err := s.Modes(sys, 0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1, above)
}

func TestScatteringMatrix_3DIsClosedAtZeroEnergy(t *testing.T) {
	sys := build(t, testutil.Hexagonal3D(t, "closed", wire.Hexagonal.DefaultLeads()))
	in, out := sys.InOutLeads()

	m, err := New().ScatteringMatrix(sys, 0, in, out)

	require.NoError(t, err)
	for _, i := range in {
		for _, j := range out {
			assert.Zero(t, m.Transmission(j, i))
		}
	}
}

func TestScatteringMatrix_TotalEqualsSmallerModeCount(t *testing.T) {
	// GIVEN a 2D wire with two leads at each end, one open mode per lead
	sys := build(t, testutil.Rectangular2D(t, "total"))
	in, out := sys.InOutLeads()
	require.Equal(t, []int{0, 1}, in)
	require.Equal(t, []int{2, 3}, out)

	// WHEN the matrix is summed over input/output pairs
	m, err := New().ScatteringMatrix(sys, 0.5, in, out)
	require.NoError(t, err)
	total := 0.0
	for _, i := range in {
		for _, j := range out {
			assert.InDelta(t, 0.5, m.Transmission(j, i), 1e-12)
			total += m.Transmission(j, i)
		}
	}

	// THEN the total is min(2, 2)
	assert.InDelta(t, 2.0, total, 1e-12)
}

func TestScatteringMatrix_AsymmetricLeads(t *testing.T) {
	// GIVEN one lead at the start and two at the far end
	cfg, err := wire.NewConfiguration(wire.Parameters{
		Identifier: "asym", Variant: wire.Rectangular, StepLength: 1,
		Base: 3, WireLength: 30, LeadLength: 5,
		Leads: wire.LeadFlags{false, true, false, false, false, true, true, false},
	})
	require.NoError(t, err)
	sys := build(t, cfg)
	in, out := sys.InOutLeads()

	m, err := New().ScatteringMatrix(sys, 0.5, in, out)
	require.NoError(t, err)

	total := 0.0
	for _, i := range in {
		for _, j := range out {
			total += m.Transmission(j, i)
		}
	}
	assert.InDelta(t, 1.0, total, 1e-12)
}

func TestScatteringMatrix_LeadIndexOutOfRange(t *testing.T) {
	sys := build(t, testutil.Rectangular2D(t, "range"))

	_, err := New().ScatteringMatrix(sys, 0.5, []int{0}, []int{4})
	assert.Error(t, err)

	_, err = New().Modes(sys, -1, 0.5)
	assert.Error(t, err)
}

func TestScatteringMatrix_NonFiniteEnergy(t *testing.T) {
	sys := build(t, testutil.Rectangular2D(t, "nan"))
	_, err := New().ScatteringMatrix(sys, math.NaN(), []int{0}, []int{2})
	assert.Error(t, err)
}

func TestSolver_CachesBandsPerTemplate(t *testing.T) {
	// GIVEN a 2D wire whose four leads share two templates
	sys := build(t, testutil.Rectangular2D(t, "cache"))
	in, out := sys.InOutLeads()
	s := New()

	// WHEN a sweep calls the solver repeatedly
	w := &wire.Wire{Config: sys.Config(), System: sys, Record: wire.NewTransmissionRecord()}
	_, err := wire.NewScanner(s, &testutil.MemorySink{}, nil).
		Sweep(w, wire.EnergyRange{Start: 0, End: 1, Points: 10})
	require.NoError(t, err)

	// THEN each template was diagonalized once
	assert.Len(t, s.bands, 2)
	assert.Len(t, in, 2)
	assert.Len(t, out, 2)
}

func TestSolver_SweepIsStepFunctionOfEnergy(t *testing.T) {
	w, err := wire.New(testutil.Rectangular2D(t, "steps"))
	require.NoError(t, err)

	_, err = wire.NewScanner(New(), &testutil.MemorySink{}, nil).
		Sweep(w, wire.EnergyRange{Start: 0, End: 1, Points: 10})
	require.NoError(t, err)

	// Below ≈0.268 no mode is open; between 0.3 and 1.0 exactly one per lead.
	want := []float64{0, 0, 0, 2, 2, 2, 2, 2, 2, 2}
	got := w.Transmissions()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "sample %d", i)
	}
}
