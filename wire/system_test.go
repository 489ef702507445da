package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garn-sim/garn/wire"
	"github.com/garn-sim/garn/wire/internal/testutil"
)

func leadBySlot(t *testing.T, sys *wire.System, slot wire.LeadSlot) wire.Lead {
	t.Helper()
	for _, l := range sys.Leads() {
		if l.Slot == slot {
			return l
		}
	}
	t.Fatalf("no lead on slot %s", slot)
	return wire.Lead{}
}

func TestBuild_Rectangular_SitesHoppingsAndLeads(t *testing.T) {
	// GIVEN the reference 2D wire: 3 × 30 sites, side leads of length 5
	sys, err := wire.Build(testutil.Rectangular2D(t, "rect"))
	require.NoError(t, err)

	// THEN every rectangle site is present with onsite 4t
	assert.Equal(t, 90, sys.NumSites())
	for i := 0; i < sys.NumSites(); i++ {
		assert.Equal(t, 4.0, sys.Onsite(i))
	}
	// AND hoppings join only axis neighbours: 29·3 along x, 30·2 along y
	hops := sys.Hoppings()
	assert.Len(t, hops, 147)
	sites := sys.Sites()
	for _, h := range hops {
		assert.Equal(t, -1.0, h.Value)
		_, ok := sys.Lattice().Hopping(sites[h.From], sites[h.To])
		assert.True(t, ok, "hopping %v-%v is not nearest neighbour", sites[h.From], sites[h.To])
	}

	// AND four leads, in canonical slot order
	require.Equal(t, 4, sys.NumLeads())
	slots := []wire.LeadSlot{}
	for _, l := range sys.Leads() {
		slots = append(slots, l.Slot)
	}
	assert.Equal(t, []wire.LeadSlot{wire.StartRight, wire.StartLeft, wire.EndRight, wire.EndLeft}, slots)

	left := leadBySlot(t, sys, wire.StartLeft)
	assert.Equal(t, wire.Forward, left.Orientation)
	assert.Equal(t, wire.Site{Y: 1}, left.Direction)
	assert.Equal(t, wire.Site{X: 0, Y: 3}, left.Cell[0])
	assert.Len(t, left.Interface, 5)

	right := leadBySlot(t, sys, wire.StartRight)
	assert.Equal(t, wire.Reversed, right.Orientation)
	assert.Equal(t, wire.Site{Y: -1}, right.Direction)
	assert.Equal(t, wire.Site{X: 0, Y: -1}, right.Cell[0])
	assert.Same(t, left.Template, right.Template, "both orientations share one template")

	endLeft := leadBySlot(t, sys, wire.EndLeft)
	assert.Equal(t, wire.Site{X: 25, Y: 3}, endLeft.Cell[0])
	assert.Equal(t, wire.Site{X: 29, Y: 3}, endLeft.Cell[len(endLeft.Cell)-1])
}

func TestBuild_Hexagonal_CrossSectionAndLeadInterfaces(t *testing.T) {
	// GIVEN the reference 3D wire with all eight leads
	sys, err := wire.Build(testutil.Hexagonal3D(t, "hex", wire.AllLeads()))
	require.NoError(t, err)

	// THEN each y slice holds 5+5+3+5+3 = 21 hexagon sites
	assert.Equal(t, 21*30, sys.NumSites())
	// AND 32 in-slice hoppings per slice plus 21 per slice pair along y
	assert.Len(t, sys.Hoppings(), 32*30+21*29)
	for i := 0; i < sys.NumSites(); i++ {
		assert.Equal(t, 6.0, sys.Onsite(i))
	}

	top := leadBySlot(t, sys, wire.StartTop)
	assert.Equal(t, wire.Site{Z: 1}, top.Direction)
	assert.Len(t, top.Cell, 25)
	for _, c := range top.Cell {
		assert.Equal(t, 3, c.Z)
	}
	assert.Len(t, top.Interface, 15, "only x in [-1, 1] of the footprint touches the hexagon top")

	bottom := leadBySlot(t, sys, wire.StartBottom)
	assert.Equal(t, wire.Site{Z: -1}, bottom.Direction)
	assert.Equal(t, -3, bottom.Cell[0].Z)
	assert.Same(t, top.Template, bottom.Template)

	right := leadBySlot(t, sys, wire.EndRight)
	assert.Equal(t, wire.Site{X: 1}, right.Direction)
	assert.Equal(t, 3, right.Cell[0].X)
	assert.Equal(t, 25, right.Cell[0].Y)
	assert.Len(t, right.Interface, 15)

	left := leadBySlot(t, sys, wire.EndLeft)
	assert.Equal(t, -3, left.Cell[0].X)
}

func TestBuild_AllLeads_InOutLeadIndices(t *testing.T) {
	sys, err := wire.Build(testutil.Hexagonal3D(t, "hex", wire.AllLeads()))
	require.NoError(t, err)

	in, out := sys.InOutLeads()
	assert.Equal(t, []int{0, 1, 2, 3}, in)
	assert.Equal(t, []int{4, 5, 6, 7}, out)
	for i, l := range sys.Leads() {
		assert.Equal(t, wire.LeadSlot(i), l.Slot, "lead index %d", i)
	}
}

func TestBuild_JunctionSmoothing_FillsCornersUnderLeads(t *testing.T) {
	cfg := testutil.Hexagonal3D(t, "smooth", wire.AllLeads())
	cfg.JunctionSmoothing = true

	sys, err := wire.Build(cfg)
	require.NoError(t, err)

	// Four corner columns (±2, ±2) are added in the 10 slices under leads.
	assert.Equal(t, 21*30+4*10, sys.NumSites())
	_, ok := sys.SiteIndex(wire.Site{X: 2, Y: 0, Z: 2})
	assert.True(t, ok)
	_, ok = sys.SiteIndex(wire.Site{X: 2, Y: 10, Z: 2})
	assert.False(t, ok, "no smoothing away from the lead footprints")

	top := leadBySlot(t, sys, wire.StartTop)
	assert.Len(t, top.Interface, 25, "whole footprint now touches the wire")
}

func TestBuild_JunctionSmoothingDisabledByDefault(t *testing.T) {
	cfg := testutil.Hexagonal3D(t, "plain", wire.AllLeads())
	assert.False(t, cfg.JunctionSmoothing)
	sys, err := wire.Build(cfg)
	require.NoError(t, err)
	_, ok := sys.SiteIndex(wire.Site{X: 2, Y: 0, Z: 2})
	assert.False(t, ok)
}

func TestAssembler_FinalizeTwice_ReturnsInvalidState(t *testing.T) {
	a, err := wire.NewAssembler(testutil.Rectangular2D(t, "twice"))
	require.NoError(t, err)
	require.NoError(t, a.FillScatteringRegion())
	require.NoError(t, a.AttachLeads(wire.Rectangular.DefaultLeads()))

	_, err = a.Finalize()
	require.NoError(t, err)

	_, err = a.Finalize()
	var stateErr *wire.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "Finalize", stateErr.Op)
}

func TestAssembler_MutationAfterFinalize_ReturnsInvalidState(t *testing.T) {
	a, err := wire.NewAssembler(testutil.Rectangular2D(t, "frozen"))
	require.NoError(t, err)
	require.NoError(t, a.FillScatteringRegion())
	require.NoError(t, a.AttachLead(wire.StartLeft))
	require.NoError(t, a.AttachLead(wire.EndLeft))
	sys, err := a.Finalize()
	require.NoError(t, err)

	var stateErr *wire.InvalidStateError
	assert.ErrorAs(t, a.AddSite(wire.Site{X: 100}, 4), &stateErr)
	assert.ErrorAs(t, a.AddHopping(wire.Site{}, wire.Site{X: 1}, -1), &stateErr)
	assert.ErrorAs(t, a.AttachLead(wire.StartRight), &stateErr)
	assert.ErrorAs(t, a.FillScatteringRegion(), &stateErr)

	// The finalized system is unaffected.
	assert.Equal(t, 90, sys.NumSites())
	assert.Equal(t, 2, sys.NumLeads())
}

func TestAssembler_SlotCanBeFilledOnce(t *testing.T) {
	a, err := wire.NewAssembler(testutil.Hexagonal3D(t, "once", wire.AllLeads()))
	require.NoError(t, err)
	require.NoError(t, a.AttachLead(wire.StartTop))
	assert.ErrorIs(t, a.AttachLead(wire.StartTop), wire.ErrInvalidConfig)
}

func TestAssembler_UnsupportedSlotOn2D(t *testing.T) {
	a, err := wire.NewAssembler(testutil.Rectangular2D(t, "flat"))
	require.NoError(t, err)
	assert.ErrorIs(t, a.AttachLead(wire.StartTop), wire.ErrInvalidConfig)
	assert.ErrorIs(t, a.AttachLead(wire.EndBottom), wire.ErrInvalidConfig)
}

func TestAssembler_TemplatesBuiltOncePerAxisAndEnd(t *testing.T) {
	a, err := wire.NewAssembler(testutil.Hexagonal3D(t, "cache", wire.AllLeads()))
	require.NoError(t, err)
	require.NoError(t, a.FillScatteringRegion())
	require.NoError(t, a.AttachLeads(wire.AllLeads()))

	// 8 slots resolve to vertical/lateral × start/end
	assert.Equal(t, 4, a.LeadBuilder().Built())
}

func TestAssembler_HoppingNeedsExistingSites(t *testing.T) {
	a, err := wire.NewAssembler(testutil.Rectangular2D(t, "manual"))
	require.NoError(t, err)
	require.NoError(t, a.AddSite(wire.Site{}, 4))
	assert.ErrorIs(t, a.AddHopping(wire.Site{}, wire.Site{X: 1}, -1), wire.ErrInvalidConfig)
	require.NoError(t, a.AddSite(wire.Site{X: 1}, 4))
	assert.NoError(t, a.AddHopping(wire.Site{}, wire.Site{X: 1}, -1))
}

func TestAssembler_LeadMustTouchScatteringRegion(t *testing.T) {
	// GIVEN a hand-built region far from the end-lead footprint
	a, err := wire.NewAssembler(testutil.Rectangular2D(t, "detached"))
	require.NoError(t, err)
	require.NoError(t, a.AddSite(wire.Site{}, 4))
	require.NoError(t, a.AttachLead(wire.EndLeft))

	// WHEN finalizing
	_, err = a.Finalize()

	// THEN the detached lead is a configuration error
	assert.ErrorIs(t, err, wire.ErrInvalidConfig)
}

func TestAssembler_FreshStatePerInstance(t *testing.T) {
	a1, err := wire.NewAssembler(testutil.Rectangular2D(t, "a1"))
	require.NoError(t, err)
	a2, err := wire.NewAssembler(testutil.Rectangular2D(t, "a2"))
	require.NoError(t, err)

	require.NoError(t, a1.FillScatteringRegion())
	assert.Equal(t, 90, a1.NumSites())
	assert.Equal(t, 0, a2.NumSites())
}

func TestNew_WiresOwnTheirRecords(t *testing.T) {
	w1, err := wire.New(testutil.Rectangular2D(t, "w1"))
	require.NoError(t, err)
	w2, err := wire.New(testutil.Rectangular2D(t, "w2"))
	require.NoError(t, err)

	w1.Record.Append(wire.Sample{Energy: 0.1, Transmission: 1})
	assert.Equal(t, 1, w1.Record.Len())
	assert.Equal(t, 0, w2.Record.Len())
	assert.Equal(t, []float64{0.1}, w1.Energies())
	assert.Equal(t, []float64{1}, w1.Transmissions())
}
