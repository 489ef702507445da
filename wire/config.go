package wire

import (
	"fmt"
	"math"
	"strings"
)

// LeadSlot is a position in the canonical 8-flag lead order.
type LeadSlot int

const (
	StartTop LeadSlot = iota
	StartRight
	StartLeft
	StartBottom
	EndTop
	EndRight
	EndLeft
	EndBottom

	NumLeadSlots = 8
)

var slotNames = [NumLeadSlots]string{
	"start_top", "start_right", "start_left", "start_bottom",
	"end_top", "end_right", "end_left", "end_bottom",
}

func (s LeadSlot) String() string {
	if s < 0 || int(s) >= NumLeadSlots {
		return fmt.Sprintf("LeadSlot(%d)", int(s))
	}
	return slotNames[s]
}

// IsStart reports whether the slot sits at the start of the wire.
func (s LeadSlot) IsStart() bool {
	return s < EndTop
}

// SlotNames returns the data-file names of the eight slots in canonical order.
func SlotNames() []string {
	return append([]string(nil), slotNames[:]...)
}

// LeadFlags enables or disables a lead on each slot, in canonical order
// [start_top, start_right, start_left, start_bottom, end_top, end_right, end_left, end_bottom].
type LeadFlags [NumLeadSlots]bool

// AllLeads enables every slot.
func AllLeads() LeadFlags {
	return LeadFlags{true, true, true, true, true, true, true, true}
}

// InOutLeads derives the lead index tuples consumed by a Solver. Enabled start
// slots get consecutive indices from 0 as input leads; the counter continues
// over the enabled end slots, which become output leads.
func (f LeadFlags) InOutLeads() (in, out []int) {
	in, out = []int{}, []int{}
	next := 0
	for slot := StartTop; slot <= StartBottom; slot++ {
		if f[slot] {
			in = append(in, next)
			next++
		}
	}
	for slot := EndTop; slot <= EndBottom; slot++ {
		if f[slot] {
			out = append(out, next)
			next++
		}
	}
	return in, out
}

// Count returns the number of enabled slots on the start and end of the wire.
func (f LeadFlags) Count() (start, end int) {
	for slot, on := range f {
		if !on {
			continue
		}
		if LeadSlot(slot).IsStart() {
			start++
		} else {
			end++
		}
	}
	return start, end
}

// Variant names a cross-section shape.
type Variant string

const (
	// Rectangular is the 2D wire: a [0, wire_length) × [0, base) strip.
	Rectangular Variant = "rectangular"
	// Hexagonal is the 3D wire: a hexagon of side base extruded along y.
	Hexagonal Variant = "hexagonal"
)

// ParseVariant accepts the variant name case-insensitively; "2d" and "3d" are
// accepted as aliases.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rectangular", "2d":
		return Rectangular, nil
	case "hexagonal", "3d":
		return Hexagonal, nil
	}
	return "", fmt.Errorf("unknown wire variant %q; valid: rectangular, hexagonal", name)
}

// DefaultLeads returns the flags used when a spec does not set them.
func (v Variant) DefaultLeads() LeadFlags {
	if v == Rectangular {
		return LeadFlags{false, true, true, false, false, true, true, false}
	}
	return LeadFlags{true, true, true, false, true, true, true, false}
}

// Configuration describes one wire. Lengths are in lattice units.
type Configuration struct {
	Identifier        string
	Variant           Variant
	T                 float64 // coupling, step_length⁻²
	Base              int
	WireLength        int
	LeadLength        int
	Leads             LeadFlags
	JunctionSmoothing bool // 3D only: fill the gap between hexagon and lead footprints
}

// StepLength returns the discretization step implied by T.
func (c Configuration) StepLength() float64 {
	return CouplingToStep(c.T)
}

// Lattice returns the lattice the wire is built on.
func (c Configuration) Lattice() Lattice {
	return NewLattice(c.crossSection().dim(), c.T)
}

func (c Configuration) crossSection() crossSection {
	if cs, ok := crossSections[c.Variant]; ok {
		return cs
	}
	return nil
}

// Validate checks geometry and lead flags.
func (c Configuration) Validate() error {
	cs := c.crossSection()
	if cs == nil {
		return configErrorf("unknown variant %q", c.Variant)
	}
	if c.Identifier == "" {
		return configErrorf("identifier must not be empty")
	}
	if strings.ContainsAny(c.Identifier, " \t\n/") {
		return configErrorf("identifier %q must not contain whitespace or '/'", c.Identifier)
	}
	if math.IsNaN(c.T) || math.IsInf(c.T, 0) || c.T <= 0 {
		return configErrorf("t must be a finite positive number, got %v", c.T)
	}
	if c.Base <= 0 || c.WireLength <= 0 || c.LeadLength <= 0 {
		return configErrorf("lengths must be positive, got base=%d wire_length=%d lead_length=%d",
			c.Base, c.WireLength, c.LeadLength)
	}
	if c.LeadLength > c.WireLength {
		return configErrorf("lead_length %d exceeds wire_length %d", c.LeadLength, c.WireLength)
	}
	for slot, on := range c.Leads {
		if on && !cs.supports(LeadSlot(slot)) {
			return configErrorf("%s wire has no %s lead position", c.Variant, LeadSlot(slot))
		}
	}
	start, end := c.Leads.Count()
	if start == 0 || end == 0 {
		return configErrorf("at least one lead is required at each end, got %d at start and %d at end", start, end)
	}
	if c.JunctionSmoothing && c.Variant != Hexagonal {
		return configErrorf("junction smoothing requires the hexagonal variant")
	}
	return nil
}

// Parameters are the physical inputs of a wire, before discretization.
type Parameters struct {
	Identifier        string
	Variant           Variant
	StepLength        float64
	Base              float64
	WireLength        float64
	LeadLength        float64
	Leads             LeadFlags
	JunctionSmoothing bool
}

// NewConfiguration scales the physical lengths by 1/step_length, truncating
// to lattice units, sets t = step_length⁻² and validates the result.
func NewConfiguration(p Parameters) (Configuration, error) {
	if math.IsNaN(p.StepLength) || math.IsInf(p.StepLength, 0) || p.StepLength <= 0 {
		return Configuration{}, configErrorf("step_length must be a finite positive number, got %v", p.StepLength)
	}
	cfg := Configuration{
		Identifier:        p.Identifier,
		Variant:           p.Variant,
		T:                 StepToCoupling(p.StepLength),
		Base:              toLattice(p.Base, p.StepLength),
		WireLength:        toLattice(p.WireLength, p.StepLength),
		LeadLength:        toLattice(p.LeadLength, p.StepLength),
		Leads:             p.Leads,
		JunctionSmoothing: p.JunctionSmoothing,
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// toLattice truncates length/step. The epsilon absorbs float noise such as
// 3/0.1 = 29.999999999999996.
func toLattice(length, step float64) int {
	return int(math.Floor(length/step + 1e-9))
}
