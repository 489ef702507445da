package wire

import "fmt"

// WireEnd selects the end of the wire a lead footprint is anchored at.
type WireEnd int

const (
	NearEnd WireEnd = iota // footprint starts at longitudinal coordinate 0
	FarEnd                 // footprint ends at wire_length
)

func (e WireEnd) String() string {
	if e == FarEnd {
		return "end"
	}
	return "start"
}

// Orientation selects which way a lead template's periodic extension points.
type Orientation int

const (
	Forward Orientation = iota
	Reversed
)

func (o Orientation) String() string {
	if o == Reversed {
		return "reversed"
	}
	return "forward"
}

// Sign returns +1 for Forward and -1 for Reversed.
func (o Orientation) Sign() int {
	if o == Reversed {
		return -1
	}
	return 1
}

// TemplateKey identifies a lead template: the lattice axis its translational
// symmetry runs along and the wire end its footprint is anchored at.
type TemplateKey struct {
	Axis int
	End  WireEnd
}

func (k TemplateKey) String() string {
	return fmt.Sprintf("axis%d/%s", k.Axis, k.End)
}

// LeadTemplate is a semi-infinite periodic lead: a unit-cell footprint
// repeated along Symmetry. Footprint coordinates along the symmetry axis are
// zero; the cell is placed against the scattering region when attached.
// Templates are immutable once built.
type LeadTemplate struct {
	Key       TemplateKey
	Symmetry  Site // forward translation vector
	Footprint []Site
	Lattice   Lattice
}

// Direction returns the translation vector for the given orientation.
func (lt *LeadTemplate) Direction(o Orientation) Site {
	return unit(lt.Key.Axis, o.Sign())
}

// CellHoppings returns the nearest-neighbour pairs inside one unit cell as
// index pairs into Footprint.
func (lt *LeadTemplate) CellHoppings() [][2]int {
	index := make(map[Site]int, len(lt.Footprint))
	for i, s := range lt.Footprint {
		index[s] = i
	}
	var pairs [][2]int
	for i, s := range lt.Footprint {
		for axis := 0; axis < lt.Lattice.Dim; axis++ {
			if j, ok := index[s.Add(unit(axis, 1))]; ok {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// LeadBuilder builds lead templates for one configuration, at most once per
// TemplateKey, and resolves lead slots to (template, orientation) pairs.
type LeadBuilder struct {
	cfg       Configuration
	cs        crossSection
	lattice   Lattice
	templates map[TemplateKey]*LeadTemplate
}

// NewLeadBuilder returns a builder for cfg. The configuration is validated.
func NewLeadBuilder(cfg Configuration) (*LeadBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LeadBuilder{
		cfg:       cfg,
		cs:        cfg.crossSection(),
		lattice:   cfg.Lattice(),
		templates: make(map[TemplateKey]*LeadTemplate),
	}, nil
}

// Template returns the template for key, building it on first use.
func (b *LeadBuilder) Template(key TemplateKey) *LeadTemplate {
	if lt, ok := b.templates[key]; ok {
		return lt
	}
	lt := &LeadTemplate{
		Key:       key,
		Symmetry:  unit(key.Axis, 1),
		Footprint: b.cs.footprint(b.cfg, key),
		Lattice:   b.lattice,
	}
	b.templates[key] = lt
	return lt
}

// Built returns the number of distinct templates built so far.
func (b *LeadBuilder) Built() int {
	return len(b.templates)
}

// ForSlot resolves a slot to its template and orientation.
func (b *LeadBuilder) ForSlot(slot LeadSlot) (*LeadTemplate, Orientation, error) {
	if slot < 0 || int(slot) >= NumLeadSlots {
		return nil, Forward, configErrorf("lead slot %d out of range", int(slot))
	}
	if !b.cs.supports(slot) {
		return nil, Forward, configErrorf("%s wire has no %s lead position", b.cfg.Variant, slot)
	}
	key, o := b.cs.binding(slot)
	return b.Template(key), o, nil
}

// Lead is a template attached to a finalized System on one slot.
type Lead struct {
	Slot        LeadSlot
	Template    *LeadTemplate
	Orientation Orientation
	Direction   Site
	// Cell is the first unit cell, one lattice step outside the scattering region.
	Cell []Site
	// Interface holds the hoppings between Cell and the scattering region.
	Interface []InterfaceHopping
}

// InterfaceHopping couples Cell[CellIndex] to scattering site SiteIndex.
type InterfaceHopping struct {
	CellIndex int
	SiteIndex int
	Value     float64
}
