package wire

import (
	"cmp"
	"slices"

	"github.com/sirupsen/logrus"
)

// Hopping couples scattering sites From and To (indices into System.Sites).
type Hopping struct {
	From, To int
	Value    float64
}

type siteKey [2]Site

func orderedPair(a, b Site) siteKey {
	if compareSites(a, b) > 0 {
		a, b = b, a
	}
	return siteKey{a, b}
}

func compareSites(a, b Site) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

type pendingLead struct {
	template    *LeadTemplate
	orientation Orientation
}

// Assembler is a System in the Building state. It is owned by the build that
// created it; once Finalize succeeds every mutating call fails with
// *InvalidStateError.
type Assembler struct {
	cfg       Configuration
	cs        crossSection
	lattice   Lattice
	builder   *LeadBuilder
	sites     map[Site]float64
	hoppings  map[siteKey]float64
	leads     [NumLeadSlots]*pendingLead
	finalized bool
}

// NewAssembler validates cfg and returns an empty assembler.
func NewAssembler(cfg Configuration) (*Assembler, error) {
	builder, err := NewLeadBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		cfg:      cfg,
		cs:       cfg.crossSection(),
		lattice:  cfg.Lattice(),
		builder:  builder,
		sites:    make(map[Site]float64),
		hoppings: make(map[siteKey]float64),
	}, nil
}

// LeadBuilder exposes the assembler's template builder.
func (a *Assembler) LeadBuilder() *LeadBuilder {
	return a.builder
}

// NumSites returns the number of scattering sites added so far.
func (a *Assembler) NumSites() int {
	return len(a.sites)
}

// AddSite adds or overwrites a scattering site.
func (a *Assembler) AddSite(s Site, onsite float64) error {
	if a.finalized {
		return &InvalidStateError{Op: "AddSite"}
	}
	a.sites[s] = onsite
	return nil
}

// AddHopping couples two existing sites.
func (a *Assembler) AddHopping(from, to Site, value float64) error {
	if a.finalized {
		return &InvalidStateError{Op: "AddHopping"}
	}
	if from == to {
		return configErrorf("hopping from %v to itself", from)
	}
	for _, s := range []Site{from, to} {
		if _, ok := a.sites[s]; !ok {
			return configErrorf("hopping endpoint %v is not a scattering site", s)
		}
	}
	a.hoppings[orderedPair(from, to)] = value
	return nil
}

// FillScatteringRegion adds every domain site accepted by the cross-section
// predicate (and, when enabled, by a junction box of an enabled lead), then
// couples all included nearest neighbours with -t.
func (a *Assembler) FillScatteringRegion() error {
	if a.finalized {
		return &InvalidStateError{Op: "FillScatteringRegion"}
	}
	lo, hi := a.cs.domain(a.cfg)
	onsite := a.lattice.Onsite(Site{})
	forEach(lo, hi, func(s Site) {
		if a.cs.contains(a.cfg, s) {
			a.sites[s] = onsite
		}
	})
	if a.cfg.JunctionSmoothing {
		boxes := a.junctionBoxes()
		added := 0
		forEach(lo, hi, func(s Site) {
			if _, ok := a.sites[s]; ok {
				return
			}
			for _, box := range boxes {
				if JunctionBox(s.Pos(), box.center, box.extent[0], box.extent[1], box.extent[2]) {
					a.sites[s] = onsite
					added++
					return
				}
			}
		})
		logrus.Debugf("%s: junction smoothing added %d sites", a.cfg.Identifier, added)
	}
	for s := range a.sites {
		for _, n := range a.lattice.Neighbors(s) {
			if _, ok := a.sites[n]; !ok {
				continue
			}
			if v, ok := a.lattice.Hopping(s, n); ok {
				a.hoppings[orderedPair(s, n)] = v
			}
		}
	}
	return nil
}

type box struct {
	center [3]float64
	extent [3]float64
}

// junctionBoxes returns one box per enabled lead: the lead footprint projected
// onto the outermost body layer facing the lead.
func (a *Assembler) junctionBoxes() []box {
	var boxes []box
	for slot, on := range a.cfg.Leads {
		if !on {
			continue
		}
		lt, o, err := a.builder.ForSlot(LeadSlot(slot))
		if err != nil {
			continue
		}
		edge, ok := a.edge(lt.Key.Axis, o)
		if !ok {
			continue
		}
		lo, hi := bounds(lt.Footprint)
		var b box
		for axis := 0; axis < 3; axis++ {
			if axis == lt.Key.Axis {
				b.center[axis] = float64(edge)
				continue
			}
			b.center[axis] = float64(lo.Axis(axis)+hi.Axis(axis)) / 2
			b.extent[axis] = float64(hi.Axis(axis) - lo.Axis(axis))
		}
		boxes = append(boxes, b)
	}
	return boxes
}

// edge returns the outermost scattering coordinate along axis in the
// direction of o.
func (a *Assembler) edge(axis int, o Orientation) (int, bool) {
	first := true
	var edge int
	for s := range a.sites {
		v := s.Axis(axis) * o.Sign()
		if first || v > edge {
			edge, first = v, false
		}
	}
	return edge * o.Sign(), !first
}

// AttachLead records a lead on slot. Each slot can be filled once.
func (a *Assembler) AttachLead(slot LeadSlot) error {
	if a.finalized {
		return &InvalidStateError{Op: "AttachLead"}
	}
	lt, o, err := a.builder.ForSlot(slot)
	if err != nil {
		return err
	}
	if a.leads[slot] != nil {
		return configErrorf("lead slot %s already attached", slot)
	}
	a.leads[slot] = &pendingLead{template: lt, orientation: o}
	return nil
}

// AttachLeads attaches every enabled slot of flags in canonical order and
// skips disabled ones.
func (a *Assembler) AttachLeads(flags LeadFlags) error {
	for slot, on := range flags {
		if !on {
			continue
		}
		if err := a.AttachLead(LeadSlot(slot)); err != nil {
			return err
		}
	}
	return nil
}

// Finalize freezes the assembly into an immutable System. Leads are placed
// one step beyond the scattering region along their direction.
func (a *Assembler) Finalize() (*System, error) {
	if a.finalized {
		return nil, &InvalidStateError{Op: "Finalize"}
	}
	if len(a.sites) == 0 {
		return nil, configErrorf("%s: scattering region is empty", a.cfg.Identifier)
	}
	sys := &System{
		cfg:     a.cfg,
		lattice: a.lattice,
		sites:   make([]Site, 0, len(a.sites)),
		index:   make(map[Site]int, len(a.sites)),
	}
	for s := range a.sites {
		sys.sites = append(sys.sites, s)
	}
	slices.SortFunc(sys.sites, compareSites)
	sys.onsite = make([]float64, len(sys.sites))
	for i, s := range sys.sites {
		sys.index[s] = i
		sys.onsite[i] = a.sites[s]
	}
	for k, v := range a.hoppings {
		sys.hoppings = append(sys.hoppings, Hopping{From: sys.index[k[0]], To: sys.index[k[1]], Value: v})
	}
	slices.SortFunc(sys.hoppings, func(x, y Hopping) int {
		if c := cmp.Compare(x.From, y.From); c != 0 {
			return c
		}
		return cmp.Compare(x.To, y.To)
	})
	for slot, p := range a.leads {
		if p == nil {
			continue
		}
		lead, err := a.place(sys, LeadSlot(slot), p)
		if err != nil {
			return nil, err
		}
		sys.leads = append(sys.leads, lead)
		sys.flags[slot] = true
	}
	a.finalized = true
	logrus.Debugf("%s: finalized %d sites, %d hoppings, %d leads",
		a.cfg.Identifier, len(sys.sites), len(sys.hoppings), len(sys.leads))
	return sys, nil
}

func (a *Assembler) place(sys *System, slot LeadSlot, p *pendingLead) (Lead, error) {
	axis := p.template.Key.Axis
	dir := p.template.Direction(p.orientation)
	edge, _ := a.edge(axis, p.orientation)
	offset := unit(axis, edge+p.orientation.Sign())
	lead := Lead{
		Slot:        slot,
		Template:    p.template,
		Orientation: p.orientation,
		Direction:   dir,
		Cell:        make([]Site, len(p.template.Footprint)),
	}
	back := unit(axis, -p.orientation.Sign())
	for i, f := range p.template.Footprint {
		c := f.Add(offset)
		lead.Cell[i] = c
		if j, ok := sys.index[c.Add(back)]; ok {
			lead.Interface = append(lead.Interface, InterfaceHopping{CellIndex: i, SiteIndex: j, Value: -a.lattice.T})
		}
	}
	if len(lead.Interface) == 0 {
		return Lead{}, configErrorf("%s lead does not touch the scattering region", slot)
	}
	if n := len(lead.Cell) - len(lead.Interface); n > 0 {
		logrus.Debugf("%s: %s lead has %d cell sites without an interface hopping", a.cfg.Identifier, slot, n)
	}
	return lead, nil
}

// Build assembles cfg end to end: fill, attach enabled leads, finalize.
func Build(cfg Configuration) (*System, error) {
	a, err := NewAssembler(cfg)
	if err != nil {
		return nil, err
	}
	if err := a.FillScatteringRegion(); err != nil {
		return nil, err
	}
	if err := a.AttachLeads(cfg.Leads); err != nil {
		return nil, err
	}
	return a.Finalize()
}

// System is a finalized, immutable wire: scattering sites, hoppings and
// attached leads, ready for a Solver. Accessors return copies.
type System struct {
	cfg      Configuration
	lattice  Lattice
	sites    []Site
	index    map[Site]int
	onsite   []float64
	hoppings []Hopping
	leads    []Lead // canonical slot order; lead index == position
	flags    LeadFlags
}

func (s *System) Config() Configuration { return s.cfg }
func (s *System) Lattice() Lattice      { return s.lattice }
func (s *System) NumSites() int         { return len(s.sites) }
func (s *System) NumLeads() int         { return len(s.leads) }

// Sites returns the scattering sites sorted by (x, y, z).
func (s *System) Sites() []Site {
	return slices.Clone(s.sites)
}

// SiteIndex returns the index of site in Sites.
func (s *System) SiteIndex(site Site) (int, bool) {
	i, ok := s.index[site]
	return i, ok
}

// Onsite returns the onsite energy of site i.
func (s *System) Onsite(i int) float64 {
	return s.onsite[i]
}

// Hoppings returns every scattering-region hopping once, From < To.
func (s *System) Hoppings() []Hopping {
	return slices.Clone(s.hoppings)
}

// Leads returns the attached leads. Lead i in the result has solver index i.
func (s *System) Leads() []Lead {
	out := make([]Lead, len(s.leads))
	for i, l := range s.leads {
		l.Cell = slices.Clone(l.Cell)
		l.Interface = slices.Clone(l.Interface)
		out[i] = l
	}
	return out
}

// AttachedLeads returns the flags of the slots that carry a lead.
func (s *System) AttachedLeads() LeadFlags {
	return s.flags
}

// InOutLeads returns the input and output lead indices; see LeadFlags.InOutLeads.
func (s *System) InOutLeads() (in, out []int) {
	return s.flags.InOutLeads()
}

func forEach(lo, hi Site, fn func(Site)) {
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				fn(Site{X: x, Y: y, Z: z})
			}
		}
	}
}

func bounds(sites []Site) (lo, hi Site) {
	for i, s := range sites {
		if i == 0 {
			lo, hi = s, s
			continue
		}
		lo = Site{X: min(lo.X, s.X), Y: min(lo.Y, s.Y), Z: min(lo.Z, s.Z)}
		hi = Site{X: max(hi.X, s.X), Y: max(hi.Y, s.Y), Z: max(hi.Z, s.Z)}
	}
	return lo, hi
}
