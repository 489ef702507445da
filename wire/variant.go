package wire

import "math"

// crossSection is implemented by the closed set of wire variants. Each
// supplies the inclusion predicate, dimensionality, candidate domain and the
// lead templates of its shape.
type crossSection interface {
	dim() int
	// domain returns inclusive lower and upper corners of the candidate box.
	domain(cfg Configuration) (lo, hi Site)
	contains(cfg Configuration, s Site) bool
	supports(slot LeadSlot) bool
	binding(slot LeadSlot) (TemplateKey, Orientation)
	footprint(cfg Configuration, key TemplateKey) []Site
}

var crossSections = map[Variant]crossSection{
	Rectangular: rectangular{},
	Hexagonal:   hexagonal{},
}

// leadOffset is the first longitudinal coordinate covered by a lead footprint.
func leadOffset(cfg Configuration, end WireEnd) int {
	if end == FarEnd {
		return cfg.WireLength - cfg.LeadLength
	}
	return 0
}

func endOf(slot LeadSlot) WireEnd {
	if slot.IsStart() {
		return NearEnd
	}
	return FarEnd
}

// rectangular is the 2D strip [0, wire_length) × [0, base). Transport runs
// along x; leads extend along ±y from the long edges.
type rectangular struct{}

func (rectangular) dim() int { return 2 }

func (rectangular) domain(cfg Configuration) (Site, Site) {
	return Site{}, Site{X: cfg.WireLength - 1, Y: cfg.Base - 1}
}

func (rectangular) contains(cfg Configuration, s Site) bool {
	return Rectangle(float64(s.X), float64(s.Y), float64(cfg.Base), float64(cfg.WireLength))
}

func (rectangular) supports(slot LeadSlot) bool {
	switch slot {
	case StartRight, StartLeft, EndRight, EndLeft:
		return true
	}
	return false
}

func (rectangular) binding(slot LeadSlot) (TemplateKey, Orientation) {
	key := TemplateKey{Axis: 1, End: endOf(slot)}
	if slot == StartRight || slot == EndRight {
		return key, Reversed
	}
	return key, Forward
}

func (rectangular) footprint(cfg Configuration, key TemplateKey) []Site {
	off := leadOffset(cfg, key.End)
	cell := make([]Site, 0, cfg.LeadLength)
	for x := off; x < off+cfg.LeadLength; x++ {
		cell = append(cell, Site{X: x})
	}
	return cell
}

// hexagonal is the 3D wire: a hexagon of side base in the x-z plane,
// extruded along y over [0, wire_length). Top/bottom leads extend along ±z,
// right/left leads along ±x.
type hexagonal struct{}

func (hexagonal) dim() int { return 3 }

func (hexagonal) domain(cfg Configuration) (Site, Site) {
	zc := int(math.Ceil(sqrt3 * float64(cfg.Base) / 2))
	return Site{X: -cfg.Base, Y: 0, Z: -zc}, Site{X: cfg.Base, Y: cfg.WireLength - 1, Z: zc}
}

func (hexagonal) contains(cfg Configuration, s Site) bool {
	return Hexagon(float64(s.X), float64(s.Z), float64(cfg.Base)) && s.Y >= 0 && s.Y < cfg.WireLength
}

func (hexagonal) supports(LeadSlot) bool { return true }

func (hexagonal) binding(slot LeadSlot) (TemplateKey, Orientation) {
	end := endOf(slot)
	switch slot {
	case StartTop, EndTop:
		return TemplateKey{Axis: 2, End: end}, Forward
	case StartBottom, EndBottom:
		return TemplateKey{Axis: 2, End: end}, Reversed
	case StartRight, EndRight:
		return TemplateKey{Axis: 0, End: end}, Forward
	default:
		return TemplateKey{Axis: 0, End: end}, Reversed
	}
}

func (hexagonal) footprint(cfg Configuration, key TemplateKey) []Site {
	b := cfg.Base
	off := leadOffset(cfg, key.End)
	var cell []Site
	if key.Axis == 2 {
		for x := -b + 1; x < b; x++ {
			for y := off; y < off+cfg.LeadLength; y++ {
				cell = append(cell, Site{X: x, Y: y})
			}
		}
		return cell
	}
	zmax := int(math.Trunc(sqrt3 * float64(b) / 2))
	for y := off; y < off+cfg.LeadLength; y++ {
		for z := -zmax; z <= zmax; z++ {
			cell = append(cell, Site{Y: y, Z: z})
		}
	}
	return cell
}
