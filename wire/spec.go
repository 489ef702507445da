package wire

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is a wire description in physical units, loaded from YAML via LoadSpec.
//
//	identifier: test-3D
//	variant: hexagonal
//	step_length: 1
//	base: 3
//	wire_length: 30
//	lead_length: 5
//	leads:
//	  start_bottom: false
type Spec struct {
	Identifier        string   `yaml:"identifier"`
	Variant           string   `yaml:"variant"`
	StepLength        float64  `yaml:"step_length"`
	Base              float64  `yaml:"base"`
	WireLength        float64  `yaml:"wire_length"`
	LeadLength        float64  `yaml:"lead_length"`
	Leads             LeadSpec `yaml:"leads,omitempty"`
	JunctionSmoothing bool     `yaml:"junction_smoothing,omitempty"`
}

// LeadSpec overrides individual lead flags. Unset flags take the variant's
// default (see Variant.DefaultLeads).
type LeadSpec struct {
	StartTop    *bool `yaml:"start_top,omitempty"`
	StartRight  *bool `yaml:"start_right,omitempty"`
	StartLeft   *bool `yaml:"start_left,omitempty"`
	StartBottom *bool `yaml:"start_bottom,omitempty"`
	EndTop      *bool `yaml:"end_top,omitempty"`
	EndRight    *bool `yaml:"end_right,omitempty"`
	EndLeft     *bool `yaml:"end_left,omitempty"`
	EndBottom   *bool `yaml:"end_bottom,omitempty"`
}

func (l LeadSpec) flags(defaults LeadFlags) LeadFlags {
	out := defaults
	for slot, v := range []*bool{
		l.StartTop, l.StartRight, l.StartLeft, l.StartBottom,
		l.EndTop, l.EndRight, l.EndLeft, l.EndBottom,
	} {
		if v != nil {
			out[slot] = *v
		}
	}
	return out
}

// LoadSpec reads and parses a YAML wire spec.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading wire spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing wire spec: %w", err)
	}
	if spec.StepLength == 0 {
		spec.StepLength = 1
	}
	return &spec, nil
}

// Configuration discretizes s into lattice units and validates the result.
func (s *Spec) Configuration() (Configuration, error) {
	variant, err := ParseVariant(s.Variant)
	if err != nil {
		return Configuration{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return NewConfiguration(Parameters{
		Identifier:        s.Identifier,
		Variant:           variant,
		StepLength:        s.StepLength,
		Base:              s.Base,
		WireLength:        s.WireLength,
		LeadLength:        s.LeadLength,
		Leads:             s.Leads.flags(variant.DefaultLeads()),
		JunctionSmoothing: s.JunctionSmoothing,
	})
}
