package wire

import (
	"math"
	"slices"
)

// Sample is one point of a transmission sweep.
type Sample struct {
	Energy       float64 // in units of t
	Transmission float64 // total transmission, in units of e²/h
}

// TransmissionRecord is an append-only, ordered sequence of samples.
// The zero value is an empty record.
type TransmissionRecord struct {
	samples []Sample
}

// NewTransmissionRecord returns an empty record.
func NewTransmissionRecord() *TransmissionRecord {
	return &TransmissionRecord{samples: make([]Sample, 0)}
}

// Append adds a sample at the end of the record.
func (r *TransmissionRecord) Append(s Sample) {
	r.samples = append(r.samples, s)
}

// Len returns the number of samples.
func (r *TransmissionRecord) Len() int {
	return len(r.samples)
}

// Samples returns a copy of the samples in order.
func (r *TransmissionRecord) Samples() []Sample {
	return slices.Clone(r.samples)
}

// Energies returns the sampled energies in order.
func (r *TransmissionRecord) Energies() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Energy
	}
	return out
}

// Transmissions returns the sampled transmissions in order.
func (r *TransmissionRecord) Transmissions() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Transmission
	}
	return out
}

// EqualRounded reports whether both records hold the same samples after
// rounding every value to the given number of decimals. Text round trips
// through the data file do not preserve floats bit for bit.
func (r *TransmissionRecord) EqualRounded(other *TransmissionRecord, decimals int) bool {
	if r.Len() != other.Len() {
		return false
	}
	for i, s := range r.samples {
		o := other.samples[i]
		if RoundTo(s.Energy, decimals) != RoundTo(o.Energy, decimals) ||
			RoundTo(s.Transmission, decimals) != RoundTo(o.Transmission, decimals) {
			return false
		}
	}
	return true
}

func (r *TransmissionRecord) reset() {
	r.samples = make([]Sample, 0)
}

// RoundTo rounds v half away from zero to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
