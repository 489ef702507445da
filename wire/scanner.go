package wire

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// DefaultPoints is the sample count used when EnergyRange.Points is zero.
const DefaultPoints = 500

// TransmissionMatrix holds the transmission between pairs of leads at one
// energy. Lead indices are solver indices, see System.InOutLeads.
type TransmissionMatrix interface {
	Transmission(to, from int) float64
}

// Solver computes the scattering matrix of a finalized system at one energy
// (in units of t). Errors are not handled by the Scanner; they end the sweep.
type Solver interface {
	ScatteringMatrix(sys *System, energy float64, inLeads, outLeads []int) (TransmissionMatrix, error)
}

// SampleSink persists samples. Begin starts a fresh record for the wire,
// discarding anything stored before; Append durably stores a single sample.
type SampleSink interface {
	Begin(cfg Configuration) error
	Append(cfg Configuration, s Sample) error
}

// OverwriteConfirmer is asked before a sweep replaces existing samples.
// Returning false aborts the sweep without changing anything.
type OverwriteConfirmer func(cfg Configuration, existing int) bool

// AlwaysOverwrite is an OverwriteConfirmer that always agrees.
func AlwaysOverwrite(Configuration, int) bool { return true }

// NeverOverwrite is an OverwriteConfirmer that always declines.
func NeverOverwrite(Configuration, int) bool { return false }

// EnergyRange is the half-open sweep interval [Start, End) sampled at Points
// points.
type EnergyRange struct {
	Start  float64
	End    float64
	Points int
}

// Energies returns the sample energies step·i for
// i = floor(Start/step) … floor(End/step) − 1 with step = (End − Start)/Points.
// The samples are multiples of step, so the first one lies below Start when
// Start is not itself a multiple of step.
func (r EnergyRange) Energies() ([]float64, error) {
	points := r.Points
	if points == 0 {
		points = DefaultPoints
	}
	if points < 0 {
		return nil, fmt.Errorf("number of points must be positive, got %d", r.Points)
	}
	for _, v := range []float64{r.Start, r.End} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("energy bounds must be finite, got [%v, %v)", r.Start, r.End)
		}
	}
	if r.End <= r.Start {
		return nil, fmt.Errorf("end energy %v must be greater than start energy %v", r.End, r.Start)
	}
	step := (r.End - r.Start) / float64(points)
	first := int(math.Floor(r.Start / step))
	last := int(math.Floor(r.End / step))
	energies := make([]float64, 0, max(last-first, 0))
	for i := first; i < last; i++ {
		energies = append(energies, step*float64(i))
	}
	return energies, nil
}

// Scanner drives a transmission sweep: one solver call and one durable write
// per sample, strictly in order.
type Scanner struct {
	Solver  Solver
	Sink    SampleSink
	Confirm OverwriteConfirmer // nil declines any overwrite
}

// NewScanner returns a Scanner. confirm may be nil.
func NewScanner(solver Solver, sink SampleSink, confirm OverwriteConfirmer) *Scanner {
	return &Scanner{Solver: solver, Sink: sink, Confirm: confirm}
}

// Sweep computes the total transmission of w at every energy of r, appending
// each sample to w.Record and the sink before moving to the next energy.
//
// If w.Record already holds samples the confirmer is asked first; when it
// declines Sweep returns (false, nil) and neither the record nor the sink is
// touched. Otherwise the record is cleared, the sink restarted and Sweep
// returns (true, nil) once every sample is stored.
func (sc *Scanner) Sweep(w *Wire, r EnergyRange) (bool, error) {
	energies, err := r.Energies()
	if err != nil {
		return false, err
	}
	cfg := w.Config
	if n := w.Record.Len(); n > 0 {
		if sc.Confirm == nil || !sc.Confirm(cfg, n) {
			logrus.Warnf("%s: wire already holds %d samples; sweep aborted", cfg.Identifier, n)
			return false, nil
		}
		logrus.Infof("%s: discarding %d existing samples", cfg.Identifier, n)
	}

	if err := sc.Sink.Begin(cfg); err != nil {
		return false, fmt.Errorf("starting record for %s: %w", cfg.Identifier, err)
	}
	w.Record.reset()

	in, out := w.System.InOutLeads()
	logrus.Infof("%s: sweeping %d energies in [%v, %v), in leads %v, out leads %v",
		cfg.Identifier, len(energies), r.Start, r.End, in, out)

	for _, e := range energies {
		smatrix, err := sc.Solver.ScatteringMatrix(w.System, e, in, out)
		if err != nil {
			return false, fmt.Errorf("scattering matrix at energy %v: %w", e, err)
		}
		total := 0.0
		for _, i := range in {
			for _, j := range out {
				total += smatrix.Transmission(j, i)
			}
		}
		s := Sample{Energy: e, Transmission: total}
		w.Record.Append(s)
		if err := sc.Sink.Append(cfg, s); err != nil {
			return false, fmt.Errorf("persisting sample at energy %v: %w", e, err)
		}
		logrus.Debugf("%s: %v %v", cfg.Identifier, e, total)
	}
	logrus.Infof("%s: sweep complete, %d samples", cfg.Identifier, w.Record.Len())
	return true, nil
}
