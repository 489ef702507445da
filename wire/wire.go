package wire

// Wire bundles a configuration with its finalized system and its own
// transmission record. Every Wire owns a fresh record.
type Wire struct {
	Config Configuration
	System *System
	Record *TransmissionRecord
}

// New builds the system for cfg and returns a Wire with an empty record.
func New(cfg Configuration) (*Wire, error) {
	sys, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	return &Wire{Config: cfg, System: sys, Record: NewTransmissionRecord()}, nil
}

// Energies returns the sampled energies, for plotting.
func (w *Wire) Energies() []float64 {
	return w.Record.Energies()
}

// Transmissions returns the sampled transmissions, for plotting.
func (w *Wire) Transmissions() []float64 {
	return w.Record.Transmissions()
}
