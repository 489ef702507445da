// Package wire builds lattice models of nanowires for quantum-transport
// simulation and sweeps energy ranges to compute total transmission.
//
// # Reading Guide
//
// Start with these files to understand the model:
//   - geometry.go: inclusion predicates for the wire cross-sections
//   - lattice.go: square/cubic lattice, onsite and hopping rules
//   - config.go: Configuration (lengths in lattice units, lead flags)
//   - system.go: Assembler (Building) and System (Finalized)
//   - scanner.go: the energy sweep driving a Solver and a SampleSink
//
// # Architecture
//
// The wire package defines the model and the extension points; implementations
// live in sub-packages:
//   - wire/datafile/: the durable data file (header + appended samples)
//   - wire/ballistic/: a built-in Solver that counts open lead modes
//
// # Key Interfaces
//
//   - Solver: scattering matrix for a finalized System at one energy
//   - TransmissionMatrix: per lead-pair transmission returned by a Solver
//   - SampleSink: durable per-sample persistence used by the Scanner
//   - OverwriteConfirmer: asked before a sweep replaces existing samples
package wire
