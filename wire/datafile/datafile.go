// Package datafile stores a wire configuration and its transmission samples
// in a versionless text file named "data-<identifier>".
//
// The file starts with one "name= value" line per parameter, in the order of
// ParameterNames, followed by zero or more "energy transmission" lines.
// Lengths are written in physical units (lattice units × step_length) and
// booleans as True/False, so files written by earlier tools stay readable.
package datafile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/garn-sim/garn/wire"
)

// FilePrefix is prepended to the wire identifier to form the file name.
const FilePrefix = "data-"

// ParameterNames lists the header fields in file order.
var ParameterNames = append([]string{"identifier", "t", "base", "wire_length", "lead_length"}, wire.SlotNames()...)

// Store writes data files into Dir. It implements wire.SampleSink.
// A Store is not safe for concurrent use, and only one writer may target a
// given identifier at a time.
type Store struct {
	Dir   string
	begun map[string]bool
}

// NewStore returns a store writing into dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, begun: make(map[string]bool)}
}

// Path returns the data file path for identifier.
func (s *Store) Path(identifier string) string {
	return filepath.Join(s.Dir, FilePrefix+identifier)
}

// Begin truncates the data file of cfg and writes its header.
func (s *Store) Begin(cfg wire.Configuration) error {
	path := s.Path(cfg.Identifier)
	if err := writeLines(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, header(cfg)); err != nil {
		return err
	}
	s.begun[cfg.Identifier] = true
	logrus.Debugf("Wrote header of '%s'", path)
	return nil
}

// Append adds one sample line. The file is opened and closed on every call so
// an interrupted sweep leaves a parseable file. If the identifier was not
// begun in this run, the line goes to the end of the existing file; a missing
// file gets a header first.
func (s *Store) Append(cfg wire.Configuration, sample wire.Sample) error {
	path := s.Path(cfg.Identifier)
	if !s.begun[cfg.Identifier] {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := s.Begin(cfg); err != nil {
				return err
			}
		}
		s.begun[cfg.Identifier] = true
	}
	return writeLines(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, []string{sampleLine(sample)})
}

func header(cfg wire.Configuration) []string {
	step := cfg.StepLength()
	values := []string{
		cfg.Identifier,
		formatFloat(cfg.T),
		formatFloat(float64(cfg.Base) * step),
		formatFloat(float64(cfg.WireLength) * step),
		formatFloat(float64(cfg.LeadLength) * step),
	}
	for _, on := range cfg.Leads {
		values = append(values, formatBool(on))
	}
	lines := make([]string, len(ParameterNames))
	for i, name := range ParameterNames {
		lines[i] = name + "= " + values[i]
	}
	return lines
}

func sampleLine(s wire.Sample) string {
	return formatFloat(s.Energy) + " " + formatFloat(s.Transmission)
}

func writeLines(path string, flag int, lines []string) (err error) {
	file, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return fmt.Errorf("opening data file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing data file %s: %w", path, closeErr)
		}
	}()
	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing data file %s: %w", path, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing data file %s: %w", path, err)
	}
	return nil
}

// formatFloat writes the shortest representation that parses back to v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
