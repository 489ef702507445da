package datafile

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/garn-sim/garn/wire"
)

// FormatError reports a data file line that does not match the expected layout.
type FormatError struct {
	Path string
	Line int // 1-based
	Want string
	Got  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: not correctly formatted: expected %s, found %q", e.Path, e.Line, e.Want, e.Got)
}

// Read parses a data file. The variant is not stored in the file and must be
// supplied by the caller. Lattice lengths are recovered as
// round(physical / step_length) with step_length = t^(-1/2). On any error
// nothing is returned.
func Read(path string, variant wire.Variant) (wire.Configuration, *wire.TransmissionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return wire.Configuration{}, nil, fmt.Errorf("opening data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	values := make([]string, 0, len(ParameterNames))
	line := 0
	for _, name := range ParameterNames {
		line++
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return wire.Configuration{}, nil, fmt.Errorf("reading data file %s: %w", path, err)
			}
			return wire.Configuration{}, nil, &FormatError{Path: path, Line: line, Want: fmt.Sprintf("%q", name+"= "), Got: "end of file"}
		}
		text := scanner.Text()
		prefix := name + "= "
		if !strings.HasPrefix(text, prefix) {
			return wire.Configuration{}, nil, &FormatError{Path: path, Line: line, Want: fmt.Sprintf("%q", prefix), Got: text}
		}
		values = append(values, strings.TrimSpace(strings.TrimPrefix(text, prefix)))
	}

	cfg, err := parseHeader(path, values, variant)
	if err != nil {
		return wire.Configuration{}, nil, err
	}

	record := wire.NewTransmissionRecord()
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		sample, ok := parseSample(text)
		if !ok {
			return wire.Configuration{}, nil, &FormatError{Path: path, Line: line, Want: "\"<energy> <transmission>\"", Got: text}
		}
		record.Append(sample)
	}
	if err := scanner.Err(); err != nil {
		return wire.Configuration{}, nil, fmt.Errorf("reading data file %s: %w", path, err)
	}
	return cfg, record, nil
}

// Load reads a data file and rebuilds the wire it describes, with the stored
// samples in its record.
func Load(path string, variant wire.Variant) (*wire.Wire, error) {
	cfg, record, err := Read(path, variant)
	if err != nil {
		return nil, err
	}
	w, err := wire.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("rebuilding wire from %s: %w", path, err)
	}
	w.Record = record
	return w, nil
}

func parseHeader(path string, values []string, variant wire.Variant) (wire.Configuration, error) {
	floats := make([]float64, 4)
	for i := range floats {
		v, err := strconv.ParseFloat(values[i+1], 64)
		if err != nil {
			return wire.Configuration{}, &FormatError{Path: path, Line: i + 2, Want: ParameterNames[i+1] + " as a number", Got: values[i+1]}
		}
		floats[i] = v
	}
	t := floats[0]
	if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return wire.Configuration{}, &FormatError{Path: path, Line: 2, Want: "t > 0", Got: values[1]}
	}
	step := wire.CouplingToStep(t)

	var leads wire.LeadFlags
	for slot := range leads {
		idx := 5 + slot
		b, err := strconv.ParseBool(values[idx])
		if err != nil {
			return wire.Configuration{}, &FormatError{Path: path, Line: idx + 1, Want: ParameterNames[idx] + " as True or False", Got: values[idx]}
		}
		leads[slot] = b
	}

	cfg := wire.Configuration{
		Identifier: values[0],
		Variant:    variant,
		T:          t,
		Base:       int(math.Round(floats[1] / step)),
		WireLength: int(math.Round(floats[2] / step)),
		LeadLength: int(math.Round(floats[3] / step)),
		Leads:      leads,
	}
	if err := cfg.Validate(); err != nil {
		return wire.Configuration{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseSample(text string) (wire.Sample, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return wire.Sample{}, false
	}
	e, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return wire.Sample{}, false
	}
	tr, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return wire.Sample{}, false
	}
	return wire.Sample{Energy: e, Transmission: tr}, true
}
