package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/garn-sim/garn/wire"
	"github.com/garn-sim/garn/wire/ballistic"
	"github.com/garn-sim/garn/wire/datafile"
)

type sweepOptions struct {
	specPath  string
	start     float64
	end       float64
	points    int
	dataDir   string
	overwrite bool
	print     bool
}

var sweepOpts sweepOptions

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compute total transmission of a wire over an energy range",
	Long: "Build the wire described by a YAML spec, sweep [start, end) in units of t with the " +
		"ballistic solver, and append every sample to data-<identifier> in the data directory. " +
		"If the data file already holds samples, the sweep asks before replacing them.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSweep(sweepOpts, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
	},
}

func runSweep(opts sweepOptions, in io.Reader, out io.Writer) error {
	spec, err := wire.LoadSpec(opts.specPath)
	if err != nil {
		return err
	}
	cfg, err := spec.Configuration()
	if err != nil {
		return err
	}
	w, err := wire.New(cfg)
	if err != nil {
		return err
	}

	store := datafile.NewStore(opts.dataDir)
	path := store.Path(cfg.Identifier)
	if _, err := os.Stat(path); err == nil {
		_, record, err := datafile.Read(path, cfg.Variant)
		if err != nil {
			return fmt.Errorf("existing data file: %w", err)
		}
		w.Record = record
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	confirm := promptConfirmer(in, out)
	if opts.overwrite {
		confirm = wire.AlwaysOverwrite
	}
	var sink wire.SampleSink = store
	if opts.print {
		sink = &printingSink{next: store, out: out}
	}

	logrus.Infof("Sweeping '%s' (%s, %d sites, %d leads) over [%g, %g) with %d points",
		cfg.Identifier, cfg.Variant, w.System.NumSites(), w.System.NumLeads(), opts.start, opts.end, opts.points)
	done, err := wire.NewScanner(ballistic.New(), sink, confirm).
		Sweep(w, wire.EnergyRange{Start: opts.start, End: opts.end, Points: opts.points})
	if err != nil {
		return err
	}
	if !done {
		_, _ = fmt.Fprintln(out, "Sweep aborted, existing samples kept")
		return nil
	}
	_, _ = fmt.Fprintf(out, "Wrote %d samples to %s\n", w.Record.Len(), path)
	return nil
}

// promptConfirmer asks on out and reads a y/n answer from in. Anything other
// than y or yes declines, including end of input.
func promptConfirmer(in io.Reader, out io.Writer) wire.OverwriteConfirmer {
	reader := bufio.NewReader(in)
	return func(cfg wire.Configuration, existing int) bool {
		_, _ = fmt.Fprintf(out, "Wire '%s' already has %d saved samples. Delete them and continue? [y/N]: ", cfg.Identifier, existing)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// printingSink echoes every sample to out after the wrapped sink stored it.
type printingSink struct {
	next wire.SampleSink
	out  io.Writer
}

func (p *printingSink) Begin(cfg wire.Configuration) error {
	if err := p.next.Begin(cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out, "Transmission calculated for energies [t]:")
	return err
}

func (p *printingSink) Append(cfg wire.Configuration, s wire.Sample) error {
	if err := p.next.Append(cfg, s); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "%g %g\n", s.Energy, s.Transmission)
	return err
}

func init() {
	sweepCmd.Flags().StringVar(&sweepOpts.specPath, "spec", "", "Path to YAML wire spec")
	sweepCmd.Flags().Float64Var(&sweepOpts.start, "start", 0, "Start energy in units of t (inclusive)")
	sweepCmd.Flags().Float64Var(&sweepOpts.end, "end", 1, "End energy in units of t (exclusive)")
	sweepCmd.Flags().IntVar(&sweepOpts.points, "points", wire.DefaultPoints, "Number of sample points across [start, end)")
	sweepCmd.Flags().StringVar(&sweepOpts.dataDir, "data-dir", ".", "Directory holding data-<identifier> files")
	sweepCmd.Flags().BoolVar(&sweepOpts.overwrite, "yes", false, "Replace existing samples without asking")
	sweepCmd.Flags().BoolVar(&sweepOpts.print, "print", false, "Print every sample as it is computed")
	_ = sweepCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(sweepCmd)
}
