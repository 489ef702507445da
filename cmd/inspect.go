package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/garn-sim/garn/wire"
	"github.com/garn-sim/garn/wire/datafile"
)

var (
	inspectFile    string
	inspectVariant string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Rebuild a wire from its data file and print it",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(inspectFile, inspectVariant, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Inspect failed: %v", err)
		}
	},
}

func runInspect(path, variantName string, out io.Writer) error {
	variant, err := wire.ParseVariant(variantName)
	if err != nil {
		return err
	}
	w, err := datafile.Load(path, variant)
	if err != nil {
		return err
	}
	cfg := w.Config
	in, outLeads := w.System.InOutLeads()

	lines := []string{
		fmt.Sprintf("identifier:   %s", cfg.Identifier),
		fmt.Sprintf("variant:      %s", cfg.Variant),
		fmt.Sprintf("t:            %g (step_length %g)", cfg.T, cfg.StepLength()),
		fmt.Sprintf("base:         %d", cfg.Base),
		fmt.Sprintf("wire_length:  %d", cfg.WireLength),
		fmt.Sprintf("lead_length:  %d", cfg.LeadLength),
		fmt.Sprintf("sites:        %d", w.System.NumSites()),
		fmt.Sprintf("hoppings:     %d", len(w.System.Hoppings())),
	}
	for _, lead := range w.System.Leads() {
		lines = append(lines, fmt.Sprintf("lead:         %s (%s, %d cell sites, %d interface hoppings)",
			lead.Slot, lead.Orientation, len(lead.Cell), len(lead.Interface)))
	}
	lines = append(lines,
		fmt.Sprintf("in leads:     %v", in),
		fmt.Sprintf("out leads:    %v", outLeads),
		fmt.Sprintf("samples:      %d", w.Record.Len()),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	for _, s := range w.Record.Samples() {
		if _, err := fmt.Fprintf(out, "%g %g\n", s.Energy, s.Transmission); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "Path to a data-<identifier> file")
	inspectCmd.Flags().StringVar(&inspectVariant, "variant", string(wire.Hexagonal), "Wire variant the file was written for (rectangular|2d, hexagonal|3d)")
	_ = inspectCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(inspectCmd)
}
