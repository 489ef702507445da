package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "garn",
	Short: "Nanowire lattice models and transmission sweeps",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setLogLevel(logLevel)
	},
}

func setLogLevel(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", name)
	}
	logrus.SetLevel(level)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
