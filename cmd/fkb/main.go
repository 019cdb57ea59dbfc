package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// set with -ldflags "-X main.version=..."
var version = "0.1.0-dev"

// errValidationFailed makes the process exit non-zero after the reports
// have been printed
var errValidationFailed = errors.New("validation found errors")

func main() {
	root := &cobra.Command{
		Use:           "fkb",
		Short:         "Parse SOSI files and validate them against the FKB rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newGeoJSONCmd())
	root.AddCommand(newRulesCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fkb "+version)
		},
	}
}
