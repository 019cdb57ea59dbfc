package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torsaan/fkb/pkg/fkb"
)

func newValidateCmd() *cobra.Command {
	var (
		common      commonFlags
		standard    string
		strict      bool
		workers     int
		networkType string
		asJSON      bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate SOSI files against the FKB rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("standard") {
				cfg.Standard = standard
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = strict
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("network-type") {
				cfg.NetworkType = networkType
			}

			std, err := fkb.ParseStandard(cfg.Standard)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			v := fkb.NewValidator(loadRules(cfg, logger), fkb.Options{
				Standard:    std,
				Strict:      cfg.Strict,
				Workers:     cfg.Workers,
				NetworkType: cfg.NetworkType,
				Logger:      logger,
			})
			reports, errs := fkb.ValidateFiles(cmd.Context(), v, args, fkb.LoadOptions{
				Parallel:   len(args) > 1,
				Workers:    cfg.Workers,
				SkipErrors: true,
				ErrorLog:   cmd.ErrOrStderr(),
				Parse:      fkb.ParseOptions{Logger: logger},
			})

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeReportsJSON(out, reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					if err := writeReport(out, r, verbose); err != nil {
						return err
					}
				}
			}

			if len(errs) > 0 {
				return errValidationFailed
			}
			for _, r := range reports {
				if r.HasErrors() {
					return errValidationFailed
				}
			}
			return nil
		},
	}

	common.register(cmd)
	cmd.Flags().StringVar(&standard, "standard", "B", "FKB standard: A, B, C or D")
	cmd.Flags().BoolVar(&strict, "strict", false, "also check unknown attributes, pilhøyde and coordinate encoding")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default: number of CPUs)")
	cmd.Flags().StringVar(&networkType, "network-type", "", "network name used in dangling endpoint messages")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reports as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every issue")
	return cmd
}

func writeReportsJSON(w io.Writer, reports []*fkb.Report) error {
	docs := make([]string, 0, len(reports))
	for _, r := range reports {
		data, err := r.JSON()
		if err != nil {
			return err
		}
		docs = append(docs, string(data))
	}
	var err error
	if len(docs) == 1 {
		_, err = fmt.Fprintln(w, docs[0])
	} else {
		_, err = fmt.Fprintf(w, "[\n%s\n]\n", strings.Join(docs, ",\n"))
	}
	return err
}

func writeReport(w io.Writer, r *fkb.Report, verbose bool) error {
	var b strings.Builder

	title := "FKB VALIDATION REPORT"
	if r.Source != "" {
		title += ": " + r.Source
	}
	mode := ""
	if r.Strict {
		mode = " (strict)"
	}
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", 60))
	fmt.Fprintf(&b, "Status: %s\n", r.Status())
	fmt.Fprintf(&b, "Standard: %s%s\n", r.Standard.Key(), mode)
	if r.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
	}
	fmt.Fprintf(&b, "Features Validated: %d\n", r.Summary.TotalFeatures)
	fmt.Fprintf(&b, "Features with Errors: %d\n", r.Summary.FeaturesWithErrors)
	fmt.Fprintf(&b, "Total Errors: %d\n", r.Summary.TotalErrors)
	fmt.Fprintf(&b, "Total Warnings: %d\n", r.Summary.TotalWarnings)
	fmt.Fprintf(&b, "\nBreakdown:\n")
	fmt.Fprintf(&b, "- Header Errors: %d\n", len(r.HeaderErrors))
	fmt.Fprintf(&b, "- Feature Errors: %d\n", len(r.FeatureErrors))
	fmt.Fprintf(&b, "- Topology Errors: %d\n", len(r.TopologyErrors))
	if n := len(r.ParseProblems); n > 0 {
		fmt.Fprintf(&b, "- Skipped Features: %d\n", n)
	}

	if verbose {
		writeIssues(&b, "Header", r.HeaderErrors)
		if len(r.FeatureErrors) > 0 {
			b.WriteString("\nFeatures:\n")
			for i := range r.FeatureErrors {
				fr := &r.FeatureErrors[i]
				fmt.Fprintf(&b, "  %s %d (line %d):\n", fr.ObjectType, fr.ID, fr.Line)
				for _, is := range fr.Issues() {
					fmt.Fprintf(&b, "    %s\n", is)
				}
			}
		}
		writeIssues(&b, "Topology", r.TopologyErrors)
		if len(r.ParseProblems) > 0 {
			b.WriteString("\nSkipped:\n")
			for _, p := range r.ParseProblems {
				fmt.Fprintf(&b, "  %s\n", p)
			}
		}
	}

	if digest, err := r.Digest(); err == nil {
		fmt.Fprintf(&b, "\nDigest: %s\n", digest)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssues(b *strings.Builder, title string, issues []fkb.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, is := range issues {
		fmt.Fprintf(b, "  %s\n", is)
	}
}
