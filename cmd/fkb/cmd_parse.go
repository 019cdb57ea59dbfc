package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/torsaan/fkb/internal/sosi"
	"github.com/torsaan/fkb/pkg/fkb"
)

func newParseCmd() *cobra.Command {
	var common commonFlags

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the header, object types and KVALITET summary of a SOSI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.resolve(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ds, err := fkb.ParseFile(args[0], fkb.ParseOptions{Logger: logger})
			if err != nil {
				return err
			}
			return writeDataset(cmd.OutOrStdout(), ds)
		},
	}
	common.register(cmd)
	return cmd
}

func writeDataset(w io.Writer, ds *fkb.Dataset) error {
	var b strings.Builder
	h := ds.Header

	fmt.Fprintf(&b, "File: %s\n", ds.Source)
	fmt.Fprintf(&b, "Lines: %d\n", ds.Lines)
	fmt.Fprintf(&b, "Charset: %s\n", h.Charset())
	fmt.Fprintf(&b, "SOSI version: %s\n", h.Version())
	fmt.Fprintf(&b, "Coordinate system: EPSG:%s\n", fkb.EPSG(h))
	if v, ok := h.Get("ORIGO-NØ"); ok {
		fmt.Fprintf(&b, "Origin: %s\n", v.Text())
	}
	if v, ok := h.Get("ENHET"); ok {
		fmt.Fprintf(&b, "Unit: %s\n", v.Text())
	}
	if owner := h.Owner(); owner != "" {
		fmt.Fprintf(&b, "Owner: %s\n", owner)
	}
	fmt.Fprintf(&b, "Features: %d\n", len(ds.Features))
	if len(ds.Problems) > 0 {
		fmt.Fprintf(&b, "Skipped: %d\n", len(ds.Problems))
		for _, p := range ds.Problems {
			fmt.Fprintf(&b, "  %v\n", p)
		}
	}

	b.WriteString("\nObject types:\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, c := range countObjectTypes(ds.Features) {
		fmt.Fprintf(tw, "  %s\t%d\n", c.name, c.count)
	}
	tw.Flush()

	s := sosi.SummarizeKvalitet(ds.Features)
	b.WriteString("\nKVALITET:\n")
	fmt.Fprintf(&b, "  Features with KVALITET: %d/%d\n", s.FeaturesWithKvalitet, s.TotalFeatures)
	if len(s.MethodCounts) > 0 {
		fmt.Fprintf(&b, "  MÅLEMETODE: %s\n", formatCounts(s.MethodCounts))
	}
	if len(s.VisibilityCounts) > 0 {
		fmt.Fprintf(&b, "  SYNBARHET: %s\n", formatCounts(s.VisibilityCounts))
	}
	if s.AccuracyCount > 0 {
		fmt.Fprintf(&b, "  NØYAKTIGHET: min %.3f m, avg %.3f m, max %.3f m (%d values)\n",
			s.MinAccuracy, s.AvgAccuracy, s.MaxAccuracy, s.AccuracyCount)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type typeCount struct {
	name  string
	count int
}

// countObjectTypes orders by count, then name
func countObjectTypes(features []*fkb.Feature) []typeCount {
	counts := make(map[string]int)
	for _, f := range features {
		counts[f.ObjectType]++
	}
	out := make([]typeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, typeCount{name: name, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}
