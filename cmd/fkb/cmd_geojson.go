package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/torsaan/fkb/pkg/fkb"
)

func newGeoJSONCmd() *cobra.Command {
	var (
		common commonFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "geojson FILE",
		Short: "Convert a SOSI file to a GeoJSON FeatureCollection",
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
			fc := fkb.ToGeoJSON(ds)
			data, err := fc.MarshalJSON()
			if err != nil {
				return fmt.Errorf("encode GeoJSON: %w", err)
			}
			data = append(data, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d features to %s\n", len(fc.Features), output)
			return nil
		},
	}

	common.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
