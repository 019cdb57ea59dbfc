package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/torsaan/fkb/internal/rules"
)

func newRulesCmd() *cobra.Command {
	var common commonFlags

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show which rule tables load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := common.resolve(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			db := loadRules(cfg, logger)
			failed := make(map[rules.Table]error)
			for _, e := range db.LoadErrors() {
				failed[e.Table] = e.Err
			}

			source := cfg.RulesDir
			if source == "" {
				source = "embedded defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rules: %s\n", source)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range rules.Tables {
				if err, ok := failed[t]; ok {
					fmt.Fprintf(tw, "FAIL\t%s\t%s\t%v\n", t.File(), t, err)
					continue
				}
				fmt.Fprintf(tw, "ok\t%s\t%s\t\n", t.File(), t)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if n := len(failed); n > 0 {
				return fmt.Errorf("%d of %d rule tables failed to load", n, len(rules.Tables))
			}
			return nil
		},
	}
	common.register(cmd)
	return cmd
}
