// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/csv-extractor/internal/ledger"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded extraction runs",
		Long: `History reads the SQLite run ledger written by runs started with
--ledger (or CSV_EXTRACTOR_LEDGER) and lists recent runs, newest first, with
the files each one produced.`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}

	cmd.Flags().String("ledger", "", "SQLite run ledger path")
	cmd.Flags().Int("limit", ledger.DefaultLimit, "maximum number of runs to list")
	cmd.Flags().String("format", "table", "output format: table, yaml, or json")
	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, _ []string) error {
	a.ran = true
	cmd.SilenceUsage = true

	if err := a.bindFlags(cmd, map[string]string{"ledger": "ledger"}); err != nil {
		return err
	}
	path := a.v.GetString("ledger")
	if path == "" {
		return fmt.Errorf("no ledger configured: pass --ledger or set %s_LEDGER", envPrefix)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return ledger.Export(cmd.OutOrStdout(), runs, ledger.Format(format))
}
