// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/carlmjohnson/exitcode"
	"github.com/spf13/cobra"

	"github.com/pdiddy/csv-extractor/internal/ledger"
	"github.com/pdiddy/csv-extractor/internal/pipeline"
	"github.com/pdiddy/csv-extractor/pkg/types"
)

// extractKeys maps config keys to the root command flags that override them.
var extractKeys = map[string]string{
	"output_dir":   "output-dir",
	"column":       "column",
	"on_malformed": "on-malformed",
	"line_ending":  "line-ending",
	"ledger":       "ledger",
}

func (a *app) runExtract(cmd *cobra.Command, _ []string) error {
	a.ran = true
	cmd.SilenceUsage = true

	if err := a.bindFlags(cmd, extractKeys); err != nil {
		return err
	}
	cfg := a.extractorConfig()
	if err := cfg.Validate(); err != nil {
		return exitcode.Set(err, exitUsage)
	}

	emailCSV, _ := cmd.Flags().GetString("email-csv")
	mobCSV, _ := cmd.Flags().GetString("mob-csv")

	opts := pipeline.Options{
		Config: cfg,
		Now:    a.now,
		Logger: a.logger,
	}
	if cfg.LedgerPath != "" {
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Recorder = store
	}

	a.logger.Debug("starting extraction", "email_csv", emailCSV, "mob_csv", mobCSV,
		"output_dir", cfg.OutputDir, "column", cfg.Column, "on_malformed", cfg.OnMalformed)

	_, err := pipeline.Run(cmd.Context(), pipeline.ContactJobs(emailCSV, mobCSV), opts, cmd.OutOrStdout())
	return err
}

func (a *app) extractorConfig() types.ExtractorConfig {
	return types.ExtractorConfig{
		OutputDir:   a.v.GetString("output_dir"),
		Column:      a.v.GetString("column"),
		OnMalformed: types.MalformedPolicy(a.v.GetString("on_malformed")),
		LineEnding:  types.LineEnding(a.v.GetString("line_ending")),
		LedgerPath:  a.v.GetString("ledger"),
	}
}
