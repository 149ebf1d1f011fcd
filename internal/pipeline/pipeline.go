// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one extraction: every input CSV is read, then every
// extracted column is written to a timestamped text file in the output
// directory. Progress lines go to the supplied writer.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pdiddy/csv-extractor/internal/extract"
	"github.com/pdiddy/csv-extractor/pkg/types"
)

// Output labels for the contact export inputs.
const (
	LabelEmails        = "EMails"
	LabelMobileNumbers = "MobileNumbers"
)

// Job is one input file and the label its output file is named after.
type Job struct {
	// Label prefixes the output filename.
	Label string
	// Noun names the values in progress lines (e.g. "Emails").
	Noun string
	// Source is the CSV path to read.
	Source string
}

// ContactJobs returns the email job followed by the mobile-number job.
func ContactJobs(emailCSV, mobCSV string) []Job {
	return []Job{
		{Label: LabelEmails, Noun: "Emails", Source: emailCSV},
		{Label: LabelMobileNumbers, Noun: "Mobile Numbers", Source: mobCSV},
	}
}

// Recorder persists a finished run. The ledger store implements it.
type Recorder interface {
	Record(ctx context.Context, summary *types.RunSummary) error
}

// Options controls a Run. Zero fields fall back to the host defaults.
type Options struct {
	Config types.ExtractorConfig

	// Now is the clock. Output names use the sub-second nanoseconds of the
	// first reading. Defaults to time.Now.
	Now func() time.Time

	// GOOS resolves LineEndingAuto. Defaults to runtime.GOOS.
	GOOS string

	// Recorder, when set, receives the summary of a successful run.
	Recorder Recorder

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// OutputPath returns <dir>/<label>_<nanoseconds>.txt for the given start time.
func OutputPath(dir, label string, startedAt time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.txt", label, startedAt.Nanosecond()))
}

// Run extracts every job's column and writes the outputs. All inputs are
// read before anything is written, so an unreadable input leaves no output
// files behind. A write failure stops the run; outputs already written stay.
func Run(ctx context.Context, jobs []Job, opts Options, w io.Writer) (types.RunSummary, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return types.RunSummary{}, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lineEnding, err := cfg.LineEnding.Resolve(goos)
	if err != nil {
		return types.RunSummary{}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return types.RunSummary{}, &extract.IOError{Op: "mkdir", Path: cfg.OutputDir, Err: err}
	}

	fmt.Fprintln(w, ":: Starting Reading files")
	startedAt := now()
	summary := types.RunSummary{
		StartedAt: startedAt,
		Column:    cfg.Column,
	}

	results := make([]extract.Result, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res, err := extract.Extract(job.Source, cfg.Column, cfg.OnMalformed)
		if err != nil {
			return summary, fmt.Errorf("extracting %s: %w", job.Noun, err)
		}
		logger.Debug("extracted column", "source", job.Source, "column", cfg.Column,
			"rows", res.Rows, "values", len(res.Values), "skipped", res.Skipped)
		results[i] = res
	}

	for i, job := range jobs {
		fmt.Fprintf(w, ":: Got %d %s\n", len(results[i].Values), job.Noun)
		if results[i].Skipped > 0 {
			fmt.Fprintf(w, ":: Skipped %d malformed rows in %s\n", results[i].Skipped, job.Source)
		}
	}

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		path := OutputPath(cfg.OutputDir, job.Label, startedAt)
		if err := extract.Write(path, results[i].Values, lineEnding); err != nil {
			return summary, fmt.Errorf("writing %s: %w", job.Noun, err)
		}
		summary.Outputs = append(summary.Outputs, types.OutputFile{
			Label:   job.Label,
			Source:  job.Source,
			Path:    path,
			Values:  len(results[i].Values),
			Skipped: results[i].Skipped,
		})
	}

	summary.Elapsed = now().Sub(startedAt)

	if opts.Recorder != nil {
		if err := opts.Recorder.Record(ctx, &summary); err != nil {
			return summary, fmt.Errorf("recording run: %w", err)
		}
	}

	secs := summary.Elapsed / time.Second
	millis := (summary.Elapsed % time.Second) / time.Millisecond
	fmt.Fprintf(w, ":: Done in %ds and %dms !\n", secs, millis)
	return summary, nil
}
