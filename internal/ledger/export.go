// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/csv-extractor/pkg/types"
)

// Format selects how Export renders runs.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// ExportRun is the serialized form of a run. Elapsed is rendered as a
// duration string rather than nanoseconds.
type ExportRun struct {
	ID        int64              `json:"id" yaml:"id"`
	StartedAt string             `json:"started_at" yaml:"started_at"`
	Elapsed   string             `json:"elapsed" yaml:"elapsed"`
	Column    string             `json:"column" yaml:"column"`
	Outputs   []types.OutputFile `json:"outputs" yaml:"outputs"`
}

func exportRuns(runs []types.RunSummary) []ExportRun {
	out := make([]ExportRun, len(runs))
	for i, r := range runs {
		out[i] = ExportRun{
			ID:        r.ID,
			StartedAt: r.StartedAt.UTC().Format(time.RFC3339Nano),
			Elapsed:   r.Elapsed.String(),
			Column:    r.Column,
			Outputs:   r.Outputs,
		}
		if out[i].Outputs == nil {
			out[i].Outputs = []types.OutputFile{}
		}
	}
	return out
}

// Export writes runs to w in the given format.
func Export(w io.Writer, runs []types.RunSummary, format Format) error {
	switch format {
	case FormatTable, "":
		return writeTable(w, runs)
	case FormatYAML:
		data, err := yaml.Marshal(exportRuns(runs))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(exportRuns(runs), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml, or json", format)
	}
}

func writeTable(w io.Writer, runs []types.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	fmt.Fprintf(w, "%-5s  %-25s  %-10s  %-8s  %-8s  %s\n",
		"ID", "Started", "Elapsed", "Values", "Skipped", "Outputs")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		paths := make([]string, len(r.Outputs))
		for i, o := range r.Outputs {
			paths[i] = o.Path
		}
		fmt.Fprintf(w, "%-5d  %-25s  %-10s  %-8d  %-8d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.RFC3339), r.Elapsed.Round(time.Millisecond),
			r.TotalValues(), r.TotalSkipped(), strings.Join(paths, ", "))
	}

	_, err := fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return err
}
