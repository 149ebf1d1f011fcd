// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Header names of the contact export both input files share.
const (
	FieldName        = "name"
	FieldGender      = "gender"
	FieldHomeAddress = "home_address"
	FieldMobOrEmail  = "mob_or_email"
)

// Record is one decoded CSV row, keyed by header name.
type Record map[string]string

// Get returns the value of field and whether the record has it.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

// OutputFile describes one extracted text file written by a run.
type OutputFile struct {
	// Label is the filename prefix (e.g. "EMails").
	Label string `json:"label" yaml:"label"`

	// Source is the CSV file the values came from.
	Source string `json:"source" yaml:"source"`

	// Path is where the values were written.
	Path string `json:"path" yaml:"path"`

	// Values is the number of lines written.
	Values int `json:"values" yaml:"values"`

	// Skipped is the number of malformed rows dropped from Source.
	Skipped int `json:"skipped" yaml:"skipped"`
}

// RunSummary holds the outcome of one extraction run.
type RunSummary struct {
	// ID is the ledger row ID; zero until the run is recorded.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// StartedAt is the wall clock captured at run start; output names derive from it.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Elapsed is the run duration.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// Column is the extracted header name.
	Column string `json:"column" yaml:"column"`

	// Outputs lists the files written, in run order.
	Outputs []OutputFile `json:"outputs" yaml:"outputs"`
}

// TotalValues returns the number of values written across all outputs.
func (s RunSummary) TotalValues() int {
	n := 0
	for _, o := range s.Outputs {
		n += o.Values
	}
	return n
}

// TotalSkipped returns the number of malformed rows dropped across all outputs.
func (s RunSummary) TotalSkipped() int {
	n := 0
	for _, o := range s.Outputs {
		n += o.Skipped
	}
	return n
}
