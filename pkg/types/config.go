package types

import (
	"fmt"
	"runtime"
)

// Default values for ExtractorConfig fields.
const (
	DefaultOutputDir = "./Extracted"
	DefaultColumn    = FieldMobOrEmail
)

// MalformedPolicy selects what happens when a CSV row cannot be decoded.
type MalformedPolicy string

const (
	// PolicySkip drops malformed rows and counts them.
	PolicySkip MalformedPolicy = "skip"
	// PolicyFail aborts extraction at the first malformed row.
	PolicyFail MalformedPolicy = "fail"
)

// LineEnding names the terminator written after every output value.
type LineEnding string

const (
	LineEndingAuto LineEnding = "auto"
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// Resolve returns the literal terminator for the line ending. LineEndingAuto
// (and the empty value) resolves from goos: "\r\n" on windows, "\n" elsewhere.
func (le LineEnding) Resolve(goos string) (string, error) {
	switch le {
	case LineEndingLF, "\n":
		return "\n", nil
	case LineEndingCRLF, "\r\n":
		return "\r\n", nil
	case LineEndingAuto, "":
		if goos == "windows" {
			return "\r\n", nil
		}
		return "\n", nil
	default:
		return "", fmt.Errorf("unsupported line ending %q: use auto, lf, or crlf", string(le))
	}
}

// ExtractorConfig holds the settings for one extraction run. Values come from
// flags, CSV_EXTRACTOR_* environment variables, and the config file.
type ExtractorConfig struct {
	// OutputDir is the directory that receives the extracted text files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Column is the CSV header name whose values are extracted.
	Column string `json:"column" yaml:"column"`

	// OnMalformed selects the malformed-row policy: skip or fail.
	OnMalformed MalformedPolicy `json:"on_malformed" yaml:"on_malformed"`

	// LineEnding selects the output terminator: auto, lf, or crlf.
	LineEnding LineEnding `json:"line_ending" yaml:"line_ending"`

	// LedgerPath is the SQLite run ledger. Empty disables the ledger.
	LedgerPath string `json:"ledger,omitempty" yaml:"ledger,omitempty"`
}

// DefaultExtractorConfig returns the configuration used when nothing is set.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		OutputDir:   DefaultOutputDir,
		Column:      DefaultColumn,
		OnMalformed: PolicySkip,
		LineEnding:  LineEndingAuto,
	}
}

// Validate checks the configuration and fills empty fields with defaults.
func (c *ExtractorConfig) Validate() error {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Column == "" {
		c.Column = DefaultColumn
	}
	switch c.OnMalformed {
	case "":
		c.OnMalformed = PolicySkip
	case PolicySkip, PolicyFail:
	default:
		return fmt.Errorf("unsupported malformed-row policy %q: use skip or fail", string(c.OnMalformed))
	}
	if c.LineEnding == "" {
		c.LineEnding = LineEndingAuto
	}
	if _, err := c.LineEnding.Resolve(runtime.GOOS); err != nil {
		return err
	}
	return nil
}
