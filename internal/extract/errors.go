// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHeader reports a CSV file with no header row.
	ErrMissingHeader = errors.New("missing header row")
	// ErrMissingColumn reports a header that lacks the requested column.
	ErrMissingColumn = errors.New("column not found in header")
	// ErrFieldCount reports a row whose field count differs from the header.
	ErrFieldCount = errors.New("wrong number of fields")
)

// IOError reports a filesystem failure while opening, reading, creating, or
// writing a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports CSV content that cannot be read. Line is the 1-based
// line number of the offending row, or zero when the failure is not tied to
// a row.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
