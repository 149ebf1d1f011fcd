// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls a single named column out of a CSV file and writes
// extracted values to line-oriented text files.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pdiddy/csv-extractor/pkg/types"
)

// utf8BOM is stripped from the first header field when present.
const utf8BOM = "\ufeff"

// Result holds the values extracted from one CSV file.
type Result struct {
	// Values are the column values of every decoded row, in file order.
	Values []string

	// Rows is the number of data rows read, decoded or not.
	Rows int

	// Skipped is the number of malformed rows dropped under PolicySkip.
	Skipped int
}

// Extract opens the CSV file at path and returns the value of column from
// every row that decodes against the header. Malformed rows are handled per
// policy: PolicySkip drops and counts them, PolicyFail returns a *ParseError
// for the first one.
//
// A file that cannot be opened yields an *IOError. A file without a header, or
// whose header lacks column, yields a *ParseError.
func Extract(path, column string, policy types.MalformedPolicy) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return ExtractFrom(f, path, column, policy)
}

// ExtractFrom is Extract over an already-open reader. name identifies the
// source in errors.
func ExtractFrom(r io.Reader, name, column string, policy types.MalformedPolicy) (Result, error) {
	cr := csv.NewReader(r)
	// Field counts are checked per row so a short row can be skipped
	// instead of aborting the read.
	cr.FieldsPerRecord = -1
	// Exports carry stray quotes in unquoted fields (12" High St, O"Brien).
	// They are kept as literal characters.
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, &ParseError{Path: name, Err: ErrMissingHeader}
		}
		return Result{}, readError(name, err)
	}
	header = normalizeHeader(header)

	if !slices.Contains(header, column) {
		return Result{}, &ParseError{Path: name, Line: 1, Err: fmt.Errorf("%w: %q", ErrMissingColumn, column)}
	}

	res := Result{Values: []string{}}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var rec types.Record
		if err == nil {
			line, _ := cr.FieldPos(0)
			rec, err = decodeRecord(header, fields)
			if err != nil {
				err = &ParseError{Path: name, Line: line, Err: err}
			}
		} else {
			err = readError(name, err)
			var ioErr *IOError
			if errors.As(err, &ioErr) {
				return res, err
			}
		}

		res.Rows++
		if err != nil {
			if policy == types.PolicyFail {
				return res, err
			}
			res.Skipped++
			continue
		}

		v, _ := rec.Get(column)
		res.Values = append(res.Values, v)
	}

	return res, nil
}

// decodeRecord maps fields onto header names. A row decodes only when it has
// exactly one field per header column.
func decodeRecord(header, fields []string) (types.Record, error) {
	if len(fields) != len(header) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), len(header))
	}
	rec := make(types.Record, len(header))
	for i, name := range header {
		rec[name] = fields[i]
	}
	return rec, nil
}

func readError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: name, Line: pe.StartLine, Err: pe.Err}
	}
	return &IOError{Op: "read", Path: name, Err: err}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
