// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bufio"
	"os"
	"path/filepath"
)

// Write creates (or truncates) the file at path and writes each value
// followed by lineEnding. Parent directories are created first. Every
// failure is returned as an *IOError.
func Write(path string, values []string, lineEnding string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	w := bufio.NewWriter(f)
	for _, v := range values {
		if _, err := w.WriteString(v); err != nil {
			return &IOError{Op: "write", Path: path, Err: err}
		}
		if _, err := w.WriteString(lineEnding); err != nil {
			return &IOError{Op: "write", Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
