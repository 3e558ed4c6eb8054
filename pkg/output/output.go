// Package output opens destination files for the exporters and reports
// failures as a distinguishable error type.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnwritable matches every WriteError via errors.Is.
var ErrUnwritable = errors.New("destination unwritable")

// WriteError reports a failed write to an output file.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnwritable.
func (e *WriteError) Is(target error) bool {
	return target == ErrUnwritable
}

// Wrap returns err as a WriteError for path, or nil when err is nil. An
// existing WriteError is returned unchanged.
func Wrap(path, op string, err error) error {
	if err == nil {
		return nil
	}
	var we *WriteError
	if errors.As(err, &we) {
		return err
	}
	return &WriteError{Path: path, Op: op, Err: err}
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &WriteError{Path: path, Op: "create", Err: err}
	}
	return f, nil
}

// WriteFile writes data to path in one call.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// ReplaceExt swaps the extension of path for ext. A path without an
// extension gets ext appended.
func ReplaceExt(path, ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Op: "mkdir", Err: err}
	}
	return nil
}
