package snapshot

import (
	"errors"
	"fmt"
)

// EnvironmentError reports that the directory holding the snapshot
// subdirectory does not exist.
type EnvironmentError struct {
	Path string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("FATAL: Can't find directory - check the path of your snapshot-file (%s)", e.Path)
}

// IOError wraps any filesystem failure other than a missing snapshot file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("FATAL: failed to %s (%s): %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err ends a match attempt.
func IsFatal(err error) bool {
	var envErr *EnvironmentError
	var ioErr *IOError
	return errors.As(err, &envErr) || errors.As(err, &ioErr)
}
