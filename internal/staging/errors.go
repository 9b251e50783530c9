// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedArchive is returned when a zip or jar cannot be read.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrInvalidExclusion is returned when an exclusion pattern is not a valid regular expression.
	ErrInvalidExclusion = errors.New("invalid exclusion pattern")
)

type (
	// ArchiveError names the archive that could not be exploded.
	// It wraps ErrMalformedArchive for errors.Is() compatibility.
	ArchiveError struct {
		File string
		Err  error
	}

	// Logger is the subset of *log.Logger used by this package.
	Logger interface {
		Debug(msg any, keyvals ...any)
		Info(msg any, keyvals ...any)
		Warn(msg any, keyvals ...any)
	}

	nopLogger struct{}
)

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("cannot expand %s, is it really a zip file? %v", e.File, e.Err)
}

// Unwrap returns ErrMalformedArchive so callers can use errors.Is for programmatic detection.
func (e *ArchiveError) Unwrap() []error { return []error{ErrMalformedArchive, e.Err} }

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
