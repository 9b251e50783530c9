// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

// ExitError carries the process exit code out of a RunE handler. Execute
// turns it into os.Exit so handlers stay testable.
type ExitError struct {
	// Code is the child's exit code for a failed rpmbuild, 1 otherwise.
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the classified error.
func (e *ExitError) Unwrap() error { return e.Err }
