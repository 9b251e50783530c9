// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"

	"packsmith-cli/internal/config"
	"packsmith-cli/internal/issue"
	"packsmith-cli/internal/rpm"
	"packsmith-cli/internal/staging"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError attaches the catalog entry and the suggestions that fit err.
// Errors that already carry context keep it.
func classifyError(operation string, err error) *ServiceError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return newServiceError(err, ae.Issue)
	}

	ctx := issue.NewErrorContext().WithOperation(operation).Wrap(err)
	var id issue.Id
	switch {
	case errors.Is(err, exec.ErrNotFound):
		id = issue.RPMBuildNotFoundId
	case errors.Is(err, rpm.ErrProcessFailed):
		id = issue.RPMBuildFailedId
		ctx.WithSuggestion("Rerun with --debug to keep the build workspace")
	case errors.Is(err, rpm.ErrInvalidConfiguration), errors.Is(err, config.ErrInvalidConfig):
		id = issue.DescriptorInvalidId
	case errors.Is(err, rpm.ErrInvalidEngine), errors.Is(err, rpm.ErrMissingImage):
		id = issue.ContainerEngineNotFoundId
	case errors.Is(err, staging.ErrMalformedArchive):
		id = issue.MalformedArchiveId
	case errors.Is(err, fs.ErrPermission):
		id = issue.PermissionDeniedId
	}
	return newServiceError(ctx.WithIssue(id).BuildError(), id)
}

// exitCode returns the exit code the process should end with for err:
// the child's code for a failed rpmbuild, 1 otherwise.
func exitCode(err error) int {
	var procErr *rpm.ProcessError
	if errors.As(err, &procErr) && procErr.ExitCode > 0 {
		return procErr.ExitCode
	}
	return 1
}

// renderServiceError prints the optional issue help section. With verbose set,
// the error headline, its suggestions and the cause chain come first.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string, verbose bool) {
	if svcErr == nil {
		return
	}

	if verbose {
		detail := svcErr.Error()
		var ae *issue.ActionableError
		if errors.As(svcErr.Err, &ae) {
			detail = ae.Format(true)
		}
		headline, rest, _ := strings.Cut(detail, "\n")
		fmt.Fprintln(stderr, ErrorStyle.Render(headline))
		if rest != "" {
			fmt.Fprintln(stderr, rest)
		}
	}

	if svcErr.IssueID == 0 {
		return
	}
	if entry := issue.Get(svcErr.IssueID); entry != nil {
		rendered, err := entry.Render(style)
		if err != nil {
			fmt.Fprintln(stderr, WarningStyle.Render("failed to render help: ")+err.Error())
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
