// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the packsmith CLI commands.
//
// The command tree is built by newRootCommand around an App, the composition
// root that owns the filesystem, the descriptor provider, the loggers and the
// rpmbuild runner. Tests construct an App with in-memory dependencies.
package cmd
