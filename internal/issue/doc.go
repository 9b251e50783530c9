// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance
// rendered for the user when a packaging run fails.
package issue
