// SPDX-License-Identifier: MPL-2.0

// Package artifact models resolved build artifacts and selects the ones a packaging
// goal bundles.
//
// Artifacts are identified by group:artifact:type[:classifier]:version. Filter keeps
// the project's own artifact, drops test-scoped dependencies and dependencies whose
// file extension is not in the goal's allowed set, and collapses duplicates.
package artifact
