// SPDX-License-Identifier: MPL-2.0

// Package goal runs the packaging goals: zip, rpm and timestamp. Each goal
// takes the loaded descriptor, resolves and filters artifacts, assembles the
// staging tree and hands it to the archive writer or the package builder.
package goal
