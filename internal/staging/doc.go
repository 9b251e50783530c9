// SPDX-License-Identifier: MPL-2.0

// Package staging assembles the directory tree that a packaging goal compresses.
//
// The tree lives under <output>/temp. It holds the generated primary jar, the merged
// primary dependency, every other bundled dependency under lib/, and the user's
// include paths minus anything matching the exclusion rules. All file access goes
// through a billy.Filesystem so the assembler runs unchanged against memfs in tests.
package staging
