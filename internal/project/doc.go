// SPDX-License-Identifier: MPL-2.0

// Package project models the project being packaged: its coordinates and
// directories, its own artifact and declared dependencies, the build properties
// file, and the outputs a goal produced.
package project
