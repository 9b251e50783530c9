// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Filesystem helpers (MustWriteFiles, MustReadFile, MustWriteZip, ReadZip) work
// on any billy.Filesystem, so tests can seed an in-memory tree with memfs.
// Container helpers (ContainerSemaphore, ContainersAvailable) gate the
// rpmbuild integration tests.
package testutil
