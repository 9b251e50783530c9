// SPDX-License-Identifier: MPL-2.0

// Package rpm builds RPM packages from a staging tree by driving rpmbuild.
//
// A build runs as a fixed sequence: validate Params, initialize the workspace
// (<output>/rpm with BUILD, RPMS, SOURCES, SPECS and SRPMS), write the staging tree
// as SOURCES/<component>.tgz, render SPECS/<component>.spec, run rpmbuild through a
// Runner, copy the package from RPMS/<arch> to the output directory and finally
// remove the staging tree and workspace unless Debug is set.
//
// Section bodies come from override files resolved against the buildroot directory
// or from built-in defaults. Shell sections are parsed with mvdan.cc/sh so obvious
// mistakes surface as warnings before rpmbuild runs.
package rpm
