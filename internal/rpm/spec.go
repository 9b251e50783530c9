// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"fmt"
	"io"
	"strings"
)

const (
	sourceLine     = "Source: %{name}.tgz\n"
	buildRootLine  = "BuildRoot: %{_tmppath}/%{name}-%{version}-%{release}\n"
	skipRepackLine = "\n%define __spec_install_post /usr/lib/rpm/brp-compress /usr/lib/rpm/brp-strip\n"
)

// RenderSpec writes the spec file for p with the given section bodies.
func RenderSpec(w io.Writer, p *Params, scripts Scripts) error {
	_, err := io.WriteString(w, SpecString(p, scripts))
	return err
}

// SpecString renders the spec file for p into a string.
func SpecString(p *Params, scripts Scripts) string {
	var sb strings.Builder
	writeHeader(&sb, p)
	writeBody(&sb, p, scripts)
	return sb.String()
}

func writeHeader(sb *strings.Builder, p *Params) {
	for _, d := range p.Defines {
		fmt.Fprintf(sb, "%%define %s\n", d)
	}

	fmt.Fprintf(sb, "Name: %s\n", p.ComponentName)
	fmt.Fprintf(sb, "Version: %s\n", p.Version.RPMVersion())
	fmt.Fprintf(sb, "Release: %s\n", p.ResolvedRelease())

	for _, tag := range []struct{ name, value string }{
		{"Summary", p.Summary},
		{"License", p.License},
		{"Distribution", p.Distribution},
		{"Vendor", p.Vendor},
		{"URL", p.URL},
		{"Group", p.Group},
		{"Packager", p.Packager},
		{"Prefix", p.TagPrefix},
		{"BuildRoot", p.BuildRoot},
		{"BuildArch", p.BuildArch},
	} {
		if tag.value != "" {
			fmt.Fprintf(sb, "%s: %s\n", tag.name, tag.value)
		}
	}

	for _, r := range p.Requires {
		fmt.Fprintf(sb, "Requires: %s\n", r)
	}

	sb.WriteString(sourceLine)
	sb.WriteString(buildRootLine)

	if p.Description != "" {
		fmt.Fprintf(sb, "\n%%description\n%s\n", p.Description)
	}
}

func writeBody(sb *strings.Builder, p *Params, scripts Scripts) {
	if p.SkipRepack {
		sb.WriteString(skipRepackLine)
	}
	fmt.Fprintf(sb, "%%define component_name %s\n", p.ComponentName)
	fmt.Fprintf(sb, "%%define install_dir /%s\n", p.ResolvedInstallDir())
	fmt.Fprintf(sb, "%%define pom_buildroot %s\n", p.BuildrootDir)
	fmt.Fprintf(sb, "%%define _prefix %s\n\n", p.ResolvedPrefix())

	for _, s := range Sections() {
		fmt.Fprintf(sb, "%s\n%s\n\n", s.Header(), scripts[s])
	}
}
