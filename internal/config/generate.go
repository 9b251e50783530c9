// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"slices"
	"strings"
)

// GenerateCUE renders cfg as a descriptor. Unset optional fields are omitted,
// so the output validates against #Config.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// packsmith project descriptor\n\n")

	p := cfg.Project
	sb.WriteString("project: {\n")
	writeString(&sb, 1, "group_id", p.GroupID)
	writeString(&sb, 1, "artifact_id", p.ArtifactID)
	writeString(&sb, 1, "version", p.Version)
	writeString(&sb, 1, "final_name", p.FinalName)
	writeString(&sb, 1, "base_dir", p.BaseDir)
	writeString(&sb, 1, "output_dir", p.OutputDir)
	writeString(&sb, 1, "classes_dir", p.ClassesDir)
	writeString(&sb, 1, "properties_file", p.PropertiesFile)
	if p.Artifact.ArtifactID != "" {
		sb.WriteString("\tartifact: ")
		writeArtifact(&sb, p.Artifact)
		sb.WriteString("\n")
	}
	if len(p.Dependencies) > 0 {
		sb.WriteString("\tdependencies: [\n")
		for _, d := range p.Dependencies {
			sb.WriteString("\t\t")
			writeArtifact(&sb, d)
			sb.WriteString(",\n")
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	pkg := cfg.Package
	sb.WriteString("\npackage: {\n")
	fmt.Fprintf(&sb, "\tbase_directory: %v\n", pkg.BaseDirectory)
	fmt.Fprintf(&sb, "\tadd_dependencies: %v\n", pkg.AddDependencies)
	fmt.Fprintf(&sb, "\tgenerate_primary_artifact: %v\n", pkg.GeneratePrimaryArtifact)
	writeString(&sb, 1, "primary_artifact_id", pkg.PrimaryArtifactID)
	writeString(&sb, 1, "classifier", pkg.Classifier)
	writeList(&sb, 1, "include", pkg.Include)
	writeList(&sb, 1, "exclude", pkg.Exclude)
	sb.WriteString("}\n")

	r := cfg.RPM
	sb.WriteString("\nrpm: {\n")
	for _, f := range []struct{ key, value string }{
		{"component_name", r.ComponentName},
		{"install_dir", r.InstallDir},
		{"release", r.Release},
		{"prefix", r.Prefix},
		{"summary", r.Summary},
		{"license", r.License},
		{"distribution", r.Distribution},
		{"vendor", r.Vendor},
		{"url", r.URL},
		{"group", r.Group},
		{"packager", r.Packager},
		{"tag_prefix", r.TagPrefix},
		{"build_root", r.BuildRoot},
		{"build_arch", r.BuildArch},
		{"description", r.Description},
		{"buildroot_dir", r.BuildrootDir},
	} {
		writeString(&sb, 1, f.key, f.value)
	}
	fmt.Fprintf(&sb, "\tneed_arch: %v\n", r.NeedArch)
	fmt.Fprintf(&sb, "\tskip_repack: %v\n", r.SkipRepack)
	fmt.Fprintf(&sb, "\tdebug: %v\n", r.Debug)
	writeList(&sb, 1, "defines", r.Defines)
	writeList(&sb, 1, "requires", r.Requires)
	if len(r.Scripts) > 0 {
		keys := make([]string, 0, len(r.Scripts))
		for k := range r.Scripts {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sb.WriteString("\tscripts: {\n")
		for _, k := range keys {
			writeString(&sb, 2, k, r.Scripts[k])
		}
		sb.WriteString("\t}\n")
	}
	if r.Container.Engine != "" {
		sb.WriteString("\tcontainer: {\n")
		writeString(&sb, 2, "engine", string(r.Container.Engine))
		writeString(&sb, 2, "image", r.Container.Image)
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	writeString(&sb, 1, "level", string(cfg.Log.Level))
	sb.WriteString("}\n")

	return sb.String()
}

func writeString(sb *strings.Builder, depth int, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s%s: %q\n", strings.Repeat("\t", depth), key, value)
}

func writeList(sb *strings.Builder, depth int, key string, values []string) {
	if len(values) == 0 {
		return
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(sb, "%s%s: [%s]\n", strings.Repeat("\t", depth), key, strings.Join(quoted, ", "))
}

func writeArtifact(sb *strings.Builder, a ArtifactConfig) {
	fields := make([]string, 0, 7)
	for _, f := range []struct{ key, value string }{
		{"group_id", a.GroupID},
		{"artifact_id", a.ArtifactID},
		{"version", a.Version},
		{"type", a.Type},
		{"classifier", a.Classifier},
		{"scope", a.Scope},
		{"file", a.File},
	} {
		if f.value != "" {
			fields = append(fields, fmt.Sprintf("%s: %q", f.key, f.value))
		}
	}
	sb.WriteString("{" + strings.Join(fields, ", ") + "}")
}
