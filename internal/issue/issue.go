// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	DescriptorNotFoundId Id = iota + 1
	DescriptorInvalidId
	RPMBuildNotFoundId
	RPMBuildFailedId
	ContainerEngineNotFoundId
	MalformedArchiveId
	PermissionDeniedId
)

type (
	// Id identifies a catalog entry.
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a catalog entry: Markdown guidance plus related links.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the entry for the terminal using the glamour style at stylePath
// (a standard style name such as "dark" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- " + string(link) + "\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# No project descriptor found!

packsmith reads the project from a CUE descriptor.

## Search locations (in order of precedence):
1. The path given with ` + "`--config`" + `
2. ` + "`packsmith.cue`" + ` in the current directory

## Things you can try:
- Create a descriptor with defaults:
~~~
$ packsmith config init
~~~
- Point at an existing one:
~~~
$ packsmith --config path/to/packsmith.cue zip
~~~`,
	}

	descriptorInvalidIssue = &Issue{
		id: DescriptorInvalidId,
		mdMsg: `
# The project descriptor is invalid!

## Things you can try:
- Check the field named in the error above
- Print the effective configuration:
~~~
$ packsmith config dump
~~~
- Every RPM build needs ` + "`rpm.component_name`" + ` and ` + "`project.version`" + ``,
	}

	rpmbuildNotFoundIssue = &Issue{
		id: RPMBuildNotFoundId,
		mdMsg: `
# rpmbuild was not found!

The rpm goal drives the ` + "`rpmbuild`" + ` program, which must be on your PATH.

## Things you can try:
- Install it:
~~~
$ sudo dnf install rpm-build
$ sudo apt-get install rpm
~~~
- Or build inside a container that has it:
~~~cue
rpm: container: {engine: "podman", image: "registry.fedoraproject.org/fedora:41"}
~~~`,
	}

	rpmbuildFailedIssue = &Issue{
		id: RPMBuildFailedId,
		mdMsg: `
# rpmbuild failed!

The rpmbuild output was logged above.

## Things you can try:
- Keep the build workspace for inspection:
~~~
$ packsmith rpm --debug
~~~
- Preview the generated spec file:
~~~
$ packsmith rpm --dry-run
~~~
- Check that scriptlet overrides are valid shell`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

## Things you can try:
- Install Podman or Docker
- Set ` + "`rpm.container.engine`" + ` to the engine you have
- Remove the ` + "`rpm.container`" + ` block to run rpmbuild on the host`,
	}

	malformedArchiveIssue = &Issue{
		id: MalformedArchiveId,
		mdMsg: `
# Malformed archive!

The project artifact could not be opened as a ZIP/JAR file.

## Things you can try:
- Rebuild the project artifact
- Check ` + "`project.artifact.file`" + ` points at a jar
- Set ` + "`rpm.skip_repack: true`" + ` to bundle the artifact as is`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

## Things you can try:
- Check the permissions of the output directory
- Run packsmith from a directory you own`,
	}

	issues = []*Issue{
		descriptorNotFoundIssue,
		descriptorInvalidIssue,
		rpmbuildNotFoundIssue,
		rpmbuildFailedIssue,
		containerEngineNotFoundIssue,
		malformedArchiveIssue,
		permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.Clone(issues)
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	if i := slices.IndexFunc(issues, func(is *Issue) bool { return is.id == id }); i >= 0 {
		return issues[i]
	}
	return nil
}
