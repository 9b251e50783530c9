// SPDX-License-Identifier: MPL-2.0

package rpm

import "runtime"

// NoArch is the architecture of packages that run anywhere.
const NoArch = "noarch"

// hostArch is overridden in tests.
var hostArch = runtime.GOARCH

var goToRPMArch = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i386",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"riscv64": "riscv64",
}

// HostArch returns the RPM name of the host architecture, or "" when it has none.
func HostArch() string {
	return goToRPMArch[hostArch]
}

// Arch returns the architecture of the built package: noarch unless NeedArch is
// set, in which case BuildArch or the host architecture.
func (p *Params) Arch() string {
	if !p.NeedArch {
		return NoArch
	}
	if p.BuildArch != "" {
		return p.BuildArch
	}
	return HostArch()
}
