// SPDX-License-Identifier: MPL-2.0

package main

import cmd "packsmith-cli/cmd/packsmith"

func main() {
	cmd.Execute()
}
