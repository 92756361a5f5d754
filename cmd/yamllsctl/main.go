// Command yamllsctl is a thin CLI driver over the yamlls validation core:
// schema resolution, draft-07 validation, and diagnostic formatting
// without a language-server transport. See the yamlls package for the
// embeddable service an LSP host would use instead.
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := Execute(version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
