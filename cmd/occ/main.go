// Command occ compiles class-based object-oriented source files into
// textual LLVM-style intermediate representation.
package main

import (
	"os"

	"github.com/occ-lang/occ/cmd/occ/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
