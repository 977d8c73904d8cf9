package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "occ",
	Short: "occ compiles class-based object-oriented source to textual IR",
	Long: `occ is a whole-program compiler for a statically-typed, class-based
object-oriented language: generics, generators, list comprehensions,
first-class function values, operator overloading, and best-match-distance
overload resolution, lowered to a textual LLVM-style intermediate
representation.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI-colored diagnostics")
	rootCmd.PersistentFlags().String("config", "", "path to .occconfig.yaml (default: ./.occconfig.yaml)")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
