package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/occ-lang/occ/internal/builder"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/frontend"
	"github.com/occ-lang/occ/internal/resolve"
)

var emitASTCmd = &cobra.Command{
	Use:   "emit-ast <file> [files...]",
	Short: "parse and build the given files, printing the resolved declaration tree",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEmitAST,
}

func init() {
	rootCmd.AddCommand(emitASTCmd)
}

// runEmitAST runs the parse/build/resolve stages without emission,
// printing each module's String() form — a debugging aid for inspecting
// how a surface program desugars before chasing an IR-level bug.
func runEmitAST(c *cobra.Command, args []string) error {
	noColor, _ := c.Flags().GetBool("no-color")
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	color := cfg.ColorDiagnostics && !noColor

	var mods []*cst.Module
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			exitWithError("reading %s: %v", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		p := frontend.NewParser(string(src), path)
		mod := p.ParseModule(name)
		if errs := p.Errors(); len(errs) > 0 {
			printErrors(errs, color)
			exitWithError("parsing %s failed", path)
		}
		mods = append(mods, mod)
	}

	b := builder.New()
	prog := b.BuildProgram(mods)
	if errs := b.Errors(); len(errs) > 0 {
		printErrors(errs, color)
		exitWithError("building failed")
	}
	if errs := resolve.Resolve(prog); len(errs) > 0 {
		printErrors(errs, color)
	}

	for _, m := range prog.Modules {
		fmt.Println(m.String())
		fmt.Print(m.Body.String())
	}
	return nil
}
