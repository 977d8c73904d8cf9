package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/occ-lang/occ/internal/builder"
	"github.com/occ-lang/occ/internal/config"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/frontend"
	"github.com/occ-lang/occ/internal/irout"
	"github.com/occ-lang/occ/internal/resolve"
	"github.com/occ-lang/occ/internal/visitor"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file> [files...]",
	Short: "compile one or more source files into textual IR",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

// runCompile drives the whole pipeline §6 describes: parse every source
// file to a CST module, build the AST (desugaring as it goes), resolve
// what the builder left as stubs, emit IR, assemble and validate the
// output document, then write it per the active config's Output
// template.
func runCompile(c *cobra.Command, args []string) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	noColor, _ := c.Flags().GetBool("no-color")
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
		exitWithError("resolution failed")
	}

	v := visitor.New()
	constants, declarations, bodies := v.EmitProgram(prog)
	if errs := v.Errors(); len(errs) > 0 {
		printErrors(errs, color)
		exitWithError("emission failed")
	}

	if err := irout.CheckTerminators(bodies); err != nil {
		exitWithError("%v", err)
	}

	doc := &irout.Document{
		TargetTriple: cfg.TargetTriple,
		Constants:    constants,
		Declarations: declarations,
		Bodies:       bodies,
	}

	outPath := outputPath(cfg, args[0])
	if err := os.WriteFile(outPath, []byte(doc.String()), 0o644); err != nil {
		exitWithError("writing %s: %v", outPath, err)
	}
	return nil
}

func loadConfig(c *cobra.Command) (*config.Config, error) {
	path, _ := c.Flags().GetString("config")
	if path == "" {
		path = ".occconfig.yaml"
	}
	return config.Load(path)
}

func outputPath(cfg *config.Config, srcPath string) string {
	name := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	return strings.ReplaceAll(cfg.Output, "{name}", name)
}

func printErrors(errs []*diagnostics.CompilerError, color bool) {
	os.Stderr.WriteString(diagnostics.FormatErrors(errs, color))
}
