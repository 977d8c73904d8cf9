// Package config loads the compiler's project configuration file,
// .occconfig.yaml, via goccy/go-yaml — adopted here as a new direct
// dependency that the teacher only carried indirectly (see DESIGN.md),
// since nothing in the teacher's own CLI reads a project config file.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the on-disk shape of .occconfig.yaml.
type Config struct {
	// Output is a path template for the emitted IR file; "{name}"
	// substitutes the input file's base name without extension.
	Output string `yaml:"output"`

	// TargetTriple is emitted verbatim as the leading IR comment
	// (internal/irout.Document.TargetTriple); the compiler never
	// validates or acts on it beyond that.
	TargetTriple string `yaml:"targetTriple"`

	Verbose          bool `yaml:"verbose"`
	ColorDiagnostics bool `yaml:"colorDiagnostics"`
}

// Default returns the configuration used when no .occconfig.yaml is
// present.
func Default() *Config {
	return &Config{
		Output:           "{name}.ll",
		TargetTriple:     "",
		Verbose:          false,
		ColorDiagnostics: true,
	}
}

// Load reads and parses path, returning Default() unchanged if the file
// does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
