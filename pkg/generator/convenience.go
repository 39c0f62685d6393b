package generator

import (
	"path/filepath"

	"github.com/conjure-dev/conjure-rust-gen/pkg/config"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// GenerateBindings is a convenience function for running the generator with
// minimal configuration
func GenerateBindings(opts GenerateBindingsOptions) error {
	service := NewService(nil)

	genOpts := GenerateOptions{
		ConfigPath: opts.ConfigPath,
		Fallback: FallbackOptions{
			IR:             opts.IR,
			OutDir:         opts.OutDir,
			Exhaustive:     opts.Exhaustive,
			StripPrefix:    opts.StripPrefix,
			StagedBuilders: opts.StagedBuilders,
		},
	}

	return service.Generate(genOpts)
}

// GenerateBindingsOptions contains options for the convenience
// GenerateBindings function
type GenerateBindingsOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Fallback options when no config file is provided
	IR             string // Conjure IR document path
	OutDir         string // Output directory
	Exhaustive     bool   // Disable the unknown enum/union carrier variants
	StripPrefix    string // Dotted package prefix to strip from module paths
	StagedBuilders bool   // Emit one builder stage per required object field
}

// GenerateRustBindings is a convenience function for the common
// single-target case
func GenerateRustBindings(irPath, outDir string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateBindings(GenerateBindingsOptions{
		IR:     irPath,
		OutDir: absOutDir,
	})
}

// GenerateFromConfig is a convenience function for generating from a config
// file
func GenerateFromConfig(configPath string) error {
	service := NewService(nil)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	return service.GenerateFromConfig(cfg)
}

// ValidateIR loads a Conjure IR document and checks its internal
// consistency without generating output
func ValidateIR(irPath string) error {
	_, err := ir.LoadFile(irPath)
	return err
}
