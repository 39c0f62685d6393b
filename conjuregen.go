// Package conjuregen provides a Go library for generating strongly typed
// Rust client/server bindings from Conjure IR documents.
//
// This package offers both a simple API for common use cases and a flexible
// API for advanced scenarios; the generator package exposes the full
// surface.
//
// Quick Start:
//
//	import conjuregen "github.com/conjure-dev/conjure-rust-gen"
//
//	// Generate Rust bindings
//	err := conjuregen.GenerateRustBindings("./service-api.conjure.json", "./generated")
//
// For more advanced usage, see the generator package.
package conjuregen

import (
	"github.com/conjure-dev/conjure-rust-gen/pkg/generator"
)

// GenerateRustBindings is a convenience function for generating Rust
// bindings with minimal configuration.
//
// Parameters:
//   - irPath: path to the Conjure IR document
//   - outDir: output directory for the generated module tree
//
// Example:
//
//	err := conjuregen.GenerateRustBindings(
//		"./service-api.conjure.json",
//		"./generated",
//	)
func GenerateRustBindings(irPath, outDir string) error {
	return generator.GenerateRustBindings(irPath, outDir)
}

// GenerateBindings runs the generator with full configuration options.
//
// Example:
//
//	err := conjuregen.GenerateBindings(conjuregen.GenerateBindingsOptions{
//		IR:             "./service-api.conjure.json",
//		OutDir:         "./generated",
//		StripPrefix:    "com.palantir",
//		StagedBuilders: true,
//	})
func GenerateBindings(opts GenerateBindingsOptions) error {
	genOpts := generator.GenerateBindingsOptions{
		ConfigPath:     opts.ConfigPath,
		IR:             opts.IR,
		OutDir:         opts.OutDir,
		Exhaustive:     opts.Exhaustive,
		StripPrefix:    opts.StripPrefix,
		StagedBuilders: opts.StagedBuilders,
	}
	return generator.GenerateBindings(genOpts)
}

// GenerateFromConfig runs generation for every target in a YAML
// configuration file.
//
// Example:
//
//	err := conjuregen.GenerateFromConfig("./conjuregen.yaml")
func GenerateFromConfig(configPath string) error {
	return generator.GenerateFromConfig(configPath)
}

// ValidateIR checks that a Conjure IR document parses and is internally
// consistent. This is useful before attempting generation.
//
// Example:
//
//	err := conjuregen.ValidateIR("./service-api.conjure.json")
//	if err != nil {
//		log.Fatalf("invalid IR: %v", err)
//	}
func ValidateIR(irPath string) error {
	return generator.ValidateIR(irPath)
}

// GenerateBindingsOptions contains options for the GenerateBindings
// convenience function
type GenerateBindingsOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// Fallback options when no config file is provided
	IR             string // Conjure IR document path
	OutDir         string // Output directory
	Exhaustive     bool   // Disable the unknown enum/union carrier variants
	StripPrefix    string // Dotted package prefix stripped from module paths
	StagedBuilders bool   // Emit one builder stage per required object field
}
