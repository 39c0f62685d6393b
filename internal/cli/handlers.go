package cli

import (
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/conjure-dev/conjure-rust-gen/pkg/generator"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// RunGenerateParams contains parameters for the generate command
type RunGenerateParams struct {
	ConfigPath string
	Verbose    bool
	Fallback   FallbackParams
}

// FallbackParams contains fallback parameters when no config is provided
type FallbackParams struct {
	IR             string
	OutDir         string
	Exhaustive     bool
	StripPrefix    string
	StagedBuilders bool
}

// RunGenerate runs the generate command using the public API
func RunGenerate(p RunGenerateParams) error {
	logger := newLogger(p.Verbose)
	defer func() {
		_ = logger.Sync()
	}()

	service := generator.NewService(logger)
	err := service.Generate(generator.GenerateOptions{
		ConfigPath: p.ConfigPath,
		Fallback: generator.FallbackOptions{
			IR:             p.Fallback.IR,
			OutDir:         p.Fallback.OutDir,
			Exhaustive:     p.Fallback.Exhaustive,
			StripPrefix:    p.Fallback.StripPrefix,
			StagedBuilders: p.Fallback.StagedBuilders,
		},
	})
	if err != nil {
		color.Red("generation failed: %v", err)
		return err
	}

	color.Green("generation complete")
	return nil
}

// RunValidate runs the validate command using the public API
func RunValidate(input string) error {
	if _, err := ir.LoadFile(input); err != nil {
		color.Red("invalid IR document: %v", err)
		return err
	}
	color.Green("%s is a valid IR document", input)
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
