package generator

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/conjure-dev/conjure-rust-gen/pkg/config"
	"github.com/conjure-dev/conjure-rust-gen/pkg/generator/rust"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// Generator defines the interface for code generators
type Generator interface {
	// Generate emits the bindings for one target from a loaded definition
	Generate(target config.Target, def *ir.ConjureDefinition) error
	// GetType returns the type identifier for this generator (e.g., "rust")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	return types
}

// GenerateOptions contains options for a generator run
type GenerateOptions struct {
	ConfigPath string
	Fallback   FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	IR             string
	OutDir         string
	Exhaustive     bool
	StripPrefix    string
	StagedBuilders bool
}

// Service provides high-level generation functionality
type Service struct {
	registry *Registry
	logger   *zap.Logger
}

// NewService creates a new generator service with default generators
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := NewRegistry()
	registry.Register(rust.NewRustGenerator())
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

// Generate runs generation based on the provided options
func (s *Service) Generate(opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		if opts.Fallback.IR == "" || opts.Fallback.OutDir == "" {
			return fmt.Errorf("either config path or the --input and --out fallback options must be provided")
		}
		cfg = &config.Config{
			IR: opts.Fallback.IR,
			Targets: []config.Target{
				{
					Type:           "rust",
					OutDir:         opts.Fallback.OutDir,
					Exhaustive:     opts.Fallback.Exhaustive,
					StripPrefix:    opts.Fallback.StripPrefix,
					StagedBuilders: opts.Fallback.StagedBuilders,
				},
			},
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	return s.GenerateFromConfig(cfg)
}

// GenerateFromConfig runs generation for every target in a configuration
func (s *Service) GenerateFromConfig(cfg *config.Config) error {
	def, err := ir.LoadFile(cfg.IR)
	if err != nil {
		return err
	}

	s.logger.Info("loaded IR document",
		zap.String("path", cfg.IR),
		zap.Int("types", len(def.Types)),
		zap.Int("services", len(def.Services)),
		zap.Int("errors", len(def.Errors)))

	for _, target := range cfg.Targets {
		gen, exists := s.registry.Get(target.Type)
		if !exists {
			return fmt.Errorf("unsupported target type: %s", target.Type)
		}

		if err := os.MkdirAll(target.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", target.OutDir, err)
		}

		if err := gen.Generate(target, def); err != nil {
			return err
		}

		s.logger.Info("generated target",
			zap.String("type", target.Type),
			zap.String("outDir", target.OutDir))
	}

	return nil
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}
