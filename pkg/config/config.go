package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for a generator run
type Config struct {
	// IR is the path to the Conjure IR document
	IR      string   `yaml:"ir" validate:"required"`
	Targets []Target `yaml:"targets" validate:"required,min=1,dive"`
}

// Target represents configuration for one generated output tree
type Target struct {
	// Type selects the registered generator; defaults to "rust"
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir" validate:"required"`
	// Exhaustive disables the unknown carrier variant on enums and unions
	Exhaustive bool `yaml:"exhaustive"`
	// StripPrefix is a dotted package prefix dropped from every module path
	StripPrefix string `yaml:"stripPrefix"`
	// StagedBuilders emits one builder stage per required object field
	StagedBuilders bool `yaml:"stagedBuilders"`
}

var validate = validator.New()

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	for i := range cfg.Targets {
		t := &cfg.Targets[i]
		if t.Type == "" {
			t.Type = "rust"
		}
		if !filepath.IsAbs(t.OutDir) {
			abs, _ := filepath.Abs(t.OutDir)
			t.OutDir = abs
		}
	}
	if !filepath.IsAbs(cfg.IR) {
		abs, _ := filepath.Abs(cfg.IR)
		cfg.IR = abs
	}
	return &cfg, nil
}
