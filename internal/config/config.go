package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/tcgen/internal/domain"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "tcgen.yaml"

// Config is the top-level configuration struct.
type Config struct {
	Model      ModelConfig      `yaml:"model"`
	Generation GenerationConfig `yaml:"generation"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Templates  TemplateConfig   `yaml:"templates"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`

	// DryRun is set from the CLI flag, not from YAML.
	DryRun bool `yaml:"-"`
}

type ModelConfig struct {
	ID               string  `yaml:"id"`
	Region           string  `yaml:"region"`
	Endpoint         string  `yaml:"endpoint"`
	Temperature      float64 `yaml:"temperature"`
	MaxTokensCeiling int     `yaml:"max_tokens_ceiling"`
}

type GenerationConfig struct {
	Format   string `yaml:"format"`   // "traditional" or "bdd"
	Estimate bool   `yaml:"estimate"` // ask the model for a case count first
	Count    int    `yaml:"count"`    // manual count, also the estimate fallback
}

// InputConfig drives batch mode over requirement documents.
type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type OutputConfig struct {
	Directory  string   `yaml:"directory"`
	FilePrefix string   `yaml:"file_prefix"`
	Formats    []string `yaml:"formats"` // any of csv, xlsx, txt
	StepsSheet bool     `yaml:"steps_sheet"` // write <stem>_steps.csv|xlsx next to the case files
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
}

type ServerConfig struct {
	Address        string `yaml:"address"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.KindConfig, path, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError(domain.KindConfig, path, "failed to parse config file", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path is the
// default config path and the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && path == DefaultPath && errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}
