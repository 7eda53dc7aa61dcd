// Package config loads run configuration from a YAML file. API keys are never
// configured here; they come from the environment exactly as the provider
// implementations read them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters for a benchmark run.
type Config struct {
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	Profile      string  `yaml:"profile"`
	MaxAttempts  int     `yaml:"max_attempts"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
	ProblemsFile string  `yaml:"problems_file"`
	DBPath       string  `yaml:"db_path"`
	FailOn       string  `yaml:"fail_on"`
}

// Default returns the configuration used when no file or flags override it.
func Default() Config {
	return Config{
		Provider:     "anthropic",
		Model:        "claude-3-5-sonnet-latest",
		Profile:      "general",
		MaxAttempts:  3,
		MaxTokens:    4096,
		Temperature:  0.2,
		ProblemsFile: "PROBLEMS.md",
		DBPath:       "hldbench.db",
	}
}

// Load reads the YAML file at path over the defaults. Unset keys keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be at least 1, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.Temperature)
	}
	return nil
}
