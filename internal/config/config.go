package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/rcsoft/photoreport/pkg/scanner"
)

// Config holds the application configuration, collected once per run.
type Config struct {
	// InputDir is the root of the tree to scan.
	InputDir string `json:"input_dir" envconfig:"input_dir"`
	// OutputDir is the root under which transcoded images are mirrored.
	OutputDir string `json:"output_dir" envconfig:"output_dir"`
	// DocPath is where the generated .docx is written.
	DocPath string `json:"doc_path" envconfig:"doc_path"`

	// Width and Height are the forced output dimensions in pixels.
	Width  int `json:"width" envconfig:"width"`
	Height int `json:"height" envconfig:"height"`
	// Quality is the JPEG quality, conventionally 1-95. It is passed to
	// the encoder as given; out-of-range values are not rejected.
	Quality int `json:"quality" envconfig:"quality"`

	// Workers bounds concurrent transcodes. 1 means fully sequential.
	Workers int `json:"workers" envconfig:"workers"`
	// Extensions is the qualifying image extension set, without dots.
	Extensions []string `json:"extensions" envconfig:"extensions"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Width:      1280,
		Height:     720,
		Quality:    85,
		Workers:    runtime.NumCPU(),
		Extensions: scanner.DefaultExtensions(),
	}
}

// Load returns the default configuration overlaid with PHOTOREPORT_*
// environment variables. A .env file in the working directory is honored
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays PHOTOREPORT_* environment variables on the
// configuration. Unset variables leave the current values untouched.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process("photoreport", c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" || c.DocPath == "" {
		return fmt.Errorf("input_dir, output_dir and doc_path must all be set")
	}

	if c.Width < 1 {
		return fmt.Errorf("width must be positive")
	}

	if c.Height < 1 {
		return fmt.Errorf("height must be positive")
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}

	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}

	return nil
}
