package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// PathsConfig locates the input and output files of a run.
type PathsConfig struct {
	DataDir string `yaml:"data_dir,omitempty"`
	Source  string `yaml:"source,omitempty"`
	Output  string `yaml:"output,omitempty"`
	Lookup  string `yaml:"lookup,omitempty"`
}

// ProjectConfig is the optional tripload.yaml. Connection parameters are not
// part of it: they come from the DB_* environment variables only.
type ProjectConfig struct {
	Paths        PathsConfig `yaml:"paths"`
	StrictSchema *bool       `yaml:"strict_schema,omitempty"`
	Timeout      string      `yaml:"timeout,omitempty"`
}

const ConfigFileName = "tripload.yaml"

func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
