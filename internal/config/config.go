package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for PatternV. Fields
// are pointers so an absent key is distinguishable from a zero value when
// applying precedence.
type FileConfig struct {
	BuildsDir *string `yaml:"builds_dir"`
	Include   *string `yaml:"include"`
	Exclude   *string `yaml:"exclude"`
	Threads   *int    `yaml:"threads"`
	MaxBytes  *int64  `yaml:"max_bytes"`
	NoColor   *bool   `yaml:"no_color"`
	NoCache   *bool   `yaml:"no_cache"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given builds directory.
// It supports .patternv.yml/.yaml and patternv.yml/.yaml, in that order.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".patternv.yml", ".patternv.yaml", "patternv.yml", "patternv.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "patternv", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
