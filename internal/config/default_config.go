package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/smellscan/domain"
)

// DefaultConfigYAML contains the embedded default configuration file
//
//go:embed default_config.yaml
var DefaultConfigYAML string

// LoadDefaultConfig parses the embedded default config and returns the full Config struct
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(DefaultConfigYAML), &cfg); err != nil {
		return nil, err
	}
	if cfg.Detectors == nil {
		cfg.Detectors = map[string]domain.DetectorSettings{}
	}

	return &cfg, nil
}
