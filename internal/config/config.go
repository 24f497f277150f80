package config

import (
	"fmt"
	"os"

	"ppe-monitor/internal/models"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the configuration from a YAML file, then overlays
// environment variables on top of it.
func LoadConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg models.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *models.Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
	if cfg.Stream.PathPrefix == "" {
		cfg.Stream.PathPrefix = "/ws/monitor"
	}

	defaults := models.DefaultLabels()
	if cfg.Labels.Person == "" {
		cfg.Labels.Person = defaults.Person
	}
	if cfg.Labels.Hardhat == "" {
		cfg.Labels.Hardhat = defaults.Hardhat
	}
	if cfg.Labels.NoHardhat == "" {
		cfg.Labels.NoHardhat = defaults.NoHardhat
	}
	if cfg.Labels.SafetyVest == "" {
		cfg.Labels.SafetyVest = defaults.SafetyVest
	}
	if cfg.Labels.NoSafetyVest == "" {
		cfg.Labels.NoSafetyVest = defaults.NoSafetyVest
	}
}
