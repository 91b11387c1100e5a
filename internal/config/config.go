package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Region       string      `yaml:"region"`
	SnapshotPath string      `yaml:"snapshot_path"`
	SourceURL    string      `yaml:"source_url"`
	ScanURL      string      `yaml:"scan_url"`
	ItemsPerPage int         `yaml:"items_per_page"`
	ListenAddr   string      `yaml:"listen_addr"`
	Slack        SlackConfig `yaml:"slack"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}

func Default() *Config {
	return &Config{
		Region:       "us-east-1",
		SnapshotPath: "data/security_analysis.json",
		ItemsPerPage: 10,
		ListenAddr:   ":8000",
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("items_per_page must be positive, got %d", c.ItemsPerPage)
	}
	if c.SnapshotPath == "" && c.SourceURL == "" {
		return fmt.Errorf("either snapshot_path or source_url must be set")
	}
	return nil
}
