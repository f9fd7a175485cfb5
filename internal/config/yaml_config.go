package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig is the optional config.yaml file for search tuning. Values set
// here override the environment defaults; zero values are ignored.
type YAMLConfig struct {
	Search SearchConfig `yaml:"search"`
}

// SearchConfig tunes the search pipeline.
type SearchConfig struct {
	CorpusPath             string `yaml:"corpus_path"`
	MaxResults             int    `yaml:"max_results"`
	PreviewLines           int    `yaml:"preview_lines"`
	CooldownSeconds        int    `yaml:"cooldown_seconds"`
	ConversationTTLSeconds int    `yaml:"conversation_ttl_seconds"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var yc YAMLConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, err
	}
	return &yc, nil
}

// Apply overlays the YAML settings onto an env-derived Config.
func (y *YAMLConfig) Apply(c *Config) {
	if y == nil {
		return
	}
	if y.Search.CorpusPath != "" {
		c.CorpusPath = y.Search.CorpusPath
	}
	if y.Search.MaxResults > 0 {
		c.MaxResults = y.Search.MaxResults
	}
	if y.Search.PreviewLines > 0 {
		c.PreviewLines = y.Search.PreviewLines
	}
	if y.Search.CooldownSeconds > 0 {
		c.Cooldown = time.Duration(y.Search.CooldownSeconds) * time.Second
	}
	if y.Search.ConversationTTLSeconds > 0 {
		c.ConversationTTL = time.Duration(y.Search.ConversationTTLSeconds) * time.Second
	}
}
