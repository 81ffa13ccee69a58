package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecretConfig matches the structure of the optional secrets file
// referenced by api.coincap.secret_file.
type SecretConfig struct {
	API struct {
		CoinCap struct {
			APIKey string `yaml:"api_key"`
		} `yaml:"coincap"`
	} `yaml:"api"`
}

// LoadSecretConfig loads API keys from a separate yaml file.
// It returns error if file is missing (Fail Fast).
func LoadSecretConfig(path string) (*SecretConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret config: %w", err)
	}

	var cfg SecretConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse secret config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applySecrets() error {
	path := c.API.CoinCap.SecretFile
	if path == "" {
		return nil
	}
	secret, err := LoadSecretConfig(path)
	if err != nil {
		return err
	}
	if secret.API.CoinCap.APIKey != "" {
		c.API.CoinCap.APIKey = secret.API.CoinCap.APIKey
	}
	return nil
}
