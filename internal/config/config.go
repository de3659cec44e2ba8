// Package config handles Alfred configuration loading and management.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	User   UserConfig   `toml:"user"`
	Model  ModelConfig  `toml:"model"`
	Paths  PathsConfig  `toml:"paths"`
	Server ServerConfig `toml:"server"`
}

// UserConfig describes the assistant's user.
type UserConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"`
}

// ModelConfig configures the generation backend. Provider "mock" swaps in a
// scripted model for offline use.
type ModelConfig struct {
	Provider       string `toml:"provider"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	DataDir  string `toml:"data_dir"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".alfred")

	return &Config{
		User: UserConfig{
			Name:     "",
			Timezone: "UTC",
		},
		Model: ModelConfig{
			Provider:       "openai",
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
			MaxRetries:     3,
		},
		Paths: PathsConfig{
			DataDir:  dataDir,
			Database: filepath.Join(dataDir, "alfred.db"),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return expandPaths(cfg), nil
}

// Save writes the configuration as TOML to the given path.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(c)
}

// expandPaths expands a leading ~ in path settings.
func expandPaths(cfg *Config) *Config {
	homeDir, _ := os.UserHomeDir()

	expand := func(p string) string {
		if p != "" && p[0] == '~' {
			return filepath.Join(homeDir, p[1:])
		}
		return p
	}
	cfg.Paths.DataDir = expand(cfg.Paths.DataDir)
	cfg.Paths.Database = expand(cfg.Paths.Database)
	return cfg
}
