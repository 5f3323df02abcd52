package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the client looks for its configuration.
const DefaultPath = "config/config.yaml"

type Config struct {
	Router RouterConfig `yaml:"router"`
	Worker WorkerConfig `yaml:"worker"`
	Client ClientConfig `yaml:"client"`
}

type RouterConfig struct {
	// APIKey enables Deepseek routing. DEEPSEEK_KEY in the environment (or
	// a .env file) takes precedence.
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type WorkerConfig struct {
	// Binary is the worker executable; resolved via PATH when it carries no
	// path separator.
	Binary      string `yaml:"binary"`
	FallbackCSV string `yaml:"fallback_csv"`
	// NoLive disables live quote lookups for fully offline sessions.
	NoLive bool `yaml:"no_live"`
}

type ClientConfig struct {
	ShutdownGraceSeconds int `yaml:"shutdown_grace_seconds"`
}

// Load reads the yaml config and layers .env / environment overrides on
// top. A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		// fall through to defaults
	default:
		return nil, err
	}

	if key := os.Getenv("DEEPSEEK_KEY"); key != "" {
		cfg.Router.APIKey = key
	}
	if cfg.Router.Model == "" {
		cfg.Router.Model = "deepseek-chat"
	}
	if cfg.Worker.Binary == "" {
		cfg.Worker.Binary = "stock_server"
	}
	if cfg.Worker.FallbackCSV == "" {
		cfg.Worker.FallbackCSV = "stocks_data.csv"
	}
	if cfg.Client.ShutdownGraceSeconds <= 0 {
		cfg.Client.ShutdownGraceSeconds = 2
	}
	return cfg, nil
}
