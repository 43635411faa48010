// Package config loads warikan settings from an optional TOML file with
// environment overrides. Precedence: flags > environment > file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is consulted when no -config flag is given.
const DefaultPath = "warikan.toml"

type Config struct {
	Output OutputConfig `toml:"output"`
	Batch  BatchConfig  `toml:"batch"`
	Server ServerConfig `toml:"server"`
}

type OutputConfig struct {
	// Format is "json" or "text".
	Format string `toml:"format"`

	// Dir redirects artifacts away from their input's directory.
	Dir string `toml:"dir"`
}

type BatchConfig struct {
	Workers    int `toml:"workers"`
	DebounceMs int `toml:"debounce_ms"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

func Default() Config {
	return Config{
		Output: OutputConfig{Format: "json"},
		Batch:  BatchConfig{Workers: 4, DebounceMs: 200},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the config file at path, falling back to defaults when it does
// not exist. A missing explicit path is an error; a missing DefaultPath is
// not. Environment variables override whatever the file said.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file, defaults apply.
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	if cfg.Batch.Workers < 1 {
		cfg.Batch.Workers = 1
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WARIKAN_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("WARIKAN_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("WARIKAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Workers = n
		}
	}
	if v := os.Getenv("WARIKAN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}
