package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all engine configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Transport string `toml:"transport"`
	HTTPPort  int    `toml:"http_port"`
}

type LogConfig struct {
	Mode string `toml:"mode"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Path: "./data/memory.db",
		},
		Server: ServerConfig{
			Transport: "stdio",
			HTTPPort:  8081,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load reads config from the given path, falling back to defaults for a
// missing file, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		if err == nil {
			if _, err := toml.Decode(string(data), &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if v := os.Getenv("MEMORY_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MEMORY_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	return cfg, nil
}
