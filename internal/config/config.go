package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Index     IndexConfig     `yaml:"index"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the server is reached: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// IndexConfig tunes the in-memory project search indexes.
type IndexConfig struct {
	Shards          int  `yaml:"shards"`
	Warm            bool `yaml:"warm"`
	WarmConcurrency int  `yaml:"warm_concurrency"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		DB: DBConfig{
			Path: "buildboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Index: IndexConfig{
			Shards:          32,
			Warm:            true,
			WarmConcurrency: 4,
		},
	}

	if path := os.Getenv("BUILDBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("BUILDBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("BUILDBOARD_SERVER_PORT", &cfg.Server.Port); err != nil {
		return Config{}, err
	}
	if mode := os.Getenv("BUILDBOARD_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if err := envBool("BUILDBOARD_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return Config{}, err
	}
	if dbPath := os.Getenv("BUILDBOARD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BUILDBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if err := envInt("BUILDBOARD_INDEX_SHARDS", &cfg.Index.Shards); err != nil {
		return Config{}, err
	}
	if err := envBool("BUILDBOARD_INDEX_WARM", &cfg.Index.Warm); err != nil {
		return Config{}, err
	}
	if err := envInt("BUILDBOARD_INDEX_WARM_CONCURRENCY", &cfg.Index.WarmConcurrency); err != nil {
		return Config{}, err
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func envInt(key string, dst *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func envBool(key string, dst *bool) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}
