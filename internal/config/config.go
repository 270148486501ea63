package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the server configuration file
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Archive ArchiveConfig `yaml:"archive"`
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and configures the live game store
type StorageConfig struct {
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	GameTTL      time.Duration `yaml:"game_ttl"`
	MaxTxRetries int           `yaml:"max_tx_retries"`
}

// ArchiveConfig locates the sqlite results archive. ":memory:" keeps
// results for the life of the process only.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig tunes the rule engine
type EngineConfig struct {
	StrictEffects    bool `yaml:"strict_effects"`
	HandSize         int  `yaml:"hand_size"`
	DrawToMatchLimit int  `yaml:"draw_to_match_limit"`
}

// LogConfig controls the server log output
type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel parses Level as a slog level name such as "debug" or "warn"
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: StorageTypeMemory,
			Redis: RedisConfig{
				URL:          "redis://localhost:6379",
				PoolSize:     10,
				MinIdleConns: 2,
				GameTTL:      24 * time.Hour,
				MaxTxRetries: 5,
			},
		},
		Archive: ArchiveConfig{Path: ":memory:"},
		Engine: EngineConfig{
			StrictEffects:    true,
			HandSize:         7,
			DrawToMatchLimit: 50,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides settings from the environment
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Storage.Redis.URL = v
	}
	if v := getenv("UNO_ARCHIVE_PATH"); v != "" {
		c.Archive.Path = v
	}
	if v := getenv("UNO_STRICT_EFFECTS"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("UNO_STRICT_EFFECTS: %w", err)
		}
		c.Engine.StrictEffects = strict
	}
	if v := getenv("UNO_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UNO_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("UNO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.Storage.Redis.URL == "" {
			errs = append(errs, errors.New("storage.redis.url is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type must be %q or %q, got %q", StorageTypeMemory, StorageTypeRedis, c.Storage.Type))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Archive.Path == "" {
		errs = append(errs, errors.New("archive.path is required"))
	}
	if c.Engine.HandSize < 1 {
		errs = append(errs, fmt.Errorf("engine.hand_size must be positive, got %d", c.Engine.HandSize))
	}
	if c.Engine.DrawToMatchLimit < 1 {
		errs = append(errs, fmt.Errorf("engine.draw_to_match_limit must be positive, got %d", c.Engine.DrawToMatchLimit))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
