// Package config loads the service configuration from a YAML file.
// Environment references (${VAR}) in the file are expanded before parsing, so
// secrets like the Vault token or key material never need to live on disk.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Listen     string           `mapstructure:"listen"`
	Log        LogConfig        `mapstructure:"log"`
	Directory  DirectoryConfig  `mapstructure:"directory"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Retry      RetryConfig      `mapstructure:"retry"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DirectoryConfig identifies the client whose role every new user receives.
type DirectoryConfig struct {
	ClientID    string `mapstructure:"client_id"`
	DefaultRole string `mapstructure:"default_role"`
}

// RedisConfig configures the run-history store. An empty Addr disables Redis
// and the service falls back to the in-memory store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// EncryptionConfig selects the key provider for history payload encryption.
// Provider is "static" or "vault"; an empty provider disables encryption.
type EncryptionConfig struct {
	Provider     string            `mapstructure:"provider"`
	CurrentKeyID string            `mapstructure:"current_key_id"`
	Keys         map[string]string `mapstructure:"keys"`
	Vault        VaultConfig       `mapstructure:"vault"`
}

// VaultConfig locates the key material in a Vault KV v2 secret.
type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	SecretPath string `mapstructure:"secret_path"`
}

// RetryConfig tunes the activity invoker. Zero values fall back to the
// invoker defaults.
type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	BackoffFactor  float64       `mapstructure:"backoff_factor"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: ":8080",
		Log:    LogConfig{Level: "info", Format: "text"},
		Directory: DirectoryConfig{
			ClientID:    "account-console",
			DefaultRole: "user",
		},
	}
}

// Load reads, expands, and decodes the YAML file at path. A missing path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Encryption.Provider {
	case "", "static", "vault":
	default:
		return fmt.Errorf("unknown encryption provider %q", c.Encryption.Provider)
	}
	if c.Encryption.Provider == "static" {
		if c.Encryption.CurrentKeyID == "" {
			return fmt.Errorf("encryption.current_key_id is required for the static provider")
		}
		if len(c.Encryption.Keys) == 0 {
			return fmt.Errorf("encryption.keys is required for the static provider")
		}
	}
	if c.Encryption.Provider == "vault" {
		if c.Encryption.Vault.Address == "" || c.Encryption.Vault.SecretPath == "" {
			return fmt.Errorf("encryption.vault.address and secret_path are required for the vault provider")
		}
	}
	if c.Directory.ClientID == "" || c.Directory.DefaultRole == "" {
		return fmt.Errorf("directory.client_id and default_role are required")
	}
	return nil
}
