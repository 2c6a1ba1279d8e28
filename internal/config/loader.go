package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(homeDir(), ".schedbot", "config.json")
}

// Load reads configuration from the default path and applies environment
// overrides.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from a specific path, falling back to
// defaults when the file is absent. Environment variables win over file
// values so deployments can keep credentials out of the config file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// Save writes configuration to the default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes configuration to a specific path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero values a partial config file left unset.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Discord.Prefix == "" {
		c.Discord.Prefix = def.Discord.Prefix
	}
	if c.Provider.Model == "" {
		c.Provider.Model = def.Provider.Model
	}
	if c.Limits.HistoryLimit == 0 {
		c.Limits.HistoryLimit = def.Limits.HistoryLimit
	}
	if c.Limits.FetchTimeoutSeconds == 0 {
		c.Limits.FetchTimeoutSeconds = def.Limits.FetchTimeoutSeconds
	}
	if c.Limits.ScheduleCooldownSeconds == 0 {
		c.Limits.ScheduleCooldownSeconds = def.Limits.ScheduleCooldownSeconds
	}
	if c.Limits.PingCooldownSeconds == 0 {
		c.Limits.PingCooldownSeconds = def.Limits.PingCooldownSeconds
	}
}

// applyEnv overlays environment variables onto the loaded config.
func (c *Config) applyEnv() {
	c.Discord.Token = getEnv("DISCORD_BOT_TOKEN", c.Discord.Token)
	c.Discord.Prefix = getEnv("SCHEDBOT_PREFIX", c.Discord.Prefix)
	c.Provider.APIKey = getEnv("GEMINI_API_KEY", c.Provider.APIKey)
	c.Provider.APIBase = getEnv("GEMINI_API_BASE", c.Provider.APIBase)
	c.Provider.Model = getEnv("SCHEDBOT_MODEL", c.Provider.Model)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp"
	}
	return home
}
