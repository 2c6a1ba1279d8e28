package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for invalid or missing values. The
// process must not start when it fails.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) validate() []string {
	var errs []string

	if c.Discord.Token == "" {
		errs = append(errs, "discord.token is required (set DISCORD_BOT_TOKEN)")
	}
	if c.Discord.Prefix == "" {
		errs = append(errs, "discord.prefix must not be empty")
	}

	l := c.Limits
	if l.HistoryLimit <= 0 || l.HistoryLimit > 100 {
		errs = append(errs, "limits.historyLimit must be between 1 and 100")
	}
	if l.FetchTimeoutSeconds <= 0 {
		errs = append(errs, "limits.fetchTimeoutSeconds must be positive")
	}
	if l.ScheduleCooldownSeconds <= 0 {
		errs = append(errs, "limits.scheduleCooldownSeconds must be positive")
	}
	if l.PingCooldownSeconds <= 0 {
		errs = append(errs, "limits.pingCooldownSeconds must be positive")
	}

	return errs
}
