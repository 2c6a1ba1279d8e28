package config

// Config is the root configuration for schedbot.
type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	Provider ProviderConfig `json:"provider"`
	Limits   LimitsConfig   `json:"limits"`
}

// DiscordConfig holds chat-platform credentials and command settings.
type DiscordConfig struct {
	Token  string `json:"token"`
	Prefix string `json:"prefix"`
}

// ProviderConfig holds the LLM provider's credentials.
type ProviderConfig struct {
	APIKey  string `json:"apiKey"`
	APIBase string `json:"apiBase,omitempty"`
	Model   string `json:"model"`
}

// LimitsConfig bounds the schedule pipeline and command rates.
type LimitsConfig struct {
	HistoryLimit            int `json:"historyLimit"`
	FetchTimeoutSeconds     int `json:"fetchTimeoutSeconds"`
	ScheduleCooldownSeconds int `json:"scheduleCooldownSeconds"`
	PingCooldownSeconds     int `json:"pingCooldownSeconds"`
}

// DefaultConfig returns a Config with sensible defaults. The cooldown and
// fetch bounds mirror the production deployment: 20 messages, 5s fetch
// budget, 10s per-channel schedule cooldown, 5s per-user ping cooldown.
func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			Prefix: "!",
		},
		Provider: ProviderConfig{
			Model: "gemini-2.5-flash",
		},
		Limits: LimitsConfig{
			HistoryLimit:            20,
			FetchTimeoutSeconds:     5,
			ScheduleCooldownSeconds: 10,
			PingCooldownSeconds:     5,
		},
	}
}
