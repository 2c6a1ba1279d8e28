package cli

import (
	"fmt"
	"os"

	"github.com/joebot/schedbot/internal/config"
)

// RunStatus displays the current configuration status with styled output.
// Secrets are shown only as present/absent badges.
func RunStatus(cfg *config.Config) {
	cfgPath := config.ConfigPath()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s schedbot Status", Logo)))
	fmt.Println()

	fmt.Printf("  %-14s %s  %s\n", "Config", StatusBadge(fileExists(cfgPath)), DimStyle.Render(cfgPath))
	fmt.Printf("  %-14s %s\n", "Prefix", cfg.Discord.Prefix)
	fmt.Printf("  %-14s %s\n", "Model", cfg.Provider.Model)
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Credentials"))
	fmt.Printf("    %s  Discord bot token\n", StatusBadge(cfg.Discord.Token != ""))
	fmt.Printf("    %s  LLM API key\n", StatusBadge(cfg.Provider.APIKey != ""))
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Limits"))
	fmt.Printf("    History    %d messages\n", cfg.Limits.HistoryLimit)
	fmt.Printf("    Fetch      %ds budget\n", cfg.Limits.FetchTimeoutSeconds)
	fmt.Printf("    Schedule   1 per %ds per channel\n", cfg.Limits.ScheduleCooldownSeconds)
	fmt.Printf("    Ping       1 per %ds per user\n", cfg.Limits.PingCooldownSeconds)
	fmt.Println()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
