package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/joebot/schedbot/internal/bot"
	"github.com/joebot/schedbot/internal/cli"
	"github.com/joebot/schedbot/internal/config"
	"github.com/joebot/schedbot/internal/llm"
	"github.com/joebot/schedbot/internal/logging"
	"github.com/joebot/schedbot/internal/schedule"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		cmdRun()
	case "status":
		cmdStatus()
	case "onboard":
		cli.RunOnboard()
	case "version", "--version", "-v":
		fmt.Println(cli.TitleStyle.Render(
			fmt.Sprintf("  %s schedbot v%s", cli.Logo, cli.Version),
		))
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	dim := cli.DimStyle.Render
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s schedbot", cli.Logo)) + dim(" — Meeting Scheduler Bot"))
	fmt.Println()
	fmt.Println("  " + cli.BoldStyle.Render("Usage"))
	fmt.Println()
	fmt.Printf("    schedbot %-10s %s\n", "run", dim("Connect to Discord and serve commands"))
	fmt.Printf("    schedbot %-10s %s\n", "status", dim("Show configuration"))
	fmt.Printf("    schedbot %-10s %s\n", "onboard", dim("Initialize setup"))
	fmt.Printf("    schedbot %-10s %s\n", "version", dim("Show version"))
	fmt.Println()
}

// --- run command ---

func cmdRun() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, &logging.Options{
		Level: slog.LevelInfo,
		Color: true,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("  "+err.Error()))
		os.Exit(1)
	}
	if cfg.Provider.APIKey == "" {
		fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("  Error: no LLM API key configured"))
		fmt.Fprintln(os.Stderr, cli.DimStyle.Render("  Set GEMINI_API_KEY or provider.apiKey in "+config.ConfigPath()))
		os.Exit(1)
	}

	provider := llm.NewOpenAIProvider(cfg.Provider.APIKey, cfg.Provider.APIBase, cfg.Provider.Model)
	advisor := schedule.NewAdvisor(provider)
	slog.Info("llm provider ready", "model", provider.DefaultModel())

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		slog.Error("create discord session", "err", err)
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentMessageContent

	b := bot.New(session, advisor, bot.Config{
		Prefix:           cfg.Discord.Prefix,
		HistoryLimit:     cfg.Limits.HistoryLimit,
		FetchTimeout:     time.Duration(cfg.Limits.FetchTimeoutSeconds) * time.Second,
		ScheduleCooldown: time.Duration(cfg.Limits.ScheduleCooldownSeconds) * time.Second,
		PingCooldown:     time.Duration(cfg.Limits.PingCooldownSeconds) * time.Second,
	})
	session.AddHandler(b.HandleReady)
	session.AddHandler(b.HandleMessageCreate)
	session.AddHandler(b.HandleDisconnect)

	if err := session.Open(); err != nil {
		slog.Error("connect to discord", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s schedbot running", cli.Logo)))
	fmt.Println(cli.DimStyle.Render("  Press Ctrl+C to stop"))
	fmt.Println()

	<-ctx.Done()
	slog.Info("shutting down")
	if err := session.Close(); err != nil {
		slog.Error("close discord session", "err", err)
	}
}

// --- status command ---

func cmdStatus() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}
	cli.RunStatus(cfg)
}
