// Package bot wires Discord command dispatch to the scheduling pipeline:
// cooldown gate, history fetch, transcript build, model call, response post.
// No state survives an invocation except the cooldown gates.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/joebot/schedbot/internal/cooldown"
)

// Discord is the subset of *discordgo.Session the command handlers use.
// Narrowed so tests can substitute a fake.
type Discord interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	HeartbeatLatency() time.Duration
}

// Recommender produces a meeting-time recommendation from a transcript.
type Recommender interface {
	Recommend(ctx context.Context, transcript string) (string, error)
}

// Config holds the dispatcher's tunables. Zero values fall back to the
// production defaults.
type Config struct {
	Prefix           string
	HistoryLimit     int
	FetchTimeout     time.Duration
	ScheduleCooldown time.Duration
	PingCooldown     time.Duration
}

// Bot dispatches prefix commands from Discord messages.
type Bot struct {
	api Discord
	rec Recommender
	cfg Config

	scheduleGate *cooldown.Gate
	pingGate     *cooldown.Gate
}

// New creates a bot. The schedule cooldown is keyed per channel, the ping
// cooldown per user.
func New(api Discord, rec Recommender, cfg Config) *Bot {
	if cfg.Prefix == "" {
		cfg.Prefix = "!"
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.ScheduleCooldown <= 0 {
		cfg.ScheduleCooldown = 10 * time.Second
	}
	if cfg.PingCooldown <= 0 {
		cfg.PingCooldown = 5 * time.Second
	}

	return &Bot{
		api:          api,
		rec:          rec,
		cfg:          cfg,
		scheduleGate: cooldown.NewGate(cfg.ScheduleCooldown),
		pingGate:     cooldown.NewGate(cfg.PingCooldown),
	}
}

// HandleReady logs the login and advertises the trigger command as the
// bot's listening status.
func (b *Bot) HandleReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("bot ready", "user", r.User.Username, "guilds", len(r.Guilds))
	if err := s.UpdateListeningStatus(b.cfg.Prefix + "schedule meet"); err != nil {
		slog.Warn("update presence failed", "err", err)
	}
}

// HandleDisconnect logs gateway drops; discordgo reconnects on its own.
func (b *Bot) HandleDisconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	slog.Warn("gateway disconnected")
}

// HandleMessageCreate is the discordgo MESSAGE_CREATE handler. discordgo
// runs each invocation in its own goroutine, so a slow model call in one
// channel never blocks commands in another.
func (b *Bot) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	b.Dispatch(context.Background(), m)
}

// Dispatch parses a prefix command and routes it. Unknown commands and
// plain chatter are ignored silently. A panicking handler is recovered
// here so one bad invocation can never take the process down.
func (b *Bot) Dispatch(ctx context.Context, m *discordgo.MessageCreate) {
	if !strings.HasPrefix(m.Content, b.cfg.Prefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, b.cfg.Prefix))
	if len(fields) == 0 {
		return
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	defer func() {
		if r := recover(); r != nil {
			slog.Error("command handler panicked", "command", command, "channel", m.ChannelID, "panic", r)
			b.send(m.ChannelID, msgUnexpected)
		}
	}()

	switch command {
	case "schedule":
		b.handleSchedule(ctx, m.ChannelID, m.Author.ID, args)
	case "ping":
		b.handlePing(m.ChannelID, m.Author.ID)
	case "help":
		b.handleHelp(m.ChannelID)
	}
}

// send posts plain text, downgrading failures to a log line. Used for the
// canned user-facing messages where there is nothing better to do on error.
func (b *Bot) send(channelID, content string) {
	if _, err := b.api.ChannelMessageSend(channelID, content); err != nil {
		slog.Error("send message failed", "channel", channelID, "err", err)
	}
}
