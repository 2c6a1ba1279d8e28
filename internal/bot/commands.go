package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Embed colors, matching the original deployment's palette.
const (
	colorGreen = 0x00ff00
	colorAmber = 0xff6600
	colorRed   = 0xff0000
	colorBlue  = 0x3498db
)

// handlePing reports gateway round-trip latency, color-coded. Cooldown is
// per user so one impatient member cannot lock the command for a channel.
func (b *Bot) handlePing(channelID, userID string) {
	if wait, ok := b.pingGate.Try(userID); !ok {
		b.send(channelID, fmt.Sprintf(msgCooldown, wait.Seconds()))
		return
	}

	latency := b.api.HeartbeatLatency().Milliseconds()
	color := colorRed
	switch {
	case latency < 100:
		color = colorGreen
	case latency < 300:
		color = colorAmber
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏓 Pong!",
		Description: fmt.Sprintf("Latency: %dms", latency),
		Color:       color,
	}
	b.sendEmbed(channelID, embed)
}

// handleHelp posts the static help embed. No external calls.
func (b *Bot) handleHelp(channelID string) {
	p := b.cfg.Prefix
	embed := &discordgo.MessageEmbed{
		Title:       "📅 Schedule Bot Help",
		Description: "I help you schedule meetings by analyzing your conversation!",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Commands",
				Value: "`" + p + "schedule meet` - Analyze recent messages and suggest meeting times\n" +
					"`" + p + "ping` - Check bot status",
			},
			{
				Name: "How it works",
				Value: fmt.Sprintf("I read the last %d messages in the channel and use AI to suggest "+
					"the best meeting times based on your discussion.", b.cfg.HistoryLimit),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Tip: Mention specific dates, times, and timezones for better results!",
		},
	}
	b.sendEmbed(channelID, embed)
}

func (b *Bot) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.api.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Error("send embed failed", "channel", channelID, "err", err)
	}
}
