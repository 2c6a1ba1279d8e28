package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/joebot/schedbot/internal/transcript"
)

const (
	// maxMessageLen is Discord's hard message-size limit.
	maxMessageLen = 2000
	// truncReserve leaves room for the truncation marker.
	truncReserve = 50

	truncMarker = "\n\n*[Response truncated]*"
)

// errFetchTimeout marks a history fetch that exceeded its wall-clock budget.
var errFetchTimeout = errors.New("history fetch timed out")

// handleSchedule runs one full schedule invocation: validate, gate, fetch,
// build, recommend, respond. Every early return emits exactly one
// user-visible message.
func (b *Bot) handleSchedule(ctx context.Context, channelID, authorID string, args []string) {
	// Extra trailing arguments are tolerated, only the sub-action matters.
	if len(args) == 0 || args[0] != "meet" {
		b.send(channelID, b.usage())
		return
	}

	if wait, ok := b.scheduleGate.Try(channelID); !ok {
		b.send(channelID, fmt.Sprintf(msgCooldown, wait.Seconds()))
		return
	}

	if err := b.api.ChannelTyping(channelID); err != nil {
		slog.Debug("typing indicator failed", "channel", channelID, "err", err)
	}

	msgs, err := b.fetchHistory(ctx, channelID)
	if err != nil {
		switch {
		case errors.Is(err, errFetchTimeout):
			slog.Error("history fetch timed out", "channel", channelID)
			b.send(channelID, msgFetchTimeout)
		case isPermissionError(err):
			slog.Error("missing history permission", "channel", channelID, "err", err)
			b.send(channelID, msgNoPermission)
		default:
			slog.Error("history fetch failed", "channel", channelID, "err", err)
			b.send(channelID, msgDiscordError)
		}
		return
	}
	if len(msgs) == 0 {
		b.send(channelID, msgNoMessages)
		return
	}

	text := transcript.Build(toTranscript(msgs))
	if text == "" {
		b.send(channelID, msgNoValid)
		return
	}

	// Origin only; transcript content never goes to the logs.
	slog.Info("processing schedule request", "author", authorID, "channel", channelID, "messages", len(msgs))

	rec, err := b.rec.Recommend(ctx, text)
	if err != nil {
		slog.Error("recommendation failed", "channel", channelID, "err", err)
		b.send(channelID, msgModelTrouble)
		return
	}

	b.respond(channelID, rec)
}

// fetchHistory retrieves the most recent messages within the configured
// wall-clock budget and reverses them to chronological order. A timeout
// abandons the fetch entirely; no partial result is returned.
func (b *Bot) fetchHistory(ctx context.Context, channelID string) ([]*discordgo.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.FetchTimeout)
	defer cancel()

	msgs, err := b.api.ChannelMessages(channelID, b.cfg.HistoryLimit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, errFetchTimeout
		}
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	// The API returns newest first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// toTranscript converts fetched messages to the builder's input form.
func toTranscript(msgs []*discordgo.Message) []transcript.Message {
	out := make([]transcript.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Author == nil {
			continue
		}
		out = append(out, transcript.Message{
			Name:    displayName(m),
			Content: m.Content,
		})
	}
	return out
}

// displayName prefers the server nickname, then the global display name,
// then the account name.
func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// respond posts the recommendation, clamping it to the platform limit.
func (b *Bot) respond(channelID, text string) {
	if text == "" {
		b.send(channelID, msgEmptyReply)
		return
	}
	text = clamp(text)

	if _, err := b.api.ChannelMessageSend(channelID, text); err != nil {
		if isPermissionError(err) {
			slog.Error("missing send permission", "channel", channelID, "err", err)
			b.send(channelID, msgNoPermission)
			return
		}
		slog.Error("post recommendation failed", "channel", channelID, "err", err)
		b.send(channelID, msgDiscordError)
	}
}

// clamp truncates text to the platform limit minus the marker reserve.
// Discord's limit counts characters, so both the check and the cut work in
// runes.
func clamp(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return text
	}
	return string(runes[:maxMessageLen-truncReserve]) + truncMarker
}

// isPermissionError reports whether err is a Discord missing-access or
// missing-permissions API error.
func isPermissionError(err error) bool {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) && rerr.Message != nil {
		switch rerr.Message.Code {
		case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
			return true
		}
	}
	return false
}
