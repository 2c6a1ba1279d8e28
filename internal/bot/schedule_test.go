package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDiscord is a hand-rolled stand-in for the Discord session.
type fakeDiscord struct {
	mu sync.Mutex

	history    []*discordgo.Message
	historyErr error
	fetches    int

	sent     []string
	sendErrs []error
	embeds   []*discordgo.MessageEmbed
	typing   int
	latency  time.Duration
}

func (f *fakeDiscord) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if limit < len(f.history) {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeDiscord) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sendErrs) > 0 {
		err := f.sendErrs[0]
		f.sendErrs = f.sendErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.sent = append(f.sent, content)
	return &discordgo.Message{Content: content}, nil
}

func (f *fakeDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, nil
}

func (f *fakeDiscord) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return nil
}

func (f *fakeDiscord) HeartbeatLatency() time.Duration { return f.latency }

func (f *fakeDiscord) lastSent(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "expected at least one sent message")
	return f.sent[len(f.sent)-1]
}

type fakeRecommender struct {
	transcripts []string
	reply       string
	err         error
	panicWith   any
}

func (f *fakeRecommender) Recommend(_ context.Context, transcript string) (string, error) {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	f.transcripts = append(f.transcripts, transcript)
	return f.reply, f.err
}

func newTestBot(api *fakeDiscord, rec *fakeRecommender) *Bot {
	return New(api, rec, Config{})
}

func userMsg(channel, author, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: channel,
		Content:   content,
		Author:    &discordgo.User{ID: author, Username: author},
	}}
}

func historyMsg(name, content string) *discordgo.Message {
	return &discordgo.Message{
		Content: content,
		Author:  &discordgo.User{Username: name},
	}
}

func TestScheduleSuccess(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{
		// Newest first, as the API delivers them.
		historyMsg("carol", "@everyone 3pm it is"),
		historyMsg("bob", "works for me"),
		historyMsg("alice", "meeting tuesday 3pm?"),
	}}
	rec := &fakeRecommender{reply: "Tuesday 15:00 UTC"}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	require.Len(t, rec.transcripts, 1)
	transcript := rec.transcripts[0]

	lines := strings.Split(transcript, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "alice:"), "oldest message must come first, got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "carol:"), "newest message must come last, got %q", lines[2])
	assert.NotContains(t, transcript, "@everyone")

	assert.Equal(t, "Tuesday 15:00 UTC", api.lastSent(t))
	assert.Equal(t, 1, api.typing, "typing indicator should fire once")
}

func TestScheduleUsageError(t *testing.T) {
	for _, content := range []string{"!schedule", "!schedule sync", "!schedule meeting"} {
		t.Run(content, func(t *testing.T) {
			api := &fakeDiscord{}
			rec := &fakeRecommender{}
			b := newTestBot(api, rec)

			b.Dispatch(context.Background(), userMsg("c1", "u1", content))

			assert.Contains(t, api.lastSent(t), "Usage: `!schedule meet`")
			assert.Zero(t, api.fetches, "no fetch on usage error")
			assert.Empty(t, rec.transcripts, "no model call on usage error")
		})
	}
}

func TestScheduleCooldownPerChannel(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{reply: "ok"}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))
	b.Dispatch(context.Background(), userMsg("c1", "u2", "!schedule meet"))

	assert.Equal(t, 1, api.fetches, "second invocation inside the window must not fetch")
	msg := api.lastSent(t)
	assert.Contains(t, msg, "Please wait")
	var wait float64
	_, err := fmt.Sscanf(msg, "⏰ Please wait %f seconds", &wait)
	require.NoError(t, err, "cooldown message should name the wait: %q", msg)
	assert.Greater(t, wait, 0.0)

	// A different channel is not affected.
	b.Dispatch(context.Background(), userMsg("c2", "u1", "!schedule meet"))
	assert.Equal(t, 2, api.fetches)
}

func TestScheduleNoMessages(t *testing.T) {
	api := &fakeDiscord{}
	rec := &fakeRecommender{}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgNoMessages, api.lastSent(t))
	assert.Empty(t, rec.transcripts, "model must not be called with zero messages")
}

func TestScheduleAllMessagesFiltered(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{
		historyMsg("alice", "   "),
		historyMsg("bob", strings.Repeat("x", 501)),
	}}
	rec := &fakeRecommender{}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgNoValid, api.lastSent(t))
	assert.Empty(t, rec.transcripts, "model must not be called with an empty transcript")
}

func TestScheduleFetchTimeout(t *testing.T) {
	api := &fakeDiscord{historyErr: fmt.Errorf("do request: %w", context.DeadlineExceeded)}
	rec := &fakeRecommender{}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgFetchTimeout, api.lastSent(t))
	assert.Empty(t, rec.transcripts)
}

func TestScheduleFetchPermissionDenied(t *testing.T) {
	api := &fakeDiscord{historyErr: &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}}
	b := newTestBot(api, &fakeRecommender{})

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgNoPermission, api.lastSent(t))
}

func TestScheduleFetchGenericError(t *testing.T) {
	api := &fakeDiscord{historyErr: errors.New("connection reset")}
	b := newTestBot(api, &fakeRecommender{})

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgDiscordError, api.lastSent(t))
}

func TestScheduleRecommendFailure(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{err: errors.New("quota exceeded")}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgModelTrouble, api.lastSent(t))
	for _, sent := range api.sent {
		assert.NotContains(t, sent, "quota", "underlying cause must never reach the user")
	}
}

func TestScheduleEmptyRecommendation(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{reply: ""}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgEmptyReply, api.lastSent(t))
}

func TestScheduleTruncatesOversizedReply(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{reply: strings.Repeat("a", 2500)}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	sent := api.lastSent(t)
	require.True(t, strings.HasSuffix(sent, truncMarker))
	body := strings.TrimSuffix(sent, truncMarker)
	assert.Equal(t, 1950, len(body), "body must be cut to limit minus reserve")
	assert.LessOrEqual(t, len(sent), maxMessageLen)
}

func TestScheduleTruncationCountsRunes(t *testing.T) {
	// Multibyte reply: the 2000 limit and the 1950 cut are both character
	// counts, not byte counts.
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	b := newTestBot(api, &fakeRecommender{reply: strings.Repeat("あ", 2500)})

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	sent := api.lastSent(t)
	require.True(t, strings.HasSuffix(sent, truncMarker))
	body := strings.TrimSuffix(sent, truncMarker)
	assert.Equal(t, 1950, len([]rune(body)), "cut must be exactly limit minus reserve in runes")
	assert.LessOrEqual(t, len([]rune(sent)), maxMessageLen)
}

func TestScheduleExtraArgsTolerated(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{reply: "ok"}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet now please"))

	require.Len(t, rec.transcripts, 1, "trailing arguments after the sub-action must not reject the command")
	assert.Equal(t, "ok", api.lastSent(t))
}

func TestScheduleReplyAtLimitNotTruncated(t *testing.T) {
	reply := strings.Repeat("a", 2000)
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	b := newTestBot(api, &fakeRecommender{reply: reply})

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, reply, api.lastSent(t))
}

func TestSchedulePostPermissionDenied(t *testing.T) {
	api := &fakeDiscord{
		history: []*discordgo.Message{historyMsg("alice", "tuesday?")},
		sendErrs: []error{&discordgo.RESTError{
			Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingAccess},
		}},
	}
	b := newTestBot(api, &fakeRecommender{reply: "Tuesday 15:00 UTC"})

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))

	assert.Equal(t, msgNoPermission, api.lastSent(t))
}

func TestScheduleHandlerPanicRecovered(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{panicWith: "boom"}
	b := newTestBot(api, rec)

	require.NotPanics(t, func() {
		b.Dispatch(context.Background(), userMsg("c1", "u1", "!schedule meet"))
	})
	assert.Equal(t, msgUnexpected, api.lastSent(t))
}

func TestScheduleCommandWordCaseInsensitive(t *testing.T) {
	api := &fakeDiscord{history: []*discordgo.Message{historyMsg("alice", "tuesday?")}}
	rec := &fakeRecommender{reply: "ok"}
	b := newTestBot(api, rec)

	b.Dispatch(context.Background(), userMsg("c1", "u1", "!SCHEDULE meet"))

	require.Len(t, rec.transcripts, 1)
}
