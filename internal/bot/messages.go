package bot

// User-facing message strings. Every failed invocation surfaces exactly one
// of these; underlying causes stay in the logs.
const (
	msgCooldown     = "⏰ Please wait %.1f seconds before using this command again."
	msgFetchTimeout = "⏰ Timeout while fetching messages. Please try again."
	msgNoMessages   = "❌ No messages found in this channel."
	msgNoValid      = "❌ No valid messages found to process."
	msgNoPermission = "❌ I don't have permission to read message history in this channel."
	msgDiscordError = "❌ There was an issue communicating with Discord. Please try again."
	msgUnexpected   = "❌ An unexpected error occurred. The issue has been logged."
	msgModelTrouble = "⚠️ I'm having trouble analyzing the conversation right now. Please try again in a moment."
	msgEmptyReply   = "⚠️ I couldn't generate a response. Please try again."
)

// usage returns the usage string for the schedule command with the
// configured prefix.
func (b *Bot) usage() string {
	return "❌ Usage: `" + b.cfg.Prefix + "schedule meet`"
}
