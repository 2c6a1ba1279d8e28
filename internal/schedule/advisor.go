// Package schedule wraps the hosted model behind the fixed meeting-analysis
// prompt. The model does all the actual scheduling work; this layer only
// substitutes the transcript into the template and relays the answer.
package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/joebot/schedbot/internal/llm"
)

// promptTemplate is the full instruction set sent to the model. The
// transcript is the only variable. The three fallback responses at the
// bottom are chosen by the model itself when extraction fails; nothing in
// this process re-parses or second-guesses the output.
const promptTemplate = `You are a professional meeting scheduling assistant analyzing Discord conversation history.

Chat History:
%s

INSTRUCTIONS:
1. Extract all mentioned dates, times, and timezones (explicit or implied)
2. Convert times to UTC and provide local time conversions
3. Identify participant preferences and constraints
4. Suggest 1-3 optimal meeting times based on group availability
5. Handle timezone ambiguity gracefully
6. Ignore off-topic messages
7. Include Day and Date only when mentioned

OUTPUT FORMAT (use this structure):

📅 **Meeting Schedule Analysis**

**Recommended Time (UTC):** [Day, Date, Time UTC]
**Local Times:**
- [username]: [local time with timezone]
- [username]: [local time with timezone]

**Alternative Options:**
1. [Day, Date, Time UTC] - [brief reason]
2. [Day, Date, Time UTC] - [brief reason]

**Analysis:** [Brief 1-2 sentence summary of why this time works best]

---
FALLBACK RESPONSES:
- If no times mentioned: "⚠️ No specific times found in the conversation. Please discuss preferred meeting times and try again."
- If insufficient info: "⚠️ Found time mentions but need more details about participant availability. Please clarify preferences."
- If conflicting times: "⚠️ Multiple conflicting times suggested. Please discuss and align on preferred options."

Keep responses concise and professional. Focus on actionable scheduling information only.`

// Advisor asks the model for a meeting-time recommendation.
type Advisor struct {
	provider llm.Provider
}

// NewAdvisor creates an advisor backed by the given provider.
func NewAdvisor(p llm.Provider) *Advisor {
	return &Advisor{provider: p}
}

// Recommend submits the transcript and returns the model's answer as opaque
// text. No retries; any provider failure is returned to the caller, which
// hides it behind a canned message.
func (a *Advisor) Recommend(ctx context.Context, transcript string) (string, error) {
	out, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: BuildPrompt(transcript),
	})
	if err != nil {
		return "", fmt.Errorf("recommend: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// BuildPrompt substitutes the transcript into the instruction template.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, transcript)
}
