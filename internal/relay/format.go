package relay

import (
	"strings"

	"slack-crawl-notifier/internal/slack"
)

// NewerThan keeps the messages whose ts sorts after since. The input order
// is preserved. An empty since keeps everything.
func NewerThan(messages []slack.Message, since string) []slack.Message {
	out := make([]slack.Message, 0, len(messages))
	for _, msg := range messages {
		if since == "" || msg.Timestamp > since {
			out = append(out, msg)
		}
	}
	return out
}

// SelectForward keeps messages carrying the reaction, or all of them when
// reaction is empty.
func SelectForward(messages []slack.Message, reaction string) []slack.Message {
	if reaction == "" {
		return messages
	}
	out := make([]slack.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.HasReaction(reaction) {
			out = append(out, msg)
		}
	}
	return out
}

// FormatMessage renders a crawled message as mrkdwn for forwarding.
func FormatMessage(msg slack.Message) string {
	var b strings.Builder
	b.WriteString("*" + msg.Username + "*")
	if msg.Text != "" {
		b.WriteString("\n" + msg.Text)
	}
	if msg.AttachmentText != "" {
		b.WriteString("\n> " + msg.AttachmentText)
	}
	return b.String()
}

// truncateText truncates text to the specified number of runes with ellipsis
func truncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return string(runes[:maxLength]) + "..."
}
