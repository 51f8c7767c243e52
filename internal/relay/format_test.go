package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"slack-crawl-notifier/internal/slack"
)

func TestNewerThan(t *testing.T) {
	messages := []slack.Message{{Timestamp: "1.0"}, {Timestamp: "2.0"}, {Timestamp: "3.0"}}

	assert.Equal(t, messages, NewerThan(messages, ""))
	assert.Equal(t, []slack.Message{{Timestamp: "3.0"}}, NewerThan(messages, "2.0"))
	assert.Empty(t, NewerThan(messages, "3.0"))
}

func TestSelectForward(t *testing.T) {
	messages := []slack.Message{
		{Timestamp: "1.0", ReactionNames: []string{"eyes"}},
		{Timestamp: "2.0", ReactionNames: []string{"star", "eyes"}},
		{Timestamp: "3.0", ReactionNames: []string{}},
	}

	assert.Equal(t, messages, SelectForward(messages, ""))
	assert.Equal(t, []slack.Message{messages[1]}, SelectForward(messages, "star"))
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  slack.Message
		want string
	}{
		{name: "text only", msg: slack.Message{Username: "alice", Text: "hi"}, want: "*alice*\nhi"},
		{name: "with attachment", msg: slack.Message{Username: "alice", Text: "hi", AttachmentText: "a / b"}, want: "*alice*\nhi\n> a / b"},
		{name: "attachment only", msg: slack.Message{Username: "[no name]", AttachmentText: "deploy done"}, want: "*[no name]*\n> deploy done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMessage(tt.msg))
		})
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "こんに...", truncateText("こんにちは", 3))
}
