package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Notify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
		wantCode string
	}{
		{name: "ok", response: `{"ok": true, "ts": "1.0"}`, want: true},
		{name: "channel not found", response: `{"ok": false, "error": "channel_not_found"}`, wantCode: "channel_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSlack(t, map[string]string{"chat.postMessage": tt.response})
			notifier := NewNotifier(NotifyConfig{ChannelID: "C777", BotToken: "xoxb-n"}, fake.option())

			got, err := notifier.Notify(context.Background(), Notification{Text: "*hello*"})
			assert.Equal(t, tt.want, got)

			if tt.wantCode != "" {
				var upstreamErr *UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, tt.wantCode, upstreamErr.Code)
				return
			}
			require.NoError(t, err)

			requests := fake.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, "Bearer xoxb-n", requests[0].Authorization)
			assert.Equal(t, map[string]any{
				"channel": "C777",
				"blocks": []any{
					map[string]any{
						"type": "section",
						"text": map[string]any{"type": "mrkdwn", "text": "*hello*"},
					},
				},
			}, requests[0].Body)
		})
	}
}

func TestNotifier_NotifyError(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
		wantCode string
	}{
		{name: "ok", response: `{"ok": true}`, want: true},
		{name: "channel not found", response: `{"ok": false, "error": "channel_not_found"}`, wantCode: "channel_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSlack(t, map[string]string{"chat.postMessage": tt.response})
			notifier := NewNotifier(NotifyConfig{ChannelID: "C777", BotToken: "xoxb-n"}, fake.option())

			got, err := notifier.NotifyError(context.Background(), errors.New("boom"))
			assert.Equal(t, tt.want, got)

			if tt.wantCode != "" {
				var upstreamErr *UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, tt.wantCode, upstreamErr.Code)
				return
			}
			require.NoError(t, err)

			requests := fake.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, "C777", requests[0].Body["channel"])
			assert.Equal(t, FormatError(errors.New("boom")), requests[0].Body["text"])
			assert.NotContains(t, requests[0].Body, "blocks")
		})
	}
}

func TestFormatError(t *testing.T) {
	got := FormatError(errors.New("slack API error (conversations.history): not_in_channel"))
	assert.Equal(t, ":warning: *エラーが発生しました* :warning:\n```\nslack API error (conversations.history): not_in_channel\n```\n", got)
}

func TestNotifier_Config(t *testing.T) {
	cfg := NotifyConfig{ChannelID: "C1", BotToken: "t"}
	assert.Equal(t, cfg, NewNotifier(cfg).Config())
}

func TestNotifier_TransportFailure(t *testing.T) {
	notifier := NewNotifier(NotifyConfig{ChannelID: "C1", BotToken: "t"}, WithAPIURL("http://127.0.0.1:1"))

	ok, err := notifier.Notify(context.Background(), Notification{Text: "x"})
	assert.False(t, ok)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.True(t, upstreamErr.IsTransport())
	assert.NotNil(t, errors.Unwrap(err))
}
