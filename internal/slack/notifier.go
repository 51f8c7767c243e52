package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// Notifier posts messages to a single destination channel.
type Notifier struct {
	config NotifyConfig
	client *Client
}

type postMessagePayload struct {
	Channel string           `json:"channel"`
	Blocks  []slackapi.Block `json:"blocks,omitempty"`
	Text    string           `json:"text,omitempty"`
}

func NewNotifier(cfg NotifyConfig, opts ...ClientOption) *Notifier {
	return &Notifier{
		config: cfg,
		client: NewClient(cfg.BotToken, opts...),
	}
}

func (n *Notifier) Config() NotifyConfig {
	return n.config
}

// Notify posts the text as a single mrkdwn section block.
func (n *Notifier) Notify(ctx context.Context, msg Notification) (bool, error) {
	return n.client.PostMessage(ctx, postMessagePayload{
		Channel: n.config.ChannelID,
		Blocks:  FormatBlocks(msg),
	})
}

// NotifyError posts err as plain text wrapped in a code fence.
func (n *Notifier) NotifyError(ctx context.Context, err error) (bool, error) {
	return n.client.PostMessage(ctx, postMessagePayload{
		Channel: n.config.ChannelID,
		Text:    FormatError(err),
	})
}

// FormatBlocks renders a notification as Block Kit blocks.
// See https://api.slack.com/block-kit
func FormatBlocks(msg Notification) []slackapi.Block {
	text := slackapi.NewTextBlockObject(slackapi.MarkdownType, msg.Text, false, false)
	return []slackapi.Block{
		slackapi.NewSectionBlock(text, nil, nil),
	}
}

func FormatError(err error) string {
	return fmt.Sprintf(":warning: *エラーが発生しました* :warning:\n```\n%v\n```\n", err)
}
