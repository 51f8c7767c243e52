package slack

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
)

// Crawler fetches one page of a channel's history and normalizes it.
// The most recent batch is kept on the instance until the next Crawl.
type Crawler struct {
	config   CrawlConfig
	client   *Client
	messages []Message
	hasMore  bool
}

func NewCrawler(cfg CrawlConfig, opts ...ClientOption) *Crawler {
	return &Crawler{
		config: cfg,
		client: NewClient(cfg.BotToken, opts...),
	}
}

func (c *Crawler) Config() CrawlConfig {
	return c.config
}

// Messages returns a copy of the batch produced by the last successful Crawl.
func (c *Crawler) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// HasMore reports whether the last successful crawl left older messages
// between oldest and the returned page.
func (c *Crawler) HasMore() bool {
	return c.hasMore
}

// Crawl retrieves messages newer than oldest (Unix seconds) and returns
// them sorted by ts ascending. Errors from the fetch and the extraction
// are returned as is.
func (c *Crawler) Crawl(ctx context.Context, oldest float64) ([]Message, error) {
	return c.CrawlBefore(ctx, oldest, "")
}

// CrawlBefore is Crawl limited to messages older than latest (a ts,
// exclusive). An empty latest means no upper bound.
func (c *Crawler) CrawlBefore(ctx context.Context, oldest float64, latest string) ([]Message, error) {
	resp, err := c.client.FetchHistory(ctx, HistoryParams{
		ChannelID: c.config.ChannelID,
		Limit:     c.config.PageLimit,
		Oldest:    oldest,
		Latest:    latest,
	})
	if err != nil {
		return nil, err
	}

	rawMessages, err := Extract(resp)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(rawMessages))
	for _, raw := range rawMessages {
		messages = append(messages, Convert(raw))
	}

	SortByTimestamp(messages)

	log.Debug().Msgf("Crawled %d messages from channel %s", len(messages), c.config.ChannelID)

	c.messages = messages
	c.hasMore, _ = resp["has_more"].(bool)
	return messages, nil
}

// SortByTimestamp orders messages by ts, compared as strings. Slack ts
// values share one fixed-width decimal format, so this matches numeric
// order. Messages with equal ts keep their relative order.
func SortByTimestamp(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
}
