// Package relay runs one trigger invocation: crawl the source channel,
// export and forward what is new, remember where it stopped, and report
// failures back to Slack.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"slack-crawl-notifier/internal/config"
	"slack-crawl-notifier/internal/progress"
	"slack-crawl-notifier/internal/slack"
)

// Exporter receives every new batch before it is forwarded.
type Exporter interface {
	Export(ctx context.Context, sheetName string, messages []slack.Message) (int, error)
}

// DefaultMaxPages bounds how many history pages one invocation reads.
const DefaultMaxPages = 10

type Runner struct {
	cfg        *config.Config
	progress   *progress.Manager
	exporter   Exporter
	clientOpts []slack.ClientOption
	maxPages   int
}

type Option func(*Runner)

func WithExporter(exporter Exporter) Option {
	return func(r *Runner) {
		r.exporter = exporter
	}
}

func WithProgress(m *progress.Manager) Option {
	return func(r *Runner) {
		r.progress = m
	}
}

// WithClientOptions configures the Slack clients built for each invocation.
func WithClientOptions(opts ...slack.ClientOption) Option {
	return func(r *Runner) {
		r.clientOpts = append(r.clientOpts, opts...)
	}
}

// WithMaxPages caps the history pages read per invocation. Values below
// one are ignored.
func WithMaxPages(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxPages = n
		}
	}
}

func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(r)
	}
	if r.progress == nil {
		r.progress = progress.NewManager(cfg.ProgressDir)
	}
	return r
}

type RunOptions struct {
	// Oldest overrides the stored checkpoint when set.
	Oldest *float64
	// DryRun crawls and logs only.
	DryRun bool
}

type Result struct {
	Crawled   int
	New       int
	Exported  int
	Forwarded int
	LastTS    string
	// Truncated is set when the page cap was reached while Slack still
	// reported older messages. Those messages are not forwarded.
	Truncated bool
}

// Run performs one invocation. Any failure is posted to the notify
// channel and then returned.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	result, err := r.run(ctx, opts)
	if err == nil {
		return result, nil
	}

	log.Error().Err(err).Msgf("Crawl of channel %s failed", r.cfg.CrawlChannelID)
	if opts.DryRun {
		return result, err
	}

	notifier := slack.NewNotifier(r.cfg.NotifyConfig(), r.clientOpts...)
	if _, notifyErr := notifier.NotifyError(ctx, err); notifyErr != nil {
		log.Error().Err(notifyErr).Msg("Error sending failure notification")
		return result, errors.Join(err, fmt.Errorf("failed to notify error: %w", notifyErr))
	}
	return result, err
}

func (r *Runner) run(ctx context.Context, opts RunOptions) (*Result, error) {
	channelID := r.cfg.CrawlChannelID
	result := &Result{}

	checkpoint, err := r.progress.Load(channelID)
	if err != nil {
		return result, err
	}
	if checkpoint == nil {
		checkpoint = &progress.ChannelProgress{ChannelID: channelID}
	}

	oldest := checkpoint.Oldest()
	since := checkpoint.LastTS
	if opts.Oldest != nil {
		oldest = *opts.Oldest
		since = ""
	}

	messages, truncated, err := r.crawlAll(ctx, oldest)
	if err != nil {
		return result, err
	}
	result.Crawled = len(messages)
	result.Truncated = truncated

	fresh := NewerThan(messages, since)
	result.New = len(fresh)
	selected := SelectForward(fresh, r.cfg.ForwardReaction)

	log.Info().Msgf("Retrieved %d messages from channel %s (%d new, %d to forward)",
		len(messages), channelID, len(fresh), len(selected))

	var gap error
	if truncated {
		gap = fmt.Errorf("channel %s has more than %d pages of new messages; messages between %s and %s were skipped",
			channelID, r.maxPages, formatOldest(oldest), messages[0].Timestamp)
		log.Warn().Err(gap).Msg("Crawl truncated")
	}

	if opts.DryRun {
		for _, msg := range selected {
			log.Info().Str("ts", msg.Timestamp).Str("username", msg.Username).Msg(truncateText(msg.Text, 50))
		}
		return result, nil
	}

	if r.exporter != nil && len(fresh) > 0 {
		exported, err := r.exporter.Export(ctx, channelID, fresh)
		if err != nil {
			return result, fmt.Errorf("failed to export messages: %w", err)
		}
		result.Exported = exported
		log.Info().Msgf("Exported %d messages to Google Sheets", exported)
	}

	notifier := slack.NewNotifier(r.cfg.NotifyConfig(), r.clientOpts...)
	if gap != nil {
		if _, err := notifier.NotifyError(ctx, gap); err != nil {
			return result, fmt.Errorf("failed to report truncated crawl: %w", err)
		}
	}
	for _, msg := range selected {
		if _, err := notifier.Notify(ctx, slack.Notification{Text: FormatMessage(msg)}); err != nil {
			return result, fmt.Errorf("failed to forward message %s: %w", msg.Timestamp, err)
		}
		result.Forwarded++
	}

	// LastRun is stamped on every run, LastTS only moves with new messages.
	if len(fresh) > 0 {
		checkpoint.Advance(fresh[len(fresh)-1].Timestamp, len(fresh))
	}
	if err := r.progress.Save(checkpoint); err != nil {
		return result, err
	}
	result.LastTS = checkpoint.LastTS

	log.Info().Msgf("✅ Forwarded %d messages to channel %s", result.Forwarded, r.cfg.NotifyChannelID)
	return result, nil
}

// crawlAll pages backwards from the newest message until Slack reports no
// more history after oldest, or the page cap is hit. The result is sorted
// by ts ascending.
func (r *Runner) crawlAll(ctx context.Context, oldest float64) ([]slack.Message, bool, error) {
	crawler := slack.NewCrawler(r.cfg.CrawlConfig(), r.clientOpts...)

	var messages []slack.Message
	latest := ""
	for page := 1; ; page++ {
		batch, err := crawler.CrawlBefore(ctx, oldest, latest)
		if err != nil {
			return nil, false, err
		}
		messages = append(messages, batch...)

		if !crawler.HasMore() || len(batch) == 0 {
			break
		}
		if page >= r.maxPages {
			slack.SortByTimestamp(messages)
			return messages, true, nil
		}
		latest = batch[0].Timestamp
		log.Debug().Msgf("Channel %s has more history before %s, fetching page %d", r.cfg.CrawlChannelID, latest, page+1)
	}

	slack.SortByTimestamp(messages)
	return messages, false, nil
}

func formatOldest(oldest float64) string {
	return strconv.FormatFloat(oldest, 'f', 6, 64)
}

// Reset deletes the stored checkpoint, so the next run crawls from the
// start of the channel history.
func (r *Runner) Reset() error {
	if err := r.progress.Delete(r.cfg.CrawlChannelID); err != nil {
		return err
	}
	log.Info().Msgf("Progress for channel %s reset", r.cfg.CrawlChannelID)
	return nil
}
