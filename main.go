package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"slack-crawl-notifier/internal/config"
	"slack-crawl-notifier/internal/relay"
	"slack-crawl-notifier/internal/sheets"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
		With().Timestamp().Logger()

	app := &cli.App{
		Name:  "slack-crawl-notifier",
		Usage: "Crawl a Slack channel and forward new messages to another channel",
		Commands: []*cli.Command{
			{
				Name:   "crawl",
				Usage:  "Run a single crawl and exit",
				Action: runCrawl,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "oldest",
						Usage: "crawl messages after this Unix timestamp, ignoring the stored progress",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "crawl and log without posting, exporting or saving progress",
					},
				},
			},
			{
				Name:   "schedule",
				Usage:  "Crawl periodically on CRAWL_SCHEDULE until interrupted",
				Action: runSchedule,
			},
			{
				Name:   "reset",
				Usage:  "Delete the stored progress so the next crawl starts from the beginning",
				Action: runReset,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Exiting")
	}
}

func runCrawl(c *cli.Context) error {
	cfg, runner, err := setup(c.Context)
	if err != nil {
		return err
	}

	opts := relay.RunOptions{DryRun: c.Bool("dry-run")}
	if c.IsSet("oldest") {
		oldest := c.Float64("oldest")
		opts.Oldest = &oldest
	}

	result, err := runner.Run(c.Context, opts)
	if err != nil {
		return err
	}

	log.Info().Msgf("Crawl of %s finished: %d crawled, %d new, %d forwarded",
		cfg.CrawlChannelID, result.Crawled, result.New, result.Forwarded)
	if result.Truncated {
		log.Warn().Msg("Older messages were skipped, the page cap was reached")
	}
	return nil
}

func runReset(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return relay.New(cfg).Reset()
}

func runSchedule(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, runner, err := setup(ctx)
	if err != nil {
		return err
	}

	return relay.Schedule(ctx, cfg.Schedule, func(ctx context.Context) {
		// Run already reported the failure to Slack.
		_, _ = runner.Run(ctx, relay.RunOptions{})
	})
}

func setup(ctx context.Context) (*config.Config, *relay.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Msgf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var opts []relay.Option
	if cfg.SheetsEnabled() {
		sheetsClient, err := sheets.NewClient(ctx, cfg.GoogleSheetsCredentials)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, relay.WithExporter(relay.NewSheetExporter(sheetsClient, cfg.SpreadsheetID)))
	} else {
		log.Info().Msg("Google Sheets not configured, export disabled")
	}

	return cfg, relay.New(cfg, opts...), nil
}
