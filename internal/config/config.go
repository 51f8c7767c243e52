package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"slack-crawl-notifier/internal/progress"
	"slack-crawl-notifier/internal/slack"
)

const (
	DefaultPageLimit = 100
	DefaultSchedule  = "*/10 * * * *"
	DefaultLogLevel  = "info"
)

type Config struct {
	SlackBotToken           string
	CrawlChannelID          string
	NotifyChannelID         string
	PageLimit               int
	ForwardReaction         string
	ProgressDir             string
	GoogleSheetsCredentials string
	SpreadsheetID           string
	Schedule                string
	LogLevel                string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	pageLimit, err := getEnvIntOrDefault("SLACK_PAGE_LIMIT", DefaultPageLimit)
	if err != nil {
		return nil, err
	}

	return &Config{
		SlackBotToken:           os.Getenv("SLACK_BOT_TOKEN"),
		CrawlChannelID:          os.Getenv("SLACK_CRAWL_CHANNEL_ID"),
		NotifyChannelID:         os.Getenv("SLACK_NOTIFY_CHANNEL_ID"),
		PageLimit:               pageLimit,
		ForwardReaction:         strings.Trim(os.Getenv("SLACK_FORWARD_REACTION"), ":"),
		ProgressDir:             getEnvOrDefault("PROGRESS_DIR", progress.DefaultDir),
		GoogleSheetsCredentials: os.Getenv("GOOGLE_SHEETS_CREDENTIALS"),
		SpreadsheetID:           os.Getenv("SPREADSHEET_ID"),
		Schedule:                getEnvOrDefault("CRAWL_SCHEDULE", DefaultSchedule),
		LogLevel:                getEnvOrDefault("LOG_LEVEL", DefaultLogLevel),
	}, nil
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.SlackBotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	if c.CrawlChannelID == "" {
		errs = append(errs, errors.New("SLACK_CRAWL_CHANNEL_ID is required"))
	}
	if c.NotifyChannelID == "" {
		errs = append(errs, errors.New("SLACK_NOTIFY_CHANNEL_ID is required"))
	}
	if c.PageLimit <= 0 {
		errs = append(errs, fmt.Errorf("SLACK_PAGE_LIMIT must be positive, got %d", c.PageLimit))
	}
	if (c.GoogleSheetsCredentials == "") != (c.SpreadsheetID == "") {
		errs = append(errs, errors.New("GOOGLE_SHEETS_CREDENTIALS and SPREADSHEET_ID must be set together"))
	}
	return errors.Join(errs...)
}

// SheetsEnabled reports whether crawled batches are exported to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSheetsCredentials != "" && c.SpreadsheetID != ""
}

func (c *Config) CrawlConfig() slack.CrawlConfig {
	return slack.CrawlConfig{
		ChannelID: c.CrawlChannelID,
		BotToken:  c.SlackBotToken,
		PageLimit: c.PageLimit,
	}
}

func (c *Config) NotifyConfig() slack.NotifyConfig {
	return slack.NotifyConfig{
		ChannelID: c.NotifyChannelID,
		BotToken:  c.SlackBotToken,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
