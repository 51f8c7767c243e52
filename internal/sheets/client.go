package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"slack-crawl-notifier/internal/slack"
)

var headers = []interface{}{
	"ts",
	"username",
	"text",
	"attachmentText",
	"reactions",
}

type Client struct {
	service *sheets.Service
}

// NewClient creates a Sheets client. credentials is either service account
// JSON or a path to a .json file; when empty, opts must carry the auth.
func NewClient(ctx context.Context, credentials string, opts ...option.ClientOption) (*Client, error) {
	if credentials != "" {
		credentialsData, err := readCredentials(credentials)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(credentialsData))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

func readCredentials(credentials string) ([]byte, error) {
	// File path criteria: shorter than 512 chars, ends with .json, and doesn't start with {
	isFilePath := len(credentials) < 512 &&
		strings.HasSuffix(credentials, ".json") &&
		!strings.HasPrefix(strings.TrimSpace(credentials), "{")

	if !isFilePath {
		return []byte(credentials), nil
	}

	data, err := os.ReadFile(credentials)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file '%s': %w", credentials, err)
	}
	log.Debug().Msgf("Read credentials from file: %s (%d bytes)", credentials, len(data))
	return data, nil
}

// EnsureSheetExists creates the sheet with its header row if it is missing.
func (c *Client) EnsureSheetExists(ctx context.Context, spreadsheetID, sheetName string) error {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return nil
		}
	}

	log.Info().Msgf("Creating new sheet: '%s'", sheetName)

	createRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
					},
				},
			},
		},
	}

	if _, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, createRequest).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to create sheet: %w", err)
	}

	headerRange := &sheets.ValueRange{
		Values: [][]interface{}{headers},
	}

	_, err = c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		sheetRange(sheetName, "A1:E1"),
		headerRange,
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		log.Warn().Err(err).Msgf("Unable to add headers to sheet '%s'", sheetName)
	}

	return nil
}

// AppendMessages appends one row per message, skipping ts values already
// present in column A. It returns the number of rows written.
func (c *Client) AppendMessages(ctx context.Context, spreadsheetID, sheetName string, messages []slack.Message) (int, error) {
	existing, err := c.existingTimestamps(ctx, spreadsheetID, sheetName)
	if err != nil {
		return 0, err
	}

	var rows [][]interface{}
	for _, msg := range messages {
		if existing[msg.Timestamp] {
			continue
		}
		existing[msg.Timestamp] = true
		rows = append(rows, messageRow(msg))
	}

	if len(rows) == 0 {
		return 0, nil
	}

	_, err = c.service.Spreadsheets.Values.Append(
		spreadsheetID,
		sheetRange(sheetName, "A:E"),
		&sheets.ValueRange{Values: rows},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to write data to sheet: %w", err)
	}

	return len(rows), nil
}

func (c *Client) existingTimestamps(ctx context.Context, spreadsheetID, sheetName string) (map[string]bool, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange(sheetName, "A:A")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read existing messages: %w", err)
	}

	seen := make(map[string]bool, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if ts, ok := row[0].(string); ok {
			seen[ts] = true
		}
	}
	return seen, nil
}

func messageRow(msg slack.Message) []interface{} {
	return []interface{}{
		msg.Timestamp,
		msg.Username,
		msg.Text,
		msg.AttachmentText,
		strings.Join(msg.ReactionNames, ", "),
	}
}

func sheetRange(sheetName, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheetName, "'", "''"), cells)
}
