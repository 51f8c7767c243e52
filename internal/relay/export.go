package relay

import (
	"context"

	"slack-crawl-notifier/internal/sheets"
	"slack-crawl-notifier/internal/slack"
)

// SheetExporter writes batches to one tab per channel of a spreadsheet.
type SheetExporter struct {
	client        *sheets.Client
	spreadsheetID string
}

func NewSheetExporter(client *sheets.Client, spreadsheetID string) *SheetExporter {
	return &SheetExporter{client: client, spreadsheetID: spreadsheetID}
}

func (e *SheetExporter) Export(ctx context.Context, sheetName string, messages []slack.Message) (int, error) {
	if err := e.client.EnsureSheetExists(ctx, e.spreadsheetID, sheetName); err != nil {
		return 0, err
	}
	return e.client.AppendMessages(ctx, e.spreadsheetID, sheetName, messages)
}
