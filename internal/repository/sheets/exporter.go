package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/pramodporuwa/shopsense/internal/config"
	"github.com/pramodporuwa/shopsense/internal/domain/models"
)

const (
	summaryRange = "DailySummary!A:F"
	dateLayout   = "2006-01-02"
)

// Exporter mirrors generated report summaries into a spreadsheet for people
// who live in Google Sheets. It is an optional sink, never a source.
type Exporter interface {
	AppendSummaryRow(ctx context.Context, report models.Report) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummaryRow appends one row per generated report: date, window and the
// headline sales figures. A report without a summary section exports zeros
// with a no-data marker so the sheet keeps one row per run.
func (e *GoogleSheetExporter) AppendSummaryRow(ctx context.Context, report models.Report) error {
	row := []interface{}{
		report.GeneratedAt.UTC().Format(dateLayout),
		report.WindowDays,
	}
	if report.Summary != nil {
		row = append(row,
			report.Summary.TotalSales,
			report.Summary.TotalOrders,
			report.Summary.TotalItems,
			report.Summary.AverageOrderValue,
		)
	} else {
		row = append(row, "no data", 0, 0, 0)
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row into range %s: %w", summaryRange, err)
	}

	e.logger.Debug("summary row appended to sheet", zap.String("range", summaryRange))
	return nil
}
