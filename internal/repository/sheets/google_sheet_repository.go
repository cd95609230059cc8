package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const (
	summaryRange = "Summaries!A:I"
	dateLayout   = "2006-01-02"
)

// Repository defines the export operations supported by the Google Sheets adapter.
type Repository interface {
	AppendDailySummary(ctx context.Context, summary models.DailySummary) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailySummary appends one summary row to the export spreadsheet.
func (r *GoogleSheetRepository) AppendDailySummary(ctx context.Context, summary models.DailySummary) error {
	row := []interface{}{
		summary.Date.Format(dateLayout),
		summary.HerdCount,
		summary.AtRiskCount,
		summary.SoldCount,
		summary.LowStockCount,
		summary.Revenue,
		summary.Expenses,
		summary.Net,
		summary.OwnerID,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row into range %s: %w", summaryRange, err)
	}

	r.logger.Debug("summary row appended to sheet", zap.String("range", summaryRange))
	return nil
}
