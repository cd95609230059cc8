// Package reporting builds the end-of-day rollup and pushes it to the
// configured sinks.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
)

// AnimalSource supplies the current herd snapshot.
type AnimalSource interface {
	List() []models.Animal
}

// InventorySource supplies the current stock snapshot.
type InventorySource interface {
	List() []models.InventoryItem
}

// TransactionSource supplies the current ledger snapshot.
type TransactionSource interface {
	List() []models.Transaction
}

// SummarySink stores generated summaries, typically the document store.
type SummarySink interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// SheetExporter mirrors generated summaries into a spreadsheet.
type SheetExporter interface {
	AppendDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Service aggregates the entity snapshots into a daily summary.
type Service struct {
	animals      AnimalSource
	inventory    InventorySource
	transactions TransactionSource
	sink         SummarySink
	exporter     SheetExporter
	ownerID      string
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires a reporting service. sink and exporter may be nil; the
// summary is still computed and returned.
func NewService(animals AnimalSource, inventory InventorySource, transactions TransactionSource, sink SummarySink, exporter SheetExporter, ownerID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		animals:      animals,
		inventory:    inventory,
		transactions: transactions,
		sink:         sink,
		exporter:     exporter,
		ownerID:      ownerID,
		logger:       logger,
		now:          time.Now,
	}
}

// BuildDailySummary computes the rollup from the current snapshots.
func (s *Service) BuildDailySummary() models.DailySummary {
	now := s.now().UTC()
	dash := aggregate.Dashboard(s.animals.List(), s.inventory.List(), s.transactions.List())

	return models.DailySummary{
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		OwnerID:       s.ownerID,
		HerdCount:     dash.HerdCount,
		AtRiskCount:   dash.AtRiskCount,
		SoldCount:     dash.SoldCount,
		LowStockCount: dash.LowStockCount,
		Revenue:       dash.Accounting.Revenue,
		Expenses:      dash.Accounting.Expenses,
		Net:           dash.Accounting.Net,
		CreatedAt:     now,
	}
}

// PublishDailySummary computes the rollup and pushes it to every configured
// sink. Sink failures are reported but do not stop the remaining sinks.
func (s *Service) PublishDailySummary(ctx context.Context) (models.DailySummary, error) {
	summary := s.BuildDailySummary()
	var firstErr error

	if s.sink != nil {
		if err := s.sink.SaveDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to store daily summary", zap.Error(err))
			firstErr = fmt.Errorf("store daily summary: %w", err)
		}
	}

	if s.exporter != nil {
		if err := s.exporter.AppendDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to export daily summary", zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("export daily summary: %w", err)
			}
		}
	}

	s.logger.Info("daily summary generated",
		zap.Time("date", summary.Date),
		zap.Int("herd", summary.HerdCount),
		zap.Float64("net", summary.Net))

	return summary, firstErr
}
