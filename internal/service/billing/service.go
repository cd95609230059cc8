// Package billing owns the invoice status sweeps.
package billing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// InvoiceStore is the slice of the invoice store the sweep needs.
type InvoiceStore interface {
	List() []models.Invoice
	Update(ctx context.Context, rec models.Invoice) error
}

// Service transitions invoices through time-driven status changes.
type Service struct {
	invoices InvoiceStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a billing service instance.
func NewService(invoices InvoiceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{invoices: invoices, logger: logger, now: time.Now}
}

// MarkOverdue flips Sent invoices whose due date has passed to Overdue and
// returns how many were updated. Draft and Paid invoices are never touched.
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	today := s.now().UTC()
	updated := 0
	var firstErr error

	for _, inv := range s.invoices.List() {
		if inv.Status != models.InvoiceSent || !inv.DueDate.Before(today) {
			continue
		}
		inv.Status = models.InvoiceOverdue
		if err := s.invoices.Update(ctx, inv); err != nil {
			s.logger.Error("failed to mark invoice overdue", zap.String("invoice_id", inv.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		updated++
	}

	if updated > 0 {
		s.logger.Info("overdue sweep updated invoices", zap.Int("updated", updated))
	}
	return updated, firstErr
}
