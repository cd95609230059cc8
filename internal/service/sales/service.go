// Package sales implements the one multi-entity business rule in the system:
// marking an animal Sold must append an income transaction and create a draft
// invoice for the sale price.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

var (
	// ErrNotFound signals an unknown animal id.
	ErrNotFound = errors.New("animal not found")
	// ErrAlreadySold guards against firing the sale side effects twice.
	ErrAlreadySold = errors.New("animal already sold")
	// ErrInvalidPrice rejects non-positive sale prices.
	ErrInvalidPrice = errors.New("sale price must be positive")
)

// AnimalStore is the slice of the animal store the workflow needs.
type AnimalStore interface {
	Get(id string) (models.Animal, bool)
	Update(ctx context.Context, rec models.Animal) error
	List() []models.Animal
}

// TransactionStore is the slice of the ledger store the workflow needs.
type TransactionStore interface {
	Create(ctx context.Context, rec models.Transaction) error
	List() []models.Transaction
}

// InvoiceStore is the slice of the invoice store the workflow needs.
type InvoiceStore interface {
	Create(ctx context.Context, rec models.Invoice) error
	List() []models.Invoice
}

// Service runs the sale workflow and its reconciliation sweep.
type Service struct {
	animals      AnimalStore
	transactions TransactionStore
	invoices     InvoiceStore
	ownerID      string
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires a sale workflow instance.
func NewService(animals AnimalStore, transactions TransactionStore, invoices InvoiceStore, ownerID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		animals:      animals,
		transactions: transactions,
		invoices:     invoices,
		ownerID:      ownerID,
		logger:       logger,
		now:          time.Now,
	}
}

// MarkSold transitions the animal to Sold and fires the side effects. The
// guard is "status changes to Sold AND previous status was not Sold": calling
// MarkSold on an already sold animal produces nothing.
//
// The animal update is issued first; the transaction and invoice creations
// follow independently with no shared transaction. A failed side effect is
// logged and left for the reconciliation sweep, never rolled back.
func (s *Service) MarkSold(ctx context.Context, id string, price float64) (models.Animal, error) {
	animal, ok := s.animals.Get(id)
	if !ok {
		return models.Animal{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if animal.Status == models.StatusSold {
		return animal, ErrAlreadySold
	}
	if price <= 0 {
		return animal, ErrInvalidPrice
	}

	animal.Status = models.StatusSold
	animal.SalePrice = &price
	if err := s.animals.Update(ctx, animal); err != nil {
		return animal, fmt.Errorf("update animal %s: %w", id, err)
	}
	s.recordSale(ctx, animal)

	return animal, nil
}

// Update overwrites the animal and fires the sale side effects when the write
// transitions it to Sold. Every animal update goes through here so a plain
// store overwrite cannot skip the workflow.
func (s *Service) Update(ctx context.Context, incoming models.Animal) (models.Animal, error) {
	previous, ok := s.animals.Get(incoming.ID)
	if !ok {
		return models.Animal{}, fmt.Errorf("%w: %s", ErrNotFound, incoming.ID)
	}

	becomesSold := incoming.Status == models.StatusSold && previous.Status != models.StatusSold
	if becomesSold && (incoming.SalePrice == nil || *incoming.SalePrice <= 0) {
		return previous, ErrInvalidPrice
	}

	if err := s.animals.Update(ctx, incoming); err != nil {
		return incoming, err
	}
	if becomesSold {
		s.recordSale(ctx, incoming)
	}
	return incoming, nil
}

// recordSale fires the two sale side effects. Failures are logged and left for
// the reconciliation sweep, never rolled back.
func (s *Service) recordSale(ctx context.Context, animal models.Animal) {
	if err := s.transactions.Create(ctx, s.saleTransaction(animal)); err != nil {
		s.logger.Error("sale transaction not recorded, awaiting reconciliation",
			zap.String("animal_id", animal.ID), zap.Error(err))
	}
	if err := s.invoices.Create(ctx, s.saleInvoice(animal)); err != nil {
		s.logger.Error("sale invoice not created, awaiting reconciliation",
			zap.String("animal_id", animal.ID), zap.Error(err))
	}

	s.logger.Info("animal sold",
		zap.String("animal_id", animal.ID),
		zap.String("name", animal.Name),
		zap.Float64("price", *animal.SalePrice))
}

// Reconcile backfills missing sale side effects. The two side-effect writes
// are not atomic, so a crash or a partial remote failure can leave a Sold
// animal without its transaction or invoice; this sweep repairs that. Matching
// relies on the animal reference stamped on the side-effect records, so editing
// a description never confuses the sweep.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	repaired := 0
	var firstErr error

	for _, animal := range s.animals.List() {
		if animal.Status != models.StatusSold || animal.SalePrice == nil {
			continue
		}

		if !s.hasSaleTransaction(animal.ID) {
			if err := s.transactions.Create(ctx, s.saleTransaction(animal)); err != nil {
				s.logger.Error("reconcile: failed to backfill transaction",
					zap.String("animal_id", animal.ID), zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			} else {
				repaired++
			}
		}

		if !s.hasSaleInvoice(animal.ID) {
			if err := s.invoices.Create(ctx, s.saleInvoice(animal)); err != nil {
				s.logger.Error("reconcile: failed to backfill invoice",
					zap.String("animal_id", animal.ID), zap.Error(err))
				if firstErr == nil {
					firstErr = err
				}
			} else {
				repaired++
			}
		}
	}

	if repaired > 0 {
		s.logger.Info("reconciliation sweep backfilled sale records", zap.Int("repaired", repaired))
	}
	return repaired, firstErr
}

func (s *Service) hasSaleTransaction(animalID string) bool {
	for _, tx := range s.transactions.List() {
		if tx.Category == models.TxSale && tx.AnimalID == animalID {
			return true
		}
	}
	return false
}

func (s *Service) hasSaleInvoice(animalID string) bool {
	for _, inv := range s.invoices.List() {
		for _, item := range inv.LineItems {
			if item.AnimalID == animalID {
				return true
			}
		}
	}
	return false
}

func (s *Service) saleTransaction(animal models.Animal) models.Transaction {
	return models.Transaction{
		ID:          models.NewID(),
		OwnerID:     s.ownerID,
		Date:        s.now().UTC(),
		Description: saleDescription(animal),
		Category:    models.TxSale,
		Type:        models.TypeIncome,
		Amount:      *animal.SalePrice,
		AnimalID:    animal.ID,
	}
}

func (s *Service) saleInvoice(animal models.Animal) models.Invoice {
	issued := s.now().UTC()
	return models.Invoice{
		ID:          models.NewID(),
		OwnerID:     s.ownerID,
		ClientName:  "Pending Buyer",
		ClientEmail: "billing@pending.invalid",
		IssueDate:   issued,
		DueDate:     issued.AddDate(0, 1, 0),
		LineItems: []models.LineItem{
			{
				ID:          models.NewID(),
				Description: saleDescription(animal),
				Quantity:    1,
				UnitPrice:   *animal.SalePrice,
				AnimalID:    animal.ID,
			},
		},
		Status: models.InvoiceDraft,
	}
}

func saleDescription(animal models.Animal) string {
	return fmt.Sprintf("Sale of %s %s", strings.ToLower(string(animal.Species)), animal.Name)
}
