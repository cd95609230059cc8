package models

import (
	"fmt"
	"time"
)

// TransactionType partitions ledger entries into income and expenses.
type TransactionType string

const (
	TypeIncome  TransactionType = "Income"
	TypeExpense TransactionType = "Expense"
)

// TransactionCategory enumerates ledger categories. Sale entries are always
// income; the other categories may appear on either side in principle but are
// expenses in practice.
type TransactionCategory string

const (
	TxSale       TransactionCategory = "Sale"
	TxFeed       TransactionCategory = "Feed"
	TxMedication TransactionCategory = "Medication"
	TxEquipment  TransactionCategory = "Equipment"
	TxOther      TransactionCategory = "Other"
)

// Transaction is a single accounting ledger entry. AnimalID links a sale entry
// to the sold animal; the reconciliation sweep matches on it, so it must never
// be derived from the free-text description.
type Transaction struct {
	ID          string              `bson:"_id" json:"id"`
	OwnerID     string              `bson:"owner_id" json:"-"`
	Date        time.Time           `bson:"date" json:"date"`
	Description string              `bson:"description" json:"description" validate:"required"`
	Category    TransactionCategory `bson:"category" json:"category"`
	Type        TransactionType     `bson:"type" json:"type"`
	Amount      float64             `bson:"amount" json:"amount" validate:"gt=0"`
	AnimalID    string              `bson:"animal_id,omitempty" json:"animalId,omitempty"`
}

// DocumentID returns the identity key of the record.
func (t Transaction) DocumentID() string { return t.ID }

func (c TransactionCategory) known() bool {
	switch c {
	case TxSale, TxFeed, TxMedication, TxEquipment, TxOther:
		return true
	}
	return false
}

// Validate checks field constraints. Category Sale implies type Income.
func (t Transaction) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}
	if !t.Category.known() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, t.Category)
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, t.Type)
	}
	if t.Category == TxSale && t.Type != TypeIncome {
		return fmt.Errorf("%w: sale transactions must be income", ErrInvalid)
	}
	return nil
}
