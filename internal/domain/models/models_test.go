package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAnimal() Animal {
	return Animal{
		ID:        NewID(),
		OwnerID:   "tenant-1",
		Name:      "Daisy",
		Species:   SpeciesBovine,
		AgeMonths: 24,
		WeightKg:  650,
		Lot:       "L001",
		Status:    StatusHealthy,
	}
}

func TestAnimalValidate(t *testing.T) {
	require.NoError(t, validAnimal().Validate())

	t.Run("missing name", func(t *testing.T) {
		a := validAnimal()
		a.Name = ""
		assert.ErrorIs(t, a.Validate(), ErrInvalid)
	})

	t.Run("unknown species", func(t *testing.T) {
		a := validAnimal()
		a.Species = "Dragon"
		assert.ErrorIs(t, a.Validate(), ErrInvalid)
	})

	t.Run("sold requires sale price", func(t *testing.T) {
		a := validAnimal()
		a.Status = StatusSold
		assert.ErrorIs(t, a.Validate(), ErrInvalid)

		price := 300.0
		a.SalePrice = &price
		assert.NoError(t, a.Validate())

		zero := 0.0
		a.SalePrice = &zero
		assert.ErrorIs(t, a.Validate(), ErrInvalid)
	})

	t.Run("sale price forbidden unless sold", func(t *testing.T) {
		a := validAnimal()
		price := 300.0
		a.SalePrice = &price
		assert.ErrorIs(t, a.Validate(), ErrInvalid)
	})
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{
		ID:          NewID(),
		Date:        time.Now(),
		Description: "Feed restock",
		Category:    TxFeed,
		Type:        TypeExpense,
		Amount:      250,
	}
	require.NoError(t, tx.Validate())

	t.Run("amount must be positive", func(t *testing.T) {
		bad := tx
		bad.Amount = 0
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("sale must be income", func(t *testing.T) {
		bad := tx
		bad.Category = TxSale
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)

		bad.Type = TypeIncome
		assert.NoError(t, bad.Validate())
	})

	t.Run("date required", func(t *testing.T) {
		bad := tx
		bad.Date = time.Time{}
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})
}

func TestInventoryItemValidate(t *testing.T) {
	item := InventoryItem{
		ID:                NewID(),
		Name:              "Cattle Feed",
		Category:          CategoryFeed,
		Quantity:          500,
		Unit:              "kg",
		LowStockThreshold: 100,
	}
	require.NoError(t, item.Validate())

	t.Run("negative quantity", func(t *testing.T) {
		bad := item
		bad.Quantity = -1
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("unknown category", func(t *testing.T) {
		bad := item
		bad.Category = "Snacks"
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})
}

func TestInvoiceValidate(t *testing.T) {
	issue := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := Invoice{
		ID:          NewID(),
		ClientName:  "Local Butcher Shop",
		ClientEmail: "butcher@local.com",
		IssueDate:   issue,
		DueDate:     issue.AddDate(0, 1, 0),
		LineItems:   []LineItem{{ID: NewID(), Description: "Goat", Quantity: 1, UnitPrice: 300}},
		Status:      InvoiceDraft,
	}
	require.NoError(t, inv.Validate())

	t.Run("needs at least one line item", func(t *testing.T) {
		bad := inv
		bad.LineItems = nil
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("line quantity must be positive", func(t *testing.T) {
		bad := inv
		bad.LineItems = []LineItem{{ID: NewID(), Description: "Goat", Quantity: 0, UnitPrice: 300}}
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("due before issue", func(t *testing.T) {
		bad := inv
		bad.DueDate = issue.AddDate(0, 0, -1)
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("invalid email", func(t *testing.T) {
		bad := inv
		bad.ClientEmail = "not-an-email"
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})
}

func TestSeedDataIsValid(t *testing.T) {
	for _, a := range SeedAnimals("tenant-1") {
		assert.NoError(t, a.Validate(), a.Name)
	}
	for _, i := range SeedInventory("tenant-1") {
		assert.NoError(t, i.Validate(), i.Name)
	}
	for _, tx := range SeedTransactions("tenant-1") {
		assert.NoError(t, tx.Validate(), tx.Description)
	}
	for _, inv := range SeedInvoices("tenant-1") {
		assert.NoError(t, inv.Validate(), inv.ClientName)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
