package models

import "time"

// Seed data shown on a genuinely first run, when both the remote store and the
// local snapshot cache are empty. It is demo content, not an offline cache.

func ptr(v float64) *float64 { return &v }

// seedBillyID is fixed so the demo ledger entry and invoice can reference the
// demo sold animal; the reconciliation sweep would otherwise backfill
// duplicates for it.
const seedBillyID = "b66cf0f6-5a04-4c6b-9f3e-2d1f4f0a9e31"

// SeedAnimals returns the demo herd for a new tenant.
func SeedAnimals(ownerID string) []Animal {
	return []Animal{
		{ID: NewID(), OwnerID: ownerID, Name: "Daisy", Species: SpeciesBovine, Breed: "Holstein", AgeMonths: 24, WeightKg: 650, Lot: "L001", Status: StatusHealthy},
		{ID: NewID(), OwnerID: ownerID, Name: "Babe", Species: SpeciesPorcine, Breed: "Landrace", AgeMonths: 6, WeightKg: 100, Lot: "L001", Status: StatusAtRisk},
		{ID: NewID(), OwnerID: ownerID, Name: "Cluck", Species: SpeciesPoultry, AgeMonths: 1, WeightKg: 2, Lot: "L002", Status: StatusHealthy},
		{ID: seedBillyID, OwnerID: ownerID, Name: "Billy", Species: SpeciesCaprine, AgeMonths: 12, WeightKg: 50, Lot: "L003", Status: StatusSold, SalePrice: ptr(300)},
		{ID: NewID(), OwnerID: ownerID, Name: "Peter", Species: SpeciesRabbit, AgeMonths: 4, WeightKg: 3, Lot: "L002", Status: StatusHealthy},
	}
}

// SeedInventory returns the demo stock list for a new tenant.
func SeedInventory(ownerID string) []InventoryItem {
	return []InventoryItem{
		{ID: NewID(), OwnerID: ownerID, Name: "Cattle Feed", Category: CategoryFeed, Quantity: 500, Unit: "kg", LowStockThreshold: 100, PurchasePrice: ptr(0.5)},
		{ID: NewID(), OwnerID: ownerID, Name: "Antibiotics", Category: CategoryMedication, Quantity: 8, Unit: "doses", LowStockThreshold: 10, PurchasePrice: ptr(12)},
		{ID: NewID(), OwnerID: ownerID, Name: "Water Trough", Category: CategoryEquipment, Quantity: 4, Unit: "units", LowStockThreshold: 2},
	}
}

// SeedTransactions returns the demo ledger for a new tenant.
func SeedTransactions(ownerID string) []Transaction {
	day := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []Transaction{
		{ID: NewID(), OwnerID: ownerID, Date: day("2023-07-10"), Description: "Sale of caprine Billy", Category: TxSale, Type: TypeIncome, Amount: 300, AnimalID: seedBillyID},
		{ID: NewID(), OwnerID: ownerID, Date: day("2023-07-05"), Description: "Feed restock", Category: TxFeed, Type: TypeExpense, Amount: 250},
		{ID: NewID(), OwnerID: ownerID, Date: day("2023-07-02"), Description: "Vet visit and medication", Category: TxMedication, Type: TypeExpense, Amount: 75},
	}
}

// SeedInvoices returns the demo invoices for a new tenant.
func SeedInvoices(ownerID string) []Invoice {
	issue, _ := time.Parse("2006-01-02", "2023-07-10")
	return []Invoice{
		{
			ID:          NewID(),
			OwnerID:     ownerID,
			ClientName:  "Local Butcher Shop",
			ClientEmail: "butcher@local.com",
			IssueDate:   issue,
			DueDate:     issue.AddDate(0, 1, 0),
			LineItems: []LineItem{
				{ID: NewID(), Description: "Sale of caprine Billy", Quantity: 1, UnitPrice: 300, Total: 300, AnimalID: seedBillyID},
			},
			Subtotal: 300,
			Tax:      60,
			Total:    360,
			Status:   InvoicePaid,
		},
	}
}
