package models

import "fmt"

// ItemCategory enumerates the stock categories tracked for the farm.
type ItemCategory string

const (
	CategoryFeed       ItemCategory = "Feed"
	CategoryMedication ItemCategory = "Medication"
	CategoryEquipment  ItemCategory = "Equipment"
)

// InventoryItem is a consumable or tool tracked against a low-stock threshold.
type InventoryItem struct {
	ID                string       `bson:"_id" json:"id"`
	OwnerID           string       `bson:"owner_id" json:"-"`
	Name              string       `bson:"name" json:"name" validate:"required"`
	Category          ItemCategory `bson:"category" json:"category"`
	Quantity          float64      `bson:"quantity" json:"quantity" validate:"gte=0"`
	Unit              string       `bson:"unit" json:"unit" validate:"required"`
	LowStockThreshold float64      `bson:"low_stock_threshold" json:"lowStockThreshold" validate:"gte=0"`
	PurchasePrice     *float64     `bson:"purchase_price,omitempty" json:"purchasePrice,omitempty"`
}

// DocumentID returns the identity key of the record.
func (i InventoryItem) DocumentID() string { return i.ID }

// IsLowStock reports whether the item is at or below its threshold.
// The boundary quantity == threshold counts as low.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

func (c ItemCategory) known() bool {
	switch c {
	case CategoryFeed, CategoryMedication, CategoryEquipment:
		return true
	}
	return false
}

// Validate checks field constraints.
func (i InventoryItem) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !i.Category.known() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, i.Category)
	}
	if i.PurchasePrice != nil && *i.PurchasePrice < 0 {
		return fmt.Errorf("%w: purchase price must not be negative", ErrInvalid)
	}
	return nil
}
