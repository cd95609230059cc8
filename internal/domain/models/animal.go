package models

import "fmt"

// Species enumerates the herd species supported by the application.
type Species string

const (
	SpeciesBovine  Species = "Bovine"
	SpeciesPorcine Species = "Porcine"
	SpeciesPoultry Species = "Poultry"
	SpeciesCaprine Species = "Caprine"
	SpeciesOvine   Species = "Ovine"
	SpeciesRabbit  Species = "Rabbit"
)

// AnimalStatus is the lifecycle state of an animal. Sold is terminal in the UI.
type AnimalStatus string

const (
	StatusHealthy AnimalStatus = "Healthy"
	StatusAtRisk  AnimalStatus = "At Risk"
	StatusSold    AnimalStatus = "Sold"
)

// Animal is the primary sellable asset of the herd.
type Animal struct {
	ID        string       `bson:"_id" json:"id"`
	OwnerID   string       `bson:"owner_id" json:"-"`
	Name      string       `bson:"name" json:"name" validate:"required"`
	Species   Species      `bson:"species" json:"species"`
	Breed     string       `bson:"breed,omitempty" json:"breed,omitempty"`
	AgeMonths int          `bson:"age_months" json:"ageMonths" validate:"gte=0"`
	WeightKg  float64      `bson:"weight_kg" json:"weightKg" validate:"gte=0"`
	Lot       string       `bson:"lot" json:"lot" validate:"required"`
	Status    AnimalStatus `bson:"status" json:"status"`
	SalePrice *float64     `bson:"sale_price,omitempty" json:"salePrice,omitempty"`
	Notes     string       `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DocumentID returns the identity key of the record.
func (a Animal) DocumentID() string { return a.ID }

func (s Species) known() bool {
	switch s {
	case SpeciesBovine, SpeciesPorcine, SpeciesPoultry, SpeciesCaprine, SpeciesOvine, SpeciesRabbit:
		return true
	}
	return false
}

func (s AnimalStatus) known() bool {
	switch s {
	case StatusHealthy, StatusAtRisk, StatusSold:
		return true
	}
	return false
}

// Validate checks field constraints, including the sale-price rule: a sale
// price is present and positive exactly when the animal is Sold.
func (a Animal) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !a.Species.known() {
		return fmt.Errorf("%w: unknown species %q", ErrInvalid, a.Species)
	}
	if !a.Status.known() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, a.Status)
	}
	if a.Status == StatusSold {
		if a.SalePrice == nil || *a.SalePrice <= 0 {
			return fmt.Errorf("%w: sold animal requires a positive sale price", ErrInvalid)
		}
	} else if a.SalePrice != nil {
		return fmt.Errorf("%w: sale price only allowed on sold animals", ErrInvalid)
	}
	return nil
}
