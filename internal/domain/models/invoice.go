package models

import (
	"fmt"
	"time"
)

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceSent    InvoiceStatus = "Sent"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

// LineItem is one billed position on an invoice. Total is derived from
// quantity and unit price and never accepted from callers as-is. AnimalID
// links a sale line to the sold animal for the reconciliation sweep.
type LineItem struct {
	ID          string  `bson:"id" json:"id"`
	Description string  `bson:"description" json:"description" validate:"required"`
	Quantity    float64 `bson:"quantity" json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `bson:"unit_price" json:"unitPrice" validate:"gte=0"`
	Total       float64 `bson:"total" json:"total"`
	AnimalID    string  `bson:"animal_id,omitempty" json:"animalId,omitempty"`
}

// Invoice is a billing document. Subtotal, tax and total are recomputed from
// the line items on every create and update; stored values are never trusted.
type Invoice struct {
	ID          string        `bson:"_id" json:"id"`
	OwnerID     string        `bson:"owner_id" json:"-"`
	ClientName  string        `bson:"client_name" json:"clientName" validate:"required"`
	ClientEmail string        `bson:"client_email" json:"clientEmail" validate:"required,email"`
	IssueDate   time.Time     `bson:"issue_date" json:"issueDate"`
	DueDate     time.Time     `bson:"due_date" json:"dueDate"`
	LineItems   []LineItem    `bson:"line_items" json:"lineItems" validate:"min=1,dive"`
	Subtotal    float64       `bson:"subtotal" json:"subtotal"`
	Tax         float64       `bson:"tax" json:"tax"`
	Total       float64       `bson:"total" json:"total"`
	Status      InvoiceStatus `bson:"status" json:"status"`
}

// DocumentID returns the identity key of the record.
func (inv Invoice) DocumentID() string { return inv.ID }

func (s InvoiceStatus) known() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// Validate checks field constraints.
func (inv Invoice) Validate() error {
	if err := validate.Struct(inv); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if inv.IssueDate.IsZero() || inv.DueDate.IsZero() {
		return fmt.Errorf("%w: issue and due dates are required", ErrInvalid)
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return fmt.Errorf("%w: due date precedes issue date", ErrInvalid)
	}
	if !inv.Status.known() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, inv.Status)
	}
	return nil
}
