package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
)

// InvoiceHandler exposes the billing CRUD surface. Totals are derived by the
// store's prepare hook; client-supplied totals are discarded.
type InvoiceHandler struct {
	store   *mongodb.Store[models.Invoice]
	ownerID string
	logger  *zap.Logger
}

// NewInvoiceHandler constructs the HTTP handler adapter.
func NewInvoiceHandler(store *mongodb.Store[models.Invoice], ownerID string, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{store: store, ownerID: ownerID, logger: logger}
}

// List returns the invoice snapshot.
func (h *InvoiceHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// Get returns one invoice, or a not-found state for unknown ids.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Create validates and appends a new invoice.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var invoice models.Invoice
	if err := c.ShouldBindJSON(&invoice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	invoice.ID = models.NewID()
	invoice.OwnerID = h.ownerID
	if invoice.Status == "" {
		invoice.Status = models.InvoiceDraft
	}
	for i := range invoice.LineItems {
		if invoice.LineItems[i].ID == "" {
			invoice.LineItems[i].ID = models.NewID()
		}
	}

	// Recompute here as well so the echoed record carries the derived
	// totals; the store prepare hook recomputes identically before writing.
	aggregate.ApplyInvoiceTotals(&invoice)

	if err := h.store.Create(c.Request.Context(), invoice); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// Update overwrites the invoice matching the path id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	var invoice models.Invoice
	if err := c.ShouldBindJSON(&invoice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	invoice.ID = c.Param("id")
	invoice.OwnerID = h.ownerID
	for i := range invoice.LineItems {
		if invoice.LineItems[i].ID == "" {
			invoice.LineItems[i].ID = models.NewID()
		}
	}

	aggregate.ApplyInvoiceTotals(&invoice)

	if err := h.store.Update(c.Request.Context(), invoice); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Delete removes the invoice matching the path id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
