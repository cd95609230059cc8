package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
)

// TransactionHandler exposes the accounting ledger surface.
type TransactionHandler struct {
	store   *mongodb.Store[models.Transaction]
	ownerID string
	logger  *zap.Logger
}

// NewTransactionHandler constructs the HTTP handler adapter.
func NewTransactionHandler(store *mongodb.Store[models.Transaction], ownerID string, logger *zap.Logger) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{store: store, ownerID: ownerID, logger: logger}
}

// List returns the ledger snapshot, newest first, with the accounting rollup.
func (h *TransactionHandler) List(c *gin.Context) {
	transactions := h.store.List()
	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"summary":      aggregate.Accounting(transactions),
	})
}

// Create validates and appends a new ledger entry.
func (h *TransactionHandler) Create(c *gin.Context) {
	var tx models.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tx.ID = models.NewID()
	tx.OwnerID = h.ownerID
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC()
	}

	if err := h.store.Create(c.Request.Context(), tx); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// Delete removes the ledger entry matching the path id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
