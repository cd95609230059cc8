package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/service/sales"
)

// AnimalHandler exposes the herd CRUD surface and the sale workflow.
type AnimalHandler struct {
	store   *mongodb.Store[models.Animal]
	sales   *sales.Service
	ownerID string
	logger  *zap.Logger
}

// NewAnimalHandler constructs the HTTP handler adapter.
func NewAnimalHandler(store *mongodb.Store[models.Animal], salesSvc *sales.Service, ownerID string, logger *zap.Logger) *AnimalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnimalHandler{store: store, sales: salesSvc, ownerID: ownerID, logger: logger}
}

// List returns the current herd snapshot.
func (h *AnimalHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// Get returns one animal, or a not-found state for unknown ids.
func (h *AnimalHandler) Get(c *gin.Context) {
	animal, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "animal not found"})
		return
	}
	c.JSON(http.StatusOK, animal)
}

// Create validates and appends a new animal.
func (h *AnimalHandler) Create(c *gin.Context) {
	var animal models.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	animal.ID = models.NewID()
	animal.OwnerID = h.ownerID

	if err := h.store.Create(c.Request.Context(), animal); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, animal)
}

// Update overwrites the animal matching the path id. The write goes through
// the sales service so a transition to Sold fires the sale workflow exactly
// like the dedicated sell endpoint.
func (h *AnimalHandler) Update(c *gin.Context) {
	var animal models.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	animal.ID = c.Param("id")
	animal.OwnerID = h.ownerID

	updated, err := h.sales.Update(c.Request.Context(), animal)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, updated)
	case errors.Is(err, sales.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "animal not found"})
	case errors.Is(err, sales.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "sold animal requires a positive sale price"})
	default:
		writeStoreError(c, h.logger, err)
	}
}

// Delete removes the animal matching the path id.
func (h *AnimalHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sell runs the sale workflow for the animal matching the path id.
func (h *AnimalHandler) Sell(c *gin.Context) {
	var req struct {
		SalePrice float64 `json:"salePrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	animal, err := h.sales.MarkSold(c.Request.Context(), c.Param("id"), req.SalePrice)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, animal)
	case errors.Is(err, sales.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "animal not found"})
	case errors.Is(err, sales.ErrAlreadySold):
		c.JSON(http.StatusConflict, gin.H{"error": "animal already sold"})
	case errors.Is(err, sales.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "sale price must be positive"})
	default:
		h.logger.Error("sale workflow failed", zap.String("animal_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sale failed"})
	}
}
