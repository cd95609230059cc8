package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
)

// InventoryHandler exposes the stock CRUD surface.
type InventoryHandler struct {
	store   *mongodb.Store[models.InventoryItem]
	ownerID string
	logger  *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(store *mongodb.Store[models.InventoryItem], ownerID string, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{store: store, ownerID: ownerID, logger: logger}
}

type inventoryView struct {
	models.InventoryItem
	IsLowStock      bool    `json:"isLowStock"`
	StockPercentage float64 `json:"stockPercentage"`
}

func newInventoryView(item models.InventoryItem) inventoryView {
	return inventoryView{
		InventoryItem:   item,
		IsLowStock:      item.IsLowStock(),
		StockPercentage: aggregate.StockPercent(item),
	}
}

// List returns the stock snapshot with the derived low-stock fields.
func (h *InventoryHandler) List(c *gin.Context) {
	items := h.store.List()
	views := make([]inventoryView, 0, len(items))
	for _, item := range items {
		views = append(views, newInventoryView(item))
	}
	c.JSON(http.StatusOK, views)
}

// Get returns one item, or a not-found state for unknown ids.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, newInventoryView(item))
}

// Create validates and appends a new stock item.
func (h *InventoryHandler) Create(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item.ID = models.NewID()
	item.OwnerID = h.ownerID

	if err := h.store.Create(c.Request.Context(), item); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newInventoryView(item))
}

// Update overwrites the item matching the path id.
func (h *InventoryHandler) Update(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item.ID = c.Param("id")
	item.OwnerID = h.ownerID

	if err := h.store.Update(c.Request.Context(), item); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryView(item))
}

// Delete removes the item matching the path id.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeStoreError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
