package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
)

// DashboardHandler serves the combined rollup view. The rollup is recomputed
// from the live snapshots on every request.
type DashboardHandler struct {
	animals      *mongodb.Store[models.Animal]
	inventory    *mongodb.Store[models.InventoryItem]
	transactions *mongodb.Store[models.Transaction]
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(animals *mongodb.Store[models.Animal], inventory *mongodb.Store[models.InventoryItem], transactions *mongodb.Store[models.Transaction]) *DashboardHandler {
	return &DashboardHandler{animals: animals, inventory: inventory, transactions: transactions}
}

// Summary returns the dashboard rollup.
func (h *DashboardHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, aggregate.Dashboard(h.animals.List(), h.inventory.List(), h.transactions.List()))
}
