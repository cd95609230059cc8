package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/server/handlers"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Animals      *handlers.AnimalHandler
	Inventory    *handlers.InventoryHandler
	Transactions *handlers.TransactionHandler
	Invoices     *handlers.InvoiceHandler
	Advisory     *handlers.AdvisoryHandler
	Dashboard    *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")

	animals := api.Group("/animals")
	animals.GET("", h.Animals.List)
	animals.POST("", h.Animals.Create)
	animals.GET("/:id", h.Animals.Get)
	animals.PUT("/:id", h.Animals.Update)
	animals.DELETE("/:id", h.Animals.Delete)
	animals.POST("/:id/sell", h.Animals.Sell)

	inventory := api.Group("/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.POST("", h.Inventory.Create)
	inventory.GET("/:id", h.Inventory.Get)
	inventory.PUT("/:id", h.Inventory.Update)
	inventory.DELETE("/:id", h.Inventory.Delete)

	transactions := api.Group("/transactions")
	transactions.GET("", h.Transactions.List)
	transactions.POST("", h.Transactions.Create)
	transactions.DELETE("/:id", h.Transactions.Delete)

	invoices := api.Group("/invoices")
	invoices.GET("", h.Invoices.List)
	invoices.POST("", h.Invoices.Create)
	invoices.GET("/:id", h.Invoices.Get)
	invoices.PUT("/:id", h.Invoices.Update)
	invoices.DELETE("/:id", h.Invoices.Delete)

	adv := api.Group("/advisory")
	adv.POST("/health-alert", h.Advisory.HealthAlert)
	adv.POST("/growth-insight", h.Advisory.GrowthInsight)

	api.GET("/dashboard", h.Dashboard.Summary)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
