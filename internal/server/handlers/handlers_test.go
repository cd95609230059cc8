package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/mongodb"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/router"
	"github.com/mamadbah2/herdbook/internal/service/advisory"
	"github.com/mamadbah2/herdbook/internal/service/aggregate"
	"github.com/mamadbah2/herdbook/internal/service/sales"
)

const owner = "tenant-1"

// newTestServer wires the full router over degraded (local-only) stores, the
// same code path the application takes when the document store is down.
func newTestServer(t *testing.T) (*gin.Engine, *mongodb.Store[models.Animal], *mongodb.Store[models.Transaction], *mongodb.Store[models.Invoice]) {
	t.Helper()

	animalStore := mongodb.NewStore(nil, nil, nil, mongodb.Options[models.Animal]{
		Entity:  "animals",
		OwnerID: owner,
		Seed:    func() []models.Animal { return models.SeedAnimals(owner) },
	})
	inventoryStore := mongodb.NewStore(nil, nil, nil, mongodb.Options[models.InventoryItem]{
		Entity:  "inventory",
		OwnerID: owner,
		Seed:    func() []models.InventoryItem { return models.SeedInventory(owner) },
	})
	transactionStore := mongodb.NewStore(nil, nil, nil, mongodb.Options[models.Transaction]{
		Entity:  "transactions",
		OwnerID: owner,
		Less: func(a, b models.Transaction) bool {
			return a.Date.After(b.Date)
		},
	})
	invoiceStore := mongodb.NewStore(nil, nil, nil, mongodb.Options[models.Invoice]{
		Entity:  "invoices",
		OwnerID: owner,
		Prepare: func(inv *models.Invoice) { aggregate.ApplyInvoiceTotals(inv) },
	})

	ctx := context.Background()
	require.NoError(t, animalStore.Start(ctx))
	require.NoError(t, inventoryStore.Start(ctx))
	require.NoError(t, transactionStore.Start(ctx))
	require.NoError(t, invoiceStore.Start(ctx))
	t.Cleanup(func() {
		animalStore.Close()
		inventoryStore.Close()
		transactionStore.Close()
		invoiceStore.Close()
	})

	salesSvc := sales.NewService(animalStore, transactionStore, invoiceStore, owner, nil)
	advisorySvc := advisory.NewService(nil, nil)

	engine := router.New(router.Handlers{
		Animals:      handlers.NewAnimalHandler(animalStore, salesSvc, owner, nil),
		Inventory:    handlers.NewInventoryHandler(inventoryStore, owner, nil),
		Transactions: handlers.NewTransactionHandler(transactionStore, owner, nil),
		Invoices:     handlers.NewInvoiceHandler(invoiceStore, owner, nil),
		Advisory:     handlers.NewAdvisoryHandler(advisorySvc, nil),
		Dashboard:    handlers.NewDashboardHandler(animalStore, inventoryStore, transactionStore),
	}, nil)

	return engine, animalStore, transactionStore, invoiceStore
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAnimalCRUD(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/animals", gin.H{
		"name": "Rosie", "species": "Bovine", "ageMonths": 30,
		"weightKg": 700, "lot": "L004", "status": "Healthy",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Animal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = doJSON(t, engine, http.MethodGet, "/api/animals/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Animal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Rosie", fetched.Name)

	created.WeightKg = 720
	rec = doJSON(t, engine, http.MethodPut, "/api/animals/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, engine, http.MethodDelete, "/api/animals/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/api/animals/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnimalCreateValidation(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/animals", gin.H{
		"species": "Bovine", "lot": "L004", "status": "Healthy",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing name must be rejected")
}

func TestSellWorkflowEndToEnd(t *testing.T) {
	engine, animalStore, transactionStore, invoiceStore := newTestServer(t)

	var target models.Animal
	for _, a := range animalStore.List() {
		if a.Status != models.StatusSold {
			target = a
			break
		}
	}
	require.NotEmpty(t, target.ID)
	txsBefore := len(transactionStore.List())
	invsBefore := len(invoiceStore.List())

	rec := doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/animals/%s/sell", target.ID), gin.H{"salePrice": 450.0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sold, ok := animalStore.Get(target.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusSold, sold.Status)

	require.Len(t, transactionStore.List(), txsBefore+1)
	require.Len(t, invoiceStore.List(), invsBefore+1)

	var inv models.Invoice
	for _, candidate := range invoiceStore.List() {
		if candidate.Status == models.InvoiceDraft {
			inv = candidate
		}
	}
	require.NotEmpty(t, inv.ID)
	assert.Equal(t, 450.0, inv.Subtotal)
	assert.Equal(t, 90.0, inv.Tax)
	assert.Equal(t, 540.0, inv.Total)

	// Selling again fires nothing.
	rec = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/animals/%s/sell", target.ID), gin.H{"salePrice": 450.0})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, transactionStore.List(), txsBefore+1)
	assert.Len(t, invoiceStore.List(), invsBefore+1)

	rec = doJSON(t, engine, http.MethodPost, "/api/animals/no-such-id/sell", gin.H{"salePrice": 450.0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateToSoldFiresSaleWorkflow(t *testing.T) {
	engine, animalStore, transactionStore, invoiceStore := newTestServer(t)

	var target models.Animal
	for _, a := range animalStore.List() {
		if a.Status != models.StatusSold {
			target = a
			break
		}
	}
	require.NotEmpty(t, target.ID)
	txsBefore := len(transactionStore.List())
	invsBefore := len(invoiceStore.List())

	// A plain PUT must not be a side door around the sale workflow.
	target.Status = models.StatusSold
	price := 450.0
	target.SalePrice = &price
	rec := doJSON(t, engine, http.MethodPut, "/api/animals/"+target.ID, target)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sold, ok := animalStore.Get(target.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusSold, sold.Status)
	require.Len(t, transactionStore.List(), txsBefore+1)
	require.Len(t, invoiceStore.List(), invsBefore+1)

	var tx models.Transaction
	for _, candidate := range transactionStore.List() {
		if candidate.AnimalID == target.ID {
			tx = candidate
		}
	}
	assert.Equal(t, models.TypeIncome, tx.Type)
	assert.Equal(t, 450.0, tx.Amount)

	// Re-saving the sold animal fires nothing further.
	rec = doJSON(t, engine, http.MethodPut, "/api/animals/"+target.ID, target)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, transactionStore.List(), txsBefore+1)
	assert.Len(t, invoiceStore.List(), invsBefore+1)
}

func TestUpdateToSoldWithoutPriceRejected(t *testing.T) {
	engine, animalStore, transactionStore, _ := newTestServer(t)

	var target models.Animal
	for _, a := range animalStore.List() {
		if a.Status != models.StatusSold {
			target = a
			break
		}
	}
	require.NotEmpty(t, target.ID)

	target.Status = models.StatusSold
	target.SalePrice = nil
	rec := doJSON(t, engine, http.MethodPut, "/api/animals/"+target.ID, target)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	current, ok := animalStore.Get(target.ID)
	require.True(t, ok)
	assert.NotEqual(t, models.StatusSold, current.Status)
	assert.Empty(t, transactionStore.List())
}

func TestInvoiceTotalsAreDerivedServerSide(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/invoices", gin.H{
		"clientName":  "Local Butcher Shop",
		"clientEmail": "butcher@local.com",
		"issueDate":   "2024-03-01T00:00:00Z",
		"dueDate":     "2024-04-01T00:00:00Z",
		"lineItems": []gin.H{
			{"description": "Goat carcass", "quantity": 2, "unitPrice": 50, "total": 99999},
		},
		"subtotal": 99999, "tax": 99999, "total": 99999,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var inv models.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	assert.Equal(t, 100.0, inv.Subtotal)
	assert.Equal(t, 20.0, inv.Tax)
	assert.Equal(t, 120.0, inv.Total)
	assert.Equal(t, models.InvoiceDraft, inv.Status)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, 100.0, inv.LineItems[0].Total)
}

func TestTransactionsEndpointReportsSummary(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	for _, body := range []gin.H{
		{"description": "Egg sales", "category": "Other", "type": "Income", "amount": 100, "date": "2024-03-02T00:00:00Z"},
		{"description": "Feed purchase", "category": "Feed", "type": "Expense", "amount": 40, "date": "2024-03-03T00:00:00Z"},
	} {
		rec := doJSON(t, engine, http.MethodPost, "/api/transactions", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Transactions []models.Transaction        `json:"transactions"`
		Summary      aggregate.AccountingSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, 100.0, resp.Summary.Revenue)
	assert.Equal(t, 40.0, resp.Summary.Expenses)
	assert.Equal(t, 60.0, resp.Summary.Net)
	assert.True(t, resp.Transactions[0].Date.After(resp.Transactions[1].Date), "newest first")
}

func TestInventoryDerivedFields(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/inventory", gin.H{
		"name": "Vitamin Mix", "category": "Medication",
		"quantity": 5, "unit": "bags", "lowStockThreshold": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view struct {
		models.InventoryItem
		IsLowStock      bool    `json:"isLowStock"`
		StockPercentage float64 `json:"stockPercentage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.IsLowStock)
	assert.InDelta(t, 25.0, view.StockPercentage, 1e-9)
}

func TestDashboardEndpoint(t *testing.T) {
	engine, animalStore, _, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash aggregate.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))

	sold := 0
	for _, a := range animalStore.List() {
		if a.Status == models.StatusSold {
			sold++
		}
	}
	assert.Equal(t, sold, dash.SoldCount)
	assert.Equal(t, len(animalStore.List())-sold, dash.HerdCount)
}

func TestAdvisoryEndpoints(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	// Validation failures surface before the provider is consulted.
	rec := doJSON(t, engine, http.MethodPost, "/api/advisory/health-alert", gin.H{
		"species": "Bovine", "ageMonths": 24, "weightKg": 650, "symptoms": "tired",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No provider is configured in tests.
	rec = doJSON(t, engine, http.MethodPost, "/api/advisory/health-alert", gin.H{
		"species": "Bovine", "ageMonths": 24, "weightKg": 650,
		"symptoms": "lethargic and refusing feed since yesterday",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	engine, _, _, _ := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
