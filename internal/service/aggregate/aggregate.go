// Package aggregate computes read-only rollups from entity snapshots. Every
// function is a pure function of its input so callers can recompute on each
// request without staleness concerns.
package aggregate

import (
	"math"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// TaxRate is the flat invoice tax rate applied to the subtotal.
const TaxRate = 0.20

// AccountingSummary partitions the ledger into income and expenses.
type AccountingSummary struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// Accounting sums transaction amounts per type. Net is revenue minus expenses.
func Accounting(transactions []models.Transaction) AccountingSummary {
	var sum AccountingSummary
	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeIncome:
			sum.Revenue += tx.Amount
		case models.TypeExpense:
			sum.Expenses += tx.Amount
		}
	}
	sum.Revenue = Round2(sum.Revenue)
	sum.Expenses = Round2(sum.Expenses)
	sum.Net = Round2(sum.Revenue - sum.Expenses)
	return sum
}

// StockPercent maps an item's quantity onto a 0-100 gauge where the low-stock
// threshold sits at 50%. Clamped; display-only, not correctness critical.
func StockPercent(item models.InventoryItem) float64 {
	if item.LowStockThreshold <= 0 {
		if item.Quantity > 0 {
			return 100
		}
		return 0
	}
	pct := item.Quantity / (item.LowStockThreshold * 2) * 100
	return math.Min(pct, 100)
}

// ApplyInvoiceTotals recomputes every derived money field on the invoice from
// its line items. Stored totals are never trusted; this runs on every create
// and update.
func ApplyInvoiceTotals(inv *models.Invoice) {
	var subtotal float64
	for i := range inv.LineItems {
		item := &inv.LineItems[i]
		item.Total = Round2(item.Quantity * item.UnitPrice)
		subtotal += item.Total
	}
	inv.Subtotal = Round2(subtotal)
	inv.Tax = Round2(inv.Subtotal * TaxRate)
	inv.Total = Round2(inv.Subtotal + inv.Tax)
}

// DashboardSummary is the rollup behind the dashboard endpoint.
type DashboardSummary struct {
	HerdCount     int                    `json:"herdCount"`
	AtRiskCount   int                    `json:"atRiskCount"`
	SoldCount     int                    `json:"soldCount"`
	LowStockCount int                    `json:"lowStockCount"`
	Accounting    AccountingSummary      `json:"accounting"`
	LowStockItems []models.InventoryItem `json:"lowStockItems"`
}

// Dashboard combines the per-entity snapshots into one view.
func Dashboard(animals []models.Animal, items []models.InventoryItem, transactions []models.Transaction) DashboardSummary {
	out := DashboardSummary{Accounting: Accounting(transactions)}
	for _, a := range animals {
		switch a.Status {
		case models.StatusSold:
			out.SoldCount++
		case models.StatusAtRisk:
			out.AtRiskCount++
			out.HerdCount++
		default:
			out.HerdCount++
		}
	}
	for _, item := range items {
		if item.IsLowStock() {
			out.LowStockCount++
			out.LowStockItems = append(out.LowStockItems, item)
		}
	}
	return out
}

// Round2 rounds to cents, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
