package models

import "time"

// DailySummary is the aggregated end-of-day rollup stored for reporting and
// exported to the configured spreadsheet.
type DailySummary struct {
	Date          time.Time `bson:"date" json:"date"`
	OwnerID       string    `bson:"owner_id" json:"-"`
	HerdCount     int       `bson:"herd_count" json:"herdCount"`
	AtRiskCount   int       `bson:"at_risk_count" json:"atRiskCount"`
	SoldCount     int       `bson:"sold_count" json:"soldCount"`
	LowStockCount int       `bson:"low_stock_count" json:"lowStockCount"`
	Revenue       float64   `bson:"revenue" json:"revenue"`
	Expenses      float64   `bson:"expenses" json:"expenses"`
	Net           float64   `bson:"net" json:"net"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}
