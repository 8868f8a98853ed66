package admin

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardResponse is the admin overview
type DashboardResponse struct {
	Orders   OrderStats   `json:"orders"`
	Revenue  RevenueStats `json:"revenue"`
	Users    UserStats    `json:"users"`
	Products ProductStats `json:"products"`
}

// OrderStats summarizes order volume
type OrderStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// RevenueStats summarizes paid revenue over recent windows
type RevenueStats struct {
	Today      decimal.Decimal `json:"today"`
	Last7Days  decimal.Decimal `json:"last_7_days"`
	Last30Days decimal.Decimal `json:"last_30_days"`
}

// UserStats summarizes the user base
type UserStats struct {
	Total int64 `json:"total"`
}

// ProductStats summarizes the catalog
type ProductStats struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	BelowMinStock int64 `json:"below_min_stock"`
}

// DailyRevenueResponse is one day of paid revenue
type DailyRevenueResponse struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RestockItemResponse is a product at or below its reorder threshold
type RestockItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	MinStock  int64     `json:"min_stock"`
	Shortfall int64     `json:"shortfall"`
}
