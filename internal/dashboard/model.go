package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrovia/agrovia/internal/order"
)

type Counts struct {
	Products int `json:"products"`
	Orders   int `json:"orders"`
	Users    int `json:"users"`
}

// ChartPoint is one calendar-month aggregation bucket.
type ChartPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// RecentOrder is the dashboard feed entry: order summary plus the buyer's
// public name and email, never more.
type RecentOrder struct {
	ID         string          `json:"id"`
	Buyer      order.Buyer     `json:"buyer"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     order.Status    `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Stats is the whole dashboard read model.
// swagger:model DashboardStats
type Stats struct {
	Counts       Counts          `json:"counts"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ChartData    []ChartPoint    `json:"chart_data"`
	RecentOrders []RecentOrder   `json:"recent_orders"`
}

// Bucket is a raw year+month aggregation row as read from storage, ascending
// by year then month, at most the six most recent.
type Bucket struct {
	Year    int
	Month   int
	Revenue decimal.Decimal
	Orders  int
}
