package orders

import (
	"time"

	"pizzeria-service/models"
)

// Stats is the operator dashboard summary. Cancelled sales never count as revenue.
type Stats struct {
	RevenueToday int64 `json:"revenueToday"`
	OrdersToday  int   `json:"ordersToday"`
	RevenueTotal int64 `json:"revenueTotal"`
	Pending      int   `json:"pending"`
}

// Summarize computes Stats with "today" starting at midnight in now's location.
func Summarize(sales []models.SaleRecord, now time.Time) Stats {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).UnixMilli()

	var s Stats
	for _, sale := range sales {
		if sale.Status == models.StatusReceived || sale.Status == models.StatusPreparing {
			s.Pending++
		}
		if sale.Status == models.StatusCancelled {
			continue
		}
		s.RevenueTotal += sale.Total
		if sale.Timestamp >= midnight {
			s.RevenueToday += sale.Total
			s.OrdersToday++
		}
	}
	return s
}
