package dto

import (
	"time"

	"github.com/shopspring/decimal"

	orderDTO "ilmhub_backend/internals/features/commerce/orders/dto"
)

type Counts struct {
	Users            int64 `json:"users"`
	Books            int64 `json:"books"`
	Videos           int64 `json:"videos"`
	Masalah          int64 `json:"masalah"`
	Institutions     int64 `json:"institutions"`
	Subscribers      int64 `json:"subscribers"`
	PendingQuestions int64 `json:"pending_questions"`
	UpcomingEvents   int64 `json:"upcoming_events"`
}

type DashboardStats struct {
	Counts         Counts                     `json:"counts"`
	OrdersByStatus map[string]int64           `json:"orders_by_status"`
	Revenue        map[string]decimal.Decimal `json:"revenue"` // by order currency
	RecentOrders   []orderDTO.OrderResponse   `json:"recent_orders"`
	GeneratedAt    time.Time                  `json:"generated_at"`
}
