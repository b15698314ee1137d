package reporting

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/internal/orders"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
)

// DashboardOverview is the per-user dashboard rollup.
type DashboardOverview struct {
	OrderCount    int64             `json:"order_count"`
	TotalSpent    int               `json:"total_spent"`
	WishlistCount int64             `json:"wishlist_count"`
	LoyaltyPoints int               `json:"loyalty_points"`
	Tier          enums.UserTier    `json:"tier"`
	RecentOrders  []orders.OrderDTO `json:"recent_orders"`
}

// AdminOverview is the storewide rollup for the admin dashboard.
type AdminOverview struct {
	TotalRevenue             int64 `json:"total_revenue"`
	TotalOrders              int64 `json:"total_orders"`
	PendingOrders            int64 `json:"pending_orders"`
	CustomerCount            int64 `json:"customer_count"`
	RepeatCustomerPercentage int   `json:"repeat_customer_percentage"`
}

// MonthlyRevenue is one month of countable revenue.
type MonthlyRevenue struct {
	Month   string `json:"month"` // YYYY-MM
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

// TopProduct is one entry in the best-sellers rollup.
type TopProduct struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Quantity  int64      `json:"quantity"`
	Revenue   int64      `json:"revenue"`
}

// AdminAnalytics is the paid-orders-only analytics payload.
type AdminAnalytics struct {
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
	TopProducts    []TopProduct     `json:"top_products"`
}

// CustomerSummary is one row of the admin customer list, with the derived
// spend figures attached.
type CustomerSummary struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	TotalSpent    int            `json:"total_spent"`
	OrderCount    int64          `json:"order_count"`
	LoyaltyPoints int            `json:"loyalty_points"`
	Tier          enums.UserTier `json:"tier"`
	JoinedAt      time.Time      `json:"joined_at"`
}

// CustomerList is one page of customer summaries.
type CustomerList struct {
	Customers  []CustomerSummary `json:"customers"`
	NextCursor *string           `json:"next_cursor,omitempty"`
}
