package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
)

// RevenueCountable is THE revenue predicate. Every rollup in this package
// filters orders through it; no caller inlines its own version. An order
// counts toward revenue once paid, and stops counting when its refund is
// processed (status refunded). paymentStatus alone is not authoritative.
func RevenueCountable(order *models.Order) bool {
	return order.PaymentStatus == enums.PaymentStatusPaid &&
		order.Status != enums.OrderStatusRefunded
}

// revenueCountableScope is the SQL form of RevenueCountable.
func revenueCountableScope(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ? AND status <> ?",
		enums.PaymentStatusPaid, enums.OrderStatusRefunded)
}

// Repository defines the read-side aggregation queries.
type Repository interface {
	UserTotalSpent(ctx context.Context, userID uuid.UUID) (int64, error)
	UserOrderCount(ctx context.Context, userID uuid.UUID) (int64, error)
	RecentOrders(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error)

	TotalRevenue(ctx context.Context) (int64, error)
	TotalOrders(ctx context.Context) (int64, error)
	PendingOrders(ctx context.Context) (int64, error)
	RepeatCustomerCount(ctx context.Context) (int64, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)

	SpendByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	OrderCountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reporting repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UserTotalSpent(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := revenueCountableScope(r.db.WithContext(ctx).Model(&models.Order{})).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}

func (r *repository) UserOrderCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded}).
		Count(&count).Error
	return count, err
}

func (r *repository) RecentOrders(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	var recent []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}
	return recent, nil
}

func (r *repository) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := revenueCountableScope(r.db.WithContext(ctx).Model(&models.Order{})).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) TotalOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) PendingOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status IN ?", []enums.OrderStatus{
			enums.OrderStatusPending,
			enums.OrderStatusPaymentVerification,
			enums.OrderStatusProcessing,
		}).
		Count(&count).Error
	return count, err
}

func (r *repository) RepeatCustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT user_id
			FROM orders
			WHERE payment_status = ? AND status <> ?
			GROUP BY user_id
			HAVING COUNT(*) > 1
		) repeaters
	`, enums.PaymentStatusPaid, enums.OrderStatusRefunded).Scan(&count).Error
	return count, err
}

func (r *repository) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthlyRevenue, error) {
	var rows []MonthlyRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       COALESCE(SUM(total_price), 0) AS revenue,
		       COUNT(*) AS orders
		FROM orders
		WHERE payment_status = ? AND status <> ? AND created_at >= ?
		GROUP BY 1
		ORDER BY 1
	`, enums.PaymentStatusPaid, enums.OrderStatusRefunded, since).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []TopProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT oi.product_id,
		       oi.name,
		       SUM(oi.quantity) AS quantity,
		       SUM(oi.unit_price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.payment_status = ? AND o.status <> ?
		GROUP BY oi.product_id, oi.name
		ORDER BY quantity DESC
		LIMIT ?
	`, enums.PaymentStatusPaid, enums.OrderStatusRefunded, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type userAmount struct {
	UserID uuid.UUID
	Amount int64
}

func (r *repository) SpendByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []userAmount
	err := revenueCountableScope(r.db.WithContext(ctx).Model(&models.Order{})).
		Where("user_id IN ?", userIDs).
		Select("user_id, COALESCE(SUM(total_price), 0) AS amount").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.Amount
	}
	return out, nil
}

func (r *repository) OrderCountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []userAmount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id IN ?", userIDs).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded}).
		Select("user_id, COUNT(*) AS amount").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.Amount
	}
	return out, nil
}
