package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/pkg/enums"
	"github.com/avinashm/sparkcart-backend/pkg/types"
)

// Order is the persisted result of a checkout. Pricing fields are written
// once at creation, exactly as the pricing calculator produced them, and are
// never recomputed at read time. ItemsPrice is net of DiscountAmount;
// TotalPrice == ItemsPrice + TaxPrice + ShippingPrice.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string                `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`

	ItemsPrice     int     `gorm:"column:items_price;not null"`
	TaxPrice       int     `gorm:"column:tax_price;not null;default:0"`
	ShippingPrice  int     `gorm:"column:shipping_price;not null;default:0"`
	DiscountAmount int     `gorm:"column:discount_amount;not null;default:0"`
	CouponCode     *string `gorm:"column:coupon_code"`
	TotalPrice     int     `gorm:"column:total_price;not null"`

	TrackingNumber        *string    `gorm:"column:tracking_number"`
	EstimatedDeliveryDate *time.Time `gorm:"column:estimated_delivery_date"`
	ActualDeliveryDate    *time.Time `gorm:"column:actual_delivery_date"`
	PaymentReceiptURL     *string    `gorm:"column:payment_receipt_url"`

	RefundStatus      enums.RefundStatus `gorm:"column:refund_status;type:text;not null;default:'none'"`
	RefundReason      *string            `gorm:"column:refund_reason"`
	RefundRequestedAt *time.Time         `gorm:"column:refund_requested_at"`
	RefundProcessedAt *time.Time         `gorm:"column:refund_processed_at"`

	CancellationReason  *string    `gorm:"column:cancellation_reason"`
	CancellationComment *string    `gorm:"column:cancellation_comment"`
	CancelledAt         *time.Time `gorm:"column:cancelled_at"`

	StatusHistory types.StatusHistory `gorm:"column:status_history;type:jsonb;serializer:json"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
