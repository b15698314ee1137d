package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
	"github.com/avinashm/sparkcart-backend/pkg/pagination"
	"github.com/avinashm/sparkcart-backend/pkg/types"
)

// OrderItemInput is one requested cart line. Name, price and image are
// snapshotted server-side from the catalog; clients only choose what and how
// many.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

// CreateOrderInput carries everything needed to place an order. Totals are
// always recomputed server-side; any client-sent amounts are ignored.
type CreateOrderInput struct {
	UserID            uuid.UUID
	Items             []OrderItemInput      `json:"items" validate:"required,min=1,dive"`
	ShippingAddress   types.ShippingAddress `json:"shipping_address"`
	PaymentMethod     enums.PaymentMethod   `json:"payment_method"`
	CouponCode        *string               `json:"coupon_code"`
	PaymentReceiptURL *string               `json:"payment_receipt_url"`
}

// UpdateStatusInput carries an admin fulfillment transition.
type UpdateStatusInput struct {
	Status         enums.OrderStatus `json:"status"`
	TrackingNumber *string           `json:"tracking_number"`
	Note           *string           `json:"note"`
}

// CancelInput carries a cancellation request.
type CancelInput struct {
	Reason  string  `json:"reason" validate:"required"`
	Comment *string `json:"comment"`
}

// RefundAction is an admin decision on a refund request.
type RefundAction string

const (
	RefundActionApprove  RefundAction = "approve"
	RefundActionReject   RefundAction = "reject"
	RefundActionComplete RefundAction = "complete"
)

// AdminListFilters narrow the admin order listing.
type AdminListFilters struct {
	Status        *enums.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *enums.PaymentStatus `json:"payment_status,omitempty"`
	RefundStatus  *enums.RefundStatus  `json:"refund_status,omitempty"`
	UserID        *uuid.UUID           `json:"user_id,omitempty"`
}

// OrderItemDTO is the frozen line snapshot returned to clients.
type OrderItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	UnitPrice int        `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	ImageURL  *string    `json:"image_url,omitempty"`
}

// OrderDTO is the full order payload.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"order_number"`
	UserID          uuid.UUID             `json:"user_id"`
	Items           []OrderItemDTO        `json:"items"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	PaymentMethod   enums.PaymentMethod   `json:"payment_method"`
	PaymentStatus   enums.PaymentStatus   `json:"payment_status"`
	Status          enums.OrderStatus     `json:"status"`

	ItemsPrice     int     `json:"items_price"`
	TaxPrice       int     `json:"tax_price"`
	ShippingPrice  int     `json:"shipping_price"`
	DiscountAmount int     `json:"discount_amount"`
	CouponCode     *string `json:"coupon_code,omitempty"`
	TotalPrice     int     `json:"total_price"`

	TrackingNumber        *string    `json:"tracking_number,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time `json:"actual_delivery_date,omitempty"`
	PaymentReceiptURL     *string    `json:"payment_receipt_url,omitempty"`

	RefundStatus      enums.RefundStatus `json:"refund_status"`
	RefundReason      *string            `json:"refund_reason,omitempty"`
	RefundRequestedAt *time.Time         `json:"refund_requested_at,omitempty"`
	RefundProcessedAt *time.Time         `json:"refund_processed_at,omitempty"`

	CancellationReason  *string    `json:"cancellation_reason,omitempty"`
	CancellationComment *string    `json:"cancellation_comment,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`

	StatusHistory types.StatusHistory `json:"status_history"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// NewOrderDTO builds the payload from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}
	return &OrderDTO{
		ID:                    order.ID,
		OrderNumber:           order.OrderNumber,
		UserID:                order.UserID,
		Items:                 items,
		ShippingAddress:       order.ShippingAddress,
		PaymentMethod:         order.PaymentMethod,
		PaymentStatus:         order.PaymentStatus,
		Status:                order.Status,
		ItemsPrice:            order.ItemsPrice,
		TaxPrice:              order.TaxPrice,
		ShippingPrice:         order.ShippingPrice,
		DiscountAmount:        order.DiscountAmount,
		CouponCode:            order.CouponCode,
		TotalPrice:            order.TotalPrice,
		TrackingNumber:        order.TrackingNumber,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		ActualDeliveryDate:    order.ActualDeliveryDate,
		PaymentReceiptURL:     order.PaymentReceiptURL,
		RefundStatus:          order.RefundStatus,
		RefundReason:          order.RefundReason,
		RefundRequestedAt:     order.RefundRequestedAt,
		RefundProcessedAt:     order.RefundProcessedAt,
		CancellationReason:    order.CancellationReason,
		CancellationComment:   order.CancellationComment,
		CancelledAt:           order.CancelledAt,
		StatusHistory:         order.StatusHistory,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
}

// OrderList is one page of orders.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// ListInput captures pagination for user-facing order history.
type ListInput struct {
	UserID     uuid.UUID
	Pagination pagination.Params
}
