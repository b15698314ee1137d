package coupons

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/pkg/db/models"
)

// CouponSummary is the public shape of a coupon on a successful validation.
type CouponSummary struct {
	Code               string  `json:"code"`
	DiscountPercentage int     `json:"discount_percentage"`
	Description        *string `json:"description,omitempty"`
}

// ApplicableItem is the per-line discount breakdown for one cart line the
// coupon applied to. Money fields are rounded at this boundary only.
type ApplicableItem struct {
	ProductID           uuid.UUID `json:"product_id"`
	Name                string    `json:"name"`
	UnitPrice           int       `json:"unit_price"`
	Quantity            int       `json:"quantity"`
	LineTotal           int       `json:"line_total"`
	LineDiscount        int       `json:"line_discount"`
	DiscountedUnitPrice int       `json:"discounted_unit_price"`
}

// Discount aggregates the cart-level result of applying a coupon.
type Discount struct {
	TotalDiscount   int              `json:"total_discount"`
	OriginalTotal   int              `json:"original_total"`
	DiscountedTotal int              `json:"discounted_total"`
	ShippingCost    int              `json:"shipping_cost"`
	FinalTotal      int              `json:"final_total"`
	ApplicableItems []ApplicableItem `json:"applicable_items"`
}

// Application is the full result of a successful coupon validation.
type Application struct {
	Coupon   CouponSummary `json:"coupon"`
	Discount Discount      `json:"discount"`
}

// CouponDTO is the admin-facing coupon payload.
type CouponDTO struct {
	ID                 uuid.UUID   `json:"id"`
	Code               string      `json:"code"`
	Description        *string     `json:"description,omitempty"`
	DiscountPercentage int         `json:"discount_percentage"`
	ApplicableProducts []uuid.UUID `json:"applicable_products"`
	IsActive           bool        `json:"is_active"`
	UsageLimit         *int        `json:"usage_limit,omitempty"`
	UsedCount          int         `json:"used_count"`
	ValidFrom          time.Time   `json:"valid_from"`
	ValidUntil         *time.Time  `json:"valid_until,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}

// NewCouponDTO builds a DTO from the persisted model.
func NewCouponDTO(coupon *models.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:                 coupon.ID,
		Code:               coupon.Code,
		Description:        coupon.Description,
		DiscountPercentage: coupon.DiscountPercentage,
		ApplicableProducts: append([]uuid.UUID{}, coupon.ApplicableProducts...),
		IsActive:           coupon.IsActive,
		UsageLimit:         coupon.UsageLimit,
		UsedCount:          coupon.UsedCount,
		ValidFrom:          coupon.ValidFrom,
		ValidUntil:         coupon.ValidUntil,
		CreatedAt:          coupon.CreatedAt,
	}
}

// CreateCouponInput carries the admin create payload.
type CreateCouponInput struct {
	Code               string      `json:"code" validate:"required"`
	Description        *string     `json:"description"`
	DiscountPercentage int         `json:"discount_percentage" validate:"gte=1,lte=100"`
	ApplicableProducts []uuid.UUID `json:"applicable_products"`
	UsageLimit         *int        `json:"usage_limit" validate:"omitempty,gte=1"`
	ValidFrom          time.Time   `json:"valid_from"`
	ValidUntil         *time.Time  `json:"valid_until"`
}
