// Package pricing holds the single order-money calculator. Every caller that
// prices an order (checkout, coupon preview, admin tooling) goes through the
// same functions; nothing else in the codebase adds up line items.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
)

// Line is one priced order line. UnitPrice is in whole currency units.
type Line struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice int
	Quantity  int
}

// Amount returns the line total before any discount.
func (l Line) Amount() int {
	return l.UnitPrice * l.Quantity
}

// Totals is the complete money breakdown of an order. ItemsPrice is net of
// DiscountAmount; TotalPrice == ItemsPrice + TaxPrice + ShippingPrice.
type Totals struct {
	ItemsPrice     int
	DiscountAmount int
	TaxPrice       int
	ShippingPrice  int
	TotalPrice     int
}

// Calculator applies the configured pricing constants. It carries no state
// beyond configuration and is safe for concurrent use.
type Calculator struct {
	cfg config.PricingConfig
}

func NewCalculator(cfg config.PricingConfig) Calculator {
	return Calculator{cfg: cfg}
}

// Subtotal sums the pre-discount line amounts.
func Subtotal(lines []Line) int {
	total := 0
	for _, line := range lines {
		total += line.Amount()
	}
	return total
}

// PercentOf computes percentage% of amount, rounded half-up to a whole unit.
// Intermediate math stays exact; rounding happens only here.
func PercentOf(amount int, percentage int) int {
	result := decimal.NewFromInt(int64(amount)).
		Mul(decimal.NewFromInt(int64(percentage))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return int(result.IntPart())
}

// ShippingFee returns the shipping charge for a post-discount items total.
// Orders at or above the free-shipping threshold ship free.
func (c Calculator) ShippingFee(itemsPrice int) int {
	if itemsPrice >= c.cfg.FreeShippingThreshold {
		return 0
	}
	return c.cfg.FlatShippingFee
}

// ComputeOrderTotals derives the full money breakdown for an order from its
// lines and an already-resolved discount. The discount is clamped to the
// subtotal so ItemsPrice can never go negative. Shipping is decided on the
// post-discount items total.
func (c Calculator) ComputeOrderTotals(lines []Line, discountAmount int) Totals {
	subtotal := Subtotal(lines)

	if discountAmount < 0 {
		discountAmount = 0
	}
	if discountAmount > subtotal {
		discountAmount = subtotal
	}

	itemsPrice := subtotal - discountAmount
	shipping := c.ShippingFee(itemsPrice)
	taxPrice := 0

	return Totals{
		ItemsPrice:     itemsPrice,
		DiscountAmount: discountAmount,
		TaxPrice:       taxPrice,
		ShippingPrice:  shipping,
		TotalPrice:     itemsPrice + taxPrice + shipping,
	}
}

// LoyaltyPoints converts cumulative paid spend into points.
func (c Calculator) LoyaltyPoints(totalSpent int) int {
	if c.cfg.LoyaltyPointRate <= 0 || totalSpent <= 0 {
		return 0
	}
	return totalSpent / c.cfg.LoyaltyPointRate
}

// TierFor maps cumulative paid spend onto a customer tier. Thresholds are
// inclusive lower bounds.
func (c Calculator) TierFor(totalSpent int) enums.UserTier {
	switch {
	case totalSpent >= c.cfg.TierPlatinumThreshold:
		return enums.UserTierPlatinum
	case totalSpent >= c.cfg.TierGoldThreshold:
		return enums.UserTierGold
	case totalSpent >= c.cfg.TierSilverThreshold:
		return enums.UserTierSilver
	default:
		return enums.UserTierBronze
	}
}
