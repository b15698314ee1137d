package pricing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
)

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		FreeShippingThreshold: 2000,
		FlatShippingFee:       150,
		LoyaltyPointRate:      10,
		TierSilverThreshold:   5000,
		TierGoldThreshold:     10000,
		TierPlatinumThreshold: 15000,
	}
}

func lines(amounts ...int) []Line {
	out := make([]Line, 0, len(amounts))
	for _, amount := range amounts {
		out = append(out, Line{ProductID: uuid.New(), Name: "item", UnitPrice: amount, Quantity: 1})
	}
	return out
}

func TestComputeOrderTotalsWithDiscount(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	totals := calc.ComputeOrderTotals(lines(100, 150), 20)
	if totals.ItemsPrice != 230 {
		t.Fatalf("items price = %d, want 230", totals.ItemsPrice)
	}
	if totals.DiscountAmount != 20 {
		t.Fatalf("discount = %d, want 20", totals.DiscountAmount)
	}
	if totals.ShippingPrice != 150 {
		t.Fatalf("shipping = %d, want 150", totals.ShippingPrice)
	}
	if totals.TaxPrice != 0 {
		t.Fatalf("tax = %d, want 0", totals.TaxPrice)
	}
	if totals.TotalPrice != 380 {
		t.Fatalf("total = %d, want 380", totals.TotalPrice)
	}
}

func TestComputeOrderTotalsTenPercentWholeCart(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	discount := PercentOf(250, 10)
	if discount != 25 {
		t.Fatalf("discount = %d, want 25", discount)
	}

	totals := calc.ComputeOrderTotals(lines(250), discount)
	if totals.ItemsPrice != 225 || totals.ShippingPrice != 150 || totals.TotalPrice != 375 {
		t.Fatalf("totals = %+v, want items 225 shipping 150 total 375", totals)
	}
}

func TestShippingFreeAtThreshold(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	if fee := calc.ShippingFee(2000); fee != 0 {
		t.Fatalf("fee at threshold = %d, want 0", fee)
	}
	if fee := calc.ShippingFee(1999); fee != 150 {
		t.Fatalf("fee below threshold = %d, want 150", fee)
	}
	if fee := calc.ShippingFee(0); fee != 150 {
		t.Fatalf("fee at zero = %d, want 150", fee)
	}
}

func TestShippingDecidedOnPostDiscountTotal(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	// 2100 pre-discount would ship free, but the 200 discount drops the
	// items total under the threshold.
	totals := calc.ComputeOrderTotals(lines(2100), 200)
	if totals.ItemsPrice != 1900 {
		t.Fatalf("items price = %d, want 1900", totals.ItemsPrice)
	}
	if totals.ShippingPrice != 150 {
		t.Fatalf("shipping = %d, want 150", totals.ShippingPrice)
	}
	if totals.TotalPrice != 2050 {
		t.Fatalf("total = %d, want 2050", totals.TotalPrice)
	}
}

func TestComputeOrderTotalsClampsDiscount(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	totals := calc.ComputeOrderTotals(lines(100), 500)
	if totals.ItemsPrice != 0 {
		t.Fatalf("items price = %d, want 0", totals.ItemsPrice)
	}
	if totals.DiscountAmount != 100 {
		t.Fatalf("discount = %d, want clamped 100", totals.DiscountAmount)
	}

	totals = calc.ComputeOrderTotals(lines(100), -10)
	if totals.DiscountAmount != 0 || totals.ItemsPrice != 100 {
		t.Fatalf("negative discount not ignored: %+v", totals)
	}
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	cases := []struct {
		amount     int
		percentage int
		want       int
	}{
		{250, 10, 25},
		{250, 15, 38},  // 37.5 rounds up
		{333, 15, 50},  // 49.95 rounds up
		{101, 33, 33},  // 33.33 rounds down
		{0, 50, 0},
		{100, 100, 100},
	}
	for _, tc := range cases {
		if got := PercentOf(tc.amount, tc.percentage); got != tc.want {
			t.Errorf("PercentOf(%d, %d) = %d, want %d", tc.amount, tc.percentage, got, tc.want)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	cases := []struct {
		spent int
		want  enums.UserTier
	}{
		{0, enums.UserTierBronze},
		{4999, enums.UserTierBronze},
		{5000, enums.UserTierSilver},
		{9999, enums.UserTierSilver},
		{10000, enums.UserTierGold},
		{14999, enums.UserTierGold},
		{15000, enums.UserTierPlatinum},
		{150000, enums.UserTierPlatinum},
	}
	for _, tc := range cases {
		if got := calc.TierFor(tc.spent); got != tc.want {
			t.Errorf("TierFor(%d) = %s, want %s", tc.spent, got, tc.want)
		}
	}
}

func TestLoyaltyPoints(t *testing.T) {
	calc := NewCalculator(testPricingConfig())

	if got := calc.LoyaltyPoints(12345); got != 1234 {
		t.Fatalf("points = %d, want 1234", got)
	}
	if got := calc.LoyaltyPoints(9); got != 0 {
		t.Fatalf("points = %d, want 0", got)
	}
	if got := calc.LoyaltyPoints(-100); got != 0 {
		t.Fatalf("points = %d, want 0", got)
	}
}
