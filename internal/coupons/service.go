// Package coupons implements the coupon engine: validation of a code against
// cart contents and date/usage constraints, the discount computation, and
// best-effort usage bookkeeping after checkout.
package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/pkg/db"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	dbtypes "github.com/avinashm/sparkcart-backend/pkg/db/types"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
)

// Machine-readable reasons attached to COUPON_STATE failures.
const (
	ReasonNotYetValid   = "not_yet_valid"
	ReasonExpired       = "expired"
	ReasonLimitExceeded = "limit_exceeded"
	ReasonNotApplicable = "not_applicable"
)

// ProductFinder is the catalog surface the coupon engine needs when an admin
// restricts a coupon to specific products.
type ProductFinder interface {
	FindMany(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes coupon validation, bookkeeping and admin management.
type Service interface {
	Validate(ctx context.Context, code string, lines []pricing.Line) (*Application, error)
	// MarkUsed records one redemption. It never returns an error; a missing
	// coupon or exhausted limit must not fail an already-placed order.
	MarkUsed(ctx context.Context, code string)
	Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error)
	List(ctx context.Context) ([]CouponDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo     Repository
	products ProductFinder
	calc     pricing.Calculator
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the coupon engine.
func NewService(repo Repository, products ProductFinder, calc pricing.Calculator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		calc:     calc,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func stateError(message, reason string) error {
	return pkgerrors.New(pkgerrors.CodeCouponState, message).
		WithDetails(map[string]string{"reason": reason})
}

// Validate checks the coupon against the cart and returns the full discount
// breakdown. Cart lines must have positive quantities and non-negative prices;
// the caller is expected to have validated them already.
func (s *service) Validate(ctx context.Context, code string, lines []pricing.Line) (*Application, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
		if line.UnitPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line price must be non-negative")
		}
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if !coupon.IsActive {
		// Inactive codes are indistinguishable from missing ones.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}

	now := s.now()
	if coupon.ValidFrom.After(now) {
		return nil, stateError("coupon is not valid yet", ReasonNotYetValid)
	}
	if coupon.ValidUntil != nil && coupon.ValidUntil.Before(now) {
		return nil, stateError("coupon has expired", ReasonExpired)
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, stateError("coupon usage limit reached", ReasonLimitExceeded)
	}

	applicable := applicableLines(coupon.ApplicableProducts, lines)
	if len(applicable) == 0 {
		return nil, stateError("coupon does not apply to any item in the cart", ReasonNotApplicable)
	}

	discount := s.computeDiscount(coupon, lines, applicable)

	return &Application{
		Coupon: CouponSummary{
			Code:               coupon.Code,
			DiscountPercentage: coupon.DiscountPercentage,
			Description:        coupon.Description,
		},
		Discount: discount,
	}, nil
}

func applicableLines(restricted dbtypes.UUIDArray, lines []pricing.Line) []pricing.Line {
	if len(restricted) == 0 {
		return lines
	}
	var out []pricing.Line
	for _, line := range lines {
		if restricted.Contains(line.ProductID) {
			out = append(out, line)
		}
	}
	return out
}

// computeDiscount keeps the per-line math exact in decimals and rounds only
// the values that leave the function. The aggregate discount is rounded on
// the accumulated sum, not per line, so the total never drifts from the sum
// of exact line discounts.
func (s *service) computeDiscount(coupon *models.Coupon, all []pricing.Line, applicable []pricing.Line) Discount {
	pct := decimal.NewFromInt(int64(coupon.DiscountPercentage))
	hundred := decimal.NewFromInt(100)

	exactTotal := decimal.Zero
	items := make([]ApplicableItem, 0, len(applicable))
	for _, line := range applicable {
		lineTotal := decimal.NewFromInt(int64(line.Amount()))
		lineDiscount := lineTotal.Mul(pct).Div(hundred)
		exactTotal = exactTotal.Add(lineDiscount)

		unit := decimal.NewFromInt(int64(line.UnitPrice))
		discountedUnit := unit.Sub(unit.Mul(pct).Div(hundred))

		items = append(items, ApplicableItem{
			ProductID:           line.ProductID,
			Name:                line.Name,
			UnitPrice:           line.UnitPrice,
			Quantity:            line.Quantity,
			LineTotal:           line.Amount(),
			LineDiscount:        int(lineDiscount.Round(0).IntPart()),
			DiscountedUnitPrice: int(discountedUnit.Round(0).IntPart()),
		})
	}

	originalTotal := pricing.Subtotal(all)
	totalDiscount := int(exactTotal.Round(0).IntPart())
	if totalDiscount > originalTotal {
		totalDiscount = originalTotal
	}
	discountedTotal := originalTotal - totalDiscount
	shipping := s.calc.ShippingFee(discountedTotal)

	return Discount{
		TotalDiscount:   totalDiscount,
		OriginalTotal:   originalTotal,
		DiscountedTotal: discountedTotal,
		ShippingCost:    shipping,
		FinalTotal:      discountedTotal + shipping,
		ApplicableItems: items,
	}
}

func (s *service) MarkUsed(ctx context.Context, code string) {
	ctx = s.logg.WithField(ctx, "coupon_code", code)
	incremented, err := s.repo.IncrementUsage(ctx, code)
	if err != nil {
		s.logg.Error(ctx, "incrementing coupon usage", err)
		return
	}
	if !incremented {
		s.logg.Warn(ctx, "coupon usage not recorded (missing or limit reached)")
	}
}

func (s *service) Create(ctx context.Context, input CreateCouponInput) (*CouponDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if input.DiscountPercentage < 1 || input.DiscountPercentage > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 1 and 100")
	}
	if input.UsageLimit != nil && *input.UsageLimit < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be at least 1")
	}
	if input.ValidUntil != nil && input.ValidUntil.Before(input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until must not precede valid_from")
	}

	if len(input.ApplicableProducts) > 0 {
		found, err := s.products.FindMany(ctx, input.ApplicableProducts)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying applicable products")
		}
		if len(found) != len(uniqueIDs(input.ApplicableProducts)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "applicable products include unknown product ids")
		}
	}

	validFrom := input.ValidFrom
	if validFrom.IsZero() {
		validFrom = s.now()
	}

	coupon := &models.Coupon{
		Code:               code,
		Description:        input.Description,
		DiscountPercentage: input.DiscountPercentage,
		ApplicableProducts: dbtypes.UUIDArray(uniqueIDs(input.ApplicableProducts)),
		IsActive:           true,
		UsageLimit:         input.UsageLimit,
		ValidFrom:          validFrom,
		ValidUntil:         input.ValidUntil,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating coupon")
	}
	return NewCouponDTO(created), nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *service) List(ctx context.Context) ([]CouponDTO, error) {
	coupons, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing coupons")
	}
	out := make([]CouponDTO, 0, len(coupons))
	for i := range coupons {
		out = append(out, *NewCouponDTO(&coupons[i]))
	}
	return out, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating coupon state")
	}
	return nil
}
