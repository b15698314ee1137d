package coupons

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	dbtypes "github.com/avinashm/sparkcart-backend/pkg/db/types"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
)

type stubCouponsRepo struct {
	coupon       *models.Coupon
	incremented  []string
	incrementOK  bool
	incrementErr error
}

func (s *stubCouponsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCouponsRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.coupon == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.coupon
	return &copied, nil
}

func (s *stubCouponsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	if s.coupon == nil || s.coupon.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.coupon
	return &copied, nil
}

func (s *stubCouponsRepo) List(ctx context.Context) ([]models.Coupon, error) {
	if s.coupon == nil {
		return nil, nil
	}
	return []models.Coupon{*s.coupon}, nil
}

func (s *stubCouponsRepo) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	s.coupon = coupon
	return coupon, nil
}

func (s *stubCouponsRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return nil
}

func (s *stubCouponsRepo) IncrementUsage(ctx context.Context, code string) (bool, error) {
	s.incremented = append(s.incremented, code)
	if s.incrementErr != nil {
		return false, s.incrementErr
	}
	return s.incrementOK, nil
}

type stubProductFinder struct {
	products []models.Product
}

func (s *stubProductFinder) FindMany(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

func testService(t *testing.T, repo *stubCouponsRepo, now time.Time) *service {
	t.Helper()
	calc := pricing.NewCalculator(config.PricingConfig{
		FreeShippingThreshold: 2000,
		FlatShippingFee:       150,
	})
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, &stubProductFinder{}, calc, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	typed := svc.(*service)
	typed.now = func() time.Time { return now }
	return typed
}

func activeCoupon(pct int, applicable ...uuid.UUID) *models.Coupon {
	return &models.Coupon{
		ID:                 uuid.New(),
		Code:               "SAVE10",
		DiscountPercentage: pct,
		ApplicableProducts: dbtypes.UUIDArray(applicable),
		IsActive:           true,
		ValidFrom:          time.Now().Add(-24 * time.Hour),
	}
}

func couponStateReason(t *testing.T, err error, want string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCouponState {
		t.Fatalf("expected COUPON_STATE, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["reason"] != want {
		t.Fatalf("reason = %v, want %s", typed.Details(), want)
	}
}

func TestValidatePartialCartDiscount(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	repo := &stubCouponsRepo{coupon: activeCoupon(10, p1)}
	svc := testService(t, repo, time.Now())

	app, err := svc.Validate(context.Background(), "save10", []pricing.Line{
		{ProductID: p1, Name: "Rocket", UnitPrice: 100, Quantity: 2},
		{ProductID: p2, Name: "Sparkler", UnitPrice: 50, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	d := app.Discount
	if d.OriginalTotal != 250 {
		t.Fatalf("original total = %d, want 250", d.OriginalTotal)
	}
	if d.TotalDiscount != 20 {
		t.Fatalf("total discount = %d, want 20", d.TotalDiscount)
	}
	if d.DiscountedTotal != 230 {
		t.Fatalf("discounted total = %d, want 230", d.DiscountedTotal)
	}
	if d.ShippingCost != 150 {
		t.Fatalf("shipping = %d, want 150", d.ShippingCost)
	}
	if d.FinalTotal != 380 {
		t.Fatalf("final total = %d, want 380", d.FinalTotal)
	}
	if len(d.ApplicableItems) != 1 || d.ApplicableItems[0].ProductID != p1 {
		t.Fatalf("applicable items = %+v", d.ApplicableItems)
	}
	if d.ApplicableItems[0].LineDiscount != 20 || d.ApplicableItems[0].DiscountedUnitPrice != 90 {
		t.Fatalf("line breakdown = %+v", d.ApplicableItems[0])
	}
}

func TestValidateUnrestrictedCouponAppliesToAll(t *testing.T) {
	repo := &stubCouponsRepo{coupon: activeCoupon(10)}
	svc := testService(t, repo, time.Now())

	app, err := svc.Validate(context.Background(), "SAVE10", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 2},
		{ProductID: uuid.New(), Name: "Sparkler", UnitPrice: 50, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	d := app.Discount
	if d.TotalDiscount != 25 || d.DiscountedTotal != 225 || d.ShippingCost != 150 || d.FinalTotal != 375 {
		t.Fatalf("discount = %+v, want 25/225/150/375", d)
	}
	if len(d.ApplicableItems) != 2 {
		t.Fatalf("applicable items = %d, want 2", len(d.ApplicableItems))
	}
}

func TestValidateExpiredCoupon(t *testing.T) {
	coupon := activeCoupon(10)
	yesterday := time.Now().Add(-24 * time.Hour)
	coupon.ValidUntil = &yesterday
	svc := testService(t, &stubCouponsRepo{coupon: coupon}, time.Now())

	_, err := svc.Validate(context.Background(), "SAVE10", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 1},
	})
	couponStateReason(t, err, ReasonExpired)
}

func TestValidateNotYetValidCoupon(t *testing.T) {
	coupon := activeCoupon(10)
	coupon.ValidFrom = time.Now().Add(24 * time.Hour)
	svc := testService(t, &stubCouponsRepo{coupon: coupon}, time.Now())

	_, err := svc.Validate(context.Background(), "SAVE10", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 1},
	})
	couponStateReason(t, err, ReasonNotYetValid)
}

func TestValidateLimitExceeded(t *testing.T) {
	coupon := activeCoupon(10)
	limit := 5
	coupon.UsageLimit = &limit
	coupon.UsedCount = 5
	svc := testService(t, &stubCouponsRepo{coupon: coupon}, time.Now())

	_, err := svc.Validate(context.Background(), "SAVE10", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 1},
	})
	couponStateReason(t, err, ReasonLimitExceeded)
}

func TestValidateNotApplicable(t *testing.T) {
	coupon := activeCoupon(10, uuid.New())
	svc := testService(t, &stubCouponsRepo{coupon: coupon}, time.Now())

	_, err := svc.Validate(context.Background(), "SAVE10", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 1},
	})
	couponStateReason(t, err, ReasonNotApplicable)
}

func TestValidateInactiveCouponLooksMissing(t *testing.T) {
	coupon := activeCoupon(10)
	coupon.IsActive = false
	svc := testService(t, &stubCouponsRepo{coupon: coupon}, time.Now())

	_, err := svc.Validate(context.Background(), "SAVE10", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 1},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc := testService(t, &stubCouponsRepo{}, time.Now())

	_, err := svc.Validate(context.Background(), "NOPE", []pricing.Line{
		{ProductID: uuid.New(), Name: "Rocket", UnitPrice: 100, Quantity: 1},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMarkUsedSwallowsFailures(t *testing.T) {
	repo := &stubCouponsRepo{incrementErr: errors.New("db down")}
	svc := testService(t, repo, time.Now())

	// Must not panic or propagate anything.
	svc.MarkUsed(context.Background(), "SAVE10")
	if len(repo.incremented) != 1 {
		t.Fatalf("increment calls = %d, want 1", len(repo.incremented))
	}

	repo.incrementErr = nil
	repo.incrementOK = false
	svc.MarkUsed(context.Background(), "SAVE10")
	if len(repo.incremented) != 2 {
		t.Fatalf("increment calls = %d, want 2", len(repo.incremented))
	}
}

func TestCreateUpperCasesCode(t *testing.T) {
	repo := &stubCouponsRepo{}
	svc := testService(t, repo, time.Now())

	dto, err := svc.Create(context.Background(), CreateCouponInput{
		Code:               " diwali25 ",
		DiscountPercentage: 25,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Code != "DIWALI25" {
		t.Fatalf("code = %q, want DIWALI25", dto.Code)
	}
	if !dto.IsActive {
		t.Fatal("new coupon should be active")
	}
}

func TestCreateRejectsBadPercentage(t *testing.T) {
	svc := testService(t, &stubCouponsRepo{}, time.Now())

	for _, pct := range []int{0, 101, -5} {
		_, err := svc.Create(context.Background(), CreateCouponInput{Code: "X", DiscountPercentage: pct})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("pct %d: expected VALIDATION_ERROR, got %v", pct, err)
		}
	}
}
