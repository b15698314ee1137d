package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/api/middleware"
	"github.com/avinashm/sparkcart-backend/internal/catalog"
	"github.com/avinashm/sparkcart-backend/internal/coupons"
	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
)

type stubValidateCatalog struct {
	products []models.Product
}

func (s *stubValidateCatalog) Get(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubValidateCatalog) List(context.Context, catalog.ListInput) (*catalog.ProductList, error) {
	return nil, nil
}

func (s *stubValidateCatalog) FindMany(context.Context, []uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubValidateCatalog) Create(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubValidateCatalog) Update(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return nil, nil
}

func (s *stubValidateCatalog) Deactivate(context.Context, uuid.UUID) error { return nil }

type stubValidateCoupons struct {
	gotCode  string
	gotLines []pricing.Line
}

func (s *stubValidateCoupons) Validate(ctx context.Context, code string, lines []pricing.Line) (*coupons.Application, error) {
	s.gotCode = code
	s.gotLines = lines
	return &coupons.Application{}, nil
}

func (s *stubValidateCoupons) MarkUsed(context.Context, string) {}

func (s *stubValidateCoupons) Create(context.Context, coupons.CreateCouponInput) (*coupons.CouponDTO, error) {
	return nil, nil
}

func (s *stubValidateCoupons) List(context.Context) ([]coupons.CouponDTO, error) { return nil, nil }

func (s *stubValidateCoupons) SetActive(context.Context, uuid.UUID, bool) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestValidateCouponPricesFromCatalog(t *testing.T) {
	productID := uuid.New()
	catalogStub := &stubValidateCatalog{products: []models.Product{{
		ID:       productID,
		Name:     "Sky Rocket",
		Price:    125,
		IsActive: true,
	}}}
	couponsStub := &stubValidateCoupons{}

	body := `{"code":"DIWALI20","items":[{"product_id":"` + productID.String() + `","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	ValidateCoupon(couponsStub, catalogStub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if couponsStub.gotCode != "DIWALI20" {
		t.Fatalf("code = %q", couponsStub.gotCode)
	}
	if len(couponsStub.gotLines) != 1 {
		t.Fatalf("lines = %d, want 1", len(couponsStub.gotLines))
	}
	// Unit price must come from the catalog row, not the request body.
	if couponsStub.gotLines[0].UnitPrice != 125 || couponsStub.gotLines[0].Quantity != 2 {
		t.Fatalf("line = %+v", couponsStub.gotLines[0])
	}
}

func TestValidateCouponRejectsInactiveProduct(t *testing.T) {
	productID := uuid.New()
	catalogStub := &stubValidateCatalog{products: []models.Product{{
		ID:       productID,
		Name:     "Retired",
		Price:    125,
		IsActive: false,
	}}}

	body := `{"code":"DIWALI20","items":[{"product_id":"` + productID.String() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ValidateCoupon(&stubValidateCoupons{}, catalogStub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestValidateCouponRejectsEmptyCart(t *testing.T) {
	body := `{"code":"DIWALI20","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	ValidateCoupon(&stubValidateCoupons{}, &stubValidateCatalog{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
