package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinashm/sparkcart-backend/internal/catalog"
	"github.com/avinashm/sparkcart-backend/internal/coupons"
	"github.com/avinashm/sparkcart-backend/internal/orders"
	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/internal/reporting"
	"github.com/avinashm/sparkcart-backend/internal/wishlist"
	pkgAuth "github.com/avinashm/sparkcart-backend/pkg/auth"
	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
	"github.com/avinashm/sparkcart-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCatalogService struct{}

func (stubCatalogService) Get(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) List(context.Context, catalog.ListInput) (*catalog.ProductList, error) {
	return &catalog.ProductList{Products: []catalog.ProductDTO{}}, nil
}

func (stubCatalogService) FindMany(context.Context, []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (stubCatalogService) Create(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) Update(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) Deactivate(context.Context, uuid.UUID) error { return nil }

type stubCouponsService struct{}

func (stubCouponsService) Validate(context.Context, string, []pricing.Line) (*coupons.Application, error) {
	return &coupons.Application{}, nil
}

func (stubCouponsService) MarkUsed(context.Context, string) {}

func (stubCouponsService) Create(context.Context, coupons.CreateCouponInput) (*coupons.CouponDTO, error) {
	return &coupons.CouponDTO{}, nil
}

func (stubCouponsService) List(context.Context) ([]coupons.CouponDTO, error) { return nil, nil }

func (stubCouponsService) SetActive(context.Context, uuid.UUID, bool) error { return nil }

type stubOrdersService struct{}

func (stubOrdersService) Create(context.Context, orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) GetByID(context.Context, orders.Actor, uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ListByUser(context.Context, orders.ListInput) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderDTO{}}, nil
}

func (stubOrdersService) ListAll(context.Context, orders.AdminListFilters, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderDTO{}}, nil
}

func (stubOrdersService) UpdateStatus(context.Context, uuid.UUID, orders.UpdateStatusInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) Cancel(context.Context, orders.Actor, uuid.UUID, orders.CancelInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) SubmitPaymentProof(context.Context, orders.Actor, uuid.UUID, string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ConfirmPayment(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) RejectPayment(context.Context, uuid.UUID, *string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) RequestRefund(context.Context, orders.Actor, uuid.UUID, string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) ProcessRefund(context.Context, uuid.UUID, orders.RefundAction) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

type stubWishlistService struct{}

func (stubWishlistService) List(context.Context, uuid.UUID) ([]wishlist.Entry, error) {
	return []wishlist.Entry{}, nil
}

func (stubWishlistService) Count(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (stubWishlistService) Add(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubWishlistService) Remove(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type stubNotificationsService struct{}

func (stubNotificationsService) Record(context.Context, *gorm.DB, *models.Notification) error {
	return nil
}

func (stubNotificationsService) ListByUser(context.Context, uuid.UUID, int) ([]models.Notification, error) {
	return nil, nil
}

func (stubNotificationsService) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubNotificationsService) MarkAllRead(context.Context, uuid.UUID) error { return nil }

type stubReportingService struct{}

func (stubReportingService) DashboardOverview(context.Context, uuid.UUID) (*reporting.DashboardOverview, error) {
	return &reporting.DashboardOverview{}, nil
}

func (stubReportingService) AdminOverview(context.Context) (*reporting.AdminOverview, error) {
	return &reporting.AdminOverview{}, nil
}

func (stubReportingService) AdminAnalytics(context.Context) (*reporting.AdminAnalytics, error) {
	return &reporting.AdminAnalytics{}, nil
}

func (stubReportingService) CustomerList(context.Context, pagination.Params) (*reporting.CustomerList, error) {
	return &reporting.CustomerList{}, nil
}

func testRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret-0123456789abcdef0123456789"
	cfg.JWT.Issuer = "sparkcart"
	cfg.JWT.ExpirationMinutes = 60

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	handler := NewRouter(cfg, logg, stubPinger{}, stubPinger{}, nil, nil, Services{
		Catalog:       stubCatalogService{},
		Coupons:       stubCouponsService{},
		Orders:        stubOrdersService{},
		Wishlist:      stubWishlistService{},
		Notifications: stubNotificationsService{},
		Reporting:     stubReportingService{},
	})
	return handler, cfg
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthAndPublicRoutes(t *testing.T) {
	handler, _ := testRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/api/products"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesAcceptBearerToken(t *testing.T) {
	handler, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated request = %d, want 200", rec.Code)
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	handler, cfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/overview", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleAdmin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route = %d, want 200", rec.Code)
	}
}

func TestUnknownProductIDIsValidationError(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid product id = %d, want 400", rec.Code)
	}
}
