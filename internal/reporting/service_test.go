package reporting

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/pkg/cache"
	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
	"github.com/avinashm/sparkcart-backend/pkg/pagination"
)

// stubReportingRepo derives every rollup from an in-memory order slice using
// the same RevenueCountable predicate as the SQL scope, so the tests exercise
// the predicate itself.
type stubReportingRepo struct {
	orders []models.Order
	calls  int
}

func (s *stubReportingRepo) UserTotalSpent(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.calls++
	var total int64
	for i := range s.orders {
		order := &s.orders[i]
		if order.UserID == userID && RevenueCountable(order) {
			total += int64(order.TotalPrice)
		}
	}
	return total, nil
}

func (s *stubReportingRepo) UserOrderCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for i := range s.orders {
		order := &s.orders[i]
		if order.UserID != userID {
			continue
		}
		if order.Status == enums.OrderStatusCancelled || order.Status == enums.OrderStatusRefunded {
			continue
		}
		count++
	}
	return count, nil
}

func (s *stubReportingRepo) RecentOrders(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	return nil, nil
}

func (s *stubReportingRepo) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	for i := range s.orders {
		if RevenueCountable(&s.orders[i]) {
			total += int64(s.orders[i].TotalPrice)
		}
	}
	return total, nil
}

func (s *stubReportingRepo) TotalOrders(ctx context.Context) (int64, error) {
	return int64(len(s.orders)), nil
}

func (s *stubReportingRepo) PendingOrders(ctx context.Context) (int64, error) {
	return 0, nil
}

func (s *stubReportingRepo) RepeatCustomerCount(ctx context.Context) (int64, error) {
	counts := make(map[uuid.UUID]int)
	for i := range s.orders {
		if RevenueCountable(&s.orders[i]) {
			counts[s.orders[i].UserID]++
		}
	}
	var repeaters int64
	for _, n := range counts {
		if n > 1 {
			repeaters++
		}
	}
	return repeaters, nil
}

func (s *stubReportingRepo) MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthlyRevenue, error) {
	return nil, nil
}

func (s *stubReportingRepo) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	return nil, nil
}

func (s *stubReportingRepo) SpendByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, id := range userIDs {
		total, _ := s.UserTotalSpent(ctx, id)
		out[id] = total
	}
	return out, nil
}

func (s *stubReportingRepo) OrderCountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, id := range userIDs {
		count, _ := s.UserOrderCount(ctx, id)
		out[id] = count
	}
	return out, nil
}

type stubCustomerLister struct {
	customers []models.User
}

func (s *stubCustomerLister) ListCustomers(ctx context.Context, params pagination.Params) ([]models.User, *pagination.Cursor, error) {
	return s.customers, nil, nil
}

func (s *stubCustomerLister) CountCustomers(ctx context.Context) (int64, error) {
	return int64(len(s.customers)), nil
}

type stubWishlistCounter struct {
	count int64
}

func (s *stubWishlistCounter) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count, nil
}

func newReportingService(t *testing.T, repo *stubReportingRepo, users *stubCustomerLister) *service {
	t.Helper()
	calc := pricing.NewCalculator(config.PricingConfig{
		FreeShippingThreshold: 2000,
		FlatShippingFee:       150,
		LoyaltyPointRate:      10,
		TierSilverThreshold:   5000,
		TierGoldThreshold:     10000,
		TierPlatinumThreshold: 15000,
	})
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, users, &stubWishlistCounter{count: 3}, cache.NewMemoryStore(), calc,
		config.ReportingConfig{OverviewCacheTTL: time.Minute, AnalyticsCacheTTL: 2 * time.Minute}, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc.(*service)
}

func paidOrder(userID uuid.UUID, total int) models.Order {
	return models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		PaymentStatus: enums.PaymentStatusPaid,
		Status:        enums.OrderStatusDelivered,
		TotalPrice:    total,
	}
}

func TestRevenueCountablePredicate(t *testing.T) {
	paid := paidOrder(uuid.New(), 500)
	if !RevenueCountable(&paid) {
		t.Fatal("paid delivered order must count")
	}

	refunded := paidOrder(uuid.New(), 500)
	refunded.Status = enums.OrderStatusRefunded
	if RevenueCountable(&refunded) {
		t.Fatal("refunded order must not count even though payment_status stays paid")
	}

	unpaid := paidOrder(uuid.New(), 500)
	unpaid.PaymentStatus = enums.PaymentStatusPending
	if RevenueCountable(&unpaid) {
		t.Fatal("unpaid order must not count")
	}
}

func TestRefundReducesSpentByOrderTotal(t *testing.T) {
	userID := uuid.New()
	base := []models.Order{paidOrder(userID, 1000), paidOrder(userID, 500)}

	repo := &stubReportingRepo{orders: base}
	svc := newReportingService(t, repo, &stubCustomerLister{})

	before, err := svc.DashboardOverview(context.Background(), userID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if before.TotalSpent != 1500 {
		t.Fatalf("total spent = %d, want 1500", before.TotalSpent)
	}

	// Same orders, but the 500 one had its refund processed.
	withRefund := []models.Order{base[0], base[1]}
	withRefund[1].Status = enums.OrderStatusRefunded
	repo2 := &stubReportingRepo{orders: withRefund}
	svc2 := newReportingService(t, repo2, &stubCustomerLister{})

	after, err := svc2.DashboardOverview(context.Background(), userID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if after.TotalSpent != 1000 {
		t.Fatalf("total spent = %d, want exactly 500 less than before", after.TotalSpent)
	}
	if after.OrderCount != 1 {
		t.Fatalf("order count = %d, refunded orders must not count", after.OrderCount)
	}
}

func TestDashboardOverviewDerivedFields(t *testing.T) {
	userID := uuid.New()
	repo := &stubReportingRepo{orders: []models.Order{paidOrder(userID, 12345)}}
	svc := newReportingService(t, repo, &stubCustomerLister{})

	overview, err := svc.DashboardOverview(context.Background(), userID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.LoyaltyPoints != 1234 {
		t.Fatalf("loyalty points = %d, want 1234", overview.LoyaltyPoints)
	}
	if overview.Tier != enums.UserTierGold {
		t.Fatalf("tier = %s, want gold", overview.Tier)
	}
	if overview.WishlistCount != 3 {
		t.Fatalf("wishlist count = %d, want 3", overview.WishlistCount)
	}
}

func TestDashboardOverviewServedFromCache(t *testing.T) {
	userID := uuid.New()
	repo := &stubReportingRepo{orders: []models.Order{paidOrder(userID, 100)}}
	svc := newReportingService(t, repo, &stubCustomerLister{})

	if _, err := svc.DashboardOverview(context.Background(), userID); err != nil {
		t.Fatalf("first call: %v", err)
	}
	callsAfterFirst := repo.calls

	// Mutate the underlying data; the cached value must still be served.
	repo.orders = append(repo.orders, paidOrder(userID, 900))
	second, err := svc.DashboardOverview(context.Background(), userID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.calls != callsAfterFirst {
		t.Fatalf("repo hit again (%d calls), expected cached value", repo.calls)
	}
	if second.TotalSpent != 100 {
		t.Fatalf("total spent = %d, want stale cached 100", second.TotalSpent)
	}
}

func TestAdminOverviewRepeatPercentage(t *testing.T) {
	repeat := uuid.New()
	single := uuid.New()
	other := uuid.New()
	repo := &stubReportingRepo{orders: []models.Order{
		paidOrder(repeat, 100),
		paidOrder(repeat, 200),
		paidOrder(single, 300),
	}}
	users := &stubCustomerLister{customers: []models.User{
		{ID: repeat}, {ID: single}, {ID: other},
	}}
	svc := newReportingService(t, repo, users)

	overview, err := svc.AdminOverview(context.Background())
	if err != nil {
		t.Fatalf("admin overview: %v", err)
	}
	if overview.TotalRevenue != 600 {
		t.Fatalf("revenue = %d, want 600", overview.TotalRevenue)
	}
	// 1 of 3 customers has more than one paid order: 33.33 rounds to 33.
	if overview.RepeatCustomerPercentage != 33 {
		t.Fatalf("repeat percentage = %d, want 33", overview.RepeatCustomerPercentage)
	}
}

func TestRoundedPercent(t *testing.T) {
	cases := []struct {
		part, whole int64
		want        int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
	}
	for _, tc := range cases {
		if got := roundedPercent(tc.part, tc.whole); got != tc.want {
			t.Errorf("roundedPercent(%d, %d) = %d, want %d", tc.part, tc.whole, got, tc.want)
		}
	}
}

func TestCustomerListDerivesTiers(t *testing.T) {
	bronze := models.User{ID: uuid.New(), Email: "b@example.com", Name: "Bronze"}
	platinum := models.User{ID: uuid.New(), Email: "p@example.com", Name: "Platinum"}
	repo := &stubReportingRepo{orders: []models.Order{
		paidOrder(bronze.ID, 4999),
		paidOrder(platinum.ID, 15000),
	}}
	svc := newReportingService(t, repo, &stubCustomerLister{customers: []models.User{bronze, platinum}})

	list, err := svc.CustomerList(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("customer list: %v", err)
	}
	if len(list.Customers) != 2 {
		t.Fatalf("customers = %d, want 2", len(list.Customers))
	}
	byEmail := map[string]CustomerSummary{}
	for _, customer := range list.Customers {
		byEmail[customer.Email] = customer
	}
	if byEmail["b@example.com"].Tier != enums.UserTierBronze {
		t.Fatalf("tier = %s, want bronze", byEmail["b@example.com"].Tier)
	}
	if byEmail["p@example.com"].Tier != enums.UserTierPlatinum {
		t.Fatalf("tier = %s, want platinum", byEmail["p@example.com"].Tier)
	}
	if byEmail["p@example.com"].LoyaltyPoints != 1500 {
		t.Fatalf("points = %d, want 1500", byEmail["p@example.com"].LoyaltyPoints)
	}
}
