// Package reporting derives dashboard metrics from the order collection.
// Every rollup applies the single RevenueCountable predicate, and results
// are served through a TTL cache: entries expire on their own and are never
// invalidated by writes, so reads can be stale up to the TTL by design.
package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/internal/orders"
	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/pkg/cache"
	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
	"github.com/avinashm/sparkcart-backend/pkg/pagination"
)

const (
	cacheKeyAdminOverview  = "rpt:admin:overview"
	cacheKeyAdminAnalytics = "rpt:admin:analytics"

	analyticsMonths  = 6
	recentOrderLimit = 5
	topProductLimit  = 5
)

func cacheKeyUserOverview(userID uuid.UUID) string {
	return "rpt:overview:user:" + userID.String()
}

type customerLister interface {
	ListCustomers(ctx context.Context, params pagination.Params) ([]models.User, *pagination.Cursor, error)
	CountCustomers(ctx context.Context) (int64, error)
}

type wishlistCounter interface {
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service exposes the read-side rollups.
type Service interface {
	DashboardOverview(ctx context.Context, userID uuid.UUID) (*DashboardOverview, error)
	AdminOverview(ctx context.Context) (*AdminOverview, error)
	AdminAnalytics(ctx context.Context) (*AdminAnalytics, error)
	CustomerList(ctx context.Context, params pagination.Params) (*CustomerList, error)
}

type service struct {
	repo     Repository
	users    customerLister
	wishlist wishlistCounter
	cache    cache.Store
	calc     pricing.Calculator
	cfg      config.ReportingConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the reporting service.
func NewService(
	repo Repository,
	users customerLister,
	wishlist wishlistCounter,
	cacheStore cache.Store,
	calc pricing.Calculator,
	cfg config.ReportingConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reporting repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("customer lister required")
	}
	if wishlist == nil {
		return nil, fmt.Errorf("wishlist counter required")
	}
	if cacheStore == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		users:    users,
		wishlist: wishlist,
		cache:    cacheStore,
		calc:     calc,
		cfg:      cfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// cached runs compute behind the TTL cache. Cache failures are logged and
// degraded to a direct computation; the cache is a cost layer, not a
// correctness one.
func cached[T any](ctx context.Context, s *service, key string, ttl time.Duration, compute func() (*T, error)) (*T, error) {
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "cache read failed")
	} else if ok {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			return &value, nil
		}
		s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "discarding undecodable cache entry")
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(value); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), ttl); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "cache write failed")
		}
	}
	return value, nil
}

func (s *service) DashboardOverview(ctx context.Context, userID uuid.UUID) (*DashboardOverview, error) {
	return cached(ctx, s, cacheKeyUserOverview(userID), s.cfg.OverviewCacheTTL, func() (*DashboardOverview, error) {
		spent, err := s.repo.UserTotalSpent(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing total spent")
		}
		orderCount, err := s.repo.UserOrderCount(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
		}
		wishlistCount, err := s.wishlist.Count(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting wishlist")
		}
		recent, err := s.repo.RecentOrders(ctx, userID, recentOrderLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent orders")
		}

		recentDTOs := make([]orders.OrderDTO, 0, len(recent))
		for i := range recent {
			recentDTOs = append(recentDTOs, *orders.NewOrderDTO(&recent[i]))
		}

		totalSpent := int(spent)
		return &DashboardOverview{
			OrderCount:    orderCount,
			TotalSpent:    totalSpent,
			WishlistCount: wishlistCount,
			LoyaltyPoints: s.calc.LoyaltyPoints(totalSpent),
			Tier:          s.calc.TierFor(totalSpent),
			RecentOrders:  recentDTOs,
		}, nil
	})
}

func (s *service) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	return cached(ctx, s, cacheKeyAdminOverview, s.cfg.OverviewCacheTTL, func() (*AdminOverview, error) {
		revenue, err := s.repo.TotalRevenue(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing revenue")
		}
		totalOrders, err := s.repo.TotalOrders(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
		}
		pending, err := s.repo.PendingOrders(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting pending orders")
		}
		customers, err := s.users.CountCustomers(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customers")
		}
		repeaters, err := s.repo.RepeatCustomerCount(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting repeat customers")
		}

		return &AdminOverview{
			TotalRevenue:             revenue,
			TotalOrders:              totalOrders,
			PendingOrders:            pending,
			CustomerCount:            customers,
			RepeatCustomerPercentage: roundedPercent(repeaters, customers),
		}, nil
	})
}

// roundedPercent computes part/whole as a half-up rounded integer percent.
func roundedPercent(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int((part*100 + whole/2) / whole)
}

func (s *service) AdminAnalytics(ctx context.Context) (*AdminAnalytics, error) {
	return cached(ctx, s, cacheKeyAdminAnalytics, s.cfg.AnalyticsCacheTTL, func() (*AdminAnalytics, error) {
		since := s.now().AddDate(0, -analyticsMonths, 0)
		monthly, err := s.repo.MonthlyRevenue(ctx, since)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing monthly revenue")
		}
		top, err := s.repo.TopProducts(ctx, topProductLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing top products")
		}
		if monthly == nil {
			monthly = []MonthlyRevenue{}
		}
		if top == nil {
			top = []TopProduct{}
		}
		return &AdminAnalytics{MonthlyRevenue: monthly, TopProducts: top}, nil
	})
}

func (s *service) CustomerList(ctx context.Context, params pagination.Params) (*CustomerList, error) {
	customers, next, err := s.users.ListCustomers(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}

	ids := make([]uuid.UUID, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.ID)
	}
	spend, err := s.repo.SpendByUsers(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing customer spend")
	}
	counts, err := s.repo.OrderCountByUsers(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customer orders")
	}

	out := &CustomerList{Customers: make([]CustomerSummary, 0, len(customers))}
	for _, customer := range customers {
		totalSpent := int(spend[customer.ID])
		out.Customers = append(out.Customers, CustomerSummary{
			ID:            customer.ID,
			Email:         customer.Email,
			Name:          customer.Name,
			TotalSpent:    totalSpent,
			OrderCount:    counts[customer.ID],
			LoyaltyPoints: s.calc.LoyaltyPoints(totalSpent),
			Tier:          s.calc.TierFor(totalSpent),
			JoinedAt:      customer.CreatedAt,
		})
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		out.NextCursor = &encoded
	}
	return out, nil
}
