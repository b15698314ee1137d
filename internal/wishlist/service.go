// Package wishlist lets customers save products for later. The dashboard
// surfaces the per-user count.
package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/internal/catalog"
	"github.com/avinashm/sparkcart-backend/pkg/db"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
)

// Entry is one saved product with its current catalog data.
type Entry struct {
	ProductID uuid.UUID           `json:"product_id"`
	AddedAt   time.Time           `json:"added_at"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
}

type productGetter interface {
	FindMany(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service exposes wishlist operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     Repository
	products productGetter
}

// NewService builds the wishlist service.
func NewService(repo Repository, products productGetter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing wishlist")
	}
	if len(items) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindMany(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entry := Entry{ProductID: item.ProductID, AddedAt: item.CreatedAt}
		if product, ok := byID[item.ProductID]; ok {
			entry.Product = catalog.NewProductDTO(product)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting wishlist")
	}
	return count, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	products, err := s.products.FindMany(ctx, []uuid.UUID{productID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if len(products) == 0 || !products[0].IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Add(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding wishlist item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}
