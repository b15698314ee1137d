package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/api/responses"
	"github.com/avinashm/sparkcart-backend/api/validators"
	"github.com/avinashm/sparkcart-backend/internal/catalog"
	"github.com/avinashm/sparkcart-backend/internal/coupons"
	"github.com/avinashm/sparkcart-backend/internal/pricing"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
)

type cartItemPayload struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

type validateCouponPayload struct {
	Code  string            `json:"code" validate:"required"`
	Items []cartItemPayload `json:"items" validate:"required,min=1,dive"`
}

type markUsedPayload struct {
	Code string `json:"code" validate:"required"`
}

// cartLines resolves cart items against the live catalog. Prices always come
// from the database, never from the client.
func cartLines(r *http.Request, products catalog.Service, items []cartItemPayload) ([]pricing.Line, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	found, err := products.FindMany(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]int, len(found))
	for i := range found {
		if found[i].IsActive {
			byID[found[i].ID] = i
		}
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		idx, ok := byID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product in cart").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		lines = append(lines, pricing.Line{
			ProductID: found[idx].ID,
			Name:      found[idx].Name,
			UnitPrice: found[idx].Price,
			Quantity:  item.Quantity,
		})
	}
	return lines, nil
}

// ValidateCoupon previews a coupon against the caller's cart.
func ValidateCoupon(svc coupons.Service, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload validateCouponPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, err := cartLines(r, products, payload.Items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		application, err := svc.Validate(ctx, payload.Code, lines)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, application)
	}
}

// MarkCouponUsed records a redemption. The response is always success; usage
// accounting must never fail a caller that already placed its order.
func MarkCouponUsed(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload markUsedPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		svc.MarkUsed(ctx, payload.Code)
		responses.WriteSuccess(w, map[string]string{"status": "recorded"})
	}
}

// AdminCreateCoupon registers a new coupon code.
func AdminCreateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var input coupons.CreateCouponInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		coupon, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// AdminListCoupons returns every coupon with its usage counters.
func AdminListCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminSetCouponActive toggles a coupon on or off.
func AdminSetCouponActive(svc coupons.Service, active bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuidParam(r, "couponID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.SetActive(ctx, id, active); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"is_active": active})
	}
}
