// Package orders implements the order lifecycle: checkout, the fulfillment
// and payment state machines, cancellation and the refund workflow. All money
// figures on an order are written once at creation, exactly as the pricing
// calculator produced them.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinashm/sparkcart-backend/internal/coupons"
	"github.com/avinashm/sparkcart-backend/internal/pricing"
	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/db"
	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
	"github.com/avinashm/sparkcart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type couponEngine interface {
	Validate(ctx context.Context, code string, lines []pricing.Line) (*coupons.Application, error)
	MarkUsed(ctx context.Context, code string)
}

type productFinder interface {
	FindMany(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// notifier records a user-facing notification inside the order transaction.
type notifier interface {
	Record(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
}

// Actor identifies who is performing an operation, for ownership checks.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error)
	ListByUser(ctx context.Context, input ListInput) (*OrderList, error)
	ListAll(ctx context.Context, filters AdminListFilters, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID, input CancelInput) (*OrderDTO, error)
	SubmitPaymentProof(ctx context.Context, actor Actor, id uuid.UUID, receiptURL string) (*OrderDTO, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	RejectPayment(ctx context.Context, id uuid.UUID, note *string) (*OrderDTO, error)
	RequestRefund(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*OrderDTO, error)
	ProcessRefund(ctx context.Context, id uuid.UUID, action RefundAction) (*OrderDTO, error)
}

type service struct {
	repo          Repository
	tx            txRunner
	coupons       couponEngine
	products      productFinder
	notifications notifier
	calc          pricing.Calculator
	cfg           config.OrdersConfig
	logg          *logger.Logger
	now           func() time.Time
}

// NewService builds the order lifecycle service.
func NewService(
	repo Repository,
	tx txRunner,
	couponSvc couponEngine,
	products productFinder,
	notifications notifier,
	calc pricing.Calculator,
	cfg config.OrdersConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon engine required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:          repo,
		tx:            tx,
		coupons:       couponSvc,
		products:      products,
		notifications: notifications,
		calc:          calc,
		cfg:           cfg,
		logg:          logg,
		now:           time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	lines, items, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	discount := 0
	var couponCode *string
	if input.CouponCode != nil && strings.TrimSpace(*input.CouponCode) != "" {
		app, err := s.coupons.Validate(ctx, *input.CouponCode, lines)
		if err != nil {
			return nil, err
		}
		discount = app.Discount.TotalDiscount
		couponCode = &app.Coupon.Code
	}

	totals := s.calc.ComputeOrderTotals(lines, discount)
	now := s.now()
	estimated := now.AddDate(0, 0, s.cfg.EstimatedDeliveryDays)

	paymentStatus := enums.PaymentStatusPending
	if input.PaymentReceiptURL != nil {
		paymentStatus = enums.PaymentStatusPendingVerification
	}

	order := &models.Order{
		UserID:                input.UserID,
		ShippingAddress:       input.ShippingAddress.Normalized(),
		PaymentMethod:         input.PaymentMethod,
		PaymentStatus:         paymentStatus,
		Status:                enums.OrderStatusPending,
		ItemsPrice:            totals.ItemsPrice,
		TaxPrice:              totals.TaxPrice,
		ShippingPrice:         totals.ShippingPrice,
		DiscountAmount:        totals.DiscountAmount,
		CouponCode:            couponCode,
		TotalPrice:            totals.TotalPrice,
		EstimatedDeliveryDate: &estimated,
		PaymentReceiptURL:     input.PaymentReceiptURL,
		RefundStatus:          enums.RefundStatusNone,
		Items:                 items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Allocated inside the transaction so a rolled-back checkout
		// does not burn a number.
		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return fmt.Errorf("allocating order number: %w", err)
		}
		order.OrderNumber = number

		if _, err := repo.Create(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		return s.notifications.Record(ctx, tx, &models.Notification{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    enums.NotificationOrderPlaced,
			Title:   "Order placed",
			Body:    fmt.Sprintf("Your order %s has been placed.", order.OrderNumber),
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	// Exactly one redemption per successfully placed order. Best effort:
	// a bookkeeping failure must not fail the placed order.
	if couponCode != nil {
		s.coupons.MarkUsed(ctx, *couponCode)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_price":  order.TotalPrice,
	}), "order placed")

	return NewOrderDTO(order), nil
}

// snapshotItems resolves the requested products and freezes name, price and
// image onto order items. Pricing lines use the same snapshot values.
func (s *service) snapshotItems(ctx context.Context, inputs []OrderItemInput) ([]pricing.Line, []models.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindMany(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]pricing.Line, 0, len(inputs))
	items := make([]models.OrderItem, 0, len(inputs))
	for _, item := range inputs {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
		}
		if product.Stock < item.Quantity {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("insufficient stock for %q", product.Name)).
				WithDetails(map[string]any{"product_id": product.ID, "available": product.Stock})
		}

		lines = append(lines, pricing.Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		productID := product.ID
		items = append(items, models.OrderItem{
			ProductID: &productID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			ImageURL:  product.ImageURL,
		})
	}
	return lines, items, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListByUser(ctx context.Context, input ListInput) (*OrderList, error) {
	ordersPage, next, err := s.repo.ListByUser(ctx, input.UserID, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return newOrderList(ordersPage, next), nil
}

func (s *service) ListAll(ctx context.Context, filters AdminListFilters, params pagination.Params) (*OrderList, error) {
	ordersPage, next, err := s.repo.ListAll(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return newOrderList(ordersPage, next), nil
}

func newOrderList(ordersPage []models.Order, next *pagination.Cursor) *OrderList {
	out := &OrderList{Orders: make([]OrderDTO, 0, len(ordersPage))}
	for i := range ordersPage {
		out.Orders = append(out.Orders, *NewOrderDTO(&ordersPage[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		out.NextCursor = &encoded
	}
	return out
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", input.Status))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status)).
				WithDetails(map[string]string{"from": order.Status.String(), "to": input.Status.String()})
		}

		now := s.now()
		order.Status = input.Status
		order.StatusHistory = order.StatusHistory.Append(input.Status.String(), now, input.Note)
		if input.TrackingNumber != nil {
			order.TrackingNumber = input.TrackingNumber
		}
		if input.Status == enums.OrderStatusDelivered {
			order.ActualDeliveryDate = &now
		}

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order

		return s.notifications.Record(ctx, tx, &models.Notification{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    enums.NotificationOrderStatus,
			Title:   "Order update",
			Body:    fmt.Sprintf("Order %s is now %s.", order.OrderNumber, order.Status),
		})
	})
	if err != nil {
		return nil, s.mapError(err, "updating order status")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) Cancel(ctx context.Context, actor Actor, id uuid.UUID, input CancelInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && order.UserID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if !order.Status.CanBeCancelled() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order in status %s cannot be cancelled", order.Status)).
				WithDetails(map[string]string{"status": order.Status.String()})
		}

		now := s.now()
		order.Status = enums.OrderStatusCancelled
		order.CancellationReason = &input.Reason
		order.CancellationComment = input.Comment
		order.CancelledAt = &now
		order.StatusHistory = order.StatusHistory.Append(enums.OrderStatusCancelled.String(), now, input.Comment)

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order

		return s.notifications.Record(ctx, tx, &models.Notification{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    enums.NotificationOrderCancel,
			Title:   "Order cancelled",
			Body:    fmt.Sprintf("Order %s has been cancelled.", order.OrderNumber),
		})
	})
	if err != nil {
		return nil, s.mapError(err, "cancelling order")
	}
	return NewOrderDTO(updated), nil
}

// SubmitPaymentProof attaches payment evidence and parks the order in the
// verification state until an admin confirms or rejects it.
func (s *service) SubmitPaymentProof(ctx context.Context, actor Actor, id uuid.UUID, receiptURL string) (*OrderDTO, error) {
	if strings.TrimSpace(receiptURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt url is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && order.UserID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if order.PaymentStatus == enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}

		now := s.now()
		order.PaymentReceiptURL = &receiptURL
		order.PaymentStatus = enums.PaymentStatusPendingVerification
		if order.Status == enums.OrderStatusPending {
			order.Status = enums.OrderStatusPaymentVerification
			order.StatusHistory = order.StatusHistory.Append(enums.OrderStatusPaymentVerification.String(), now, nil)
		}

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, s.mapError(err, "submitting payment proof")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order.PaymentStatus == enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}

		now := s.now()
		order.PaymentStatus = enums.PaymentStatusPaid
		if order.Status == enums.OrderStatusPending || order.Status == enums.OrderStatusPaymentVerification {
			order.Status = enums.OrderStatusProcessing
			order.StatusHistory = order.StatusHistory.Append(enums.OrderStatusProcessing.String(), now, nil)
		}

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order

		return s.notifications.Record(ctx, tx, &models.Notification{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    enums.NotificationPaymentUpdate,
			Title:   "Payment confirmed",
			Body:    fmt.Sprintf("Payment for order %s has been confirmed.", order.OrderNumber),
		})
	})
	if err != nil {
		return nil, s.mapError(err, "confirming payment")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) RejectPayment(ctx context.Context, id uuid.UUID, note *string) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if order.PaymentStatus != enums.PaymentStatusPendingVerification {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "no payment awaiting verification")
		}

		now := s.now()
		order.PaymentStatus = enums.PaymentStatusFailed
		if order.Status == enums.OrderStatusPaymentVerification {
			order.Status = enums.OrderStatusPending
			order.StatusHistory = order.StatusHistory.Append(enums.OrderStatusPending.String(), now, note)
		}

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order

		return s.notifications.Record(ctx, tx, &models.Notification{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    enums.NotificationPaymentUpdate,
			Title:   "Payment rejected",
			Body:    fmt.Sprintf("Payment proof for order %s was rejected. Please resubmit.", order.OrderNumber),
		})
	})
	if err != nil {
		return nil, s.mapError(err, "rejecting payment")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) RequestRefund(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*OrderDTO, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund reason is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && order.UserID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		// Only paid orders are refund-eligible.
		if order.PaymentStatus != enums.PaymentStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only paid orders can be refunded")
		}
		if !order.RefundStatus.CanTransitionTo(enums.RefundStatusRequested) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("refund already %s", order.RefundStatus))
		}

		now := s.now()
		order.RefundStatus = enums.RefundStatusRequested
		order.RefundReason = &reason
		order.RefundRequestedAt = &now

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, s.mapError(err, "requesting refund")
	}
	return NewOrderDTO(updated), nil
}

// ProcessRefund advances the refund workflow. Completing a refund marks the
// order status refunded, which is the signal reporting uses to exclude the
// order from revenue; paymentStatus is left untouched.
func (s *service) ProcessRefund(ctx context.Context, id uuid.UUID, action RefundAction) (*OrderDTO, error) {
	var target enums.RefundStatus
	switch action {
	case RefundActionApprove:
		target = enums.RefundStatusApproved
	case RefundActionReject:
		target = enums.RefundStatusRejected
	case RefundActionComplete:
		target = enums.RefundStatusProcessed
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown refund action %q", action))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.RefundStatus.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move refund from %s to %s", order.RefundStatus, target)).
				WithDetails(map[string]string{"from": order.RefundStatus.String(), "to": target.String()})
		}

		now := s.now()
		order.RefundStatus = target
		if target == enums.RefundStatusProcessed {
			order.RefundProcessedAt = &now
			order.Status = enums.OrderStatusRefunded
			order.StatusHistory = order.StatusHistory.Append(enums.OrderStatusRefunded.String(), now, nil)
		}

		if _, err := repo.Update(ctx, order); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}
		updated = order

		return s.notifications.Record(ctx, tx, &models.Notification{
			UserID:  order.UserID,
			OrderID: &order.ID,
			Kind:    enums.NotificationRefundUpdate,
			Title:   "Refund update",
			Body:    fmt.Sprintf("Refund for order %s is now %s.", order.OrderNumber, order.RefundStatus),
		})
	})
	if err != nil {
		return nil, s.mapError(err, "processing refund")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) mapError(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
