// Package notifications records per-user event rows written alongside order
// mutations and serves them back to the dashboard.
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
)

// Service exposes notification recording and reads.
type Service interface {
	// Record writes a notification inside the caller's transaction so it
	// commits or rolls back with the mutation that produced it.
	Record(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the notifications service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	if !notification.Kind.IsValid() {
		return fmt.Errorf("invalid notification kind %q", notification.Kind)
	}
	if err := s.repo.WithTx(tx).Create(ctx, notification); err != nil {
		return fmt.Errorf("recording notification: %w", err)
	}
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing notifications")
	}
	return notifications, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	marked, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notification read")
	}
	if !marked {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking notifications read")
	}
	return nil
}
