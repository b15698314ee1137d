package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinashm/sparkcart-backend/pkg/db/models"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
)

// NotificationDTO is the dashboard-facing notification payload.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	OrderID   *uuid.UUID             `json:"order_id,omitempty"`
	Kind      enums.NotificationKind `json:"kind"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewNotificationDTO maps a stored notification to its API shape.
func NewNotificationDTO(n *models.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID,
		OrderID:   n.OrderID,
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
