package enums

import "fmt"

// OrderStatus tracks the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusPaymentVerification OrderStatus = "payment_verification"
	OrderStatusProcessing          OrderStatus = "processing"
	OrderStatusPacked              OrderStatus = "packed"
	OrderStatusShipped             OrderStatus = "shipped"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCancelled           OrderStatus = "cancelled"
	OrderStatusRefunded            OrderStatus = "refunded"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaymentVerification,
	OrderStatusProcessing,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// orderStatusTransitions lists the allowed next states per status. Cancelled
// is reachable only through Cancel, refunded only through refund processing.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:             {OrderStatusPaymentVerification, OrderStatusProcessing},
	OrderStatusPaymentVerification: {OrderStatusPending, OrderStatusProcessing},
	OrderStatusProcessing:          {OrderStatusPacked, OrderStatusShipped},
	OrderStatusPacked:              {OrderStatusShipped},
	OrderStatusShipped:             {OrderStatusDelivered},
	OrderStatusDelivered:           {},
	OrderStatusCancelled:           {},
	OrderStatusRefunded:            {},
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	next, ok := orderStatusTransitions[o]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CanBeCancelled reports whether an order in this status may still be cancelled.
func (o OrderStatus) CanBeCancelled() bool {
	return o == OrderStatusPending || o == OrderStatusProcessing
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
