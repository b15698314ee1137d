package enums

import "fmt"

// NotificationKind labels the event that produced a notification row.
type NotificationKind string

const (
	NotificationOrderPlaced   NotificationKind = "order_placed"
	NotificationOrderStatus   NotificationKind = "order_status"
	NotificationOrderCancel   NotificationKind = "order_cancelled"
	NotificationPaymentUpdate NotificationKind = "payment_update"
	NotificationRefundUpdate  NotificationKind = "refund_update"
)

var validNotificationKinds = []NotificationKind{
	NotificationOrderPlaced,
	NotificationOrderStatus,
	NotificationOrderCancel,
	NotificationPaymentUpdate,
	NotificationRefundUpdate,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
