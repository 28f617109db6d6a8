// Package period maps wall-clock time onto delivery periods and the
// delivery/payment windows. All functions are pure so callers can pass
// in fixed times.
package period

import "time"

const (
	// Delivery runs 6:00 AM through 11:59 PM local time.
	DeliveryStartHour = 6
	DeliveryEndHour   = 23

	// Settlement submission runs midnight through 5:59 AM, before the next
	// delivery day opens.
	PaymentWindowStartHour = 0
	PaymentWindowEndHour   = 5
)

// PeriodAt returns the delivery period identifier (YYYY-MM-DD) for t.
// Every hour of the day belongs to that calendar date's period: orders
// placed between midnight and 5:59 AM count toward the same date, not the
// previous one.
func PeriodAt(t time.Time) string {
	return t.Format("2006-01-02")
}

// IsDeliveryHour reports whether hour falls inside delivery hours [6, 23].
func IsDeliveryHour(hour int) bool {
	return hour >= DeliveryStartHour && hour <= DeliveryEndHour
}

// IsPaymentWindowHour reports whether hour falls inside the payment
// window [0, 5].
func IsPaymentWindowHour(hour int) bool {
	return hour >= PaymentWindowStartHour && hour <= PaymentWindowEndHour
}

// HoursUntilDeliveryOpens returns how many whole hours remain until the
// delivery window next opens, or 0 if it is already open.
func HoursUntilDeliveryOpens(t time.Time) int {
	hour := t.Hour()
	if IsDeliveryHour(hour) {
		return 0
	}
	if hour < DeliveryStartHour {
		return DeliveryStartHour - hour
	}
	return (24 - hour) + DeliveryStartHour
}
