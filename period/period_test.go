package period

import (
	"testing"
	"time"
)

func TestPeriodAt(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"midday", time.Date(2024, 1, 15, 12, 30, 0, 0, time.Local), "2024-01-15"},
		{"just after midnight stays on same date", time.Date(2024, 1, 15, 0, 10, 0, 0, time.Local), "2024-01-15"},
		{"pre-dawn stays on same date", time.Date(2024, 1, 15, 5, 59, 0, 0, time.Local), "2024-01-15"},
		{"delivery open", time.Date(2024, 1, 15, 6, 0, 0, 0, time.Local), "2024-01-15"},
		{"last minute of day", time.Date(2024, 1, 15, 23, 59, 0, 0, time.Local), "2024-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodAt(tt.at); got != tt.want {
				t.Errorf("PeriodAt(%v) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}

func TestWindows(t *testing.T) {
	tests := []struct {
		hour          int
		deliveryHours bool
		paymentWindow bool
	}{
		{0, false, true},
		{4, false, true},
		{5, false, true},
		{6, true, false},
		{12, true, false},
		{23, true, false},
	}
	for _, tt := range tests {
		if got := IsDeliveryHour(tt.hour); got != tt.deliveryHours {
			t.Errorf("IsDeliveryHour(%d) = %v, want %v", tt.hour, got, tt.deliveryHours)
		}
		if got := IsPaymentWindowHour(tt.hour); got != tt.paymentWindow {
			t.Errorf("IsPaymentWindowHour(%d) = %v, want %v", tt.hour, got, tt.paymentWindow)
		}
	}
}

func TestWindowsAreDisjoint(t *testing.T) {
	for h := 0; h < 24; h++ {
		if IsDeliveryHour(h) && IsPaymentWindowHour(h) {
			t.Errorf("hour %d falls in both the delivery and payment windows", h)
		}
		if !IsDeliveryHour(h) && !IsPaymentWindowHour(h) {
			t.Errorf("hour %d falls in neither window", h)
		}
	}
}

func TestHoursUntilDeliveryOpens(t *testing.T) {
	tests := []struct {
		hour int
		want int
	}{
		{4, 2},
		{5, 1},
		{6, 0},
		{15, 0},
		{23, 0},
		{0, 6},
	}
	for _, tt := range tests {
		at := time.Date(2024, 1, 15, tt.hour, 0, 0, 0, time.Local)
		if got := HoursUntilDeliveryOpens(at); got != tt.want {
			t.Errorf("HoursUntilDeliveryOpens(hour=%d) = %d, want %d", tt.hour, got, tt.want)
		}
	}
}
