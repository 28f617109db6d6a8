package settlement

import (
	"testing"
	"time"

	"grocery-delivery-api/models"
)

func deliveredAt(t time.Time) models.Order {
	return models.Order{Status: models.StatusDelivered, DeliveredAt: &t}
}

func TestForPeriodHourBoundary(t *testing.T) {
	tests := []struct {
		name       string
		delivered  time.Time
		wantCount  int
		wantIncome float64
	}{
		{"02:00 excluded despite matching date", time.Date(2024, 1, 15, 2, 0, 0, 0, time.Local), 0, 0},
		{"05:59 excluded", time.Date(2024, 1, 15, 5, 59, 0, 0, time.Local), 0, 0},
		{"06:00 included", time.Date(2024, 1, 15, 6, 0, 0, 0, time.Local), 1, 40},
		{"23:59 included", time.Date(2024, 1, 15, 23, 59, 0, 0, time.Local), 1, 40},
		{"next day excluded", time.Date(2024, 1, 16, 10, 0, 0, 0, time.Local), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForPeriod([]models.Order{deliveredAt(tt.delivered)}, "2024-01-15")
			if got.Deliveries != tt.wantCount {
				t.Errorf("deliveries = %d, want %d", got.Deliveries, tt.wantCount)
			}
			if got.Income != tt.wantIncome {
				t.Errorf("income = %v, want %v", got.Income, tt.wantIncome)
			}
		})
	}
}

func TestForPeriodRates(t *testing.T) {
	orders := []models.Order{
		deliveredAt(time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)),
		deliveredAt(time.Date(2024, 1, 15, 14, 0, 0, 0, time.Local)),
		deliveredAt(time.Date(2024, 1, 15, 22, 0, 0, 0, time.Local)),
	}
	got := ForPeriod(orders, "2024-01-15")
	if got.Deliveries != 3 {
		t.Fatalf("deliveries = %d, want 3", got.Deliveries)
	}
	if got.Income != 120 {
		t.Errorf("income = %v, want 120", got.Income)
	}
	if got.PaymentDue != 30 {
		t.Errorf("payment due = %v, want 30", got.PaymentDue)
	}
}

func TestForPeriodIgnoresUndelivered(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)
	orders := []models.Order{
		{Status: models.StatusPending},
		{Status: models.StatusAccepted, AcceptedAt: &at},
	}
	if got := ForPeriod(orders, "2024-01-15"); got.Deliveries != 0 {
		t.Errorf("deliveries = %d, want 0", got.Deliveries)
	}
}

// Monthly aggregation applies no delivery-hour filter, so a 2 AM delivery
// that the daily period figure excludes still counts here.
func TestForMonthNoHourFilter(t *testing.T) {
	orders := []models.Order{
		deliveredAt(time.Date(2024, 1, 15, 2, 0, 0, 0, time.Local)),
		deliveredAt(time.Date(2024, 1, 20, 10, 0, 0, 0, time.Local)),
		deliveredAt(time.Date(2024, 2, 1, 10, 0, 0, 0, time.Local)),
	}
	got := ForMonth(orders, "2024-01")
	if got.Deliveries != 2 {
		t.Errorf("deliveries = %d, want 2", got.Deliveries)
	}
	if got.Income != 80 {
		t.Errorf("income = %v, want 80", got.Income)
	}
}

func TestDailyHistory(t *testing.T) {
	orders := []models.Order{
		deliveredAt(time.Date(2024, 1, 15, 2, 0, 0, 0, time.Local)), // counted: history has no hour filter
		deliveredAt(time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)),
		deliveredAt(time.Date(2024, 1, 14, 12, 0, 0, 0, time.Local)),
	}
	entries := DailyHistory(orders)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Date != "2024-01-15" || entries[1].Date != "2024-01-14" {
		t.Errorf("entries not newest first: %v", entries)
	}
	if entries[0].Deliveries != 2 || entries[0].Income != 80 || entries[0].Payment != 20 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}
