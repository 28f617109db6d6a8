// Package settlement derives per-agent income and payment-due figures
// from delivered orders.
package settlement

import (
	"sort"

	"grocery-delivery-api/models"
	"grocery-delivery-api/period"
)

const (
	// What the agent earns per completed delivery.
	IncomePerDelivery = 40
	// The platform's cut the agent owes back per completed delivery.
	PaymentPerDelivery = 10
)

// PeriodSummary is the agent's current-period earnings view.
type PeriodSummary struct {
	Period     string  `json:"period"`
	Deliveries int     `json:"deliveries"`
	Income     float64 `json:"income"`
	PaymentDue float64 `json:"payment_due"`
}

// MonthlySummary aggregates across a calendar month.
type MonthlySummary struct {
	Month      string  `json:"month"` // YYYY-MM
	Deliveries int     `json:"deliveries"`
	Income     float64 `json:"income"`
}

// DailyEntry is one row of the agent's delivery history.
type DailyEntry struct {
	Date       string  `json:"date"`
	Deliveries int     `json:"deliveries"`
	Income     float64 `json:"income"`
	Payment    float64 `json:"payment"`
}

// CountsForPeriod reports whether a delivered order belongs to the given
// settlement period: its delivery date must match and the delivery must
// have happened during delivery hours. An order delivered between
// midnight and 5:59 AM counts toward neither that day's period nor the
// previous day's (already closed) one.
func CountsForPeriod(o models.Order, p string) bool {
	if o.Status != models.StatusDelivered || o.DeliveredAt == nil {
		return false
	}
	return period.PeriodAt(*o.DeliveredAt) == p && o.DeliveredAt.Hour() >= period.DeliveryStartHour
}

// ForPeriod computes the income and payment due for one period from an
// agent's delivered orders.
func ForPeriod(orders []models.Order, p string) PeriodSummary {
	n := 0
	for _, o := range orders {
		if CountsForPeriod(o, p) {
			n++
		}
	}
	return PeriodSummary{
		Period:     p,
		Deliveries: n,
		Income:     float64(n * IncomePerDelivery),
		PaymentDue: float64(n * PaymentPerDelivery),
	}
}

// ForMonth aggregates delivered orders over a calendar month (YYYY-MM).
// Unlike the per-period figure this applies no delivery-hour filter; the
// divergence matches the daily history below and is deliberate.
func ForMonth(orders []models.Order, month string) MonthlySummary {
	n := 0
	for _, o := range orders {
		if o.Status != models.StatusDelivered || o.DeliveredAt == nil {
			continue
		}
		if o.DeliveredAt.Format("2006-01") == month {
			n++
		}
	}
	return MonthlySummary{
		Month:      month,
		Deliveries: n,
		Income:     float64(n * IncomePerDelivery),
	}
}

// DailyHistory buckets delivered orders by calendar date, newest date
// first. No delivery-hour filter is applied here either.
func DailyHistory(orders []models.Order) []DailyEntry {
	byDate := map[string]int{}
	for _, o := range orders {
		if o.Status != models.StatusDelivered || o.DeliveredAt == nil {
			continue
		}
		byDate[period.PeriodAt(*o.DeliveredAt)]++
	}

	entries := make([]DailyEntry, 0, len(byDate))
	for date, n := range byDate {
		entries = append(entries, DailyEntry{
			Date:       date,
			Deliveries: n,
			Income:     float64(n * IncomePerDelivery),
			Payment:    float64(n * PaymentPerDelivery),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries
}
