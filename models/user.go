package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAgent    UserRole = "agent"
	RoleAdmin    UserRole = "admin"
)

// MatchStatus is the admin's verdict on an agent's submitted settlement.
// Empty string means no verdict yet (claim pending, or no claim at all).
type MatchStatus string

const (
	MatchStatusMatched    MatchStatus = "matched"
	MatchStatusNotMatched MatchStatus = "not_matched"
)

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;default:'customer'"`
	Phone        string   `json:"phone"`
	Verified     bool     `json:"verified" gorm:"default:false"`

	// Shared customer/agent field: current operating zone. Customers order
	// into it, agents only see pending orders matching it.
	Location string `json:"location"`

	// Customer convenience: last used delivery address, prefilled at checkout.
	DeliveryAddress string `json:"delivery_address"`

	// Agent-only fields. TransactionID, MatchStatus and LastPaymentPeriod
	// together are the single pending-settlement slot: they are only
	// meaningful while LastPaymentPeriod equals the current period.
	IsPaidAgent       bool        `json:"is_paid_agent" gorm:"default:false"`
	Rating            float64     `json:"rating" gorm:"default:0"`
	TotalRatings      int         `json:"total_ratings" gorm:"default:0"`
	TransactionID     string      `json:"transaction_id"`
	MatchStatus       MatchStatus `json:"match_status"`
	LastPaymentPeriod string      `json:"last_payment_period"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
