package models

import "time"

// ClaimStatus tracks a settlement claim through verification
type ClaimStatus string

const (
	ClaimPending    ClaimStatus = "pending"
	ClaimMatched    ClaimStatus = "matched"
	ClaimNotMatched ClaimStatus = "not_matched"
)

// SettlementClaim is an append-only record of an agent submitting a
// payment reference for a delivery period. The live single-slot fields on
// User drive the agent-facing state; these rows keep the history the slot
// loses when it is cleared on a matched verdict.
type SettlementClaim struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	AgentID       uint        `json:"agent_id" gorm:"not null;index:idx_claim_agent_period"`
	AgentName     string      `json:"agent_name"`
	Period        string      `json:"period" gorm:"not null;index:idx_claim_agent_period"` // YYYY-MM-DD
	TransactionID string      `json:"transaction_id" gorm:"not null"`
	Amount        float64     `json:"amount"`
	Status        ClaimStatus `json:"status" gorm:"not null;default:'pending'"`
	ResolvedAt    *time.Time  `json:"resolved_at"`
	CreatedAt     time.Time   `json:"created_at"`
}
