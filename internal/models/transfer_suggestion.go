package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer kinds
const (
	TransferKindPush    = "push"
	TransferKindLateral = "lateral"
)

// Priority tiers for suggestions and recommendations
const (
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
)

// Suggestion statuses. Suggestions are immutable once created; status is
// advanced later by the external approval workflow.
const (
	SuggestionStatusPending = "pending"
)

// TransferSuggestion is one proposed stock move emitted by a rebalance run.
type TransferSuggestion struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	RunID            uuid.UUID       `json:"run_id" db:"run_id"`
	TenantID         uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Kind             string          `json:"kind" db:"kind"`
	ItemID           uuid.UUID       `json:"item_id" db:"item_id"`
	FromLocationID   uuid.UUID       `json:"from_location_id" db:"from_location_id"`
	ToLocationID     uuid.UUID       `json:"to_location_id" db:"to_location_id"`
	Quantity         int             `json:"quantity" db:"quantity"`
	Reason           string          `json:"reason" db:"reason"`
	FromCoverBefore  float64         `json:"from_cover_before" db:"from_cover_before"`
	FromCoverAfter   float64         `json:"from_cover_after" db:"from_cover_after"`
	ToCoverBefore    float64         `json:"to_cover_before" db:"to_cover_before"`
	ToCoverAfter     float64         `json:"to_cover_after" db:"to_cover_after"`
	Priority         string          `json:"priority" db:"priority"`
	RevenueGain      decimal.Decimal `json:"revenue_gain" db:"revenue_gain"`
	LogisticsCost    decimal.Decimal `json:"logistics_cost" db:"logistics_cost"`
	NetBenefit       decimal.Decimal `json:"net_benefit" db:"net_benefit"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}
