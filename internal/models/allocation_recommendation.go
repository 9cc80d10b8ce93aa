package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRecommendation is an advisory central-to-store restock signal
// emitted by an allocate run. Unlike transfer suggestions it commits nothing.
type AllocationRecommendation struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	RunID               uuid.UUID       `json:"run_id" db:"run_id"`
	TenantID            uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	ItemID              uuid.UUID       `json:"item_id" db:"item_id"`
	LocationID          uuid.UUID       `json:"location_id" db:"location_id"`
	RecommendedQty      int             `json:"recommended_qty" db:"recommended_qty"`
	OnHand              int             `json:"on_hand" db:"on_hand"`
	CurrentCoverWeeks   float64         `json:"current_cover_weeks" db:"current_cover_weeks"`
	ProjectedCoverWeeks float64         `json:"projected_cover_weeks" db:"projected_cover_weeks"`
	DailyVelocity       float64         `json:"daily_velocity" db:"daily_velocity"`
	Priority            string          `json:"priority" db:"priority"`
	Reason              string          `json:"reason" db:"reason"`
	RevenuePotential    decimal.Decimal `json:"revenue_potential" db:"revenue_potential"`
	Status              string          `json:"status" db:"status"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}
