package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known constraint names
const (
	ConstraintMinCoverWeeks        = "min_cover_weeks"
	ConstraintLateralEnabled       = "lateral_enabled"
	ConstraintMinLateralNetBenefit = "min_lateral_net_benefit"
	ConstraintThresholdHighWeeks   = "threshold_high_weeks"
	ConstraintThresholdLowWeeks    = "threshold_low_weeks"
)

// Constraint is a named tenant-level tunable. Values are stored as text and
// decoded into a typed rebalance config; only active constraints apply.
type Constraint struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Value     string    `json:"value" db:"value"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
