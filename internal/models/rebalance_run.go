package models

import (
	"time"

	"github.com/google/uuid"
)

// Run types
const (
	RunTypeRebalance = "rebalance"
	RunTypeAllocate  = "allocate"
)

// Run statuses. A run is created as running and finalized exactly once.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RebalanceRun is the audit record for one engine invocation.
type RebalanceRun struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	TenantID           uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	RunType            string     `json:"run_type" db:"run_type"`
	RunDate            time.Time  `json:"run_date" db:"run_date"`
	Status             string     `json:"status" db:"status"`
	StartedAt          time.Time  `json:"started_at" db:"started_at"`
	CompletedAt        *time.Time `json:"completed_at" db:"completed_at"`
	TotalSuggestions   int        `json:"total_suggestions" db:"total_suggestions"`
	PushSuggestions    int        `json:"push_suggestions" db:"push_suggestions"`
	LateralSuggestions int        `json:"lateral_suggestions" db:"lateral_suggestions"`
	PushUnits          int        `json:"push_units" db:"push_units"`
	LateralUnits       int        `json:"lateral_units" db:"lateral_units"`
	TotalUnits         int        `json:"total_units" db:"total_units"`
	ErrorMessage       *string    `json:"error_message" db:"error_message"`
	TriggeredBy        *uuid.UUID `json:"triggered_by" db:"triggered_by"`
}

// RunTotals carries the aggregate counters written when a run completes.
type RunTotals struct {
	TotalSuggestions   int `json:"total_suggestions"`
	PushSuggestions    int `json:"push_suggestions"`
	LateralSuggestions int `json:"lateral_suggestions"`
	PushUnits          int `json:"push_units"`
	LateralUnits       int `json:"lateral_units"`
	TotalUnits         int `json:"total_units"`
}
