package models

import (
	"time"

	"github.com/google/uuid"
)

// DemandSignal is the daily sales velocity for one (location, item) pair.
// A missing signal means zero velocity for that pair.
type DemandSignal struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TenantID      uuid.UUID `json:"tenant_id" db:"tenant_id"`
	LocationID    uuid.UUID `json:"location_id" db:"location_id"`
	ItemID        uuid.UUID `json:"item_id" db:"item_id"`
	DailyVelocity float64   `json:"daily_velocity" db:"daily_velocity"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
