package models

import (
	"time"

	"github.com/google/uuid"
)

// StockPosition is one batch of an item held at a location. Several rows may
// exist for the same (location, item) pair; callers aggregate by summation.
type StockPosition struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TenantID    uuid.UUID `json:"tenant_id" db:"tenant_id"`
	LocationID  uuid.UUID `json:"location_id" db:"location_id"`
	ItemID      uuid.UUID `json:"item_id" db:"item_id"`
	OnHand      int       `json:"on_hand" db:"on_hand"`
	Reserved    int       `json:"reserved" db:"reserved"`
	SafetyStock int       `json:"safety_stock" db:"safety_stock"`
	Available   *int      `json:"available" db:"available"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// AvailableQty returns the transferable quantity for this row. Safety stock
// is handled separately by the planners.
func (p *StockPosition) AvailableQty() int {
	if p.Available != nil {
		return *p.Available
	}
	return p.OnHand - p.Reserved
}
