package models

import (
	"time"

	"github.com/google/uuid"
)

// Location kinds
const (
	LocationKindWarehouse = "central_warehouse"
	LocationKindStore     = "store"
)

type Location struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Kind      string    `json:"kind" db:"kind"`
	Region    *string   `json:"region" db:"region"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsWarehouse reports whether the location is a central warehouse.
func (l *Location) IsWarehouse() bool {
	return l.Kind == LocationKindWarehouse
}
