package rebalance

import (
	"sort"

	"github.com/google/uuid"

	"stockflow/internal/models"
)

// PositionTotals is the summed stock for one (location, item) pair. Multiple
// position rows per pair are aggregated before any planning math runs.
type PositionTotals struct {
	OnHand      int
	Reserved    int
	SafetyStock int
	Available   int
}

// Snapshot is the in-memory read of all tenant inputs taken once at the start
// of a run. All planning is a pure transformation over a snapshot; nothing is
// re-read mid-run.
type Snapshot struct {
	TenantID   uuid.UUID
	Warehouses []*models.Location
	Stores     []*models.Location
	// Items is every item with at least one position row, sorted for
	// deterministic iteration.
	Items []uuid.UUID

	positions map[string]*PositionTotals
	velocity  map[string]float64
}

func pairKey(locationID, itemID uuid.UUID) string {
	return locationID.String() + ":" + itemID.String()
}

// BuildSnapshot aggregates the four record sets into a planning snapshot.
// Inactive locations are expected to be filtered out by the caller's query.
func BuildSnapshot(tenantID uuid.UUID, locations []*models.Location, positions []*models.StockPosition, signals []*models.DemandSignal) *Snapshot {
	snap := &Snapshot{
		TenantID:  tenantID,
		positions: make(map[string]*PositionTotals),
		velocity:  make(map[string]float64),
	}

	for _, loc := range locations {
		if !loc.Active {
			continue
		}
		if loc.IsWarehouse() {
			snap.Warehouses = append(snap.Warehouses, loc)
		} else {
			snap.Stores = append(snap.Stores, loc)
		}
	}

	seen := make(map[uuid.UUID]bool)
	for _, p := range positions {
		key := pairKey(p.LocationID, p.ItemID)
		totals, ok := snap.positions[key]
		if !ok {
			totals = &PositionTotals{}
			snap.positions[key] = totals
		}
		totals.OnHand += p.OnHand
		totals.Reserved += p.Reserved
		totals.SafetyStock += p.SafetyStock
		totals.Available += p.AvailableQty()

		if !seen[p.ItemID] {
			seen[p.ItemID] = true
			snap.Items = append(snap.Items, p.ItemID)
		}
	}
	sort.Slice(snap.Items, func(i, j int) bool {
		return snap.Items[i].String() < snap.Items[j].String()
	})

	for _, s := range signals {
		snap.velocity[pairKey(s.LocationID, s.ItemID)] = s.DailyVelocity
	}

	return snap
}

// Totals returns the aggregated position for a pair. A location with no
// position row at all yields zero totals, which the planners treat as a
// shortage candidate.
func (s *Snapshot) Totals(locationID, itemID uuid.UUID) PositionTotals {
	if t, ok := s.positions[pairKey(locationID, itemID)]; ok {
		return *t
	}
	return PositionTotals{}
}

// HasPosition reports whether any position row exists for the pair.
func (s *Snapshot) HasPosition(locationID, itemID uuid.UUID) bool {
	_, ok := s.positions[pairKey(locationID, itemID)]
	return ok
}

// Velocity returns the daily sales velocity for a pair, zero when no demand
// signal exists.
func (s *Snapshot) Velocity(locationID, itemID uuid.UUID) float64 {
	return s.velocity[pairKey(locationID, itemID)]
}

// Empty reports whether the snapshot has nothing to plan over.
func (s *Snapshot) Empty() bool {
	return (len(s.Warehouses) == 0 && len(s.Stores) == 0) || len(s.positions) == 0
}
