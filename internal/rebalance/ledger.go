package rebalance

import "github.com/google/uuid"

// AdjustedLedger tracks planned but uncommitted stock deltas. The push phase
// records its tentative allocations here so the lateral phase sees stores as
// they will look after the pushes land, without anything having been written
// to inventory.
type AdjustedLedger struct {
	deltas map[string]int
}

func NewAdjustedLedger() *AdjustedLedger {
	return &AdjustedLedger{deltas: make(map[string]int)}
}

// Add records a planned inbound quantity for the pair.
func (l *AdjustedLedger) Add(locationID, itemID uuid.UUID, qty int) {
	l.deltas[pairKey(locationID, itemID)] += qty
}

// Delta returns the net planned quantity for the pair, zero when untouched.
func (l *AdjustedLedger) Delta(locationID, itemID uuid.UUID) int {
	return l.deltas[pairKey(locationID, itemID)]
}
