package rebalance

import (
	"fmt"
	"math"
	"sort"

	"stockflow/internal/models"
)

// LateralPlanner pairs surplus stores with shortage stores directly,
// bypassing the warehouse. Unlike the push phase every pairing must clear the
// minimum net benefit gate before a suggestion is emitted.
type LateralPlanner struct {
	econ Economics
}

func NewLateralPlanner(econ Economics) *LateralPlanner {
	return &LateralPlanner{econ: econ}
}

type lateralNode struct {
	store    *models.Location
	adjusted int
	velocity float64
	cover    float64
	surplus  int
	shortage int
}

// Plan rebalances remaining imbalances store-to-store, seeing stores as they
// will look after the push phase via the adjusted ledger. Same-region sources
// are tried first; the higher cross-region freight rate further biases
// pairing toward same-region moves.
func (p *LateralPlanner) Plan(snap *Snapshot, cfg Config, ledger *AdjustedLedger) []*models.TransferSuggestion {
	if !cfg.LateralEnabled {
		return nil
	}
	if ledger == nil {
		ledger = NewAdjustedLedger()
	}

	var suggestions []*models.TransferSuggestion
	for _, itemID := range snap.Items {
		var surpluses, shortages []*lateralNode
		for _, store := range snap.Stores {
			st := snap.Totals(store.ID, itemID)
			adjusted := st.Available + ledger.Delta(store.ID, itemID)
			v := snap.Velocity(store.ID, itemID)
			cover := WeeksOfCover(adjusted, v)

			switch {
			case cover > cfg.ThresholdHighWeeks:
				surplus := adjusted - st.SafetyStock - int(math.Ceil(cfg.ThresholdHighWeeks*v*7))
				if surplus > 0 {
					surpluses = append(surpluses, &lateralNode{
						store: store, adjusted: adjusted, velocity: v, cover: cover, surplus: surplus,
					})
				}
			case cover < cfg.ThresholdLowWeeks:
				shortage := int(math.Ceil((cfg.ThresholdLowWeeks - cover) * v * 7))
				if shortage > 0 {
					shortages = append(shortages, &lateralNode{
						store: store, adjusted: adjusted, velocity: v, cover: cover, shortage: shortage,
					})
				}
			}
		}
		sort.SliceStable(shortages, func(i, j int) bool {
			return shortages[i].cover < shortages[j].cover
		})

		for _, dst := range shortages {
			for _, src := range preferredSources(dst.store, surpluses) {
				if dst.shortage <= 0 {
					break
				}
				if src.surplus <= 0 {
					continue
				}
				qty := dst.shortage
				if qty > src.surplus {
					qty = src.surplus
				}

				sameRegion := sharesRegion(src.store, dst.store)
				cost := p.econ.LateralCost(qty, sameRegion)
				revenue := p.econ.RevenueGain(qty, dst.velocity)
				net := revenue.Sub(cost)
				if net.LessThan(cfg.MinLateralNetBenefit) {
					continue
				}

				dstCover := WeeksOfCover(dst.adjusted, dst.velocity)
				suggestions = append(suggestions, &models.TransferSuggestion{
					TenantID:        snap.TenantID,
					Kind:            models.TransferKindLateral,
					ItemID:          itemID,
					FromLocationID:  src.store.ID,
					ToLocationID:    dst.store.ID,
					Quantity:        qty,
					Reason:          fmt.Sprintf("rebalance surplus at %s into shortage at %s", src.store.Name, dst.store.Name),
					FromCoverBefore: WeeksOfCover(src.adjusted, src.velocity),
					FromCoverAfter:  WeeksOfCover(src.adjusted-qty, src.velocity),
					ToCoverBefore:   dstCover,
					ToCoverAfter:    WeeksOfCover(dst.adjusted+qty, dst.velocity),
					Priority:        PriorityForCover(dstCover),
					RevenueGain:     revenue,
					LogisticsCost:   cost,
					NetBenefit:      net,
					Status:          models.SuggestionStatusPending,
				})

				src.surplus -= qty
				src.adjusted -= qty
				dst.shortage -= qty
				dst.adjusted += qty
			}
		}
	}

	return suggestions
}

// preferredSources orders surplus stores for a destination: same-region first,
// then everything else, each sublist keeping snapshot store order.
func preferredSources(dst *models.Location, surpluses []*lateralNode) []*lateralNode {
	ordered := make([]*lateralNode, 0, len(surpluses))
	for _, s := range surpluses {
		if sharesRegion(s.store, dst) {
			ordered = append(ordered, s)
		}
	}
	for _, s := range surpluses {
		if !sharesRegion(s.store, dst) {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func sharesRegion(a, b *models.Location) bool {
	return a.Region != nil && b.Region != nil && *a.Region == *b.Region
}
