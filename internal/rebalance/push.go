package rebalance

import (
	"fmt"
	"math"
	"sort"

	"stockflow/internal/models"
)

// PushPlanner computes warehouse-to-store transfers for every item a central
// warehouse can source, filling the most understocked stores first.
type PushPlanner struct {
	econ Economics
}

func NewPushPlanner(econ Economics) *PushPlanner {
	return &PushPlanner{econ: econ}
}

type shortageCandidate struct {
	store    *models.Location
	onHand   int
	velocity float64
	cover    float64
}

// Plan walks every (warehouse, item) pair, pushes stock to stores below the
// minimum cover threshold, and returns the suggestions together with the
// ledger of tentative allocations for the lateral phase. Push suggestions are
// not net-benefit gated: shortage remediation up to the minimum cover is
// treated as unconditionally worth doing.
func (p *PushPlanner) Plan(snap *Snapshot, cfg Config) ([]*models.TransferSuggestion, *AdjustedLedger) {
	ledger := NewAdjustedLedger()
	var suggestions []*models.TransferSuggestion

	for _, wh := range snap.Warehouses {
		for _, itemID := range snap.Items {
			totals := snap.Totals(wh.ID, itemID)
			availableToPush := totals.OnHand - totals.Reserved - totals.SafetyStock
			if availableToPush <= 0 {
				continue
			}
			whVelocity := snap.Velocity(wh.ID, itemID)
			whOnHand := totals.Available

			var shortages []shortageCandidate
			for _, store := range snap.Stores {
				st := snap.Totals(store.ID, itemID)
				adjusted := st.Available + ledger.Delta(store.ID, itemID)
				v := snap.Velocity(store.ID, itemID)
				cover := WeeksOfCover(adjusted, v)
				if cover < cfg.MinCoverWeeks {
					shortages = append(shortages, shortageCandidate{
						store:    store,
						onHand:   adjusted,
						velocity: v,
						cover:    cover,
					})
				}
			}
			// Most urgent first; stable so equal covers keep input order.
			sort.SliceStable(shortages, func(i, j int) bool {
				return shortages[i].cover < shortages[j].cover
			})

			for _, sh := range shortages {
				if availableToPush <= 0 {
					break
				}
				desired := int(math.Ceil((cfg.MinCoverWeeks - sh.cover) * sh.velocity * 7))
				qty := desired
				if qty > availableToPush {
					qty = availableToPush
				}
				if qty <= 0 {
					continue
				}

				revenue := p.econ.RevenueGain(qty, sh.velocity)
				cost := p.econ.PushCost(qty)
				suggestions = append(suggestions, &models.TransferSuggestion{
					TenantID:        snap.TenantID,
					Kind:            models.TransferKindPush,
					ItemID:          itemID,
					FromLocationID:  wh.ID,
					ToLocationID:    sh.store.ID,
					Quantity:        qty,
					Reason:          fmt.Sprintf("store cover %.1f weeks below minimum %.1f weeks", sh.cover, cfg.MinCoverWeeks),
					FromCoverBefore: WeeksOfCover(whOnHand, whVelocity),
					FromCoverAfter:  WeeksOfCover(whOnHand-qty, whVelocity),
					ToCoverBefore:   sh.cover,
					ToCoverAfter:    WeeksOfCover(sh.onHand+qty, sh.velocity),
					Priority:        PriorityForCover(sh.cover),
					RevenueGain:     revenue,
					LogisticsCost:   cost,
					NetBenefit:      revenue.Sub(cost),
					Status:          models.SuggestionStatusPending,
				})

				availableToPush -= qty
				whOnHand -= qty
				ledger.Add(sh.store.ID, itemID, qty)
			}
		}
	}

	return suggestions, ledger
}
