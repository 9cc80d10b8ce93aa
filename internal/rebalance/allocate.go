package rebalance

import (
	"fmt"
	"math"

	"stockflow/internal/models"
)

// Advisory thresholds for the allocation recommender. Recommendations top a
// store up to the target regardless of any warehouse's actual availability,
// since they are purchase/restock signals rather than committed transfers.
const (
	advisoryCoverWeeks  = 2.0
	advisoryTargetWeeks = 3.0
)

// AllocationRecommender is the single-phase advisory sibling of the push
// planner. It only looks at stores that actually hold a position row and
// never pairs locations.
type AllocationRecommender struct {
	econ Economics
}

func NewAllocationRecommender(econ Economics) *AllocationRecommender {
	return &AllocationRecommender{econ: econ}
}

// Recommend emits restock recommendations for every (store, item) position
// below the advisory cover threshold.
func (r *AllocationRecommender) Recommend(snap *Snapshot) []*models.AllocationRecommendation {
	var recs []*models.AllocationRecommendation
	for _, store := range snap.Stores {
		for _, itemID := range snap.Items {
			if !snap.HasPosition(store.ID, itemID) {
				continue
			}
			st := snap.Totals(store.ID, itemID)
			v := snap.Velocity(store.ID, itemID)
			cover := WeeksOfCover(st.Available, v)
			if cover >= advisoryCoverWeeks {
				continue
			}
			qty := int(math.Ceil((advisoryTargetWeeks - cover) * v * 7))
			if qty <= 0 {
				continue
			}

			recs = append(recs, &models.AllocationRecommendation{
				TenantID:            snap.TenantID,
				ItemID:              itemID,
				LocationID:          store.ID,
				RecommendedQty:      qty,
				OnHand:              st.OnHand,
				CurrentCoverWeeks:   cover,
				ProjectedCoverWeeks: WeeksOfCover(st.Available+qty, v),
				DailyVelocity:       v,
				Priority:            PriorityForCover(cover),
				Reason:              fmt.Sprintf("restock to %.0f weeks of cover at %s", advisoryTargetWeeks, store.Name),
				RevenuePotential:    r.econ.RevenueGain(qty, v),
				Status:              models.SuggestionStatusPending,
			})
		}
	}
	return recs
}
