package jobs

import (
	"context"
	"log"

	"github.com/google/uuid"

	"stockflow/internal/models"
	"stockflow/internal/rebalance"
	"stockflow/internal/repositories"
)

// CoverageAlertService scans store positions for low weeks-of-cover between
// runs. It only logs; the actual replenishment is the planner's job.
type CoverageAlertService struct {
	locationRepo repositories.LocationRepository
	positionRepo repositories.PositionRepository
	demandRepo   repositories.DemandRepository
}

type CoverageAlert struct {
	TenantID   uuid.UUID
	LocationID uuid.UUID
	ItemID     uuid.UUID
	OnHand     int
	CoverWeeks float64
	Priority   string
}

func NewCoverageAlertService(locationRepo repositories.LocationRepository, positionRepo repositories.PositionRepository, demandRepo repositories.DemandRepository) *CoverageAlertService {
	return &CoverageAlertService{
		locationRepo: locationRepo,
		positionRepo: positionRepo,
		demandRepo:   demandRepo,
	}
}

// CheckLowCover returns one alert per store position whose cover is below
// minCoverWeeks. Zero-velocity positions never alert.
func (a *CoverageAlertService) CheckLowCover(ctx context.Context, tenantID uuid.UUID, minCoverWeeks float64) ([]CoverageAlert, error) {
	if minCoverWeeks <= 0 {
		minCoverWeeks = rebalance.DefaultConfig().MinCoverWeeks
	}

	locations, err := a.locationRepo.ListActive(ctx, tenantID)
	if err != nil {
		log.Printf("Failed to list locations for tenant %s: %v", tenantID, err)
		return nil, err
	}
	positions, err := a.positionRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		log.Printf("Failed to list positions for tenant %s: %v", tenantID, err)
		return nil, err
	}
	signals, err := a.demandRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		log.Printf("Failed to list demand signals for tenant %s: %v", tenantID, err)
		return nil, err
	}

	snap := rebalance.BuildSnapshot(tenantID, locations, positions, signals)

	var alerts []CoverageAlert
	for _, store := range snap.Stores {
		for _, itemID := range snap.Items {
			if !snap.HasPosition(store.ID, itemID) {
				continue
			}
			velocity := snap.Velocity(store.ID, itemID)
			if velocity <= 0 {
				continue
			}
			totals := snap.Totals(store.ID, itemID)
			cover := rebalance.WeeksOfCover(totals.Available, velocity)
			if cover >= minCoverWeeks {
				continue
			}
			alerts = append(alerts, CoverageAlert{
				TenantID:   tenantID,
				LocationID: store.ID,
				ItemID:     itemID,
				OnHand:     totals.OnHand,
				CoverWeeks: cover,
				Priority:   rebalance.PriorityForCover(cover),
			})
		}
	}
	return alerts, nil
}

func (a *CoverageAlertService) LogLowCoverAlerts(ctx context.Context, alerts []CoverageAlert) {
	if len(alerts) == 0 {
		log.Println("No low cover alerts to log")
		return
	}

	log.Printf("Low cover alerts for tenant %s:", alerts[0].TenantID)
	for _, alert := range alerts {
		log.Printf("- [%s] item %s at store %s has %.1f weeks of cover (%d on hand)",
			alert.Priority, alert.ItemID, alert.LocationID, alert.CoverWeeks, alert.OnHand)
	}
}

func filterPriority(alerts []CoverageAlert, priority string) []CoverageAlert {
	var out []CoverageAlert
	for _, alert := range alerts {
		if alert.Priority == priority {
			out = append(out, alert)
		}
	}
	return out
}

// CriticalAlerts returns only the stockout-imminent tier.
func CriticalAlerts(alerts []CoverageAlert) []CoverageAlert {
	return filterPriority(alerts, models.PriorityP1)
}
