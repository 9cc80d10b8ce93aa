package rebalance

import (
	"github.com/google/uuid"

	"stockflow/internal/models"
)

func testWarehouse(name string) *models.Location {
	return &models.Location{
		ID:     uuid.New(),
		Name:   name,
		Kind:   models.LocationKindWarehouse,
		Active: true,
	}
}

func testStore(name string, region string) *models.Location {
	loc := &models.Location{
		ID:     uuid.New(),
		Name:   name,
		Kind:   models.LocationKindStore,
		Active: true,
	}
	if region != "" {
		loc.Region = &region
	}
	return loc
}

func testPosition(loc *models.Location, itemID uuid.UUID, onHand, reserved, safety int) *models.StockPosition {
	return &models.StockPosition{
		ID:          uuid.New(),
		LocationID:  loc.ID,
		ItemID:      itemID,
		OnHand:      onHand,
		Reserved:    reserved,
		SafetyStock: safety,
	}
}

func testSignal(loc *models.Location, itemID uuid.UUID, velocity float64) *models.DemandSignal {
	return &models.DemandSignal{
		ID:            uuid.New(),
		LocationID:    loc.ID,
		ItemID:        itemID,
		DailyVelocity: velocity,
	}
}
