package repositories

import (
	"context"

	"stockflow/internal/models"

	"github.com/google/uuid"
)

type DemandRepository interface {
	Upsert(ctx context.Context, signal *models.DemandSignal) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.DemandSignal, error)
}

type demandRepo struct {
	db DB
}

func NewDemandRepository(db DB) DemandRepository {
	return &demandRepo{db: db}
}

func (r *demandRepo) Upsert(ctx context.Context, signal *models.DemandSignal) error {
	query := `
		INSERT INTO demand_signals (id, tenant_id, location_id, item_id, daily_velocity, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (tenant_id, location_id, item_id) DO UPDATE SET daily_velocity = EXCLUDED.daily_velocity, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, signal.ID, signal.TenantID, signal.LocationID, signal.ItemID, signal.DailyVelocity)
	return err
}

func (r *demandRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.DemandSignal, error) {
	query := `
		SELECT id, tenant_id, location_id, item_id, daily_velocity, updated_at
		FROM demand_signals
		WHERE tenant_id = $1
		ORDER BY location_id, item_id
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []*models.DemandSignal
	for rows.Next() {
		signal := &models.DemandSignal{}
		if err := rows.Scan(&signal.ID, &signal.TenantID, &signal.LocationID, &signal.ItemID, &signal.DailyVelocity, &signal.UpdatedAt); err != nil {
			return nil, err
		}
		signals = append(signals, signal)
	}
	return signals, rows.Err()
}
