package repositories

import (
	"context"

	"stockflow/internal/models"

	"github.com/google/uuid"
)

type PositionRepository interface {
	Create(ctx context.Context, position *models.StockPosition) error
	// ListByTenant returns the full positions snapshot for a run. The engine
	// does not paginate: it expects a complete read.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.StockPosition, error)
	ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]*models.StockPosition, error)
}

type positionRepo struct {
	db DB
}

func NewPositionRepository(db DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) Create(ctx context.Context, position *models.StockPosition) error {
	query := `
		INSERT INTO stock_positions (id, tenant_id, location_id, item_id, on_hand, reserved, safety_stock, available, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, position.ID, position.TenantID, position.LocationID, position.ItemID, position.OnHand, position.Reserved, position.SafetyStock, position.Available)
	return err
}

func (r *positionRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.StockPosition, error) {
	query := `
		SELECT id, tenant_id, location_id, item_id, on_hand, reserved, safety_stock, available, updated_at
		FROM stock_positions
		WHERE tenant_id = $1
		ORDER BY location_id, item_id, id
	`
	return r.queryPositions(ctx, query, tenantID)
}

func (r *positionRepo) ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]*models.StockPosition, error) {
	query := `
		SELECT id, tenant_id, location_id, item_id, on_hand, reserved, safety_stock, available, updated_at
		FROM stock_positions
		WHERE tenant_id = $1 AND location_id = $2
		ORDER BY item_id, id
	`
	return r.queryPositions(ctx, query, tenantID, locationID)
}

func (r *positionRepo) queryPositions(ctx context.Context, query string, args ...any) ([]*models.StockPosition, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.StockPosition
	for rows.Next() {
		position := &models.StockPosition{}
		if err := rows.Scan(&position.ID, &position.TenantID, &position.LocationID, &position.ItemID, &position.OnHand, &position.Reserved, &position.SafetyStock, &position.Available, &position.UpdatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}
