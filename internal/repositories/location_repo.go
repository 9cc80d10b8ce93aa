package repositories

import (
	"context"

	"stockflow/internal/models"

	"github.com/google/uuid"
)

type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	// ListActive returns every active location for the tenant in a stable
	// name order, which the planners rely on for deterministic output.
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*models.Location, error)
}

type locationRepo struct {
	db DB
}

func NewLocationRepository(db DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (id, tenant_id, name, kind, region, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, location.ID, location.TenantID, location.Name, location.Kind, location.Region, location.Active)
	return err
}

func (r *locationRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Location, error) {
	location := &models.Location{}
	query := `
		SELECT id, tenant_id, name, kind, region, active, created_at, updated_at
		FROM locations
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&location.ID, &location.TenantID, &location.Name, &location.Kind, &location.Region, &location.Active, &location.CreatedAt, &location.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (r *locationRepo) Update(ctx context.Context, location *models.Location) error {
	query := `
		UPDATE locations
		SET name = $1, kind = $2, region = $3, active = $4, updated_at = NOW()
		WHERE tenant_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, location.Name, location.Kind, location.Region, location.Active, location.TenantID, location.ID)
	return err
}

func (r *locationRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*models.Location, error) {
	query := `
		SELECT id, tenant_id, name, kind, region, active, created_at, updated_at
		FROM locations
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY name, id
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		location := &models.Location{}
		if err := rows.Scan(&location.ID, &location.TenantID, &location.Name, &location.Kind, &location.Region, &location.Active, &location.CreatedAt, &location.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}
