package repositories

import (
	"context"

	"stockflow/internal/models"

	"github.com/google/uuid"
)

type ConstraintRepository interface {
	Upsert(ctx context.Context, constraint *models.Constraint) error
	// ListActive returns only the constraints that currently apply; inactive
	// rows fall back to the engine defaults.
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error)
}

type constraintRepo struct {
	db DB
}

func NewConstraintRepository(db DB) ConstraintRepository {
	return &constraintRepo{db: db}
}

func (r *constraintRepo) Upsert(ctx context.Context, constraint *models.Constraint) error {
	query := `
		INSERT INTO rebalance_constraints (id, tenant_id, name, value, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (tenant_id, name) DO UPDATE SET value = EXCLUDED.value, active = EXCLUDED.active, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, constraint.ID, constraint.TenantID, constraint.Name, constraint.Value, constraint.Active)
	return err
}

func (r *constraintRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error) {
	query := `
		SELECT id, tenant_id, name, value, active, created_at, updated_at
		FROM rebalance_constraints
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY name
	`
	return r.queryConstraints(ctx, query, tenantID)
}

func (r *constraintRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error) {
	query := `
		SELECT id, tenant_id, name, value, active, created_at, updated_at
		FROM rebalance_constraints
		WHERE tenant_id = $1
		ORDER BY name
	`
	return r.queryConstraints(ctx, query, tenantID)
}

func (r *constraintRepo) queryConstraints(ctx context.Context, query string, args ...any) ([]*models.Constraint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constraints []*models.Constraint
	for rows.Next() {
		constraint := &models.Constraint{}
		if err := rows.Scan(&constraint.ID, &constraint.TenantID, &constraint.Name, &constraint.Value, &constraint.Active, &constraint.CreatedAt, &constraint.UpdatedAt); err != nil {
			return nil, err
		}
		constraints = append(constraints, constraint)
	}
	return constraints, rows.Err()
}
