package repositories

import (
	"context"

	"stockflow/internal/models"

	"github.com/google/uuid"
)

// RecommendationRepository reads allocation recommendations. Writes happen
// through RunRepository.CompleteWithRecommendations.
type RecommendationRepository interface {
	ListByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.AllocationRecommendation, error)
}

type recommendationRepo struct {
	db DB
}

func NewRecommendationRepository(db DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

const insertRecommendationSQL = `
	INSERT INTO allocation_recommendations (id, run_id, tenant_id, item_id, location_id, recommended_qty,
		on_hand, current_cover_weeks, projected_cover_weeks, daily_velocity,
		priority, reason, revenue_potential, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

func (r *recommendationRepo) ListByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.AllocationRecommendation, error) {
	query := `
		SELECT id, run_id, tenant_id, item_id, location_id, recommended_qty,
		       on_hand, current_cover_weeks, projected_cover_weeks, daily_velocity,
		       priority, reason, revenue_potential, status, created_at
		FROM allocation_recommendations
		WHERE tenant_id = $1 AND run_id = $2
		ORDER BY priority, recommended_qty DESC
	`
	rows, err := r.db.Query(ctx, query, tenantID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recommendations []*models.AllocationRecommendation
	for rows.Next() {
		rec := &models.AllocationRecommendation{}
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.TenantID, &rec.ItemID, &rec.LocationID, &rec.RecommendedQty,
			&rec.OnHand, &rec.CurrentCoverWeeks, &rec.ProjectedCoverWeeks, &rec.DailyVelocity,
			&rec.Priority, &rec.Reason, &rec.RevenuePotential, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations, rows.Err()
}
