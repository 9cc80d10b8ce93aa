package repositories

import (
	"context"

	"stockflow/internal/models"

	"github.com/google/uuid"
)

// SuggestionRepository reads transfer suggestions. Writes happen through
// RunRepository.CompleteWithSuggestions so a batch is only ever visible
// under a completed run.
type SuggestionRepository interface {
	ListByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.TransferSuggestion, error)
}

type suggestionRepo struct {
	db DB
}

func NewSuggestionRepository(db DB) SuggestionRepository {
	return &suggestionRepo{db: db}
}

const insertSuggestionSQL = `
	INSERT INTO transfer_suggestions (id, run_id, tenant_id, kind, item_id, from_location_id, to_location_id,
		quantity, reason, from_cover_before, from_cover_after, to_cover_before, to_cover_after,
		priority, revenue_gain, logistics_cost, net_benefit, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

func (r *suggestionRepo) ListByRun(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.TransferSuggestion, error) {
	query := `
		SELECT id, run_id, tenant_id, kind, item_id, from_location_id, to_location_id,
		       quantity, reason, from_cover_before, from_cover_after, to_cover_before, to_cover_after,
		       priority, revenue_gain, logistics_cost, net_benefit, status, created_at
		FROM transfer_suggestions
		WHERE tenant_id = $1 AND run_id = $2
		ORDER BY kind, priority, created_at
	`
	rows, err := r.db.Query(ctx, query, tenantID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []*models.TransferSuggestion
	for rows.Next() {
		s := &models.TransferSuggestion{}
		if err := rows.Scan(
			&s.ID, &s.RunID, &s.TenantID, &s.Kind, &s.ItemID, &s.FromLocationID, &s.ToLocationID,
			&s.Quantity, &s.Reason, &s.FromCoverBefore, &s.FromCoverAfter, &s.ToCoverBefore, &s.ToCoverAfter,
			&s.Priority, &s.RevenueGain, &s.LogisticsCost, &s.NetBenefit, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}
