package repositories

import (
	"context"
	"fmt"

	"stockflow/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RunRepository interface {
	// Create inserts the run in its initial running state.
	Create(ctx context.Context, run *models.RebalanceRun) error
	// CompleteWithSuggestions writes the suggestion batch and flips the run
	// to completed in one transaction. Suggestions are never visible under a
	// run that is not finalized; an empty batch still finalizes the run.
	CompleteWithSuggestions(ctx context.Context, tenantID, id uuid.UUID, totals models.RunTotals, suggestions []*models.TransferSuggestion) error
	// CompleteWithRecommendations is the allocate-run counterpart.
	CompleteWithRecommendations(ctx context.Context, tenantID, id uuid.UUID, totals models.RunTotals, recommendations []*models.AllocationRecommendation) error
	// MarkFailed finalizes a failed run with the captured error message.
	MarkFailed(ctx context.Context, tenantID, id uuid.UUID, errorMessage string) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RebalanceRun, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RebalanceRun, error)
}

type runRepo struct {
	db DB
}

func NewRunRepository(db DB) RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Create(ctx context.Context, run *models.RebalanceRun) error {
	query := `
		INSERT INTO rebalance_runs (id, tenant_id, run_type, run_date, status, started_at, triggered_by)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
	`
	_, err := r.db.Exec(ctx, query, run.ID, run.TenantID, run.RunType, run.RunDate, run.Status, run.TriggeredBy)
	return err
}

const completeRunSQL = `
	UPDATE rebalance_runs
	SET status = $1, completed_at = NOW(),
	    total_suggestions = $2, push_suggestions = $3, lateral_suggestions = $4,
	    push_units = $5, lateral_units = $6, total_units = $7
	WHERE tenant_id = $8 AND id = $9 AND status = $10
`

func (r *runRepo) CompleteWithSuggestions(ctx context.Context, tenantID, id uuid.UUID, totals models.RunTotals, suggestions []*models.TransferSuggestion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin run completion: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(suggestions) > 0 {
		batch := &pgx.Batch{}
		for _, s := range suggestions {
			batch.Queue(insertSuggestionSQL,
				s.ID, s.RunID, s.TenantID, s.Kind, s.ItemID, s.FromLocationID, s.ToLocationID,
				s.Quantity, s.Reason, s.FromCoverBefore, s.FromCoverAfter, s.ToCoverBefore, s.ToCoverAfter,
				s.Priority, s.RevenueGain, s.LogisticsCost, s.NetBenefit, s.Status, s.CreatedAt)
		}
		if err := sendBatch(ctx, tx, batch, "insert transfer suggestion"); err != nil {
			return err
		}
	}

	if err := completeRun(ctx, tx, tenantID, id, totals); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *runRepo) CompleteWithRecommendations(ctx context.Context, tenantID, id uuid.UUID, totals models.RunTotals, recommendations []*models.AllocationRecommendation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin run completion: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(recommendations) > 0 {
		batch := &pgx.Batch{}
		for _, rec := range recommendations {
			batch.Queue(insertRecommendationSQL,
				rec.ID, rec.RunID, rec.TenantID, rec.ItemID, rec.LocationID, rec.RecommendedQty,
				rec.OnHand, rec.CurrentCoverWeeks, rec.ProjectedCoverWeeks, rec.DailyVelocity,
				rec.Priority, rec.Reason, rec.RevenuePotential, rec.Status, rec.CreatedAt)
		}
		if err := sendBatch(ctx, tx, batch, "insert allocation recommendation"); err != nil {
			return err
		}
	}

	if err := completeRun(ctx, tx, tenantID, id, totals); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func completeRun(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, totals models.RunTotals) error {
	tag, err := tx.Exec(ctx, completeRunSQL, models.RunStatusCompleted,
		totals.TotalSuggestions, totals.PushSuggestions, totals.LateralSuggestions,
		totals.PushUnits, totals.LateralUnits, totals.TotalUnits,
		tenantID, id, models.RunStatusRunning)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete run: run %s is not running", id)
	}
	return nil
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, opName string) error {
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("%s: %w", opName, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("%s: close batch: %w", opName, err)
	}
	return nil
}

func (r *runRepo) MarkFailed(ctx context.Context, tenantID, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE rebalance_runs
		SET status = $1, completed_at = NOW(), error_message = $2
		WHERE tenant_id = $3 AND id = $4 AND status = $5
	`
	_, err := r.db.Exec(ctx, query, models.RunStatusFailed, errorMessage, tenantID, id, models.RunStatusRunning)
	return err
}

func (r *runRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RebalanceRun, error) {
	run := &models.RebalanceRun{}
	query := `
		SELECT id, tenant_id, run_type, run_date, status, started_at, completed_at,
		       total_suggestions, push_suggestions, lateral_suggestions,
		       push_units, lateral_units, total_units, error_message, triggered_by
		FROM rebalance_runs
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&run.ID, &run.TenantID, &run.RunType, &run.RunDate, &run.Status, &run.StartedAt, &run.CompletedAt,
		&run.TotalSuggestions, &run.PushSuggestions, &run.LateralSuggestions,
		&run.PushUnits, &run.LateralUnits, &run.TotalUnits, &run.ErrorMessage, &run.TriggeredBy)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *runRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RebalanceRun, error) {
	query := `
		SELECT id, tenant_id, run_type, run_date, status, started_at, completed_at,
		       total_suggestions, push_suggestions, lateral_suggestions,
		       push_units, lateral_units, total_units, error_message, triggered_by
		FROM rebalance_runs
		WHERE tenant_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.RebalanceRun
	for rows.Next() {
		run := &models.RebalanceRun{}
		if err := rows.Scan(
			&run.ID, &run.TenantID, &run.RunType, &run.RunDate, &run.Status, &run.StartedAt, &run.CompletedAt,
			&run.TotalSuggestions, &run.PushSuggestions, &run.LateralSuggestions,
			&run.PushUnits, &run.LateralUnits, &run.TotalUnits, &run.ErrorMessage, &run.TriggeredBy); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
