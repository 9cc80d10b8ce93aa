package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"stockflow/internal/caching"
	"stockflow/internal/models"
	"stockflow/internal/rebalance"
	"stockflow/internal/repositories"
)

const configCacheTTL = 5 * time.Minute

// RunSummary is what a rebalance invocation returns to the caller. Full
// suggestion rows are fetched separately through the run endpoints.
type RunSummary struct {
	RunID              uuid.UUID `json:"run_id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	RunType            string    `json:"run_type"`
	Status             string    `json:"status"`
	TotalSuggestions   int       `json:"total_suggestions"`
	PushSuggestions    int       `json:"push_suggestions"`
	LateralSuggestions int       `json:"lateral_suggestions"`
	PushUnits          int       `json:"push_units"`
	LateralUnits       int       `json:"lateral_units"`
	TotalUnits         int       `json:"total_units"`
}

// AllocationSummary is the result of an advisory allocate invocation.
type AllocationSummary struct {
	RunID           uuid.UUID `json:"run_id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	RunType         string    `json:"run_type"`
	Status          string    `json:"status"`
	Recommendations int       `json:"recommendations"`
	TotalUnits      int       `json:"total_units"`
}

type RebalanceService interface {
	// Rebalance runs the two-phase planner and persists the run and its
	// suggestion batch. A computation or persistence error marks the run
	// failed and is returned to the caller.
	Rebalance(ctx context.Context, tenantID uuid.UUID, triggeredBy *uuid.UUID) (*RunSummary, error)
	// Allocate runs the advisory recommender under its own run record.
	Allocate(ctx context.Context, tenantID uuid.UUID, triggeredBy *uuid.UUID) (*AllocationSummary, error)

	GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*models.RebalanceRun, error)
	ListRuns(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RebalanceRun, error)
	ListSuggestions(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.TransferSuggestion, error)
	ListRecommendations(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.AllocationRecommendation, error)
}

type rebalanceService struct {
	engine          *rebalance.Engine
	runRepo         repositories.RunRepository
	locationRepo    repositories.LocationRepository
	positionRepo    repositories.PositionRepository
	demandRepo      repositories.DemandRepository
	constraintRepo  repositories.ConstraintRepository
	suggestionRepo  repositories.SuggestionRepository
	recommendRepo   repositories.RecommendationRepository
	cache           caching.CacheService
}

func NewRebalanceService(
	engine *rebalance.Engine,
	runRepo repositories.RunRepository,
	locationRepo repositories.LocationRepository,
	positionRepo repositories.PositionRepository,
	demandRepo repositories.DemandRepository,
	constraintRepo repositories.ConstraintRepository,
	suggestionRepo repositories.SuggestionRepository,
	recommendRepo repositories.RecommendationRepository,
	cache caching.CacheService,
) RebalanceService {
	return &rebalanceService{
		engine:         engine,
		runRepo:        runRepo,
		locationRepo:   locationRepo,
		positionRepo:   positionRepo,
		demandRepo:     demandRepo,
		constraintRepo: constraintRepo,
		suggestionRepo: suggestionRepo,
		recommendRepo:  recommendRepo,
		cache:          cache,
	}
}

func (s *rebalanceService) Rebalance(ctx context.Context, tenantID uuid.UUID, triggeredBy *uuid.UUID) (*RunSummary, error) {
	run, err := s.createRun(ctx, tenantID, models.RunTypeRebalance, triggeredBy)
	if err != nil {
		return nil, err
	}

	snap, cfg, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, s.failRun(ctx, run, err)
	}

	result := s.engine.Plan(snap, cfg)
	now := time.Now()
	for _, sug := range result.Suggestions {
		sug.ID = uuid.New()
		sug.RunID = run.ID
		sug.CreatedAt = now
	}

	if err := s.runRepo.CompleteWithSuggestions(ctx, tenantID, run.ID, result.Totals, result.Suggestions); err != nil {
		return nil, s.failRun(ctx, run, fmt.Errorf("persist suggestions: %w", err))
	}

	run.Status = models.RunStatusCompleted
	if cacheErr := s.cache.SetLatestRun(ctx, tenantID, run, configCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache latest run for tenant %s: %v", tenantID, cacheErr)
	}

	log.Printf("Rebalance run %s completed for tenant %s: %d suggestions, %d units",
		run.ID, tenantID, result.Totals.TotalSuggestions, result.Totals.TotalUnits)

	return &RunSummary{
		RunID:              run.ID,
		TenantID:           tenantID,
		RunType:            models.RunTypeRebalance,
		Status:             models.RunStatusCompleted,
		TotalSuggestions:   result.Totals.TotalSuggestions,
		PushSuggestions:    result.Totals.PushSuggestions,
		LateralSuggestions: result.Totals.LateralSuggestions,
		PushUnits:          result.Totals.PushUnits,
		LateralUnits:       result.Totals.LateralUnits,
		TotalUnits:         result.Totals.TotalUnits,
	}, nil
}

func (s *rebalanceService) Allocate(ctx context.Context, tenantID uuid.UUID, triggeredBy *uuid.UUID) (*AllocationSummary, error) {
	run, err := s.createRun(ctx, tenantID, models.RunTypeAllocate, triggeredBy)
	if err != nil {
		return nil, err
	}

	snap, _, err := s.loadSnapshot(ctx, tenantID)
	if err != nil {
		return nil, s.failRun(ctx, run, err)
	}

	recs := s.engine.Recommend(snap)
	now := time.Now()
	totalQty := 0
	for _, rec := range recs {
		rec.ID = uuid.New()
		rec.RunID = run.ID
		rec.CreatedAt = now
		totalQty += rec.RecommendedQty
	}

	totals := models.RunTotals{
		TotalSuggestions: len(recs),
		TotalUnits:       totalQty,
	}
	if err := s.runRepo.CompleteWithRecommendations(ctx, tenantID, run.ID, totals, recs); err != nil {
		return nil, s.failRun(ctx, run, fmt.Errorf("persist recommendations: %w", err))
	}

	run.Status = models.RunStatusCompleted
	if cacheErr := s.cache.SetLatestRun(ctx, tenantID, run, configCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache latest run for tenant %s: %v", tenantID, cacheErr)
	}

	log.Printf("Allocate run %s completed for tenant %s: %d recommendations, %d units",
		run.ID, tenantID, len(recs), totalQty)

	return &AllocationSummary{
		RunID:           run.ID,
		TenantID:        tenantID,
		RunType:         models.RunTypeAllocate,
		Status:          models.RunStatusCompleted,
		Recommendations: len(recs),
		TotalUnits:      totalQty,
	}, nil
}

func (s *rebalanceService) GetRun(ctx context.Context, tenantID, runID uuid.UUID) (*models.RebalanceRun, error) {
	return s.runRepo.GetByID(ctx, tenantID, runID)
}

func (s *rebalanceService) ListRuns(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RebalanceRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.runRepo.List(ctx, tenantID, limit, offset)
}

func (s *rebalanceService) ListSuggestions(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.TransferSuggestion, error) {
	return s.suggestionRepo.ListByRun(ctx, tenantID, runID)
}

func (s *rebalanceService) ListRecommendations(ctx context.Context, tenantID, runID uuid.UUID) ([]*models.AllocationRecommendation, error) {
	return s.recommendRepo.ListByRun(ctx, tenantID, runID)
}

func (s *rebalanceService) createRun(ctx context.Context, tenantID uuid.UUID, runType string, triggeredBy *uuid.UUID) (*models.RebalanceRun, error) {
	run := &models.RebalanceRun{
		ID:          uuid.New(),
		TenantID:    tenantID,
		RunType:     runType,
		RunDate:     time.Now(),
		Status:      models.RunStatusRunning,
		TriggeredBy: triggeredBy,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create %s run: %w", runType, err)
	}
	return run, nil
}

// loadSnapshot reads every planning input once. The engine never touches the
// database after this point.
func (s *rebalanceService) loadSnapshot(ctx context.Context, tenantID uuid.UUID) (*rebalance.Snapshot, rebalance.Config, error) {
	cfg := s.loadConfig(ctx, tenantID)

	locations, err := s.locationRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, cfg, fmt.Errorf("load locations: %w", err)
	}
	positions, err := s.positionRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, cfg, fmt.Errorf("load stock positions: %w", err)
	}
	signals, err := s.demandRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, cfg, fmt.Errorf("load demand signals: %w", err)
	}

	return rebalance.BuildSnapshot(tenantID, locations, positions, signals), cfg, nil
}

// loadConfig is a read-through over the constraint table. Cache errors are
// soft: log and read the database.
func (s *rebalanceService) loadConfig(ctx context.Context, tenantID uuid.UUID) rebalance.Config {
	if cached, err := s.cache.GetConfig(ctx, tenantID); err != nil {
		log.Printf("Config cache read failed for tenant %s: %v", tenantID, err)
	} else if cached != nil {
		return *cached
	}

	constraints, err := s.constraintRepo.ListActive(ctx, tenantID)
	if err != nil {
		log.Printf("Failed to load constraints for tenant %s, using defaults: %v", tenantID, err)
		return rebalance.DefaultConfig()
	}
	cfg := rebalance.ConfigFromConstraints(constraints)

	if cacheErr := s.cache.SetConfig(ctx, tenantID, cfg, configCacheTTL); cacheErr != nil {
		log.Printf("Config cache write failed for tenant %s: %v", tenantID, cacheErr)
	}
	return cfg
}

// failRun finalizes the run as failed and returns the original error so the
// caller still sees the cause. A failed run is a first-class audit record.
func (s *rebalanceService) failRun(ctx context.Context, run *models.RebalanceRun, cause error) error {
	if markErr := s.runRepo.MarkFailed(ctx, run.TenantID, run.ID, cause.Error()); markErr != nil {
		log.Printf("Failed to mark run %s failed: %v", run.ID, markErr)
	}
	return fmt.Errorf("%s run %s failed: %w", run.RunType, run.ID, cause)
}
