package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"stockflow/internal/caching"
	"stockflow/internal/models"
	"stockflow/internal/repositories"
)

// ConstraintService manages the tenant-level planning tunables. Upserting a
// constraint invalidates the cached config so the next run sees it.
type ConstraintService interface {
	Upsert(ctx context.Context, constraint *models.Constraint) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error)
}

var knownConstraintNames = map[string]bool{
	models.ConstraintMinCoverWeeks:        true,
	models.ConstraintLateralEnabled:       true,
	models.ConstraintMinLateralNetBenefit: true,
	models.ConstraintThresholdHighWeeks:   true,
	models.ConstraintThresholdLowWeeks:    true,
}

type constraintService struct {
	constraintRepo repositories.ConstraintRepository
	cache          caching.CacheService
}

func NewConstraintService(constraintRepo repositories.ConstraintRepository, cache caching.CacheService) ConstraintService {
	return &constraintService{constraintRepo: constraintRepo, cache: cache}
}

func (s *constraintService) Upsert(ctx context.Context, constraint *models.Constraint) error {
	if constraint.TenantID == uuid.Nil {
		return fmt.Errorf("tenant_id is required")
	}
	if !knownConstraintNames[constraint.Name] {
		return fmt.Errorf("unknown constraint name: %s", constraint.Name)
	}
	if constraint.Value == "" {
		return fmt.Errorf("constraint value is required")
	}
	if constraint.ID == uuid.Nil {
		constraint.ID = uuid.New()
	}

	if err := s.constraintRepo.Upsert(ctx, constraint); err != nil {
		return fmt.Errorf("upsert constraint %s: %w", constraint.Name, err)
	}

	if cacheErr := s.cache.DeleteConfig(ctx, constraint.TenantID); cacheErr != nil {
		log.Printf("Failed to invalidate config cache for tenant %s: %v", constraint.TenantID, cacheErr)
	}
	return nil
}

func (s *constraintService) List(ctx context.Context, tenantID uuid.UUID) ([]*models.Constraint, error) {
	return s.constraintRepo.List(ctx, tenantID)
}
