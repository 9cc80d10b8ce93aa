package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stockflow/internal/models"
	"stockflow/internal/rebalance"
)

// CacheService fronts redis for the hot read paths. Callers treat cache
// errors as soft failures: log and fall through to the database.
type CacheService interface {
	// Planning config caching
	GetConfig(ctx context.Context, tenantID uuid.UUID) (*rebalance.Config, error)
	SetConfig(ctx context.Context, tenantID uuid.UUID, cfg rebalance.Config, ttl time.Duration) error
	DeleteConfig(ctx context.Context, tenantID uuid.UUID) error

	// Latest finalized run per tenant and run type
	GetLatestRun(ctx context.Context, tenantID uuid.UUID, runType string) (*models.RebalanceRun, error)
	SetLatestRun(ctx context.Context, tenantID uuid.UUID, run *models.RebalanceRun, ttl time.Duration) error

	// Cache invalidation
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// and rediss:// URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetConfig(ctx context.Context, tenantID uuid.UUID) (*rebalance.Config, error) {
	key := fmt.Sprintf("stockflow:config:%s", tenantID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var cfg rebalance.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *redisCacheService) SetConfig(ctx context.Context, tenantID uuid.UUID, cfg rebalance.Config, ttl time.Duration) error {
	key := fmt.Sprintf("stockflow:config:%s", tenantID.String())
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteConfig(ctx context.Context, tenantID uuid.UUID) error {
	key := fmt.Sprintf("stockflow:config:%s", tenantID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetLatestRun(ctx context.Context, tenantID uuid.UUID, runType string) (*models.RebalanceRun, error) {
	key := fmt.Sprintf("stockflow:latest_run:%s:%s", tenantID.String(), runType)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var run models.RebalanceRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *redisCacheService) SetLatestRun(ctx context.Context, tenantID uuid.UUID, run *models.RebalanceRun, ttl time.Duration) error {
	key := fmt.Sprintf("stockflow:latest_run:%s:%s", tenantID.String(), run.RunType)
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("stockflow:*%s*", tenantID.String())
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to delete cache key %s: %v", iter.Val(), err)
		}
	}
	return iter.Err()
}
