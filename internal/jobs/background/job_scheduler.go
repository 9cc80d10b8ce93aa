package background

import (
	"context"
	"log"
	"sync"
	"time"

	"stockflow/internal/jobs"
	"stockflow/internal/repositories"
	"stockflow/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring planning jobs
type JobScheduler struct {
	scheduler        gocron.Scheduler
	rebalanceService services.RebalanceService
	alertService     *jobs.CoverageAlertService
	tenantRepo       repositories.TenantRepository
	jobJobs          map[string]gocron.Job
	mu               sync.RWMutex
}

func NewJobScheduler(rebalanceService services.RebalanceService, alertService *jobs.CoverageAlertService,
	tenantRepo repositories.TenantRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:        scheduler,
		rebalanceService: rebalanceService,
		alertService:     alertService,
		tenantRepo:       tenantRepo,
		jobJobs:          make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Nightly rebalance across all active tenants - 02:00
	rebalanceJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(js.runNightlyRebalance, context.Background()),
		gocron.WithName("nightly-rebalance"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create nightly rebalance job: %v", err)
	} else {
		js.jobJobs["nightly-rebalance"] = rebalanceJob
	}

	// Daily allocation advisory - 03:00, after the rebalance window
	allocateJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(js.runDailyAllocation, context.Background()),
		gocron.WithName("daily-allocation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create daily allocation job: %v", err)
	} else {
		js.jobJobs["daily-allocation"] = allocateJob
	}

	// Low cover alerts - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.processCoverageAlerts, context.Background()),
		gocron.WithName("coverage-alerts"),
	)
	if err != nil {
		log.Printf("Failed to create coverage alerts job: %v", err)
	} else {
		js.jobJobs["coverage-alerts"] = alertsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// runNightlyRebalance plans every active tenant sequentially. One tenant's
// failure never stops the sweep; the failed run record holds the error.
func (js *JobScheduler) runNightlyRebalance(ctx context.Context) {
	tenants, err := js.tenantRepo.ListActive(ctx, 1000, 0)
	if err != nil {
		log.Printf("Nightly rebalance: failed to list tenants: %v", err)
		return
	}

	log.Printf("Nightly rebalance sweep started for %d tenants", len(tenants))
	for _, tenant := range tenants {
		summary, err := js.rebalanceService.Rebalance(ctx, tenant.ID, nil)
		if err != nil {
			log.Printf("Nightly rebalance failed for tenant %s: %v", tenant.ID, err)
			continue
		}
		log.Printf("Nightly rebalance for tenant %s: run %s, %d suggestions",
			tenant.ID, summary.RunID, summary.TotalSuggestions)
	}
}

func (js *JobScheduler) runDailyAllocation(ctx context.Context) {
	tenants, err := js.tenantRepo.ListActive(ctx, 1000, 0)
	if err != nil {
		log.Printf("Daily allocation: failed to list tenants: %v", err)
		return
	}

	for _, tenant := range tenants {
		summary, err := js.rebalanceService.Allocate(ctx, tenant.ID, nil)
		if err != nil {
			log.Printf("Daily allocation failed for tenant %s: %v", tenant.ID, err)
			continue
		}
		log.Printf("Daily allocation for tenant %s: run %s, %d recommendations",
			tenant.ID, summary.RunID, summary.Recommendations)
	}
}

func (js *JobScheduler) processCoverageAlerts(ctx context.Context) {
	tenants, err := js.tenantRepo.ListActive(ctx, 1000, 0)
	if err != nil {
		log.Printf("Coverage alerts: failed to list tenants: %v", err)
		return
	}

	for _, tenant := range tenants {
		alerts, err := js.alertService.CheckLowCover(ctx, tenant.ID, 0)
		if err != nil {
			log.Printf("Coverage alerts failed for tenant %s: %v", tenant.ID, err)
			continue
		}
		js.alertService.LogLowCoverAlerts(ctx, alerts)
	}
}

// JobStatus reports the registered jobs and their next run times.
func (js *JobScheduler) JobStatus() map[string]time.Time {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]time.Time, len(js.jobJobs))
	for name, job := range js.jobJobs {
		if next, err := job.NextRun(); err == nil {
			status[name] = next
		}
	}
	return status
}
