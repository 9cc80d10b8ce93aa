package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db *pgxpool.Pool
}

func NewHealthHandlers(db *pgxpool.Pool) *HealthHandlers {
	return &HealthHandlers{db: db}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck reports database connectivity alongside process liveness.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if err := h.checkDatabase(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if err := h.checkDatabase(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DetailedHealthCheck adds pool stats and runtime counters for operators.
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	dbStatus := "healthy"
	dbMessage := ""
	start := time.Now()
	if err := h.checkDatabase(ctx); err != nil {
		dbStatus = "unhealthy"
		dbMessage = err.Error()
	}
	latency := time.Since(start)

	overall := "healthy"
	statusCode := http.StatusOK
	if dbStatus != "healthy" {
		overall = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	stat := h.db.Stat()
	return c.JSON(statusCode, map[string]interface{}{
		"overall_status": overall,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"goroutines":     runtime.NumGoroutine(),
		"checks": map[string]interface{}{
			"database": map[string]interface{}{
				"status":     dbStatus,
				"message":    dbMessage,
				"latency_ms": latency.Milliseconds(),
				"pool": map[string]interface{}{
					"total_conns": stat.TotalConns(),
					"idle_conns":  stat.IdleConns(),
					"max_conns":   stat.MaxConns(),
				},
			},
		},
	})
}
