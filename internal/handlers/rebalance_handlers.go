package handlers

import (
	"errors"
	"net/http"

	"stockflow/internal/models"
	"stockflow/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// RebalanceHandlers exposes the run lifecycle over HTTP.
type RebalanceHandlers struct {
	rebalanceService services.RebalanceService
	reportService    services.ReportService
}

func NewRebalanceHandlers(rebalanceService services.RebalanceService, reportService services.ReportService) *RebalanceHandlers {
	return &RebalanceHandlers{
		rebalanceService: rebalanceService,
		reportService:    reportService,
	}
}

// TriggerRunRequest is the invocation payload. The action selects which
// planner runs under the new run record.
type TriggerRunRequest struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Action   string `json:"action"`
}

// TriggerRun validates the payload fully before any run record is created, so
// a bad request never leaves a run behind.
func (h *RebalanceHandlers) TriggerRun(c echo.Context) error {
	var req TriggerRunRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.TenantID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tenant_id is required")
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_id")
	}

	var triggeredBy *uuid.UUID
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user_id")
		}
		triggeredBy = &userID
	}

	ctx := c.Request().Context()
	switch req.Action {
	case models.RunTypeRebalance:
		summary, err := h.rebalanceService.Rebalance(ctx, tenantID, triggeredBy)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Rebalance run failed")
		}
		return c.JSON(http.StatusCreated, summary)
	case models.RunTypeAllocate:
		summary, err := h.rebalanceService.Allocate(ctx, tenantID, triggeredBy)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Allocation run failed")
		}
		return c.JSON(http.StatusCreated, summary)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown action, expected rebalance or allocate")
	}
}

func (h *RebalanceHandlers) GetRun(c echo.Context) error {
	tenantID, runID, httpErr := tenantAndRunID(c)
	if httpErr != nil {
		return httpErr
	}

	run, err := h.rebalanceService.GetRun(c.Request().Context(), tenantID, runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get run")
	}
	return c.JSON(http.StatusOK, run)
}

// ListRunsRequest represents query parameters for listing runs
type ListRunsRequest struct {
	TenantID string `query:"tenant_id"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

func (h *RebalanceHandlers) ListRuns(c echo.Context) error {
	var req ListRunsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_id")
	}

	runs, err := h.rebalanceService.ListRuns(c.Request().Context(), tenantID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list runs")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

func (h *RebalanceHandlers) ListSuggestions(c echo.Context) error {
	tenantID, runID, httpErr := tenantAndRunID(c)
	if httpErr != nil {
		return httpErr
	}

	suggestions, err := h.rebalanceService.ListSuggestions(c.Request().Context(), tenantID, runID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list suggestions")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":      runID,
		"suggestions": suggestions,
	})
}

func (h *RebalanceHandlers) ListRecommendations(c echo.Context) error {
	tenantID, runID, httpErr := tenantAndRunID(c)
	if httpErr != nil {
		return httpErr
	}

	recommendations, err := h.rebalanceService.ListRecommendations(c.Request().Context(), tenantID, runID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list recommendations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":          runID,
		"recommendations": recommendations,
	})
}

func (h *RebalanceHandlers) ExportRunReport(c echo.Context) error {
	tenantID, runID, httpErr := tenantAndRunID(c)
	if httpErr != nil {
		return httpErr
	}

	url, err := h.reportService.ExportRun(c.Request().Context(), tenantID, runID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "Run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export run report")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"run_id": runID.String(),
		"url":    url,
	})
}

// tenantAndRunID parses the tenant query parameter and the run path
// parameter shared by the run detail endpoints.
func tenantAndRunID(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	tenantID, err := uuid.Parse(c.QueryParam("tenant_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_id")
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid run id")
	}
	return tenantID, runID, nil
}
