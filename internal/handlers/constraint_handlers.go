package handlers

import (
	"net/http"
	"strings"

	"stockflow/internal/models"
	"stockflow/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ConstraintHandlers manages the tenant planning tunables.
type ConstraintHandlers struct {
	constraintService services.ConstraintService
}

func NewConstraintHandlers(constraintService services.ConstraintService) *ConstraintHandlers {
	return &ConstraintHandlers{constraintService: constraintService}
}

func (h *ConstraintHandlers) ListConstraints(c echo.Context) error {
	tenantID, err := uuid.Parse(c.QueryParam("tenant_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_id")
	}

	constraints, err := h.constraintService.List(c.Request().Context(), tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list constraints")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"constraints": constraints,
	})
}

// UpsertConstraintRequest represents the constraint upsert payload
type UpsertConstraintRequest struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Active   *bool  `json:"active"`
}

func (h *ConstraintHandlers) UpsertConstraint(c echo.Context) error {
	var req UpsertConstraintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant_id")
	}

	constraint := &models.Constraint{
		TenantID: tenantID,
		Name:     req.Name,
		Value:    req.Value,
		Active:   true,
	}
	if req.Active != nil {
		constraint.Active = *req.Active
	}

	if err := h.constraintService.Upsert(c.Request().Context(), constraint); err != nil {
		if strings.Contains(err.Error(), "unknown constraint name") || strings.Contains(err.Error(), "required") {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upsert constraint")
	}
	return c.JSON(http.StatusOK, constraint)
}
