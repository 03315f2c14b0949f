package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_details/internal/service"
)

const readinessTimeout = 2 * time.Second

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	svc service.EmployeeService
}

// NewHealthHandler creates a HealthHandler that checks readiness through svc.
func NewHealthHandler(svc service.EmployeeService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) LivenessHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ReadinessHandler reports ready once the store answers a full read in time.
func (h *HealthHandler) ReadinessHandler(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	if _, err := h.svc.GetAll(ctx); err != nil {
		return responseError(c, http.StatusServiceUnavailable, "Storage is not ready", err)
	}
	return c.String(http.StatusOK, "ready")
}
