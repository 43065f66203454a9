package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// Dependency is one readiness check. A nil Ping means the dependency was not
// configured at startup and is reported as disabled. Required dependencies
// fail the probe; optional ones only degrade it.
type Dependency struct {
	Name     string
	Ping     PingFunc
	Required bool
}

// ReadinessHandler handles GET /health/ready.
type ReadinessHandler struct {
	deps    []Dependency
	timeout time.Duration
}

func NewReadinessHandler(deps ...Dependency) *ReadinessHandler {
	return &ReadinessHandler{deps: deps, timeout: 3 * time.Second}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Pings the review store and, when configured, the audit and idempotency stores.
// @Tags         health
// @Produce      json
// @Success      200 {object} readinessResponse
// @Failure      503 {object} readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp := h.check(ctx)
	httpStatus := http.StatusOK
	if resp.Status == "unavailable" {
		httpStatus = http.StatusServiceUnavailable
	}
	return c.JSON(httpStatus, resp)
}

func (h *ReadinessHandler) check(ctx context.Context) readinessResponse {
	deps := make(map[string]dependencyStatus, len(h.deps))
	status := "ok"

	for _, d := range h.deps {
		if d.Ping == nil {
			deps[d.Name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := d.Ping(ctx); err != nil {
			deps[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			if d.Required {
				status = "unavailable"
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		deps[d.Name] = dependencyStatus{Status: "ok"}
	}

	return readinessResponse{Status: status, Dependencies: deps}
}
