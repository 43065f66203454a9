package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ok(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func runReadiness(t *testing.T, h *ReadinessHandler) (int, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	if err := h.Readiness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Readiness returned error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	return rec.Code, body
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	code, body := runReadiness(t, NewReadinessHandler(
		Dependency{Name: "postgres", Ping: ok, Required: true},
		Dependency{Name: "mongodb", Ping: ok},
		Dependency{Name: "redis", Ping: nil},
	))

	if code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected 200 ok, got %d %s", code, body.Status)
	}
	if body.Dependencies["redis"].Status != "disabled" {
		t.Fatalf("expected redis disabled, got %+v", body.Dependencies["redis"])
	}
}

func TestReadiness_OptionalDown(t *testing.T) {
	code, body := runReadiness(t, NewReadinessHandler(
		Dependency{Name: "postgres", Ping: ok, Required: true},
		Dependency{Name: "redis", Ping: down},
	))

	if code != http.StatusOK || body.Status != "degraded" {
		t.Fatalf("expected 200 degraded, got %d %s", code, body.Status)
	}
	if body.Dependencies["redis"].Error == "" {
		t.Fatalf("expected redis error to be reported")
	}
}

func TestReadiness_RequiredDown(t *testing.T) {
	code, body := runReadiness(t, NewReadinessHandler(
		Dependency{Name: "postgres", Ping: down, Required: true},
		Dependency{Name: "redis", Ping: down},
	))

	if code != http.StatusServiceUnavailable || body.Status != "unavailable" {
		t.Fatalf("expected 503 unavailable, got %d %s", code, body.Status)
	}
}
