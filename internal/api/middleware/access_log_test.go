package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func serve(t *testing.T, h echo.HandlerFunc) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	e := echo.New()
	e.Use(AccessLog(zerolog.New(&buf)))
	e.GET("/books/:isbn", h)

	req := httptest.NewRequest(http.MethodGet, "/books/123", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single json log line, got %q: %v", buf.String(), err)
	}
	return entry, rec
}

func TestAccessLog_Success(t *testing.T) {
	entry, rec := serve(t, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if entry["level"] != "info" || entry["status"] != float64(200) {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["path"] != "/books/123" || entry["route"] != "/books/:isbn" {
		t.Fatalf("unexpected path fields: %v", entry)
	}
}

func TestAccessLog_ErrorStatusIsFinal(t *testing.T) {
	entry, rec := serve(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if entry["level"] != "warn" || entry["status"] != float64(404) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
