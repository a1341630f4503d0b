package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantLevel string
		wantCode  float64
	}{
		{
			name:      "ok",
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantLevel: "info",
			wantCode:  200,
		},
		{
			name:      "client error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusUnauthorized, "Wrong password") },
			wantLevel: "warn",
			wantCode:  401,
		},
		{
			name:      "server error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "Server error") },
			wantLevel: "error",
			wantCode:  500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			e.Use(RequestLogger(zerolog.New(&logs)))
			e.POST("/login", tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != int(tt.wantCode) {
				t.Fatalf("expected response %v, got %d", tt.wantCode, rec.Code)
			}
			if strings.Contains(logs.String(), "secret1") {
				t.Fatalf("request body leaked into logs: %s", logs.String())
			}

			var entry map[string]any
			if err := json.Unmarshal(logs.Bytes(), &entry); err != nil {
				t.Fatalf("expected one json log line, got %q: %v", logs.String(), err)
			}
			if entry["level"] != tt.wantLevel {
				t.Fatalf("expected level %s, got %v", tt.wantLevel, entry["level"])
			}
			if entry["status"] != tt.wantCode {
				t.Fatalf("expected status %v, got %v", tt.wantCode, entry["status"])
			}
			if entry["method"] != http.MethodPost || entry["uri"] != "/login" {
				t.Fatalf("unexpected request fields: %v", entry)
			}
		})
	}
}
