package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func TestHealthChecker(t *testing.T) {
	tests := []struct {
		name       string
		store      PingFunc
		cache      PingFunc
		wantStatus string
		wantCode   int
	}{
		{"all healthy", ok, ok, StatusHealthy, http.StatusOK},
		{"cache down", ok, failing, StatusDegraded, http.StatusOK},
		{"database down", failing, ok, StatusUnhealthy, http.StatusServiceUnavailable},
		{"everything down", failing, failing, StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewHealthChecker("svc", tt.store).WithDependency("cache", tt.cache)

			rec := httptest.NewRecorder()
			checker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body ServiceHealth
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "svc", body.Service)
			assert.Equal(t, tt.wantStatus, body.Status)
			require.Len(t, body.Checks, 2)
			if tt.store(context.Background()) != nil {
				assert.Equal(t, "connection refused", body.Checks["database"].Error)
			}
		})
	}
}
