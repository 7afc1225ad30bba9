package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketpulse/internal/services"
)

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]any {
	return m.Called().Get(0).(map[string]any)
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	svc := new(MockHealthService)
	svc.On("HealthCheck").Return(services.HealthStatus{Status: services.StatusOK, Version: "1.2.0", Timestamp: time.Now()})

	rec := httptest.NewRecorder()
	NewHealthHandler(svc, testLogger()).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, services.StatusOK, status.Status)
	assert.Equal(t, "1.2.0", status.Version)
}

func TestHealthHandler_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantStatus int
	}{
		{"ready", services.StatusReady, http.StatusOK},
		{"not ready", services.StatusNotReady, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("ReadinessCheck").Return(services.HealthStatus{Status: tt.status})

			rec := httptest.NewRecorder()
			NewHealthHandler(svc, testLogger()).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.status)
		})
	}
}

func TestHealthHandler_LivenessAndVersion(t *testing.T) {
	svc := new(MockHealthService)
	svc.On("LivenessCheck").Return(services.HealthStatus{Status: services.StatusAlive})
	svc.On("Version").Return(map[string]any{"version": "1.2.0"})
	h := NewHealthHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), services.StatusAlive)

	rec = httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.JSONEq(t, `{"version":"1.2.0"}`, rec.Body.String())
}
