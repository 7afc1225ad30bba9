package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/internal/config"
)

type fixedCache int

func (c fixedCache) Len() int { return int(c) }

func TestHealthService_HealthCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "", "missing.csv", nil, discardLogger())

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))

	tests := []struct {
		name     string
		dataFile string
		want     string
	}{
		{"data file present", present, StatusReady},
		{"data file missing", filepath.Join(dir, "absent.csv"), StatusNotReady},
		{"data file is a directory", dir, StatusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", tt.dataFile, fixedCache(1), discardLogger())
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.want, status.Status)
			data, ok := status.Services["data"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.want, data.Status)

			cache, ok := status.Services["cache"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, "1 table(s) cached", cache.Message)
		})
	}
}

func TestHealthService_LivenessCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "", "", nil, discardLogger())

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, status.Status)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.0.0", "2026-01-01T00:00:00Z", "", nil, nil)

	info := hs.Version()
	assert.Equal(t, "1.0.0", info["version"])
	assert.Equal(t, config.ServiceName, info["service"])
	assert.Equal(t, "2026-01-01T00:00:00Z", info["build_time"])

	info = NewHealthService("1.0.0", "", "", nil, discardLogger()).Version()
	assert.NotContains(t, info, "build_time")
}
