package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/perfstats/internal/prices"
	"github.com/aristath/perfstats/internal/scheduler"
	testingpkg "github.com/aristath/perfstats/internal/testing"
)

type fakeCache struct{}

func (fakeCache) Stats(context.Context) (prices.CacheStats, error) {
	return prices.CacheStats{Entries: 2, Tickers: 1, Points: 40}, nil
}

type fakeJobs struct {
	ran []string
}

func (f *fakeJobs) Jobs() []string { return []string{"prune_cache", "warm_cache"} }

func (f *fakeJobs) RunByName(_ context.Context, name string) error {
	switch name {
	case "warm_cache":
		f.ran = append(f.ran, name)
		return nil
	case "prune_cache":
		return errors.New("locked")
	}
	return scheduler.ErrUnknownJob
}

func newTestServer(t *testing.T, jobs *fakeJobs) *Server {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	db := testingpkg.NewTestDB(t, "prices")

	return New(Config{
		Log:     logger,
		Port:    0,
		DevMode: true,
		System:  NewSystemHandlers(logger, t.TempDir(), db, fakeCache{}, jobs),
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeJobs{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "perfstats", response["service"])
}

func TestSystemStats(t *testing.T) {
	s := newTestServer(t, &fakeJobs{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/system/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response SystemStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Cache)
	assert.Equal(t, 2, response.Cache.Entries)
	assert.Greater(t, response.Goroutines, 0)
}

func TestDatabaseStats(t *testing.T) {
	s := newTestServer(t, &fakeJobs{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/system/database/stats", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "prices", response["name"])
}

func TestTriggerJob(t *testing.T) {
	jobs := &fakeJobs{}
	s := newTestServer(t, jobs)

	tests := []struct {
		name           string
		expectedStatus int
	}{
		{"warm_cache", http.StatusOK},
		{"prune_cache", http.StatusInternalServerError},
		{"missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/system/jobs/"+tt.name, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
	assert.Equal(t, []string{"warm_cache"}, jobs.ran)
}

func TestJobsStatus(t *testing.T) {
	s := newTestServer(t, &fakeJobs{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/system/jobs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jobs":["prune_cache","warm_cache"]}`, w.Body.String())
}

func TestDiskUsage(t *testing.T) {
	s := newTestServer(t, &fakeJobs{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/system/disk", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var response DiskUsageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.GreaterOrEqual(t, response.DataDirMB, 0.0)
}
