package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-product-search/internal/catalog"
	"github.com/gcbaptista/go-product-search/model"
)

type jobListResponse struct {
	Jobs  []model.Job `json:"jobs"`
	Total int         `json:"total"`
}

func (s *testServer) waitForJob(t *testing.T, jobID string) model.Job {
	t.Helper()
	var job model.Job
	require.Eventually(t, func() bool {
		w := s.do(t, http.MethodGet, "/jobs/"+jobID, nil)
		if w.Code != http.StatusOK {
			return false
		}
		job = decode[model.Job](t, w)
		return job.Status.Finished()
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestRefreshCatalogHandler(t *testing.T) {
	t.Run("cached catalog", func(t *testing.T) {
		src := catalog.NewCachedSource(catalog.NewStaticSource(testProducts()), time.Hour, nil)
		srv := setupTestServer(t, src)

		w := srv.do(t, http.MethodPost, "/catalog/refresh", nil)
		require.Equal(t, http.StatusAccepted, w.Code)

		body := decode[map[string]string](t, w)
		require.NotEmpty(t, body["job_id"])

		job := srv.waitForJob(t, body["job_id"])
		assert.Equal(t, model.JobStatusCompleted, job.Status)
		assert.Equal(t, model.JobTypeCatalogRefresh, job.Type)
		require.NotNil(t, job.Progress)
		assert.Equal(t, "Catalog refreshed", job.Progress.Message)
		assert.NotEmpty(t, job.Metadata["request_id"])
	})

	t.Run("unavailable catalog fails the job", func(t *testing.T) {
		srv := setupTestServer(t, failingSource{})

		w := srv.do(t, http.MethodPost, "/catalog/refresh", nil)
		require.Equal(t, http.StatusAccepted, w.Code)

		job := srv.waitForJob(t, decode[map[string]string](t, w)["job_id"])
		assert.Equal(t, model.JobStatusFailed, job.Status)
		assert.Contains(t, job.Error, "connection refused")
	})

	t.Run("stopped manager", func(t *testing.T) {
		srv := setupTestServer(t, catalog.NewStaticSource(testProducts()))
		srv.jobs.Stop()

		w := srv.do(t, http.MethodPost, "/catalog/refresh", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, ErrorCodeJobExecutionFailed, decode[APIError](t, w).Code)
	})
}

func TestGetJobHandler_NotFound(t *testing.T) {
	srv := setupTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/jobs/does-not-exist", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeJobNotFound, decode[APIError](t, w).Code)
}

func TestListJobsHandler(t *testing.T) {
	srv := setupTestServer(t, catalog.NewStaticSource(testProducts()))

	w := srv.do(t, http.MethodPost, "/catalog/refresh", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	srv.waitForJob(t, decode[map[string]string](t, w)["job_id"])

	t.Run("all", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/jobs", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[jobListResponse](t, w)
		assert.Equal(t, 1, body.Total)
		require.Len(t, body.Jobs, 1)
	})

	t.Run("filtered", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/jobs?status=failed", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decode[map[string]interface{}](t, w)["total"])
	})

	t.Run("unknown status", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/jobs?status=done", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
