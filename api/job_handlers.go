package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/internal/catalog"
	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/internal/jobs"
	"github.com/gcbaptista/go-product-search/model"
)

// RefreshCatalogHandler starts a background reload of the configured catalog.
func (api *API) RefreshCatalogHandler(c *gin.Context) {
	metadata := map[string]string{"request_id": c.GetString(requestIDKey)}

	jobID, err := api.jobs.Submit(model.JobTypeCatalogRefresh, metadata, api.refreshCatalog)
	if err != nil {
		SendJobExecutionError(c, "catalog refresh", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Catalog refresh started",
		"job_id":  jobID,
	})
}

func (api *API) refreshCatalog(ctx context.Context, progress jobs.ProgressFunc) error {
	progress(0, 1, "Fetching catalog")
	count, err := catalog.Refresh(ctx, api.catalog)
	if err != nil {
		return err
	}
	progress(1, 1, "Catalog refreshed")
	api.logger.Info("Catalog refresh finished", zap.Int("products", count))
	return nil
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "job lookup", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, optionally filtered by the status query parameter
func (api *API) ListJobsHandler(c *gin.Context) {
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		switch status {
		case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
			model.JobStatusFailed, model.JobStatusCancelled:
		default:
			result := &ValidationResult{Valid: true}
			result.AddError("status", "unknown job status '"+statusParam+"'")
			SendStructuredValidationError(c, result)
			return
		}
		statusFilter = &status
	}

	jobList := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}
