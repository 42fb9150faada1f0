// Package jobs runs background jobs on a bounded worker pool and keeps their
// status for polling.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/internal/logger"
	"github.com/gcbaptista/go-product-search/internal/metrics"
	"github.com/gcbaptista/go-product-search/model"
)

const (
	cleanupInterval = time.Hour
	jobRetention    = 24 * time.Hour
)

// ProgressFunc reports the progress of the running job.
type ProgressFunc func(current, total int, message string)

// JobFunc is the work of a job. ctx is cancelled when the manager stops.
type JobFunc func(ctx context.Context, progress ProgressFunc) error

// Manager handles background job execution and tracking
type Manager struct {
	mu        sync.RWMutex
	jobs      map[string]*model.Job
	scheduled map[string]struct{}
	workers   chan struct{} // Limits concurrent jobs
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *zap.Logger
	now       func() time.Time
}

// NewManager creates a new job manager with specified worker count
func NewManager(maxWorkers int, log *zap.Logger) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:      make(map[string]*model.Job),
		scheduled: make(map[string]struct{}),
		workers:   make(chan struct{}, maxWorkers),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.OrNop(log),
		now:       time.Now,
	}
}

// Start begins the background cleanup of finished jobs
func (m *Manager) Start() {
	m.logger.Info("Job manager started", zap.Int("max_workers", cap(m.workers)))

	m.wg.Add(1)
	go m.cleanupRoutine()
}

// Stop cancels running jobs and waits for them to finish
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	m.logger.Info("Job manager stopped")
}

// CreateJob creates a new pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: m.now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.logger.Debug("Created job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	return job.ID
}

// Submit creates a job and schedules it in one step
func (m *Manager) Submit(jobType model.JobType, metadata map[string]string, fn JobFunc) (string, error) {
	jobID := m.CreateJob(jobType, metadata)
	if err := m.ExecuteJob(jobID, fn); err != nil {
		return jobID, err
	}
	return jobID, nil
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns all jobs, oldest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob schedules a pending job. The job runs once a worker slot is free;
// a job still waiting when the manager stops is cancelled.
func (m *Manager) ExecuteJob(jobID string, fn JobFunc) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if _, dup := m.scheduled[jobID]; dup || job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		return fmt.Errorf("job manager is shutting down")
	}
	m.scheduled[jobID] = struct{}{}
	jobType := job.Type
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		select {
		case m.workers <- struct{}{}:
		case <-m.ctx.Done():
			m.finish(jobID, jobType, model.JobStatusCancelled, "Job manager shutting down")
			return
		}
		defer func() { <-m.workers }()

		metrics.JobsRunning.Inc()
		defer metrics.JobsRunning.Dec()

		m.markRunning(jobID)
		startTime := m.now()

		err := fn(m.ctx, func(current, total int, message string) {
			m.UpdateJobProgress(jobID, current, total, message)
		})

		executionTime := m.now().Sub(startTime)
		metrics.JobDuration.WithLabelValues(string(jobType)).Observe(executionTime.Seconds())

		switch {
		case err != nil && m.ctx.Err() != nil:
			m.finish(jobID, jobType, model.JobStatusCancelled, err.Error())
		case err != nil:
			m.finish(jobID, jobType, model.JobStatusFailed, err.Error())
			m.logger.Warn("Job failed",
				zap.String("job_id", jobID),
				zap.Duration("duration", executionTime),
				zap.Error(err),
			)
		default:
			m.finish(jobID, jobType, model.JobStatusCompleted, "")
			m.logger.Info("Job completed",
				zap.String("job_id", jobID),
				zap.String("type", string(jobType)),
				zap.Duration("duration", executionTime),
			)
		}
	}()

	return nil
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}

	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// CleanupOldJobs removes finished jobs older than maxAge and returns how many were removed
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	cleaned := 0

	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			delete(m.scheduled, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		m.logger.Info("Cleaned up old jobs", zap.Int("count", cleaned))
	}
	return cleaned
}

func (m *Manager) markRunning(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job, exists := m.jobs[jobID]; exists {
		job.Status = model.JobStatusRunning
		now := m.now()
		job.StartedAt = &now
	}
}

// finish records the terminal status of a job
func (m *Manager) finish(jobID string, jobType model.JobType, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	if job, exists := m.jobs[jobID]; exists {
		job.Status = status
		job.Error = errorMsg
		now := m.now()
		job.CompletedAt = &now
	}
	m.mu.Unlock()

	metrics.JobsTotal.WithLabelValues(string(jobType), string(status)).Inc()
}

func (m *Manager) cleanupRoutine() {
	defer m.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(jobRetention)
		case <-m.ctx.Done():
			return
		}
	}
}

func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	return &jobCopy
}
