package workers

import (
	"context"
	"time"

	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/services"

	"gorm.io/gorm"
)

// JobExpiryWorker отменяет открытые заявки с прошедшим дедлайном
type JobExpiryWorker struct {
	db         *gorm.DB
	jobService *services.JobRequestService
	interval   time.Duration
}

func NewJobExpiryWorker(db *gorm.DB, jobService *services.JobRequestService, interval time.Duration) *JobExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JobExpiryWorker{
		db:         db,
		jobService: jobService,
		interval:   interval,
	}
}

func (w *JobExpiryWorker) Start(ctx context.Context) {
	go w.expireOverdueJobs(ctx)
}

func (w *JobExpiryWorker) expireOverdueJobs(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job expiry worker stopped")
			return
		case <-ticker.C:
			n, err := w.jobService.ExpireOverdue(w.db, time.Now())
			if err != nil {
				logger.WorkerLog("job_expiry", "expire overdue jobs", err)
			} else if n > 0 {
				logger.Info("Cancelled expired job requests", "count", n)
			}
		}
	}
}
