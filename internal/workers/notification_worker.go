package workers

import (
	"context"
	"time"

	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/services"

	"gorm.io/gorm"
)

// NotificationWorker чистит прочитанные уведомления старше retention
type NotificationWorker struct {
	db                  *gorm.DB
	notificationService *services.NotificationService
	retention           time.Duration
}

func NewNotificationWorker(db *gorm.DB, notificationService *services.NotificationService, retentionDays int) *NotificationWorker {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &NotificationWorker{
		db:                  db,
		notificationService: notificationService,
		retention:           time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	go w.purgeReadNotifications(ctx)
}

func (w *NotificationWorker) purgeReadNotifications(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		case <-ticker.C:
			n, err := w.notificationService.PurgeRead(w.db, time.Now().Add(-w.retention))
			if err != nil {
				logger.WorkerLog("notification_gc", "purge read notifications", err)
			} else if n > 0 {
				logger.Info("Purged read notifications", "count", n)
			}
		}
	}
}
