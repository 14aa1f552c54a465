package services

import (
	"encoding/json"
	"time"

	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
)

type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(db, userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, toAppError(err)
	}
	unread, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, notificationToResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *NotificationService) MarkRead(db *gorm.DB, notificationID string) error {
	return toAppError(s.notificationRepo.MarkAsRead(db, notificationID))
}

func (s *NotificationService) MarkAllRead(db *gorm.DB, userID string) error {
	return toAppError(s.notificationRepo.MarkAllAsRead(db, userID))
}

// PurgeRead удаляет прочитанные уведомления старше retention.
// Вызывается фоновым воркером.
func (s *NotificationService) PurgeRead(db *gorm.DB, olderThan time.Time) (int64, error) {
	n, err := s.notificationRepo.DeleteReadOlderThan(db, olderThan)
	if err != nil {
		return 0, toAppError(err)
	}
	return n, nil
}

func notificationToResponse(n *models.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      json.RawMessage(n.Data),
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
