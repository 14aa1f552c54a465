package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"qyzmet_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Константы типов уведомлений
const (
	NotificationTypeOfferReceived     = "offer_received"
	NotificationTypeOfferAccepted     = "offer_accepted"
	NotificationTypeOfferRejected     = "offer_rejected"
	NotificationTypeJobCompleted      = "job_completed"
	NotificationTypeReviewReceived    = "review_received"
	NotificationTypeComplaintResolved = "complaint_resolved"
	NotificationTypeUpgradeDecided    = "upgrade_decided"
)

type NotificationRepository interface {
	CreateNotification(db *gorm.DB, notification *models.Notification) error
	FindUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	DeleteReadOlderThan(db *gorm.DB, olderThan time.Time) (int64, error)

	// Factory methods для типовых уведомлений
	CreateOfferReceivedNotification(db *gorm.DB, seekerID, jobRequestID, jobTitle string) error
	CreateOfferDecidedNotification(db *gorm.DB, providerID, jobRequestID, jobTitle string, accepted bool) error
	CreateJobCompletedNotification(db *gorm.DB, seekerID, jobRequestID, jobTitle string) error
	CreateReviewReceivedNotification(db *gorm.DB, reviewedUserID, jobRequestID string, rating int) error
	CreateComplaintResolvedNotification(db *gorm.DB, reporterID, complaintID string, status models.ComplaintStatus) error
	CreateUpgradeDecidedNotification(db *gorm.DB, userID, requestID string, status models.UpgradeStatus) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) CreateNotification(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, notificationID string) error {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string) error {
	now := time.Now()
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Where("is_read = ? AND created_at < ?", true, olderThan).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// --- Factory methods ---

func notificationData(pairs map[string]string) datatypes.JSON {
	data, _ := json.Marshal(pairs)
	return datatypes.JSON(data)
}

func (r *NotificationRepositoryImpl) CreateOfferReceivedNotification(db *gorm.DB, seekerID, jobRequestID, jobTitle string) error {
	return r.CreateNotification(db, &models.Notification{
		UserID:  seekerID,
		Type:    NotificationTypeOfferReceived,
		Title:   "New offer received",
		Message: fmt.Sprintf("A provider submitted an offer for %q", jobTitle),
		Data:    notificationData(map[string]string{"job_request_id": jobRequestID}),
	})
}

func (r *NotificationRepositoryImpl) CreateOfferDecidedNotification(db *gorm.DB, providerID, jobRequestID, jobTitle string, accepted bool) error {
	notificationType := NotificationTypeOfferRejected
	title := "Offer rejected"
	message := fmt.Sprintf("Your offer for %q was not selected", jobTitle)
	if accepted {
		notificationType = NotificationTypeOfferAccepted
		title = "Offer accepted"
		message = fmt.Sprintf("Your offer for %q was accepted", jobTitle)
	}
	return r.CreateNotification(db, &models.Notification{
		UserID:  providerID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    notificationData(map[string]string{"job_request_id": jobRequestID}),
	})
}

func (r *NotificationRepositoryImpl) CreateJobCompletedNotification(db *gorm.DB, seekerID, jobRequestID, jobTitle string) error {
	return r.CreateNotification(db, &models.Notification{
		UserID:  seekerID,
		Type:    NotificationTypeJobCompleted,
		Title:   "Job completed",
		Message: fmt.Sprintf("The provider marked %q as completed", jobTitle),
		Data:    notificationData(map[string]string{"job_request_id": jobRequestID}),
	})
}

func (r *NotificationRepositoryImpl) CreateReviewReceivedNotification(db *gorm.DB, reviewedUserID, jobRequestID string, rating int) error {
	return r.CreateNotification(db, &models.Notification{
		UserID:  reviewedUserID,
		Type:    NotificationTypeReviewReceived,
		Title:   "New review",
		Message: fmt.Sprintf("You received a %d-star review", rating),
		Data:    notificationData(map[string]string{"job_request_id": jobRequestID}),
	})
}

func (r *NotificationRepositoryImpl) CreateComplaintResolvedNotification(db *gorm.DB, reporterID, complaintID string, status models.ComplaintStatus) error {
	return r.CreateNotification(db, &models.Notification{
		UserID:  reporterID,
		Type:    NotificationTypeComplaintResolved,
		Title:   "Complaint processed",
		Message: fmt.Sprintf("Your complaint was %s", status),
		Data:    notificationData(map[string]string{"complaint_id": complaintID}),
	})
}

func (r *NotificationRepositoryImpl) CreateUpgradeDecidedNotification(db *gorm.DB, userID, requestID string, status models.UpgradeStatus) error {
	return r.CreateNotification(db, &models.Notification{
		UserID:  userID,
		Type:    NotificationTypeUpgradeDecided,
		Title:   "Provider upgrade request decided",
		Message: fmt.Sprintf("Your upgrade request was %s", status),
		Data:    notificationData(map[string]string{"upgrade_request_id": requestID}),
	})
}
