package repositories

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"qyzmet_backend/internal/models"
)

var (
	ErrJobRequestNotFound = errors.New("job request not found")
	ErrJobNotOpen         = errors.New("job request is not open")
	ErrJobNotAssigned     = errors.New("job request is not assigned")
	ErrOfferNotPending    = errors.New("offer is not pending")
)

// JobSearchCriteria - фильтры публичного списка заявок
type JobSearchCriteria struct {
	Status     models.JobRequestStatus `form:"status" validate:"omitempty,is-job-status"`
	CategoryID string                  `form:"category_id"`
	Page       int                     `form:"page"`
	PageSize   int                     `form:"page_size"`
}

type JobRequestRepository interface {
	Create(db *gorm.DB, job *models.JobRequest) error
	FindByID(db *gorm.DB, id string) (*models.JobRequest, error)
	ListBySeeker(db *gorm.DB, seekerID string) ([]models.JobRequest, error)
	Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.JobRequest, int64, error)
	SaveDetails(db *gorm.DB, job *models.JobRequest) error
	Delete(db *gorm.DB, id string) error

	// AssignOffer - атомарный переход open -> assigned:
	// условный UPDATE заявки защищает от double-accept, принятие оффера и
	// отклонение остальных pending-офферов происходят в той же транзакции.
	AssignOffer(db *gorm.DB, jobID, offerID, providerID string) error

	// Complete - условный переход assigned -> completed
	Complete(db *gorm.DB, jobID, providerID string, proofImages datatypes.JSON, proofDescription string, completedAt time.Time) error

	// Cancel - условный переход open -> cancelled (терминальный)
	Cancel(db *gorm.DB, jobID string) error

	CountCompletedByProvider(db *gorm.DB, providerID string) (int64, error)

	// CancelExpiredOpen закрывает open-заявки с истекшим дедлайном (worker)
	CancelExpiredOpen(db *gorm.DB, now time.Time) (int64, error)
}

type JobRequestRepositoryImpl struct{}

func NewJobRequestRepository() JobRequestRepository {
	return &JobRequestRepositoryImpl{}
}

func (r *JobRequestRepositoryImpl) Create(db *gorm.DB, job *models.JobRequest) error {
	return db.Create(job).Error
}

func (r *JobRequestRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobRequest, error) {
	var job models.JobRequest
	err := db.Preload("Category").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobRequestNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRequestRepositoryImpl) ListBySeeker(db *gorm.DB, seekerID string) ([]models.JobRequest, error) {
	var jobs []models.JobRequest
	err := db.Where("seeker_id = ?", seekerID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRequestRepositoryImpl) Search(db *gorm.DB, criteria JobSearchCriteria) ([]models.JobRequest, int64, error) {
	query := db.Model(&models.JobRequest{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	} else {
		query = query.Where("status = ?", models.JobRequestStatusOpen)
	}
	if criteria.CategoryID != "" {
		query = query.Where("category_id = ?", criteria.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var jobs []models.JobRequest
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRequestRepositoryImpl) SaveDetails(db *gorm.DB, job *models.JobRequest) error {
	return db.Save(job).Error
}

func (r *JobRequestRepositoryImpl) Delete(db *gorm.DB, id string) error {
	// Удаление разрешено только для open-заявок; условие в WHERE,
	// а не в приложении, чтобы не удалить заявку после гонки со статусом.
	result := db.Where("id = ? AND status = ?", id, models.JobRequestStatusOpen).
		Delete(&models.JobRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotOpen
	}
	return nil
}

func (r *JobRequestRepositoryImpl) AssignOffer(db *gorm.DB, jobID, offerID, providerID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.JobRequest{}).
			Where("id = ? AND status = ?", jobID, models.JobRequestStatusOpen).
			Updates(map[string]interface{}{
				"status":               models.JobRequestStatusAssigned,
				"assigned_provider_id": providerID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Параллельный assign уже перевел заявку из open
			return ErrJobNotOpen
		}

		result = tx.Model(&models.Offer{}).
			Where("id = ? AND job_request_id = ? AND status = ?",
				offerID, jobID, models.OfferStatusPending).
			Update("status", models.OfferStatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOfferNotPending
		}

		// Остальные pending-офферы отклоняются здесь же; повторный прогон
		// по уже отклоненным офферам - no-op.
		return tx.Model(&models.Offer{}).
			Where("job_request_id = ? AND id <> ? AND status = ?",
				jobID, offerID, models.OfferStatusPending).
			Update("status", models.OfferStatusRejected).Error
	})
}

func (r *JobRequestRepositoryImpl) Complete(db *gorm.DB, jobID, providerID string, proofImages datatypes.JSON, proofDescription string, completedAt time.Time) error {
	result := db.Model(&models.JobRequest{}).
		Where("id = ? AND status = ? AND assigned_provider_id = ?",
			jobID, models.JobRequestStatusAssigned, providerID).
		Updates(map[string]interface{}{
			"status":            models.JobRequestStatusCompleted,
			"proof_images":      proofImages,
			"proof_description": proofDescription,
			"completed_at":      completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotAssigned
	}
	return nil
}

func (r *JobRequestRepositoryImpl) Cancel(db *gorm.DB, jobID string) error {
	result := db.Model(&models.JobRequest{}).
		Where("id = ? AND status = ?", jobID, models.JobRequestStatusOpen).
		Update("status", models.JobRequestStatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotOpen
	}
	return nil
}

func (r *JobRequestRepositoryImpl) CountCompletedByProvider(db *gorm.DB, providerID string) (int64, error) {
	var count int64
	err := db.Model(&models.JobRequest{}).
		Where("assigned_provider_id = ? AND status = ?",
			providerID, models.JobRequestStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *JobRequestRepositoryImpl) CancelExpiredOpen(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.JobRequest{}).
		Where("status = ? AND deadline < ?", models.JobRequestStatusOpen, now).
		Update("status", models.JobRequestStatusCancelled)
	return result.RowsAffected, result.Error
}
