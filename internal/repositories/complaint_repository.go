package repositories

import (
	"errors"

	"gorm.io/gorm"

	"qyzmet_backend/internal/models"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrComplaintModified = errors.New("complaint modified concurrently")
)

// ComplaintSearchCriteria - фильтры админского списка жалоб
type ComplaintSearchCriteria struct {
	Status      models.ComplaintStatus `form:"status" validate:"omitempty,is-complaint-status"`
	ProblemType models.ProblemType     `form:"problem_type" validate:"omitempty,is-problem-type"`
	Page        int                    `form:"page"`
	PageSize    int                    `form:"page_size"`
}

type ComplaintRepository interface {
	Create(db *gorm.DB, complaint *models.Complaint) error
	FindByID(db *gorm.DB, id string) (*models.Complaint, error)
	FindActiveByReporterAndJob(db *gorm.DB, reporterID, jobRequestID string) (*models.Complaint, error)
	ListByReporter(db *gorm.DB, reporterID string) ([]models.Complaint, error)
	Search(db *gorm.DB, criteria ComplaintSearchCriteria) ([]models.Complaint, int64, error)

	// ApplyAdminAction пишет мутацию жалобы, append-only запись аудита и
	// опциональную блокировку пользователя ОДНОЙ транзакцией: частичный
	// отказ не может оставить жалобу без аудита или без блокировки.
	// Апдейт жалобы условный по прежним status/admin_action, при
	// конкурентном решении возвращает ErrComplaintModified.
	ApplyAdminAction(db *gorm.DB, complaint *models.Complaint, action *models.AdminAction, blockUserID string) error

	ListAdminActions(db *gorm.DB, complaintID string) ([]models.AdminAction, error)
}

type ComplaintRepositoryImpl struct{}

func NewComplaintRepository() ComplaintRepository {
	return &ComplaintRepositoryImpl{}
}

func (r *ComplaintRepositoryImpl) Create(db *gorm.DB, complaint *models.Complaint) error {
	return db.Create(complaint).Error
}

func (r *ComplaintRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := db.First(&complaint, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepositoryImpl) FindActiveByReporterAndJob(db *gorm.DB, reporterID, jobRequestID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := db.Where("reporter_id = ? AND job_request_id = ? AND status IN ?",
		reporterID, jobRequestID,
		[]models.ComplaintStatus{models.ComplaintStatusPending, models.ComplaintStatusInvestigating}).
		First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepositoryImpl) ListByReporter(db *gorm.DB, reporterID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := db.Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *ComplaintRepositoryImpl) Search(db *gorm.DB, criteria ComplaintSearchCriteria) ([]models.Complaint, int64, error) {
	query := db.Model(&models.Complaint{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.ProblemType != "" {
		query = query.Where("problem_type = ?", criteria.ProblemType)
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

	var complaints []models.Complaint
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&complaints).Error
	return complaints, total, err
}

func (r *ComplaintRepositoryImpl) ApplyAdminAction(db *gorm.DB, complaint *models.Complaint, action *models.AdminAction, blockUserID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Условный апдейт по прежнему состоянию: второй админ, обогнавший
		// этого, не перезапишет решение и не продублирует запись аудита.
		result := tx.Model(&models.Complaint{}).
			Where("id = ? AND status = ? AND admin_action = ?",
				complaint.ID, action.PreviousStatus, action.PreviousAdminAction).
			Updates(map[string]interface{}{
				"status":       complaint.Status,
				"admin_action": complaint.AdminAction,
				"admin_notes":  complaint.AdminNotes,
				"resolved_at":  complaint.ResolvedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrComplaintModified
		}
		if err := tx.Create(action).Error; err != nil {
			return err
		}
		if blockUserID != "" {
			result := tx.Model(&models.User{}).
				Where("id = ?", blockUserID).
				Update("is_blocked", true)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrUserNotFound
			}
		}
		return nil
	})
}

func (r *ComplaintRepositoryImpl) ListAdminActions(db *gorm.DB, complaintID string) ([]models.AdminAction, error) {
	var actions []models.AdminAction
	err := db.Where("complaint_id = ?", complaintID).
		Order("created_at").
		Find(&actions).Error
	return actions, err
}
